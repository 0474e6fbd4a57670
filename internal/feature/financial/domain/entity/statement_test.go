package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeRatios(t *testing.T) {
	t.Parallel()

	inc := &IncomeStatement{Revenue: 1000, GrossProfit: 531, OperatingExpenses: 110, OperatingIncome: 421}
	inc.ComputeRatios()
	assert.Equal(t, 53.1, inc.GrossProfitRatio)
	assert.Equal(t, 11.0, inc.OperatingExpensesRatio)
	assert.Equal(t, 42.1, inc.OperatingIncomeRatio)

	bal := &BalanceSheet{TotalAssets: 200, ShareholdersEquity: 130, CurrentAssets: 90, CurrentLiabilities: 45}
	bal.ComputeRatios()
	assert.Equal(t, 100.0, bal.TotalAssetsRatio)
	assert.Equal(t, 65.0, bal.ShareholdersEquityRatio)
	assert.Equal(t, 22.5, bal.CurrentLiabilitiesRatio)

	cf := &CashFlow{OperatingCashFlow: 0, InvestingCashFlow: -50}
	cf.ComputeRatios()
	assert.Equal(t, 0.0, cf.InvestingCashFlowRatio, "zero base yields zero ratio")
}

func TestStatements_Empty(t *testing.T) {
	t.Parallel()

	assert.True(t, Statements{}.Empty())
	assert.False(t, Statements{Balance: &BalanceSheet{}}.Empty())
}
