package yahoo

import (
	"context"
	"fmt"
	"time"

	finentity "github.com/Yili-code/FinMind-Lab/internal/feature/financial/domain/entity"
	"github.com/Yili-code/FinMind-Lab/internal/platform/externalapi/yahoo/dto"
	"github.com/Yili-code/FinMind-Lab/internal/shared/apperr"
	"github.com/Yili-code/FinMind-Lab/internal/shared/marketdata"
)

const financialModules = "price,incomeStatementHistoryQuarterly,balanceSheetHistoryQuarterly,cashflowStatementHistoryQuarterly"

// Financials は直近四半期の財務三表を取得します。期間は "2025Q2" 形式です。
func (c *Client) Financials(ctx context.Context, symbol string) (*finentity.Statements, error) {
	res, err := c.quoteSummary(ctx, symbol, financialModules)
	if err != nil {
		return nil, err
	}

	name := ""
	if res.Price != nil {
		name = displayName(res.Price.LongName, res.Price.ShortName, "")
	}

	st := &finentity.Statements{}
	if h := res.IncomeStatementHistoryQuarterly; h != nil {
		if e, ok := latest(h.IncomeStatementHistory, func(e dto.IncomeStatementEntry) dto.RawValue { return e.EndDate }); ok {
			inc := &finentity.IncomeStatement{
				StockName:         name,
				Period:            period(e.EndDate),
				Revenue:           e.TotalRevenue.Float(),
				GrossProfit:       e.GrossProfit.Float(),
				OperatingExpenses: e.TotalOperatingExpenses.Float(),
				OperatingIncome:   e.OperatingIncome.Float(),
				NetIncome:         e.NetIncome.Float(),
				OtherIncome:       e.TotalOtherIncomeExpenseNet.Float(),
			}
			inc.ComputeRatios()
			st.Income = inc
		}
	}
	if h := res.BalanceSheetHistoryQuarterly; h != nil {
		if e, ok := latest(h.BalanceSheetStatements, func(e dto.BalanceSheetEntry) dto.RawValue { return e.EndDate }); ok {
			bal := &finentity.BalanceSheet{
				StockName:          name,
				Period:             period(e.EndDate),
				TotalAssets:        e.TotalAssets.Float(),
				ShareholdersEquity: e.TotalStockholderEquity.Float(),
				CurrentAssets:      e.TotalCurrentAssets.Float(),
				CurrentLiabilities: e.TotalCurrentLiabilities.Float(),
			}
			bal.ComputeRatios()
			st.Balance = bal
		}
	}
	if h := res.CashflowStatementHistoryQuarterly; h != nil {
		if e, ok := latest(h.CashflowStatements, func(e dto.CashflowEntry) dto.RawValue { return e.EndDate }); ok {
			operating := e.TotalCashFromOperatingActivities.Float()
			cf := &finentity.CashFlow{
				StockName:         name,
				Period:            period(e.EndDate),
				OperatingCashFlow: operating,
				InvestingCashFlow: e.TotalCashflowsFromInvestingActivities.Float(),
				FinancingCashFlow: e.TotalCashFromFinancingActivities.Float(),
				// 設備投資は負値で返る
				FreeCashFlow: operating + e.CapitalExpenditures.Float(),
				NetCashFlow:  e.ChangeInCash.Float(),
			}
			cf.ComputeRatios()
			st.CashFlow = cf
		}
	}

	if st.Empty() {
		return nil, fmt.Errorf("%w: no statements for %s", apperr.ErrNoData, symbol)
	}
	return st, nil
}

// latest は終了日が最も新しいエントリを返します。
func latest[E any](entries []E, endDate func(E) dto.RawValue) (E, bool) {
	var (
		best  E
		found bool
		bestT float64
	)
	for _, e := range entries {
		t := endDate(e).Float()
		if !found || t > bestT {
			best, bestT, found = e, t, true
		}
	}
	return best, found
}

// period は期末日（UNIX秒）を "YYYYQn" に変換します。
func period(endDate dto.RawValue) string {
	if !endDate.Valid() {
		return ""
	}
	t := time.Unix(int64(endDate.Float()), 0).In(marketdata.TaipeiLocation())
	q := (int(t.Month())-1)/3 + 1
	return fmt.Sprintf("%dQ%d", t.Year(), q)
}
