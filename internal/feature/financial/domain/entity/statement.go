package entity

import "github.com/Yili-code/FinMind-Lab/internal/shared/numeric"

// IncomeStatement は損益計算書の1期分です。Ratio は売上高に対するパーセントです。
type IncomeStatement struct {
	StockCode              string  `json:"stockCode"`
	StockName              string  `json:"stockName,omitempty"`
	Period                 string  `json:"period"`
	Revenue                float64 `json:"revenue"`
	GrossProfit            float64 `json:"grossProfit"`
	GrossProfitRatio       float64 `json:"grossProfitRatio"`
	OperatingExpenses      float64 `json:"operatingExpenses"`
	OperatingExpensesRatio float64 `json:"operatingExpensesRatio"`
	OperatingIncome        float64 `json:"operatingIncome"`
	OperatingIncomeRatio   float64 `json:"operatingIncomeRatio"`
	NetIncome              float64 `json:"netIncome"`
	OtherIncome            float64 `json:"otherIncome"`
}

// BalanceSheet は貸借対照表の1期分です。Ratio は総資産に対するパーセントです。
type BalanceSheet struct {
	StockCode               string  `json:"stockCode"`
	StockName               string  `json:"stockName,omitempty"`
	Period                  string  `json:"period"`
	TotalAssets             float64 `json:"totalAssets"`
	TotalAssetsRatio        float64 `json:"totalAssetsRatio"`
	ShareholdersEquity      float64 `json:"shareholdersEquity"`
	ShareholdersEquityRatio float64 `json:"shareholdersEquityRatio"`
	CurrentAssets           float64 `json:"currentAssets"`
	CurrentAssetsRatio      float64 `json:"currentAssetsRatio"`
	CurrentLiabilities      float64 `json:"currentLiabilities"`
	CurrentLiabilitiesRatio float64 `json:"currentLiabilitiesRatio"`
}

// CashFlow はキャッシュフロー計算書の1期分です。Ratio は営業キャッシュフローに対するパーセントです。
type CashFlow struct {
	StockCode              string  `json:"stockCode"`
	StockName              string  `json:"stockName,omitempty"`
	Period                 string  `json:"period"`
	OperatingCashFlow      float64 `json:"operatingCashFlow"`
	InvestingCashFlow      float64 `json:"investingCashFlow"`
	InvestingCashFlowRatio float64 `json:"investingCashFlowRatio"`
	FinancingCashFlow      float64 `json:"financingCashFlow"`
	FinancingCashFlowRatio float64 `json:"financingCashFlowRatio"`
	FreeCashFlow           float64 `json:"freeCashFlow"`
	FreeCashFlowRatio      float64 `json:"freeCashFlowRatio"`
	NetCashFlow            float64 `json:"netCashFlow"`
	NetCashFlowRatio       float64 `json:"netCashFlowRatio"`
}

// Statements は最新期の財務三表です。存在しない表は nil です。
type Statements struct {
	Income   *IncomeStatement `json:"incomeStatement"`
	Balance  *BalanceSheet    `json:"balanceSheet"`
	CashFlow *CashFlow        `json:"cashFlow"`
}

// Empty はいずれの表も存在しない場合に true を返します。
func (s Statements) Empty() bool {
	return s.Income == nil && s.Balance == nil && s.CashFlow == nil
}

// ComputeRatios は売上高に対する各比率を計算します。
func (s *IncomeStatement) ComputeRatios() {
	s.GrossProfitRatio = numeric.Percent(s.GrossProfit, s.Revenue)
	s.OperatingExpensesRatio = numeric.Percent(s.OperatingExpenses, s.Revenue)
	s.OperatingIncomeRatio = numeric.Percent(s.OperatingIncome, s.Revenue)
}

// ComputeRatios は総資産に対する各比率を計算します。
func (s *BalanceSheet) ComputeRatios() {
	s.TotalAssetsRatio = numeric.Percent(s.TotalAssets, s.TotalAssets)
	s.ShareholdersEquityRatio = numeric.Percent(s.ShareholdersEquity, s.TotalAssets)
	s.CurrentAssetsRatio = numeric.Percent(s.CurrentAssets, s.TotalAssets)
	s.CurrentLiabilitiesRatio = numeric.Percent(s.CurrentLiabilities, s.TotalAssets)
}

// ComputeRatios は営業キャッシュフローに対する各比率を計算します。
func (s *CashFlow) ComputeRatios() {
	s.InvestingCashFlowRatio = numeric.Percent(s.InvestingCashFlow, s.OperatingCashFlow)
	s.FinancingCashFlowRatio = numeric.Percent(s.FinancingCashFlow, s.OperatingCashFlow)
	s.FreeCashFlowRatio = numeric.Percent(s.FreeCashFlow, s.OperatingCashFlow)
	s.NetCashFlowRatio = numeric.Percent(s.NetCashFlow, s.OperatingCashFlow)
}

// SetStockCode は存在する各表にティッカーを設定します。
func (s *Statements) SetStockCode(code string) {
	if s.Income != nil {
		s.Income.StockCode = code
	}
	if s.Balance != nil {
		s.Balance.StockCode = code
	}
	if s.CashFlow != nil {
		s.CashFlow.StockCode = code
	}
}
