package dto

// QuoteSummaryResponse は /v10/finance/quoteSummary/{symbol} のレスポンスです。
type QuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []QuoteSummaryResult `json:"result"`
		Error  *APIError            `json:"error"`
	} `json:"quoteSummary"`
}

type QuoteSummaryResult struct {
	SummaryDetail                     *SummaryDetail       `json:"summaryDetail"`
	Price                             *Price               `json:"price"`
	IncomeStatementHistoryQuarterly   *IncomeHistory       `json:"incomeStatementHistoryQuarterly"`
	BalanceSheetHistoryQuarterly      *BalanceSheetHistory `json:"balanceSheetHistoryQuarterly"`
	CashflowStatementHistoryQuarterly *CashflowHistory     `json:"cashflowStatementHistoryQuarterly"`
}

type SummaryDetail struct {
	MarketCap        RawValue `json:"marketCap"`
	AverageVolume    RawValue `json:"averageVolume"`
	TrailingPE       RawValue `json:"trailingPE"`
	DividendYield    RawValue `json:"dividendYield"`
	FiftyTwoWeekHigh RawValue `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow  RawValue `json:"fiftyTwoWeekLow"`
}

type Price struct {
	LongName  string `json:"longName"`
	ShortName string `json:"shortName"`
}

type IncomeHistory struct {
	IncomeStatementHistory []IncomeStatementEntry `json:"incomeStatementHistory"`
}

type IncomeStatementEntry struct {
	EndDate                    RawValue `json:"endDate"`
	TotalRevenue               RawValue `json:"totalRevenue"`
	GrossProfit                RawValue `json:"grossProfit"`
	TotalOperatingExpenses     RawValue `json:"totalOperatingExpenses"`
	OperatingIncome            RawValue `json:"operatingIncome"`
	NetIncome                  RawValue `json:"netIncome"`
	TotalOtherIncomeExpenseNet RawValue `json:"totalOtherIncomeExpenseNet"`
}

type BalanceSheetHistory struct {
	BalanceSheetStatements []BalanceSheetEntry `json:"balanceSheetStatements"`
}

type BalanceSheetEntry struct {
	EndDate                 RawValue `json:"endDate"`
	TotalAssets             RawValue `json:"totalAssets"`
	TotalStockholderEquity  RawValue `json:"totalStockholderEquity"`
	TotalCurrentAssets      RawValue `json:"totalCurrentAssets"`
	TotalCurrentLiabilities RawValue `json:"totalCurrentLiabilities"`
}

type CashflowHistory struct {
	CashflowStatements []CashflowEntry `json:"cashflowStatements"`
}

type CashflowEntry struct {
	EndDate                               RawValue `json:"endDate"`
	TotalCashFromOperatingActivities      RawValue `json:"totalCashFromOperatingActivities"`
	TotalCashflowsFromInvestingActivities RawValue `json:"totalCashflowsFromInvestingActivities"`
	TotalCashFromFinancingActivities      RawValue `json:"totalCashFromFinancingActivities"`
	CapitalExpenditures                   RawValue `json:"capitalExpenditures"`
	ChangeInCash                          RawValue `json:"changeInCash"`
}
