package dto

import "github.com/Yili-code/FinMind-Lab/internal/feature/financial/domain/entity"

// 手動登録できる表の種類
const (
	StatementIncome   = "income"
	StatementBalance  = "balance"
	StatementCashFlow = "cashflow"
)

// TickerURI はパスパラメータ :ticker のバインド先です。
type TickerURI struct {
	Ticker string `uri:"ticker" binding:"required,ticker"`
}

// StatementURI は PUT /api/stock/financial/:ticker/:statement のパスパラメータです。
type StatementURI struct {
	Ticker    string `uri:"ticker" binding:"required,ticker"`
	Statement string `uri:"statement" binding:"required,oneof=income balance cashflow"`
}

// FinancialResponse は最新期の財務三表のレスポンスDTOです。
type FinancialResponse struct {
	StockCode string `json:"stockCode"`
	entity.Statements
	Source string `json:"source"`
}

// IncomeRequest は損益計算書の登録リクエストです。比率はサーバー側で計算します。
type IncomeRequest struct {
	StockName         string  `json:"stockName"`
	Period            string  `json:"period" binding:"required"`
	Revenue           float64 `json:"revenue"`
	GrossProfit       float64 `json:"grossProfit"`
	OperatingExpenses float64 `json:"operatingExpenses"`
	OperatingIncome   float64 `json:"operatingIncome"`
	NetIncome         float64 `json:"netIncome"`
	OtherIncome       float64 `json:"otherIncome"`
}

func (r IncomeRequest) ToEntity() entity.IncomeStatement {
	return entity.IncomeStatement{
		StockName:         r.StockName,
		Period:            r.Period,
		Revenue:           r.Revenue,
		GrossProfit:       r.GrossProfit,
		OperatingExpenses: r.OperatingExpenses,
		OperatingIncome:   r.OperatingIncome,
		NetIncome:         r.NetIncome,
		OtherIncome:       r.OtherIncome,
	}
}

// BalanceRequest は貸借対照表の登録リクエストです。
type BalanceRequest struct {
	StockName          string  `json:"stockName"`
	Period             string  `json:"period" binding:"required"`
	TotalAssets        float64 `json:"totalAssets"`
	ShareholdersEquity float64 `json:"shareholdersEquity"`
	CurrentAssets      float64 `json:"currentAssets"`
	CurrentLiabilities float64 `json:"currentLiabilities"`
}

func (r BalanceRequest) ToEntity() entity.BalanceSheet {
	return entity.BalanceSheet{
		StockName:          r.StockName,
		Period:             r.Period,
		TotalAssets:        r.TotalAssets,
		ShareholdersEquity: r.ShareholdersEquity,
		CurrentAssets:      r.CurrentAssets,
		CurrentLiabilities: r.CurrentLiabilities,
	}
}

// CashFlowRequest はキャッシュフロー計算書の登録リクエストです。
type CashFlowRequest struct {
	StockName         string  `json:"stockName"`
	Period            string  `json:"period" binding:"required"`
	OperatingCashFlow float64 `json:"operatingCashFlow"`
	InvestingCashFlow float64 `json:"investingCashFlow"`
	FinancingCashFlow float64 `json:"financingCashFlow"`
	FreeCashFlow      float64 `json:"freeCashFlow"`
	NetCashFlow       float64 `json:"netCashFlow"`
}

func (r CashFlowRequest) ToEntity() entity.CashFlow {
	return entity.CashFlow{
		StockName:         r.StockName,
		Period:            r.Period,
		OperatingCashFlow: r.OperatingCashFlow,
		InvestingCashFlow: r.InvestingCashFlow,
		FinancingCashFlow: r.FinancingCashFlow,
		FreeCashFlow:      r.FreeCashFlow,
		NetCashFlow:       r.NetCashFlow,
	}
}
