package dto

import "github.com/Yili-code/FinMind-Lab/internal/feature/market/domain/entity"

// TickerURI はパスパラメータ :ticker のバインド先です。
type TickerURI struct {
	Ticker string `uri:"ticker" binding:"required,ticker"`
}

// IntradayQuery は GET /api/stock/intraday/:ticker のクエリです。
type IntradayQuery struct {
	Period   string `form:"period"`
	Interval string `form:"interval"`
}

// IndexQuery は GET /api/stock/market-index のクエリです。
type IndexQuery struct {
	IndexCode string `form:"index_code" binding:"omitempty,ticker"`
	Days      *int   `form:"days" binding:"omitempty,min=1,max=30"`
}

// IntradayResponse は分足のレスポンスDTOです。
type IntradayResponse struct {
	StockCode string        `json:"stockCode"`
	Data      []entity.Tick `json:"data"`
	Count     int           `json:"count"`
	Source    string        `json:"source,omitempty"`
	Warning   string        `json:"warning,omitempty"`
}

// IndexResponse は指数のレスポンスDTOです。
type IndexResponse struct {
	IndexCode string              `json:"indexCode"`
	Data      []entity.IndexPoint `json:"data"`
	Count     int                 `json:"count"`
	Source    string              `json:"source,omitempty"`
	Warning   string              `json:"warning,omitempty"`
}
