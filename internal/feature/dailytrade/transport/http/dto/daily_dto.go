package dto

import "github.com/Yili-code/FinMind-Lab/internal/feature/dailytrade/domain/entity"

// TickerURI はパスパラメータ :ticker のバインド先です。
type TickerURI struct {
	Ticker string `uri:"ticker" binding:"required,ticker"`
}

// DailyQuery は GET /api/stock/daily/:ticker のクエリです。
type DailyQuery struct {
	Days *int `form:"days" binding:"omitempty,min=1,max=2000"`
}

// IndicatorQuery は GET /api/stock/indicators/:ticker のクエリです。
type IndicatorQuery struct {
	Days       *int   `form:"days" binding:"omitempty,min=1,max=2000"`
	Indicators string `form:"indicators" binding:"omitempty,max=200"`
}

// DailyResponse は日足のレスポンスDTOです。空の場合は Warning に原因の説明が入ります。
type DailyResponse struct {
	StockCode string            `json:"stockCode"`
	Data      []entity.DailyBar `json:"data"`
	Count     int               `json:"count"`
	Source    string            `json:"source,omitempty"`
	Warning   string            `json:"warning,omitempty"`
}

// IndicatorResponse は指標のレスポンスDTOです。
type IndicatorResponse struct {
	StockCode  string                `json:"stockCode"`
	Indicators []string              `json:"indicators"`
	Data       []entity.IndicatorRow `json:"data"`
	Count      int                   `json:"count"`
	Source     string                `json:"source,omitempty"`
	Warning    string                `json:"warning,omitempty"`
}
