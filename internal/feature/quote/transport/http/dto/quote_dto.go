package dto

import "github.com/Yili-code/FinMind-Lab/internal/feature/quote/domain/entity"

// TickerURI はパスパラメータ :ticker のバインド先です。
type TickerURI struct {
	Ticker string `uri:"ticker" binding:"required,ticker"`
}

// BatchQuery は GET /api/stock/batch のクエリです。
type BatchQuery struct {
	StockCodes string `form:"stock_codes" binding:"required"`
}

// QuoteListResponse は複数銘柄のレスポンスDTOです。
type QuoteListResponse struct {
	Stocks []entity.Quote `json:"stocks"`
	Count  int            `json:"count"`
}
