package entity

import "time"

// Quote は銘柄の最新スナップショットです。上流が返さない項目は0になります。
// DividendYield と ChangePercent はパーセント表記です。
type Quote struct {
	StockCode     string    `json:"stockCode"`
	StockName     string    `json:"stockName"`
	CurrentPrice  float64   `json:"currentPrice"`
	PreviousClose float64   `json:"previousClose"`
	MarketCap     int64     `json:"marketCap"`
	Volume        int64     `json:"volume"`
	AverageVolume int64     `json:"averageVolume"`
	PERatio       float64   `json:"peRatio"`
	DividendYield float64   `json:"dividendYield"`
	High52Week    float64   `json:"high52Week"`
	Low52Week     float64   `json:"low52Week"`
	Open          float64   `json:"open"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
