// Package entity は分足と指数のドメインモデルを定義します。
package entity

import (
	"github.com/Yili-code/FinMind-Lab/internal/shared/marketdata"
	"github.com/Yili-code/FinMind-Lab/internal/shared/numeric"
)

// 取引セッション
const (
	SessionMorning   = "morning"
	SessionAfternoon = "afternoon"
)

// Tick は分足1本分の約定情報です。Change は最初の足の始値との差です。
type Tick struct {
	StockCode     string  `json:"stockCode"`
	Date          string  `json:"date"`
	Time          string  `json:"time"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Lots          float64 `json:"lots"`          // 張（1000株）
	Session       string  `json:"session"`
	OpenPrice     float64 `json:"openPrice"`
	HighPrice     float64 `json:"highPrice"`
	LowPrice      float64 `json:"lowPrice"`
	TotalVolume   int64   `json:"totalVolume"`
}

// IndexPoint は指数の日足1本分です。Change は前日終値との差で、先頭は当日の始値との差です。
type IndexPoint struct {
	Date          string  `json:"date"`
	IndexName     string  `json:"indexName"`
	ClosePrice    float64 `json:"closePrice"`
	OpenPrice     float64 `json:"openPrice"`
	HighPrice     float64 `json:"highPrice"`
	LowPrice      float64 `json:"lowPrice"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Volume        int64   `json:"volume"`
}

// BuildTicks は分足系列を取引所のタイムゾーンで Tick に変換します。
func BuildTicks(stockCode string, s *marketdata.Series) []Tick {
	out := make([]Tick, 0, len(s.Candles))
	if len(s.Candles) == 0 {
		return out
	}
	loc := s.Location()
	base := s.Candles[0].Open
	for _, c := range s.Candles {
		var change, changePercent float64
		if base > 0 {
			change = numeric.Round2(c.Close - base)
			changePercent = numeric.Percent(c.Close-base, base)
		}
		t := c.Time.In(loc)
		session := SessionAfternoon
		if t.Hour() < 12 {
			session = SessionMorning
		}
		out = append(out, Tick{
			StockCode:     stockCode,
			Date:          t.Format("2006-01-02"),
			Time:          t.Format("15:04:05"),
			Price:         c.Close,
			Change:        change,
			ChangePercent: changePercent,
			Lots:          numeric.Round2(float64(c.Volume) / 1000),
			Session:       session,
			OpenPrice:     c.Open,
			HighPrice:     c.High,
			LowPrice:      c.Low,
			TotalVolume:   c.Volume,
		})
	}
	return out
}

// BuildIndexPoints は指数の日足系列を IndexPoint に変換します。
func BuildIndexPoints(s *marketdata.Series) []IndexPoint {
	out := make([]IndexPoint, 0, len(s.Candles))
	loc := s.Location()
	for i, c := range s.Candles {
		prev := c.Open
		if i > 0 {
			prev = s.Candles[i-1].Close
		}
		var changePercent float64
		if prev > 0 {
			changePercent = numeric.Percent(c.Close-prev, prev)
		}
		out = append(out, IndexPoint{
			Date:          c.Time.In(loc).Format("2006-01-02"),
			IndexName:     s.Name,
			ClosePrice:    c.Close,
			OpenPrice:     c.Open,
			HighPrice:     c.High,
			LowPrice:      c.Low,
			Change:        numeric.Round2(c.Close - prev),
			ChangePercent: changePercent,
			Volume:        c.Volume,
		})
	}
	return out
}
