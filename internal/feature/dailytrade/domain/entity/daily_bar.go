// Package entity は日足データのドメインモデルと、その導出ロジックを定義します。
package entity

import (
	"time"

	"github.com/Yili-code/FinMind-Lab/internal/shared/marketdata"
	"github.com/Yili-code/FinMind-Lab/internal/shared/numeric"
)

// DateLayout は日足の日付表現です。
const DateLayout = "2006-01-02"

// 高値・安値を集計する期間（暦日）
const (
	monthWindowDays   = 30
	quarterWindowDays = 90
)

// Estimates は出来高を固定比率で按分した推計値です。取引所の実データではありません。
type Estimates struct {
	InnerVolume     int64 `json:"innerVolume"`     // 内盤 48%
	OuterVolume     int64 `json:"outerVolume"`     // 外盤 52%
	ForeignInvestor int64 `json:"foreignInvestor"` // 外資 20%
	InvestmentTrust int64 `json:"investmentTrust"` // 投信 5%
	Dealer          int64 `json:"dealer"`          // 自営 8%
	Chips           int64 `json:"chips"`           // 籌碼 28%
	MainBuy         int64 `json:"mainBuy"`         // 主買 60%
	MainSell        int64 `json:"mainSell"`        // 主売 40%
}

// DailyBar は1銘柄1日分の日足です。(StockCode, Date) で一意です。
type DailyBar struct {
	StockCode     string    `json:"stockCode"`
	StockName     string    `json:"stockName"`
	Date          string    `json:"date"`
	ClosePrice    float64   `json:"closePrice"`
	AvgPrice      float64   `json:"avgPrice"`
	PrevClose     float64   `json:"prevClose"`
	OpenPrice     float64   `json:"openPrice"`
	HighPrice     float64   `json:"highPrice"`
	LowPrice      float64   `json:"lowPrice"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	TotalVolume   int64     `json:"totalVolume"`
	PrevVolume    int64     `json:"prevVolume"`
	MonthHigh     float64   `json:"monthHigh"`
	MonthLow      float64   `json:"monthLow"`
	QuarterHigh   float64   `json:"quarterHigh"`
	QuarterLow    float64   `json:"quarterLow"`
	Estimates     Estimates `json:"estimates"`
}

// EstimateFrom は出来高から推計値を計算します。
func EstimateFrom(volume int64) Estimates {
	pct := func(p int64) int64 { return volume * p / 100 }
	return Estimates{
		InnerVolume:     pct(48),
		OuterVolume:     pct(52),
		ForeignInvestor: pct(20),
		InvestmentTrust: pct(5),
		Dealer:          pct(8),
		Chips:           pct(28),
		MainBuy:         pct(60),
		MainSell:        pct(40),
	}
}

// BuildDailyBars は昇順の足から日足を導出します。
// 前日終値は直前の足の終値で、先頭の足では始値を使います。
// 月・四半期の高値安値は、その日を終点とする30日・90日（暦日）の範囲で集計します。
func BuildDailyBars(stockCode, stockName string, candles []marketdata.Candle, loc *time.Location) []DailyBar {
	if loc == nil {
		loc = marketdata.TaipeiLocation()
	}
	out := make([]DailyBar, 0, len(candles))
	for i, c := range candles {
		prevClose := c.Open
		prevVolume := c.Volume
		if i > 0 {
			prevClose = candles[i-1].Close
			prevVolume = candles[i-1].Volume
		}
		change := c.Close - prevClose
		changePercent := 0.0
		if prevClose > 0 {
			changePercent = numeric.Percent(change, prevClose)
		}

		monthHigh, monthLow := windowRange(candles, i, monthWindowDays)
		quarterHigh, quarterLow := windowRange(candles, i, quarterWindowDays)

		out = append(out, DailyBar{
			StockCode:     stockCode,
			StockName:     stockName,
			Date:          c.Time.In(loc).Format(DateLayout),
			ClosePrice:    c.Close,
			AvgPrice:      numeric.Round2((c.High + c.Low + c.Close) / 3),
			PrevClose:     prevClose,
			OpenPrice:     c.Open,
			HighPrice:     c.High,
			LowPrice:      c.Low,
			Change:        numeric.Round2(change),
			ChangePercent: changePercent,
			TotalVolume:   c.Volume,
			PrevVolume:    prevVolume,
			MonthHigh:     monthHigh,
			MonthLow:      monthLow,
			QuarterHigh:   quarterHigh,
			QuarterLow:    quarterLow,
			Estimates:     EstimateFrom(c.Volume),
		})
	}
	return out
}

// windowRange は candles[i] を終点とする days 日間の高値の最大と安値の最小を返します。
func windowRange(candles []marketdata.Candle, i, days int) (high, low float64) {
	from := candles[i].Time.AddDate(0, 0, -days)
	high, low = candles[i].High, candles[i].Low
	for j := i - 1; j >= 0 && candles[j].Time.After(from); j-- {
		high = max(high, candles[j].High)
		low = min(low, candles[j].Low)
	}
	return high, low
}
