// Package marketdata は上流APIから得た価格系列の共通表現を定義します。
package marketdata

import "time"

// Candle は1本分の四本値と出来高です。
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Series は銘柄1つ分の価格系列です。Candles は時刻の昇順です。
type Series struct {
	Symbol   string   `json:"symbol"`
	Name     string   `json:"name"`
	Timezone string   `json:"timezone"`
	Candles  []Candle `json:"candles"`
}

// Location は系列の取引所タイムゾーンを返します。解決できない場合は台北時間です。
func (s Series) Location() *time.Location {
	if s.Timezone != "" {
		if loc, err := time.LoadLocation(s.Timezone); err == nil {
			return loc
		}
	}
	return TaipeiLocation()
}

// TaipeiLocation は Asia/Taipei を返します。tzdata がない環境では UTC+8 の固定ゾーンです。
func TaipeiLocation() *time.Location {
	if loc, err := time.LoadLocation("Asia/Taipei"); err == nil {
		return loc
	}
	return time.FixedZone("CST", 8*60*60)
}

// RawCandle は欠損を含みうる未整形の足です。nil は欠損を表します。
type RawCandle struct {
	Time   time.Time
	Open   *float64
	High   *float64
	Low    *float64
	Close  *float64
	Volume *float64
}
