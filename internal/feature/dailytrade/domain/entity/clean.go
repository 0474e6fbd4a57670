package entity

import (
	"sort"

	"github.com/Yili-code/FinMind-Lab/internal/shared/marketdata"
)

// Clean は欠損を含む足を日付順に並べ、価格を線形補間し、出来高の欠損を0で埋めます。
// 先頭側の欠損は補間できないため、補間後も価格が欠ける足は捨てます。
// 末尾側の欠損は直前の値で埋めます。同じ日付の足は後のものを残します。
func Clean(raw []marketdata.RawCandle) []marketdata.Candle {
	rows := make([]marketdata.RawCandle, len(raw))
	copy(rows, raw)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Time.Before(rows[j].Time) })
	rows = dedupe(rows)

	open := column(rows, func(r marketdata.RawCandle) *float64 { return r.Open })
	high := column(rows, func(r marketdata.RawCandle) *float64 { return r.High })
	low := column(rows, func(r marketdata.RawCandle) *float64 { return r.Low })
	closes := column(rows, func(r marketdata.RawCandle) *float64 { return r.Close })
	for _, col := range [][]*float64{open, high, low, closes} {
		interpolate(col)
	}

	out := make([]marketdata.Candle, 0, len(rows))
	for i, r := range rows {
		if open[i] == nil || high[i] == nil || low[i] == nil || closes[i] == nil {
			continue
		}
		var vol int64
		if r.Volume != nil {
			vol = int64(*r.Volume)
		}
		out = append(out, marketdata.Candle{
			Time:   r.Time,
			Open:   *open[i],
			High:   *high[i],
			Low:    *low[i],
			Close:  *closes[i],
			Volume: vol,
		})
	}
	return out
}

func dedupe(rows []marketdata.RawCandle) []marketdata.RawCandle {
	out := rows[:0]
	for i, r := range rows {
		if i+1 < len(rows) && rows[i+1].Time.Equal(r.Time) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func column(rows []marketdata.RawCandle, f func(marketdata.RawCandle) *float64) []*float64 {
	col := make([]*float64, len(rows))
	for i, r := range rows {
		if v := f(r); v != nil {
			x := *v
			col[i] = &x
		}
	}
	return col
}

// interpolate は nil を前後の値から位置で線形補間します。
func interpolate(col []*float64) {
	last := -1
	for i, v := range col {
		if v == nil {
			continue
		}
		if last >= 0 && i-last > 1 {
			a, b := *col[last], *v
			for k := last + 1; k < i; k++ {
				x := a + (b-a)*float64(k-last)/float64(i-last)
				col[k] = &x
			}
		}
		last = i
	}
	if last < 0 {
		return
	}
	for k := last + 1; k < len(col); k++ {
		x := *col[last]
		col[k] = &x
	}
}
