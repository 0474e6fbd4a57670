package entity

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/markcheno/go-talib"

	"github.com/Yili-code/FinMind-Lab/internal/shared/numeric"
)

// DefaultIndicators は指定がない場合に計算する指標です。
const DefaultIndicators = "MA5,MA20,RSI14"

const (
	minIndicatorPeriod = 2
	maxIndicatorPeriod = 250
)

var indicatorPattern = regexp.MustCompile(`^(MA|RSI)(\d{1,3})$`)

// Indicator は計算する指標1つです（"MA20" なら Kind="MA", Period=20）。
type Indicator struct {
	Name   string
	Kind   string
	Period int
}

// ParseIndicators はカンマ区切りの指標指定を解釈します。大文字小文字は区別しません。
func ParseIndicators(s string) ([]Indicator, error) {
	if strings.TrimSpace(s) == "" {
		s = DefaultIndicators
	}
	seen := make(map[string]struct{})
	var out []Indicator
	for _, raw := range strings.Split(s, ",") {
		name := strings.ToUpper(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		m := indicatorPattern.FindStringSubmatch(name)
		if m == nil {
			return nil, fmt.Errorf("unsupported indicator %q (use MA<n> or RSI<n>)", raw)
		}
		n, _ := strconv.Atoi(m[2])
		if n < minIndicatorPeriod || n > maxIndicatorPeriod {
			return nil, fmt.Errorf("indicator %s: period must be between %d and %d", name, minIndicatorPeriod, maxIndicatorPeriod)
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, Indicator{Name: name, Kind: m[1], Period: n})
	}
	return out, nil
}

// IndicatorRow は日足1本に対する指標値です。計算に必要な本数が足りない値は nil です。
type IndicatorRow struct {
	Date   string              `json:"date"`
	Close  float64             `json:"close"`
	Values map[string]*float64 `json:"values"`
}

// ComputeIndicators は昇順の日足の終値から指標を計算します。
// MA は単純移動平均、RSI は Wilder の平滑化によるRSIです。
func ComputeIndicators(bars []DailyBar, indicators []Indicator) []IndicatorRow {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.ClosePrice
	}

	series := make(map[string][]*float64, len(indicators))
	for _, ind := range indicators {
		series[ind.Name] = compute(closes, ind)
	}

	rows := make([]IndicatorRow, len(bars))
	for i, b := range bars {
		vals := make(map[string]*float64, len(indicators))
		for _, ind := range indicators {
			vals[ind.Name] = series[ind.Name][i]
		}
		rows[i] = IndicatorRow{Date: b.Date, Close: b.ClosePrice, Values: vals}
	}
	return rows
}

// compute は1つの指標を計算し、ウォームアップ区間を nil にします。
func compute(closes []float64, ind Indicator) []*float64 {
	out := make([]*float64, len(closes))
	var (
		vals     []float64
		lookback int
	)
	switch ind.Kind {
	case "MA":
		lookback = ind.Period - 1
		if len(closes) <= lookback {
			return out
		}
		vals = talib.Sma(closes, ind.Period)
	case "RSI":
		lookback = ind.Period
		if len(closes) <= lookback {
			return out
		}
		vals = talib.Rsi(closes, ind.Period)
	default:
		return out
	}
	for i := lookback; i < len(vals) && i < len(out); i++ {
		v := vals[i]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		r := numeric.Round2(v)
		out[i] = &r
	}
	return out
}

// Last は最後の行の指標値を返します。行がない場合は nil です。
func Last(rows []IndicatorRow) map[string]*float64 {
	if len(rows) == 0 {
		return nil
	}
	return rows[len(rows)-1].Values
}
