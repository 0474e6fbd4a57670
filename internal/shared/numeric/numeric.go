// Package numeric は金額・比率の丸めと文字列数値の解釈を提供します。
package numeric

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Round は v を小数点以下 places 桁へ四捨五入します。
func Round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// Round2 は小数点以下2桁へ四捨五入します。
func Round2(v float64) float64 {
	return Round(v, 2)
}

// Percent は part / whole * 100 を小数点以下2桁で返します。whole が0の場合は0です。
func Percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	d := decimal.NewFromFloat(part).Div(decimal.NewFromFloat(whole)).Mul(decimal.NewFromInt(100))
	return d.Round(2).InexactFloat64()
}

// ParseNumber は "1,234.50" のような桁区切り付きの数値を解釈します。
// 空文字列や "--"、"X" などの欠損表記は ok=false です。
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" || strings.Trim(s, "-") == "" || strings.EqualFold(s, "x") {
		return 0, false
	}
	d, err := decimal.NewFromString(strings.TrimPrefix(s, "+"))
	if err != nil {
		return 0, false
	}
	return d.InexactFloat64(), true
}
