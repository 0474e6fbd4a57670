// Package symbol はユーザー入力のティッカーを上流APIのシンボルへ変換します。
package symbol

import "strings"

// TaiwanSuffix は台湾上場銘柄に付与する取引所サフィックスです。
const TaiwanSuffix = ".TW"

// Map はティッカーを上流APIのシンボルへ変換します。
//
//   - "." を含む、または "^" で始まる場合はそのまま返す（"2330.TW", "^TWII"）
//   - 数字のみの場合は ".TW" を付与する（"2330" -> "2330.TW"）
//   - それ以外（"AAPL" など）はそのまま返す
func Map(ticker string) string {
	if strings.Contains(ticker, ".") || strings.HasPrefix(ticker, "^") {
		return ticker
	}
	if isDigits(ticker) {
		return ticker + TaiwanSuffix
	}
	return ticker
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
