// Package diagnostic は空結果や解決できないティッカーに対する利用者向けの説明文を組み立てます。
package diagnostic

import (
	"fmt"
	"strings"
)

// UnknownTicker はティッカーが上流で解決できない場合の説明です。
func UnknownTicker(ticker string) string {
	return build(
		fmt.Sprintf("Unable to retrieve data for %s: the ticker could not be resolved.", ticker),
		[]string{
			"the ticker is invalid (Taiwan-listed codes are 4 digits, e.g. 2330)",
			"the security has been delisted or suspended",
			"the market data provider cannot reach this security right now",
		},
		[]string{
			"check the ticker format",
			"try another ticker such as 2317, 2454 or 2308",
			"check the server logs for the upstream error",
		},
	)
}

// EmptyWindow はティッカーは解決できるが指定期間にデータがない場合の説明です。
func EmptyWindow(ticker, name string) string {
	return build(
		fmt.Sprintf("Price history for %s is empty.", label(ticker, name)),
		[]string{
			"the requested window covers only non-trading days (weekends or holidays)",
			"the market data provider is temporarily unavailable or throttling requests",
			"there were no trades in the requested window",
			"trading in the security is suspended",
		},
		[]string{
			"check whether the market is open (TWSE trades Mon-Fri 09:00-13:30 Asia/Taipei)",
			"request a longer window, e.g. days=30",
			"check the server logs for the upstream error",
		},
	)
}

// NoFinancials は財務諸表が得られない場合の説明です。resolved はティッカー自体は解決できたかどうかです。
func NoFinancials(ticker, name string, resolved bool) string {
	if !resolved {
		return build(
			fmt.Sprintf("Unable to retrieve financial statements for %s.", ticker),
			[]string{
				"the market data provider is throttling requests",
				"the ticker is invalid",
				"the market data provider cannot reach this security right now",
				"provider coverage of Taiwan-listed financial statements is limited",
			},
			[]string{
				"wait a few seconds and retry",
				"try a US ticker such as AAPL or MSFT to check the provider",
				"check the server logs for the upstream error",
			},
		)
	}
	return build(
		fmt.Sprintf("Unable to retrieve financial statements for %s.", label(ticker, name)),
		[]string{
			"provider coverage of Taiwan-listed financial statements is limited",
			"the security has no published statements",
			"the market data provider is throttling requests",
		},
		[]string{
			"wait a few seconds and retry",
			"upload the statements manually with PUT /api/stock/financial/{ticker}/{statement}",
			"check the server logs for the upstream error",
		},
	)
}

func label(ticker, name string) string {
	if name == "" || name == ticker {
		return ticker
	}
	return ticker + " (" + name + ")"
}

func build(headline string, causes, steps []string) string {
	var b strings.Builder
	b.WriteString(headline)
	b.WriteString("\n\nPossible causes:\n")
	for i, c := range causes {
		fmt.Fprintf(&b, "%d. %s\n", i+1, c)
	}
	b.WriteString("\nSuggestions:\n")
	for i, s := range steps {
		b.WriteString("- ")
		b.WriteString(s)
		if i < len(steps)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
