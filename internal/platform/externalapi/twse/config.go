// Package twse は台湾証券取引所（TWSE）の個別銘柄月次日足（STOCK_DAY）を取得します。
package twse

import "time"

// DefaultBaseURL は TWSE の既定のベースURLです。
const DefaultBaseURL = "https://www.twse.com.tw"

// Config は TWSE クライアントの設定です。
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute int
	RetryInterval     time.Duration
	MaxAttempts       int
}
