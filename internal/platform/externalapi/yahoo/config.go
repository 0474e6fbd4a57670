// Package yahoo は Yahoo Finance の公開 JSON エンドポイントから株価・財務データを取得します。
package yahoo

import "time"

// DefaultBaseURL は Yahoo Finance API の既定のベースURLです。
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// Config は Yahoo Finance クライアントの設定です。
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64 // 0以下の場合は制限なし
}
