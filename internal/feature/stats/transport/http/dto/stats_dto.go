// Package dto は stats フィーチャーのリクエスト/レスポンス型を定義します。
package dto

import (
	"time"

	"github.com/Yili-code/FinMind-Lab/internal/platform/quota"
)

// DefaultRecentLimit は直近履歴の既定件数です。
const DefaultRecentLimit = 50

// RecentQuery は GET /api/stats/quota/recent のクエリです。
type RecentQuery struct {
	Limit *int `form:"limit" binding:"omitempty,min=1,max=1000"`
}

// ClearQuery は DELETE /api/stats/cache のクエリです。空文字列は全削除を意味します。
type ClearQuery struct {
	Pattern string `form:"pattern" binding:"max=100"`
}

// RecentResponse は直近の上流呼び出し履歴です。
type RecentResponse struct {
	Requests []RecordResponse `json:"requests"`
	Count    int              `json:"count"`
}

// RecordResponse は呼び出し1件分です。応答時間は秒で返します。
type RecordResponse struct {
	Timestamp    string  `json:"timestamp"`
	Endpoint     string  `json:"endpoint"`
	StockCode    string  `json:"stock_code"`
	Success      bool    `json:"success"`
	ResponseTime float64 `json:"response_time"`
}

// ClearResponse はキャッシュ削除の結果です。
type ClearResponse struct {
	Pattern string `json:"pattern"`
	Cleared int    `json:"cleared"`
}

// ToRecordResponses は quota.Record を JSON 用に変換します。
func ToRecordResponses(rs []quota.Record) []RecordResponse {
	out := make([]RecordResponse, len(rs))
	for i, r := range rs {
		out[i] = RecordResponse{
			Timestamp:    r.Timestamp.Format(time.RFC3339),
			Endpoint:     r.Endpoint,
			StockCode:    r.StockCode,
			Success:      r.Success,
			ResponseTime: float64(r.ResponseTime.Milliseconds()) / 1000,
		}
	}
	return out
}
