// Package cache はティッカー単位のデータを保持するキー・バリューキャッシュを提供します。
//
// 値は JSON エンコード済みのバイト列で保持し、エントリごとに有効期限を持ちます。
// 実装はプロセス内の Memory と、複数インスタンスで共有できる Redis の2種類です。
package cache

import (
	"context"
	"strings"
	"time"
)

// Cache はキャッシュ実装が満たすインターフェースです。
// キャッシュ操作は best effort で、バックエンドの障害はミスとして扱います。
type Cache interface {
	// Get は有効期限内の値を返します。期限切れまたは未登録の場合は false を返します。
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set は値を ttl の期間だけ保持します。ttl が0以下の場合は何もしません。
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	// Delete は指定キーを削除します。
	Delete(ctx context.Context, key string)
	// Clear は pattern を含むキーを削除し、削除件数を返します。空文字列は全削除です。
	Clear(ctx context.Context, pattern string) int
	// Stats はキャッシュの統計情報を返します。
	Stats(ctx context.Context) Stats
}

// Stats はキャッシュの統計情報です。
type Stats struct {
	Backend     string  `json:"backend"`
	TotalKeys   int     `json:"total_keys"`
	ValidKeys   int     `json:"valid_keys"`
	ExpiredKeys int     `json:"expired_keys"`
	CacheSizeMB float64 `json:"cache_size_mb"`
}

// Key はキャッシュキーを組み立てます（例: "daily_trade:2330:5"）。
func Key(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = safe(p)
	}
	return strings.Join(escaped, ":")
}

// safe はキー区切り文字と空白を置換します。
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
