package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yili-code/FinMind-Lab/internal/platform/db"
)

// TestLoad_Defaults は環境変数が未設定の場合の既定値を検証します。
func TestLoad_Defaults(t *testing.T) {
	// 環境変数を書き換えるため並列実行しない
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, db.DialectSQLite, cfg.DB.Type)
	assert.Equal(t, "finfo.db", cfg.DB.SQLitePath)
	assert.Equal(t, 300*time.Second, cfg.Cache.TTL.StockInfo)
	assert.Equal(t, 3600*time.Second, cfg.Cache.TTL.DailyTrade)
	assert.Equal(t, 60*time.Second, cfg.Cache.TTL.Intraday)
	assert.Equal(t, 300*time.Second, cfg.Cache.TTL.MarketIndex)
	assert.Equal(t, 86400*time.Second, cfg.Cache.TTL.Financial)
	assert.Equal(t, 20, cfg.Quota.Limits.PerMinute)
	assert.Equal(t, 200, cfg.Quota.Limits.PerHour)
	assert.Equal(t, 2000, cfg.Quota.Limits.PerDay)
	assert.Equal(t, 10000, cfg.Quota.HistorySize)
	assert.False(t, cfg.Quota.Enforce)
	assert.Equal(t, CacheBackendMemory, cfg.Cache.Backend)
	assert.Equal(t, 10*time.Second, cfg.Yahoo.Timeout)
	assert.Equal(t, 3, cfg.TWSE.MaxAttempts)
}

// TestLoad_FromEnv は環境変数による上書きを検証します。
func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("CORS_ORIGINS", " https://a.example , https://b.example,")
	t.Setenv("DB_TYPE", "postgres")
	t.Setenv("DB_HOST", "pg")
	t.Setenv("CACHE_BACKEND", "Redis")
	t.Setenv("CACHE_TTL_DAILY_TRADE", "120")
	t.Setenv("API_RATE_LIMIT_PER_MINUTE", "5")
	t.Setenv("QUOTA_ENFORCE", "true")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, db.DialectPostgres, cfg.DB.Type)
	assert.Equal(t, "pg", cfg.DB.Host)
	assert.Equal(t, CacheBackendRedis, cfg.Cache.Backend)
	assert.Equal(t, 120*time.Second, cfg.Cache.TTL.DailyTrade)
	assert.Equal(t, 5, cfg.Quota.Limits.PerMinute)
	assert.True(t, cfg.Quota.Enforce)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown dialect", "DB_TYPE", "mysql"},
		{"unknown cache backend", "CACHE_BACKEND", "memcached"},
		{"non-positive limit", "API_RATE_LIMIT_PER_DAY", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
