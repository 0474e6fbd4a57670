// Package config は環境変数（と任意の .env）からアプリケーション設定を読み込みます。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Yili-code/FinMind-Lab/internal/platform/db"
	"github.com/Yili-code/FinMind-Lab/internal/platform/externalapi/twse"
	"github.com/Yili-code/FinMind-Lab/internal/platform/externalapi/yahoo"
	"github.com/Yili-code/FinMind-Lab/internal/platform/quota"
)

// Config はアプリケーション全体の設定です。
type Config struct {
	Port        string
	GinMode     string
	CORSOrigins []string
	LogLevel    string
	LogFormat   string
	JWTSecret   string

	DB    db.Config
	Cache CacheConfig
	Quota QuotaConfig
	Yahoo yahoo.Config
	TWSE  twse.Config
}

// CacheConfig はキャッシュ設定です。
type CacheConfig struct {
	Enabled       bool
	Backend       string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	TTL           TTL
}

// TTL はデータ種別ごとのキャッシュ有効期限です。
type TTL struct {
	StockInfo   time.Duration
	DailyTrade  time.Duration
	Intraday    time.Duration
	MarketIndex time.Duration
	Financial   time.Duration
}

// QuotaConfig は上流API呼び出しの上限設定です。
type QuotaConfig struct {
	Limits      quota.Limits
	HistorySize int
	Enforce     bool
}

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("DB_ENABLED", true)
	v.SetDefault("DB_TYPE", db.DialectSQLite)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "finfo")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SQLITE_DB_PATH", "finfo.db")
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("DB_CONNECT_TIMEOUT_SECONDS", 60)

	v.SetDefault("CACHE_ENABLED", true)
	v.SetDefault("CACHE_BACKEND", CacheBackendMemory)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("CACHE_TTL_STOCK_INFO", 300)
	v.SetDefault("CACHE_TTL_DAILY_TRADE", 3600)
	v.SetDefault("CACHE_TTL_INTRADAY", 60)
	v.SetDefault("CACHE_TTL_MARKET_INDEX", 300)
	v.SetDefault("CACHE_TTL_FINANCIAL", 86400)

	v.SetDefault("API_RATE_LIMIT_PER_MINUTE", quota.DefaultLimits.PerMinute)
	v.SetDefault("API_RATE_LIMIT_PER_HOUR", quota.DefaultLimits.PerHour)
	v.SetDefault("API_RATE_LIMIT_PER_DAY", quota.DefaultLimits.PerDay)
	v.SetDefault("QUOTA_HISTORY_SIZE", quota.DefaultCapacity)
	v.SetDefault("QUOTA_ENFORCE", false)

	v.SetDefault("YAHOO_BASE_URL", yahoo.DefaultBaseURL)
	v.SetDefault("YAHOO_TIMEOUT_SECONDS", 10)
	v.SetDefault("YAHOO_REQUESTS_PER_SECOND", 2.0)

	v.SetDefault("TWSE_BASE_URL", twse.DefaultBaseURL)
	v.SetDefault("TWSE_TIMEOUT_SECONDS", 15)
	v.SetDefault("TWSE_REQUESTS_PER_MINUTE", 20)
	v.SetDefault("TWSE_RETRY_INTERVAL_SECONDS", 2)
	v.SetDefault("TWSE_MAX_ATTEMPTS", 3)
}

// Load は .env（存在する場合）と環境変数から設定を読み込みます。
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	seconds := func(key string) time.Duration {
		return time.Duration(v.GetInt(key)) * time.Second
	}

	cfg := &Config{
		Port:        v.GetString("PORT"),
		GinMode:     v.GetString("GIN_MODE"),
		CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),
		LogLevel:    v.GetString("LOG_LEVEL"),
		LogFormat:   v.GetString("LOG_FORMAT"),
		JWTSecret:   v.GetString("JWT_SECRET"),
		DB: db.Config{
			Enabled:        v.GetBool("DB_ENABLED"),
			Type:           normalizeDialect(v.GetString("DB_TYPE")),
			Host:           v.GetString("DB_HOST"),
			Port:           v.GetString("DB_PORT"),
			Name:           v.GetString("DB_NAME"),
			User:           v.GetString("DB_USER"),
			Password:       v.GetString("DB_PASSWORD"),
			SSLMode:        v.GetString("DB_SSLMODE"),
			SQLitePath:     v.GetString("SQLITE_DB_PATH"),
			RunMigrations:  v.GetBool("RUN_MIGRATIONS"),
			ConnectTimeout: seconds("DB_CONNECT_TIMEOUT_SECONDS"),
		},
		Cache: CacheConfig{
			Enabled:       v.GetBool("CACHE_ENABLED"),
			Backend:       strings.ToLower(v.GetString("CACHE_BACKEND")),
			RedisHost:     v.GetString("REDIS_HOST"),
			RedisPort:     v.GetString("REDIS_PORT"),
			RedisPassword: v.GetString("REDIS_PASSWORD"),
			TTL: TTL{
				StockInfo:   seconds("CACHE_TTL_STOCK_INFO"),
				DailyTrade:  seconds("CACHE_TTL_DAILY_TRADE"),
				Intraday:    seconds("CACHE_TTL_INTRADAY"),
				MarketIndex: seconds("CACHE_TTL_MARKET_INDEX"),
				Financial:   seconds("CACHE_TTL_FINANCIAL"),
			},
		},
		Quota: QuotaConfig{
			Limits: quota.Limits{
				PerMinute: v.GetInt("API_RATE_LIMIT_PER_MINUTE"),
				PerHour:   v.GetInt("API_RATE_LIMIT_PER_HOUR"),
				PerDay:    v.GetInt("API_RATE_LIMIT_PER_DAY"),
			},
			HistorySize: v.GetInt("QUOTA_HISTORY_SIZE"),
			Enforce:     v.GetBool("QUOTA_ENFORCE"),
		},
		Yahoo: yahoo.Config{
			BaseURL:           v.GetString("YAHOO_BASE_URL"),
			Timeout:           seconds("YAHOO_TIMEOUT_SECONDS"),
			RequestsPerSecond: v.GetFloat64("YAHOO_REQUESTS_PER_SECOND"),
		},
		TWSE: twse.Config{
			BaseURL:           v.GetString("TWSE_BASE_URL"),
			Timeout:           seconds("TWSE_TIMEOUT_SECONDS"),
			RequestsPerMinute: v.GetInt("TWSE_REQUESTS_PER_MINUTE"),
			RetryInterval:     seconds("TWSE_RETRY_INTERVAL_SECONDS"),
			MaxAttempts:       v.GetInt("TWSE_MAX_ATTEMPTS"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Type {
	case db.DialectPostgres, db.DialectSQLite:
	default:
		return fmt.Errorf("invalid DB_TYPE %q: want %s or %s", c.DB.Type, db.DialectPostgres, db.DialectSQLite)
	}
	switch c.Cache.Backend {
	case CacheBackendMemory, CacheBackendRedis:
	default:
		return fmt.Errorf("invalid CACHE_BACKEND %q: want %s or %s", c.Cache.Backend, CacheBackendMemory, CacheBackendRedis)
	}
	if c.Quota.Limits.PerMinute <= 0 || c.Quota.Limits.PerHour <= 0 || c.Quota.Limits.PerDay <= 0 {
		return errors.New("API_RATE_LIMIT_PER_* must be positive")
	}
	return nil
}

// normalizeDialect は "postgres" などの別名を正規化します。
func normalizeDialect(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "postgres", "postgresql", "pg":
		return db.DialectPostgres
	default:
		return strings.ToLower(strings.TrimSpace(s))
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
