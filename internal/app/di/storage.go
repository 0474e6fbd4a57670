package di

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	bomadapters "github.com/Yili-code/FinMind-Lab/internal/feature/bom/adapters"
	dailyadapters "github.com/Yili-code/FinMind-Lab/internal/feature/dailytrade/adapters"
	financialadapters "github.com/Yili-code/FinMind-Lab/internal/feature/financial/adapters"
	quoteadapters "github.com/Yili-code/FinMind-Lab/internal/feature/quote/adapters"
	groupadapters "github.com/Yili-code/FinMind-Lab/internal/feature/stockgroup/adapters"
	"github.com/Yili-code/FinMind-Lab/internal/platform/cache"
	"github.com/Yili-code/FinMind-Lab/internal/platform/config"
	"github.com/Yili-code/FinMind-Lab/internal/platform/db"
	infraredis "github.com/Yili-code/FinMind-Lab/internal/platform/redis"
)

// redisNamespace は Redis キャッシュのキー接頭辞です。
const redisNamespace = "finmind"

// Models はマイグレーション対象のモデルです。
// stock_bom は stock_basics を参照するため後ろに置きます。
func Models() []any {
	return []any{
		&quoteadapters.StockBasicModel{},
		&dailyadapters.DailyTradeModel{},
		&financialadapters.IncomeStatementModel{},
		&financialadapters.BalanceSheetModel{},
		&financialadapters.CashFlowModel{},
		&groupadapters.GroupModel{},
		&groupadapters.GroupMemberModel{},
		&bomadapters.BOMModel{},
	}
}

// OpenDatabase はデータベースへ接続します。
// 無効化されている場合や接続できない場合は nil を返し、サーバーはデータベースなしで起動します。
func OpenDatabase(cfg db.Config) *gorm.DB {
	if !cfg.Enabled {
		slog.Info("database disabled")
		return nil
	}
	gdb, err := db.Open(cfg, Models()...)
	if err != nil {
		slog.Error("database unavailable, continuing without persistence", "error", err)
		return nil
	}
	return gdb
}

// CloseDatabase は OpenDatabase で開いた接続を閉じます。nil の場合は何もしません。
func CloseDatabase(gdb *gorm.DB) {
	if gdb == nil {
		return
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		slog.Error("failed to get database handle", "error", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		slog.Error("failed to close database", "error", err)
	}
}

// NewCache は設定に応じたキャッシュを返します。
// Redis に接続できない場合はメモリキャッシュにフォールバックします。無効化時は nil を返します。
// 戻り値の *redis.Client は Redis を使う場合のみ非 nil で、呼び出し側が閉じます。
func NewCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, *redis.Client) {
	if !cfg.Enabled {
		slog.Info("cache disabled")
		return nil, nil
	}
	if cfg.Backend == config.CacheBackendRedis {
		rdb, err := infraredis.NewRedisClient(ctx, infraredis.Options{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
		})
		if err == nil {
			return cache.NewRedis(rdb, redisNamespace), rdb
		}
		slog.Warn("Redis unavailable, falling back to memory cache", "error", err)
	}
	return cache.NewMemory(), nil
}

// CacheBackend はヘルスチェック用のキャッシュ種別を返します。
func CacheBackend(c cache.Cache) string {
	switch c.(type) {
	case nil:
		return "disabled"
	case *cache.Redis:
		return config.CacheBackendRedis
	default:
		return config.CacheBackendMemory
	}
}
