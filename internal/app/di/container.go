package di

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	bomadapters "github.com/Yili-code/FinMind-Lab/internal/feature/bom/adapters"
	bomhandler "github.com/Yili-code/FinMind-Lab/internal/feature/bom/transport/handler"
	bomusecase "github.com/Yili-code/FinMind-Lab/internal/feature/bom/usecase"
	dailyadapters "github.com/Yili-code/FinMind-Lab/internal/feature/dailytrade/adapters"
	dailyhandler "github.com/Yili-code/FinMind-Lab/internal/feature/dailytrade/transport/handler"
	dailyusecase "github.com/Yili-code/FinMind-Lab/internal/feature/dailytrade/usecase"
	financialadapters "github.com/Yili-code/FinMind-Lab/internal/feature/financial/adapters"
	financialhandler "github.com/Yili-code/FinMind-Lab/internal/feature/financial/transport/handler"
	financialusecase "github.com/Yili-code/FinMind-Lab/internal/feature/financial/usecase"
	markethandler "github.com/Yili-code/FinMind-Lab/internal/feature/market/transport/handler"
	marketusecase "github.com/Yili-code/FinMind-Lab/internal/feature/market/usecase"
	quoteadapters "github.com/Yili-code/FinMind-Lab/internal/feature/quote/adapters"
	quotehandler "github.com/Yili-code/FinMind-Lab/internal/feature/quote/transport/handler"
	quoteusecase "github.com/Yili-code/FinMind-Lab/internal/feature/quote/usecase"
	statshandler "github.com/Yili-code/FinMind-Lab/internal/feature/stats/transport/handler"
	groupadapters "github.com/Yili-code/FinMind-Lab/internal/feature/stockgroup/adapters"
	grouphandler "github.com/Yili-code/FinMind-Lab/internal/feature/stockgroup/transport/handler"
	groupusecase "github.com/Yili-code/FinMind-Lab/internal/feature/stockgroup/usecase"
	"github.com/Yili-code/FinMind-Lab/internal/platform/cache"
	"github.com/Yili-code/FinMind-Lab/internal/platform/config"
	"github.com/Yili-code/FinMind-Lab/internal/platform/quota"
	"github.com/Yili-code/FinMind-Lab/internal/shared/tiered"
)

// Container はサーバーが使うインフラと各フィーチャーのハンドラーを保持します。
// DB または Cache が nil の場合、それに依存するハンドラーも nil です。
type Container struct {
	DB    *gorm.DB
	Cache cache.Cache
	Redis *redis.Client
	Quota *quota.Tracker

	Quote     *quotehandler.QuoteHandler
	Daily     *dailyhandler.DailyHandler
	Market    *markethandler.MarketHandler
	Financial *financialhandler.FinancialHandler
	Group     *grouphandler.GroupHandler
	BOM       *bomhandler.BOMHandler
	Stats     *statshandler.StatsHandler
}

// NewContainer は設定からインフラを初期化し、全フィーチャーを組み立てます。
func NewContainer(ctx context.Context, cfg *config.Config) *Container {
	c := &Container{
		DB:    OpenDatabase(cfg.DB),
		Quota: quota.NewTracker(cfg.Quota.Limits, cfg.Quota.HistorySize),
	}
	c.Cache, c.Redis = NewCache(ctx, cfg.Cache)
	return Wire(c, cfg)
}

// Wire は c の DB・Cache・Quota を使ってハンドラーを組み立てます。
func Wire(c *Container, cfg *config.Config) *Container {
	fetcher := tiered.NewFetcher(c.Cache, c.Quota, cfg.Quota.Enforce)
	yahooClient := NewYahoo(cfg.Yahoo)
	ttl := cfg.Cache.TTL

	// Repository（DB なしの場合はインターフェースを nil のままにする）
	var (
		quoteRepo     quoteusecase.QuoteRepository
		dailyRepo     dailyusecase.DailyTradeRepository
		statementRepo financialusecase.StatementRepository
	)
	if c.DB != nil {
		quoteRepo = quoteadapters.NewQuoteRepository(c.DB)
		dailyRepo = dailyadapters.NewDailyTradeRepository(c.DB)
		statementRepo = financialadapters.NewStatementRepository(c.DB)
	}

	// Usecase
	quoteUC := quoteusecase.NewQuoteUsecase(fetcher, quoteRepo, yahooClient, ttl.StockInfo)
	dailyUC := dailyusecase.NewDailyUsecase(fetcher, dailyRepo, yahooClient, quoteUC, ttl.DailyTrade)
	marketUC := marketusecase.NewMarketUsecase(fetcher, yahooClient, quoteUC, ttl.Intraday, ttl.MarketIndex)
	financialUC := financialusecase.NewFinancialUsecase(fetcher, statementRepo, yahooClient, quoteUC, ttl.Financial)

	// Handler
	c.Quote = quotehandler.NewQuoteHandler(quoteUC)
	c.Daily = dailyhandler.NewDailyHandler(dailyUC)
	c.Market = markethandler.NewMarketHandler(marketUC)
	c.Financial = financialhandler.NewFinancialHandler(financialUC)
	c.Stats = statshandler.NewStatsHandler(c.Quota, c.Cache)

	if c.DB != nil {
		c.Group = grouphandler.NewGroupHandler(groupusecase.NewGroupUsecase(groupadapters.NewGroupRepository(c.DB)))
		c.BOM = bomhandler.NewBOMHandler(bomusecase.NewBOMUsecase(bomadapters.NewBOMRepository(c.DB)))
	}
	return c
}

// Close は保持している接続を閉じます。
func (c *Container) Close() {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			slog.Error("failed to close Redis client", "error", err)
		}
	}
	CloseDatabase(c.DB)
}
