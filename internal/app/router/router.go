// Package router は全フィーチャーのルートを登録した gin エンジンを構築します。
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Yili-code/FinMind-Lab/internal/app/di"
	"github.com/Yili-code/FinMind-Lab/internal/platform/http/handler"
	"github.com/Yili-code/FinMind-Lab/internal/platform/http/response"
	"github.com/Yili-code/FinMind-Lab/internal/platform/http/validate"
	jwtmw "github.com/Yili-code/FinMind-Lab/internal/platform/jwt"
)

// Options はルーター全体に適用する設定です。
type Options struct {
	CORSOrigins []string
	// JWTSecret が空でない場合、書き込み系ルートに Bearer トークンを要求します。
	JWTSecret string
}

// NewRouter は c のハンドラーを登録した gin エンジンを返します。
// データベースなしで起動した場合、DB 必須のルートは 503 を返します。
func NewRouter(opts Options, c *di.Container) *gin.Engine {
	validate.Register()

	r := gin.Default()
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))

	// 導通確認用
	health := handler.Health(handler.Subsystems{
		Database: c.DB != nil,
		Cache:    di.CacheBackend(c.Cache),
	})
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)
	r.OPTIONS("/healthz", health)

	// 書き込み系ルートのガード
	var guard gin.HandlerFunc = func(ctx *gin.Context) { ctx.Next() }
	if opts.JWTSecret != "" {
		guard = jwtmw.AuthRequired(opts.JWTSecret)
	}

	api := r.Group("/api")

	// 株価・財務（キャッシュ → DB → 上流API）
	stock := api.Group("/stock")
	{
		stock.GET("/info/:ticker", c.Quote.GetQuote)
		stock.GET("/batch", c.Quote.Batch)
		stock.GET("/basics", c.Quote.ListBasics)
		stock.GET("/daily/:ticker", c.Daily.GetDaily)
		stock.GET("/indicators/:ticker", c.Daily.GetIndicators)
		stock.GET("/intraday/:ticker", c.Market.GetIntraday)
		stock.GET("/market-index", c.Market.GetMarketIndex)
		stock.GET("/financial/:ticker", c.Financial.GetStatements)
		stock.PUT("/financial/:ticker/:statement", guard, c.Financial.PutStatement)
	}

	// グループ・BOM（DB 必須）
	if c.Group != nil && c.BOM != nil {
		groups := api.Group("/stock-groups")
		{
			groups.POST("", guard, c.Group.Create)
			groups.GET("", c.Group.List)
			groups.GET("/:id", c.Group.Get)
			groups.PUT("/:id", guard, c.Group.Update)
			groups.DELETE("/:id", guard, c.Group.Delete)
			groups.POST("/:id/stocks", guard, c.Group.AddStock)
			groups.GET("/:id/stocks", c.Group.Stocks)
			groups.DELETE("/:id/stocks/:ticker", guard, c.Group.RemoveStock)
		}

		stocks := api.Group("/stocks")
		{
			stocks.GET("/groups", c.Group.StocksWithGroups)
			stocks.GET("/:ticker/groups", c.Group.GroupsByStock)
			stocks.POST("/:ticker/bom", guard, c.BOM.Add)
			stocks.GET("/:ticker/bom", c.BOM.Children)
			stocks.GET("/:ticker/bom/parents", c.BOM.Parents)
			stocks.GET("/:ticker/bom/tree", c.BOM.Tree)
			stocks.PUT("/:ticker/bom/:child", guard, c.BOM.Update)
			stocks.DELETE("/:ticker/bom/:child", guard, c.BOM.Delete)
		}
	} else {
		off := response.Unavailable("database")
		api.Any("/stock-groups", off)
		api.Any("/stock-groups/*rest", off)
		api.Any("/stocks/*rest", off)
	}

	// 使用状況
	stats := api.Group("/stats")
	{
		stats.GET("/quota", c.Stats.Quota)
		stats.GET("/quota/recent", c.Stats.RecentRequests)
		stats.GET("/cache", c.Stats.Cache)
		stats.DELETE("/cache", guard, c.Stats.ClearCache)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"X-Data-Source", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
