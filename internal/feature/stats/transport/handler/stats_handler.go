// Package handler は上流APIの使用状況とキャッシュの統計を返すHTTPハンドラーを提供します。
package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Yili-code/FinMind-Lab/internal/feature/stats/transport/http/dto"
	"github.com/Yili-code/FinMind-Lab/internal/platform/cache"
	"github.com/Yili-code/FinMind-Lab/internal/platform/http/response"
	"github.com/Yili-code/FinMind-Lab/internal/platform/quota"
)

// QuotaReader は使用状況の読み出しに必要な操作です。
type QuotaReader interface {
	Stats() quota.Stats
	Recent(limit int) []quota.Record
}

// StatsHandler は統計エンドポイントを処理します。
type StatsHandler struct {
	quota QuotaReader
	cache cache.Cache
}

// NewStatsHandler は StatsHandler を生成します。c が nil の場合、キャッシュ系のルートは 503 を返します。
func NewStatsHandler(q QuotaReader, c cache.Cache) *StatsHandler {
	return &StatsHandler{quota: q, cache: c}
}

// Quota は上流APIの使用状況を返します。
//
// エンドポイント例:
// GET /api/stats/quota
func (h *StatsHandler) Quota(c *gin.Context) {
	c.JSON(http.StatusOK, h.quota.Stats())
}

// RecentRequests は直近の上流呼び出しを新しい順に返します。
//
// エンドポイント例:
// GET /api/stats/quota/recent?limit=50
func (h *StatsHandler) RecentRequests(c *gin.Context) {
	var q dto.RecentQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err)
		return
	}
	limit := dto.DefaultRecentLimit
	if q.Limit != nil {
		limit = *q.Limit
	}

	rs := dto.ToRecordResponses(h.quota.Recent(limit))
	c.JSON(http.StatusOK, dto.RecentResponse{Requests: rs, Count: len(rs)})
}

// Cache はキャッシュの統計を返します。
//
// エンドポイント例:
// GET /api/stats/cache
func (h *StatsHandler) Cache(c *gin.Context) {
	if h.cache == nil {
		response.Unavailable("cache")(c)
		return
	}
	c.JSON(http.StatusOK, h.cache.Stats(c.Request.Context()))
}

// ClearCache は pattern を含むキャッシュエントリを削除します。
//
// エンドポイント例:
// DELETE /api/stats/cache?pattern=daily_trade:2330
func (h *StatsHandler) ClearCache(c *gin.Context) {
	if h.cache == nil {
		response.Unavailable("cache")(c)
		return
	}
	var q dto.ClearQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err)
		return
	}

	n := h.cache.Clear(c.Request.Context(), q.Pattern)
	slog.Info("cache cleared", "pattern", q.Pattern, "count", n)
	c.JSON(http.StatusOK, dto.ClearResponse{Pattern: q.Pattern, Cleared: n})
}
