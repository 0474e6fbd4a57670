// Package handler は market フィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Yili-code/FinMind-Lab/internal/feature/market/transport/http/dto"
	"github.com/Yili-code/FinMind-Lab/internal/feature/market/usecase"
	"github.com/Yili-code/FinMind-Lab/internal/platform/http/response"
)

// MarketUsecase は分足・指数取得のユースケースインターフェースです。
type MarketUsecase interface {
	GetIntraday(ctx context.Context, ticker, period, interval string) (*usecase.TickResult, error)
	GetMarketIndex(ctx context.Context, indexCode string, days int) (*usecase.IndexResult, error)
}

// MarketHandler は分足・指数のHTTPリクエストを処理します。
type MarketHandler struct {
	uc MarketUsecase
}

// NewMarketHandler は MarketHandler を生成します。
func NewMarketHandler(uc MarketUsecase) *MarketHandler {
	return &MarketHandler{uc: uc}
}

// GetIntraday は分足を返します。
//
// エンドポイント例:
// GET /api/stock/intraday/2330?period=1d&interval=1m
func (h *MarketHandler) GetIntraday(c *gin.Context) {
	var uri dto.TickerURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, err)
		return
	}
	var q dto.IntradayQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err)
		return
	}

	res, err := h.uc.GetIntraday(c.Request.Context(), uri.Ticker, q.Period, q.Interval)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.IntradayResponse{
		StockCode: uri.Ticker,
		Data:      res.Ticks,
		Count:     len(res.Ticks),
		Source:    string(res.Source),
		Warning:   res.Warning,
	})
}

// GetMarketIndex は指数の日足を返します。
//
// エンドポイント例:
// GET /api/stock/market-index?index_code=^TWII&days=5
func (h *MarketHandler) GetMarketIndex(c *gin.Context) {
	var q dto.IndexQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err)
		return
	}
	code := q.IndexCode
	if code == "" {
		code = usecase.DefaultIndexCode
	}
	days := usecase.DefaultIndexDays
	if q.Days != nil {
		days = *q.Days
	}

	res, err := h.uc.GetMarketIndex(c.Request.Context(), code, days)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.IndexResponse{
		IndexCode: code,
		Data:      res.Points,
		Count:     len(res.Points),
		Source:    string(res.Source),
		Warning:   res.Warning,
	})
}
