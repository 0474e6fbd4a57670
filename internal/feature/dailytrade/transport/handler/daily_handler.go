// Package handler は dailytrade フィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Yili-code/FinMind-Lab/internal/feature/dailytrade/transport/http/dto"
	"github.com/Yili-code/FinMind-Lab/internal/feature/dailytrade/usecase"
	"github.com/Yili-code/FinMind-Lab/internal/platform/http/response"
)

// DailyUsecase は日足取得のユースケースインターフェースです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type DailyUsecase interface {
	GetDaily(ctx context.Context, ticker string, days int) (*usecase.DailyResult, error)
	GetIndicators(ctx context.Context, ticker string, days int, list string) (*usecase.IndicatorResult, error)
}

// DailyHandler は日足データのHTTPリクエストを処理します。
type DailyHandler struct {
	uc DailyUsecase
}

// NewDailyHandler は DailyHandler を生成します。
func NewDailyHandler(uc DailyUsecase) *DailyHandler {
	return &DailyHandler{uc: uc}
}

// GetDaily は日足を日付の昇順で返します。データがない場合も 200 で warning を付けて返します。
//
// エンドポイント例:
// GET /api/stock/daily/2330?days=30
func (h *DailyHandler) GetDaily(c *gin.Context) {
	var uri dto.TickerURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, err)
		return
	}
	var q dto.DailyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err)
		return
	}

	res, err := h.uc.GetDaily(c.Request.Context(), uri.Ticker, intOr(q.Days, usecase.DefaultDays))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DailyResponse{
		StockCode: uri.Ticker,
		Data:      res.Bars,
		Count:     len(res.Bars),
		Source:    string(res.Source),
		Warning:   res.Warning,
	})
}

// GetIndicators は日足の終値から計算した移動平均とRSIを返します。
//
// エンドポイント例:
// GET /api/stock/indicators/2330?days=60&indicators=MA5,MA20,RSI14
func (h *DailyHandler) GetIndicators(c *gin.Context) {
	var uri dto.TickerURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, err)
		return
	}
	var q dto.IndicatorQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err)
		return
	}

	res, err := h.uc.GetIndicators(c.Request.Context(), uri.Ticker, intOr(q.Days, usecase.DefaultIndicatorDays), q.Indicators)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.IndicatorResponse{
		StockCode:  uri.Ticker,
		Indicators: res.Indicators,
		Data:       res.Rows,
		Count:      len(res.Rows),
		Source:     string(res.Source),
		Warning:    res.Warning,
	})
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
