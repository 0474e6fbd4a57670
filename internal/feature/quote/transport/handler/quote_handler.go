// Package handler は quote フィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Yili-code/FinMind-Lab/internal/feature/quote/domain/entity"
	"github.com/Yili-code/FinMind-Lab/internal/feature/quote/transport/http/dto"
	"github.com/Yili-code/FinMind-Lab/internal/platform/http/response"
	"github.com/Yili-code/FinMind-Lab/internal/platform/http/validate"
	"github.com/Yili-code/FinMind-Lab/internal/shared/tiered"
)

// MaxBatchSize は1回のバッチ取得で受け付ける銘柄数の上限です。
const MaxBatchSize = 50

// SourceHeader は値を返した層を示すレスポンスヘッダーです。
const SourceHeader = "X-Data-Source"

// QuoteUsecase はスナップショット取得のユースケースインターフェースです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type QuoteUsecase interface {
	GetQuote(ctx context.Context, ticker string) (*entity.Quote, tiered.Source, error)
	Batch(ctx context.Context, tickers []string) []entity.Quote
	ListBasics(ctx context.Context) ([]entity.Quote, error)
}

// QuoteHandler は銘柄スナップショットのHTTPリクエストを処理します。
type QuoteHandler struct {
	uc QuoteUsecase
}

// NewQuoteHandler は QuoteHandler を生成します。
func NewQuoteHandler(uc QuoteUsecase) *QuoteHandler {
	return &QuoteHandler{uc: uc}
}

// GetQuote は銘柄のスナップショットを返します。
//
// エンドポイント例:
// GET /api/stock/info/2330
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	var uri dto.TickerURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, err)
		return
	}

	q, src, err := h.uc.GetQuote(c.Request.Context(), uri.Ticker)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header(SourceHeader, string(src))
	c.JSON(http.StatusOK, q)
}

// Batch はカンマ区切りの複数銘柄のスナップショットを返します。
//
// エンドポイント例:
// GET /api/stock/batch?stock_codes=2330,2317,2454
func (h *QuoteHandler) Batch(c *gin.Context) {
	var q dto.BatchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err)
		return
	}
	codes, err := parseCodes(q.StockCodes)
	if err != nil {
		response.BadRequest(c, err)
		return
	}

	quotes := h.uc.Batch(c.Request.Context(), codes)
	c.JSON(http.StatusOK, dto.QuoteListResponse{Stocks: quotes, Count: len(quotes)})
}

// ListBasics は保存済みの全銘柄を返します。
func (h *QuoteHandler) ListBasics(c *gin.Context) {
	quotes, err := h.uc.ListBasics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.QuoteListResponse{Stocks: quotes, Count: len(quotes)})
}

// parseCodes はカンマ区切りの銘柄コードを分解します。空要素は捨て、重複は1つにまとめます。
func parseCodes(s string) ([]string, error) {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, raw := range strings.Split(s, ",") {
		code := strings.TrimSpace(raw)
		if code == "" {
			continue
		}
		if !validate.IsTicker(code) {
			return nil, fmt.Errorf("invalid ticker %q", code)
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("stock_codes must contain at least one ticker")
	}
	if len(out) > MaxBatchSize {
		return nil, fmt.Errorf("stock_codes accepts at most %d tickers", MaxBatchSize)
	}
	return out, nil
}
