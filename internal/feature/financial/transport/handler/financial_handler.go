// Package handler は financial フィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Yili-code/FinMind-Lab/internal/feature/financial/domain/entity"
	"github.com/Yili-code/FinMind-Lab/internal/feature/financial/transport/http/dto"
	"github.com/Yili-code/FinMind-Lab/internal/platform/http/response"
	"github.com/Yili-code/FinMind-Lab/internal/shared/tiered"
)

// FinancialUsecase は財務諸表のユースケースインターフェースです。
type FinancialUsecase interface {
	GetStatements(ctx context.Context, ticker string) (*entity.Statements, tiered.Source, error)
	UpsertIncome(ctx context.Context, ticker string, s entity.IncomeStatement) (*entity.IncomeStatement, error)
	UpsertBalance(ctx context.Context, ticker string, s entity.BalanceSheet) (*entity.BalanceSheet, error)
	UpsertCashFlow(ctx context.Context, ticker string, s entity.CashFlow) (*entity.CashFlow, error)
}

// FinancialHandler は財務諸表のHTTPリクエストを処理します。
type FinancialHandler struct {
	uc FinancialUsecase
}

// NewFinancialHandler は FinancialHandler を生成します。
func NewFinancialHandler(uc FinancialUsecase) *FinancialHandler {
	return &FinancialHandler{uc: uc}
}

// GetStatements は最新期の財務三表を返します。
//
// エンドポイント例:
// GET /api/stock/financial/2330
func (h *FinancialHandler) GetStatements(c *gin.Context) {
	var uri dto.TickerURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, err)
		return
	}

	st, src, err := h.uc.GetStatements(c.Request.Context(), uri.Ticker)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FinancialResponse{StockCode: uri.Ticker, Statements: *st, Source: string(src)})
}

// PutStatement は財務諸表を1期分登録します。同じ期間が既にあれば上書きします。
//
// エンドポイント例:
// PUT /api/stock/financial/2330/income
func (h *FinancialHandler) PutStatement(c *gin.Context) {
	var uri dto.StatementURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	var (
		out any
		err error
	)
	switch uri.Statement {
	case dto.StatementIncome:
		var req dto.IncomeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err)
			return
		}
		out, err = h.uc.UpsertIncome(ctx, uri.Ticker, req.ToEntity())
	case dto.StatementBalance:
		var req dto.BalanceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err)
			return
		}
		out, err = h.uc.UpsertBalance(ctx, uri.Ticker, req.ToEntity())
	default:
		var req dto.CashFlowRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err)
			return
		}
		out, err = h.uc.UpsertCashFlow(ctx, uri.Ticker, req.ToEntity())
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
