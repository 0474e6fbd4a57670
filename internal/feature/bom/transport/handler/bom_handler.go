// Package handler は bom フィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Yili-code/FinMind-Lab/internal/feature/bom/domain/entity"
	"github.com/Yili-code/FinMind-Lab/internal/feature/bom/transport/http/dto"
	"github.com/Yili-code/FinMind-Lab/internal/feature/bom/usecase"
	"github.com/Yili-code/FinMind-Lab/internal/platform/http/response"
)

// BOMUsecase は銘柄BOMのユースケースインターフェースです。
type BOMUsecase interface {
	Add(ctx context.Context, e entity.Edge) (*entity.Edge, error)
	Children(ctx context.Context, parent string) ([]entity.Edge, error)
	Parents(ctx context.Context, child string) ([]entity.Edge, error)
	Update(ctx context.Context, parent, child string, p entity.EdgePatch) (*entity.Edge, error)
	Delete(ctx context.Context, parent, child string) error
	BuildTree(ctx context.Context, root string, maxDepth int) (*entity.Tree, error)
}

// BOMHandler は銘柄BOMのHTTPリクエストを処理します。
type BOMHandler struct {
	uc BOMUsecase
}

// NewBOMHandler は BOMHandler を生成します。
func NewBOMHandler(uc BOMUsecase) *BOMHandler {
	return &BOMHandler{uc: uc}
}

// Add は親銘柄に子銘柄を追加します。既にある組み合わせは上書きします。
//
// エンドポイント例:
// POST /api/stocks/2330/bom
func (h *BOMHandler) Add(c *gin.Context) {
	var uri dto.TickerURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, err)
		return
	}
	var req dto.AddEdgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	e, err := h.uc.Add(c.Request.Context(), req.ToEntity(uri.Ticker))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

// Children は直接の子銘柄を返します。
func (h *BOMHandler) Children(c *gin.Context) {
	var uri dto.TickerURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, err)
		return
	}
	edges, err := h.uc.Children(c.Request.Context(), uri.Ticker)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, edges)
}

// Parents は銘柄を子として含む親銘柄を返します。
//
// エンドポイント例:
// GET /api/stocks/2330/bom/parents
func (h *BOMHandler) Parents(c *gin.Context) {
	var uri dto.TickerURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, err)
		return
	}
	edges, err := h.uc.Parents(c.Request.Context(), uri.Ticker)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, edges)
}

// Tree は構成ツリーを返します。
//
// エンドポイント例:
// GET /api/stocks/2330/bom/tree?max_depth=3
func (h *BOMHandler) Tree(c *gin.Context) {
	var uri dto.TickerURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, err)
		return
	}
	var q dto.TreeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err)
		return
	}
	depth := usecase.DefaultMaxDepth
	if q.MaxDepth != nil {
		depth = *q.MaxDepth
	}
	tree, err := h.uc.BuildTree(c.Request.Context(), uri.Ticker, depth)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, tree)
}

// Update は親子の組み合わせの数量などを更新します。
func (h *BOMHandler) Update(c *gin.Context) {
	var uri dto.EdgeURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, err)
		return
	}
	var req dto.UpdateEdgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	e, err := h.uc.Update(c.Request.Context(), uri.Ticker, uri.Child, req.ToPatch())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// Delete は親子の組み合わせを削除します。
func (h *BOMHandler) Delete(c *gin.Context) {
	var uri dto.EdgeURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, err)
		return
	}
	if err := h.uc.Delete(c.Request.Context(), uri.Ticker, uri.Child); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
