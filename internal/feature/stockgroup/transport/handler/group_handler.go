// Package handler は stockgroup フィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Yili-code/FinMind-Lab/internal/feature/stockgroup/domain/entity"
	"github.com/Yili-code/FinMind-Lab/internal/feature/stockgroup/transport/http/dto"
	"github.com/Yili-code/FinMind-Lab/internal/platform/http/response"
)

// GroupUsecase は銘柄グループ管理のユースケースインターフェースです。
type GroupUsecase interface {
	Create(ctx context.Context, name string, description *string) (*entity.Group, error)
	List(ctx context.Context) ([]entity.Group, error)
	Get(ctx context.Context, id string) (*entity.Group, error)
	Update(ctx context.Context, id string, name, description *string) (*entity.Group, error)
	Delete(ctx context.Context, id string) error
	AddStock(ctx context.Context, groupID, stockCode string) error
	RemoveStock(ctx context.Context, groupID, stockCode string) error
	Stocks(ctx context.Context, groupID string) ([]string, error)
	GroupsByStock(ctx context.Context, stockCode string) ([]entity.GroupRef, error)
	StocksWithGroups(ctx context.Context) ([]entity.StockGroups, error)
}

// GroupHandler は銘柄グループのHTTPリクエストを処理します。
type GroupHandler struct {
	uc GroupUsecase
}

// NewGroupHandler は GroupHandler を生成します。
func NewGroupHandler(uc GroupUsecase) *GroupHandler {
	return &GroupHandler{uc: uc}
}

// Create はグループを作成します。
//
// エンドポイント例:
// POST /api/stock-groups
func (h *GroupHandler) Create(c *gin.Context) {
	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	g, err := h.uc.Create(c.Request.Context(), req.GroupName, req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

// List は全グループを返します。
func (h *GroupHandler) List(c *gin.Context) {
	groups, err := h.uc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// Get はグループを1件返します。
func (h *GroupHandler) Get(c *gin.Context) {
	var uri dto.GroupURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, err)
		return
	}
	g, err := h.uc.Get(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// Update はグループ名や説明を更新します。
//
// エンドポイント例:
// PUT /api/stock-groups/{id}
func (h *GroupHandler) Update(c *gin.Context) {
	var uri dto.GroupURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, err)
		return
	}
	var req dto.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	g, err := h.uc.Update(c.Request.Context(), uri.ID, req.GroupName, req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// Delete はグループと所属銘柄を削除します。
func (h *GroupHandler) Delete(c *gin.Context) {
	var uri dto.GroupURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, err)
		return
	}
	if err := h.uc.Delete(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DeleteGroupResponse{Message: "group deleted", GroupID: uri.ID})
}

// AddStock はグループに銘柄を追加します。既に所属している場合も成功です。
//
// エンドポイント例:
// POST /api/stock-groups/{id}/stocks
func (h *GroupHandler) AddStock(c *gin.Context) {
	var uri dto.GroupURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, err)
		return
	}
	var req dto.AddStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	if err := h.uc.AddStock(c.Request.Context(), uri.ID, req.StockCode); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MembershipResponse{Message: "stock added to group", GroupID: uri.ID, StockCode: req.StockCode})
}

// RemoveStock はグループから銘柄を外します。
func (h *GroupHandler) RemoveStock(c *gin.Context) {
	var uri dto.MemberURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, err)
		return
	}
	if err := h.uc.RemoveStock(c.Request.Context(), uri.ID, uri.Ticker); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MembershipResponse{Message: "stock removed from group", GroupID: uri.ID, StockCode: uri.Ticker})
}

// Stocks はグループの所属銘柄を返します。
func (h *GroupHandler) Stocks(c *gin.Context) {
	var uri dto.GroupURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, err)
		return
	}
	codes, err := h.uc.Stocks(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.GroupStocksResponse{GroupID: uri.ID, Stocks: codes})
}

// GroupsByStock はティッカーの所属グループを返します。
//
// エンドポイント例:
// GET /api/stocks/2330/groups
func (h *GroupHandler) GroupsByStock(c *gin.Context) {
	var uri dto.TickerURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, err)
		return
	}
	refs, err := h.uc.GroupsByStock(c.Request.Context(), uri.Ticker)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StockGroupsResponse{StockCode: uri.Ticker, Groups: refs})
}

// StocksWithGroups は所属のある全銘柄とグループ名を返します。
//
// エンドポイント例:
// GET /api/stocks/groups
func (h *GroupHandler) StocksWithGroups(c *gin.Context) {
	rows, err := h.uc.StocksWithGroups(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
