package dto

import "github.com/Yili-code/FinMind-Lab/internal/feature/bom/domain/entity"

// TickerURI はパスパラメータ :ticker のバインド先です。
type TickerURI struct {
	Ticker string `uri:"ticker" binding:"required,ticker"`
}

// EdgeURI は PUT/DELETE /api/stocks/:ticker/bom/:child のパスパラメータです。
type EdgeURI struct {
	Ticker string `uri:"ticker" binding:"required,ticker"`
	Child  string `uri:"child" binding:"required,ticker"`
}

// TreeQuery は GET /api/stocks/:ticker/bom/tree のクエリです。
type TreeQuery struct {
	MaxDepth *int `form:"max_depth" binding:"omitempty,min=1,max=10"`
}

// AddEdgeRequest は子銘柄追加のリクエストです。quantity を省略した場合は 1 です。
type AddEdgeRequest struct {
	ChildStockCode string   `json:"childStockCode" binding:"required,ticker"`
	Quantity       float64  `json:"quantity" binding:"omitempty,gt=0"`
	Weight         *float64 `json:"weight"`
	Unit           *string  `json:"unit" binding:"omitempty,max=32"`
	Notes          *string  `json:"notes"`
}

func (r AddEdgeRequest) ToEntity(parent string) entity.Edge {
	return entity.Edge{
		ParentStockCode: parent,
		ChildStockCode:  r.ChildStockCode,
		Quantity:        r.Quantity,
		Weight:          r.Weight,
		Unit:            r.Unit,
		Notes:           r.Notes,
	}
}

// UpdateEdgeRequest は子銘柄更新のリクエストです。省略した項目は変更しません。
type UpdateEdgeRequest struct {
	Quantity *float64 `json:"quantity" binding:"omitempty,gt=0"`
	Weight   *float64 `json:"weight"`
	Unit     *string  `json:"unit" binding:"omitempty,max=32"`
	Notes    *string  `json:"notes"`
}

func (r UpdateEdgeRequest) ToPatch() entity.EdgePatch {
	return entity.EdgePatch{Quantity: r.Quantity, Weight: r.Weight, Unit: r.Unit, Notes: r.Notes}
}
