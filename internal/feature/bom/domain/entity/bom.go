// Package entity は銘柄間の構成関係（BOM）のドメインモデルを定義します。
package entity

import "time"

// Edge は親銘柄が子銘柄を構成要素として持つ関係です。(Parent, Child) で一意です。
type Edge struct {
	ID              string    `json:"id"`
	ParentStockCode string    `json:"parentStockCode"`
	ParentStockName *string   `json:"parentStockName,omitempty"`
	ChildStockCode  string    `json:"childStockCode"`
	ChildStockName  *string   `json:"childStockName,omitempty"`
	Quantity        float64   `json:"quantity"`
	Weight          *float64  `json:"weight"`
	Unit            *string   `json:"unit"`
	Notes           *string   `json:"notes"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// EdgePatch は更新する項目です。nil の項目は変更しません。
type EdgePatch struct {
	Quantity *float64
	Weight   *float64
	Unit     *string
	Notes    *string
}

// Empty は更新する項目がない場合に true を返します。
func (p EdgePatch) Empty() bool {
	return p.Quantity == nil && p.Weight == nil && p.Unit == nil && p.Notes == nil
}

// TreeNode は展開済みの子銘柄です。Cycle は経路上の祖先と同じ銘柄で、展開を打ち切ったことを表します。
type TreeNode struct {
	Edge
	Depth    int        `json:"depth"`
	Cycle    bool       `json:"cycle,omitempty"`
	Children []TreeNode `json:"children"`
}

// Tree はルート銘柄から展開した構成ツリーです。
type Tree struct {
	StockCode string     `json:"stockCode"`
	StockName string     `json:"stockName"`
	Depth     int        `json:"depth"`
	MaxDepth  int        `json:"maxDepth"`
	Children  []TreeNode `json:"children"`
}
