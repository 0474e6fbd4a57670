package dto

import "github.com/Yili-code/FinMind-Lab/internal/feature/stockgroup/domain/entity"

// GroupURI はパスパラメータ :id のバインド先です。
type GroupURI struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// MemberURI は DELETE /api/stock-groups/:id/stocks/:ticker のパスパラメータです。
type MemberURI struct {
	ID     string `uri:"id" binding:"required,uuid"`
	Ticker string `uri:"ticker" binding:"required,ticker"`
}

// TickerURI はパスパラメータ :ticker のバインド先です。
type TickerURI struct {
	Ticker string `uri:"ticker" binding:"required,ticker"`
}

// CreateGroupRequest はグループ作成のリクエストです。
type CreateGroupRequest struct {
	GroupName   string  `json:"groupName" binding:"required"`
	Description *string `json:"description"`
}

// UpdateGroupRequest はグループ更新のリクエストです。省略した項目は変更しません。
type UpdateGroupRequest struct {
	GroupName   *string `json:"groupName"`
	Description *string `json:"description"`
}

// AddStockRequest は銘柄追加のリクエストです。
type AddStockRequest struct {
	StockCode string `json:"stockCode" binding:"required,ticker"`
}

// MembershipResponse は所属の追加・削除のレスポンスです。
type MembershipResponse struct {
	Message   string `json:"message"`
	GroupID   string `json:"groupId"`
	StockCode string `json:"stockCode"`
}

// DeleteGroupResponse はグループ削除のレスポンスです。
type DeleteGroupResponse struct {
	Message string `json:"message"`
	GroupID string `json:"groupId"`
}

// GroupStocksResponse はグループの所属銘柄一覧です。
type GroupStocksResponse struct {
	GroupID string   `json:"groupId"`
	Stocks  []string `json:"stocks"`
}

// StockGroupsResponse はティッカーの所属グループ一覧です。
type StockGroupsResponse struct {
	StockCode string            `json:"stockCode"`
	Groups    []entity.GroupRef `json:"groups"`
}
