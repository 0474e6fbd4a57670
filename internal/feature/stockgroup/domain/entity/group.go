// Package entity は銘柄グループのドメインモデルを定義します。
package entity

import "time"

// Group は利用者が作成する銘柄のまとまりです。Name は一意です。
type Group struct {
	ID          string    `json:"id"`
	Name        string    `json:"groupName"`
	Description *string   `json:"description"`
	StockCount  int       `json:"stockCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// GroupRef はティッカーから見た所属グループです。
type GroupRef struct {
	ID          string  `json:"id"`
	Name        string  `json:"groupName"`
	Description *string `json:"description"`
}

// StockGroups はティッカーと所属グループ名の対応です。
type StockGroups struct {
	StockCode  string   `json:"stockCode"`
	GroupNames []string `json:"groupNames"`
}
