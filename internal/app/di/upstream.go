// Package di はアプリケーションのコンポーネントを組み立てるファクトリーを提供します。
package di

import (
	"github.com/Yili-code/FinMind-Lab/internal/platform/externalapi/twse"
	"github.com/Yili-code/FinMind-Lab/internal/platform/externalapi/yahoo"
	infrahttp "github.com/Yili-code/FinMind-Lab/internal/platform/http"
)

// NewYahoo はHTTPクライアントを設定済みの Yahoo Finance クライアントを生成します。
func NewYahoo(cfg yahoo.Config) *yahoo.Client {
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout, "")
	return yahoo.NewClient(cfg, httpClient)
}

// NewTWSE はHTTPクライアントを設定済みの TWSE クライアントを生成します。
func NewTWSE(cfg twse.Config) *twse.Client {
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout, "")
	return twse.NewClient(cfg, httpClient)
}
