// Package response はエラーを HTTP ステータスと JSON ボディへ変換します。
package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Yili-code/FinMind-Lab/internal/shared/apperr"
)

// ErrorResponse はエラー時の共通レスポンスです。
type ErrorResponse struct {
	Error  string `json:"error"`
	Code   string `json:"code"`
	Detail string `json:"detail,omitempty"`
}

// RetryAfterSeconds はレート制限時に返す Retry-After の秒数です。
const RetryAfterSeconds = "60"

type mapping struct {
	kind   error
	status int
	code   string
}

var mappings = []mapping{
	{apperr.ErrValidation, http.StatusBadRequest, "VALIDATION_ERROR"},
	{apperr.ErrNoData, http.StatusNotFound, "STOCK_NOT_FOUND"},
	{apperr.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{apperr.ErrConflict, http.StatusConflict, "CONFLICT"},
	{apperr.ErrRateLimited, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED"},
	{apperr.ErrUpstream, http.StatusBadGateway, "UPSTREAM_ERROR"},
	{apperr.ErrUnavailable, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
}

// Error は err を分類してレスポンスを書き込み、後続のハンドラーを中断します。
// 分類できないエラーは内容を返さずログにのみ残します。
func Error(c *gin.Context, err error) {
	for _, m := range mappings {
		if !errors.Is(err, m.kind) {
			continue
		}
		body := ErrorResponse{Error: m.kind.Error(), Code: m.code}
		var d *apperr.DiagnosticError
		switch {
		case errors.As(err, &d):
			body.Detail = d.Detail
		case m.kind == apperr.ErrUpstream:
			slog.Warn("upstream failure", "path", c.FullPath(), "error", err)
			body.Detail = "market data provider is unavailable, retry later"
		default:
			body.Detail = err.Error()
		}
		if m.status == http.StatusTooManyRequests {
			c.Header("Retry-After", RetryAfterSeconds)
		}
		c.AbortWithStatusJSON(m.status, body)
		return
	}

	slog.Error("unhandled error", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Error: "internal server error",
		Code:  "INTERNAL_ERROR",
	})
}

// BadRequest はバインド・バリデーションエラーを 400 で返します。
func BadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Error:  apperr.ErrValidation.Error(),
		Code:   "VALIDATION_ERROR",
		Detail: err.Error(),
	})
}

// Unavailable は無効化されたサブシステムに依存するルート用のハンドラーを返します。
func Unavailable(subsystem string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:  apperr.ErrUnavailable.Error(),
			Code:   "SERVICE_UNAVAILABLE",
			Detail: subsystem + " is not available",
		})
	}
}
