package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Yili-code/FinMind-Lab/internal/shared/apperr"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func serve(h gin.HandlerFunc) *httptest.ResponseRecorder {
	r := gin.New()
	r.GET("/x", h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	return w
}

// TestError_Mapping はエラー種別ごとのステータスコードとボディを検証します。
func TestError_Mapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "validation",
			err:      fmt.Errorf("%w: quantity must be positive", apperr.ErrValidation),
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"invalid request","code":"VALIDATION_ERROR","detail":"invalid request: quantity must be positive"}`,
		},
		{
			name:     "diagnostic no data",
			err:      apperr.Diagnose(apperr.ErrNoData, "ticker 9999 could not be resolved"),
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"no data available","code":"STOCK_NOT_FOUND","detail":"ticker 9999 could not be resolved"}`,
		},
		{
			name:     "conflict",
			err:      fmt.Errorf("%w: group name exists", apperr.ErrConflict),
			wantCode: http.StatusConflict,
			wantBody: `{"error":"conflict","code":"CONFLICT","detail":"conflict: group name exists"}`,
		},
		{
			name:     "upstream details are hidden",
			err:      fmt.Errorf("%w: stock_info for 2330: dial tcp 10.0.0.1:443", apperr.ErrUpstream),
			wantCode: http.StatusBadGateway,
			wantBody: `{"error":"upstream provider error","code":"UPSTREAM_ERROR","detail":"market data provider is unavailable, retry later"}`,
		},
		{
			name:     "unknown error is sanitized",
			err:      errors.New("pq: password authentication failed for user postgres"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"internal server error","code":"INTERNAL_ERROR"}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := serve(func(c *gin.Context) { Error(c, tt.err) })
			assert.Equal(t, tt.wantCode, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestError_RateLimitedSetsRetryAfter(t *testing.T) {
	t.Parallel()

	w := serve(func(c *gin.Context) {
		Error(c, apperr.Diagnose(apperr.ErrRateLimited, "retry later"))
	})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, RetryAfterSeconds, w.Header().Get("Retry-After"))
}

func TestUnavailable(t *testing.T) {
	t.Parallel()

	w := serve(Unavailable("database"))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"error":"subsystem unavailable","code":"SERVICE_UNAVAILABLE","detail":"database is not available"}`, w.Body.String())
}
