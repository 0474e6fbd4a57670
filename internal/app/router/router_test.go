package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Yili-code/FinMind-Lab/internal/app/di"
	"github.com/Yili-code/FinMind-Lab/internal/platform/cache"
	"github.com/Yili-code/FinMind-Lab/internal/platform/config"
	"github.com/Yili-code/FinMind-Lab/internal/platform/externalapi/yahoo"
	jwtmw "github.com/Yili-code/FinMind-Lab/internal/platform/jwt"
	"github.com/Yili-code/FinMind-Lab/internal/platform/quota"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(di.Models()...))
	return db
}

// newContainer は上流APIを 503 を返すテストサーバーに向けたコンテナを組み立てます。
func newContainer(t *testing.T, db *gorm.DB, c cache.Cache) *di.Container {
	t.Helper()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(upstream.Close)

	cfg := &config.Config{
		Yahoo: yahoo.Config{BaseURL: upstream.URL, Timeout: time.Second},
		Cache: config.CacheConfig{TTL: config.TTL{
			StockInfo:   time.Minute,
			DailyTrade:  time.Minute,
			Intraday:    time.Minute,
			MarketIndex: time.Minute,
			Financial:   time.Minute,
		}},
	}
	return di.Wire(&di.Container{
		DB:    db,
		Cache: c,
		Quota: quota.NewTracker(quota.DefaultLimits, 100),
	}, cfg)
}

func do(r *gin.Engine, method, target, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_Health(t *testing.T) {
	r := NewRouter(Options{}, newContainer(t, setupTestDB(t), cache.NewMemory()))

	w := do(r, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, true, got["database"])
	assert.Equal(t, "memory", got["cache"])
}

func TestRouter_WithoutDatabase(t *testing.T) {
	r := NewRouter(Options{}, newContainer(t, nil, nil))

	tests := []struct {
		method string
		target string
		want   int
	}{
		{http.MethodGet, "/api/stock-groups", http.StatusServiceUnavailable},
		{http.MethodPost, "/api/stock-groups", http.StatusServiceUnavailable},
		{http.MethodGet, "/api/stocks/2330/bom/tree", http.StatusServiceUnavailable},
		{http.MethodGet, "/api/stocks/groups", http.StatusServiceUnavailable},
		{http.MethodGet, "/api/stock/basics", http.StatusServiceUnavailable},
		{http.MethodGet, "/api/stats/cache", http.StatusServiceUnavailable},
		{http.MethodGet, "/api/stats/quota", http.StatusOK},
	}
	for _, tt := range tests {
		w := do(r, tt.method, tt.target, "", "")
		assert.Equal(t, tt.want, w.Code, "%s %s", tt.method, tt.target)
	}

	w := do(r, http.MethodGet, "/healthz", "", "")
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, false, got["database"])
	assert.Equal(t, "disabled", got["cache"])
}

func TestRouter_WriteProtection(t *testing.T) {
	const secret = "test-secret"
	r := NewRouter(Options{JWTSecret: secret}, newContainer(t, setupTestDB(t), cache.NewMemory()))
	token, err := jwtmw.NewGenerator(secret, time.Hour).GenerateToken("ops")
	require.NoError(t, err)

	body := `{"groupName":"半導體"}`

	w := do(r, http.MethodPost, "/api/stock-groups", body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPost, "/api/stock-groups", body, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPost, "/api/stock-groups", body, token)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// 読み取り系はトークン不要
	w = do(r, http.MethodGet, "/api/stock-groups", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodDelete, "/api/stats/cache", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_UpstreamFailure(t *testing.T) {
	r := NewRouter(Options{}, newContainer(t, setupTestDB(t), cache.NewMemory()))

	w := do(r, http.MethodGet, "/api/stock/info/2330", "", "")
	assert.Equal(t, http.StatusBadGateway, w.Code, w.Body.String())

	w = do(r, http.MethodGet, "/api/stock/info/2330;drop", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
