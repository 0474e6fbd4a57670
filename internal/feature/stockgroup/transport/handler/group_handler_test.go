package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Yili-code/FinMind-Lab/internal/feature/stockgroup/domain/entity"
	"github.com/Yili-code/FinMind-Lab/internal/feature/stockgroup/transport/handler"
	"github.com/Yili-code/FinMind-Lab/internal/platform/http/validate"
	"github.com/Yili-code/FinMind-Lab/internal/shared/apperr"
)

const groupID = "8f14e45f-ceea-4e67-a7c4-3a2b1c0d9e8f"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validate.Register()
	os.Exit(m.Run())
}

// mockGroupUsecase は GroupUsecase のモック実装です。
type mockGroupUsecase struct {
	handler.GroupUsecase
	CreateFunc           func(ctx context.Context, name string, description *string) (*entity.Group, error)
	GetFunc              func(ctx context.Context, id string) (*entity.Group, error)
	UpdateFunc           func(ctx context.Context, id string, name, description *string) (*entity.Group, error)
	DeleteFunc           func(ctx context.Context, id string) error
	AddStockFunc         func(ctx context.Context, groupID, stockCode string) error
	RemoveStockFunc      func(ctx context.Context, groupID, stockCode string) error
	StocksFunc           func(ctx context.Context, groupID string) ([]string, error)
	GroupsByStockFunc    func(ctx context.Context, stockCode string) ([]entity.GroupRef, error)
	StocksWithGroupsFunc func(ctx context.Context) ([]entity.StockGroups, error)
}

func (m *mockGroupUsecase) Create(ctx context.Context, name string, description *string) (*entity.Group, error) {
	return m.CreateFunc(ctx, name, description)
}

func (m *mockGroupUsecase) Get(ctx context.Context, id string) (*entity.Group, error) {
	return m.GetFunc(ctx, id)
}

func (m *mockGroupUsecase) Update(ctx context.Context, id string, name, description *string) (*entity.Group, error) {
	return m.UpdateFunc(ctx, id, name, description)
}

func (m *mockGroupUsecase) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

func (m *mockGroupUsecase) AddStock(ctx context.Context, groupID, stockCode string) error {
	return m.AddStockFunc(ctx, groupID, stockCode)
}

func (m *mockGroupUsecase) RemoveStock(ctx context.Context, groupID, stockCode string) error {
	return m.RemoveStockFunc(ctx, groupID, stockCode)
}

func (m *mockGroupUsecase) Stocks(ctx context.Context, groupID string) ([]string, error) {
	return m.StocksFunc(ctx, groupID)
}

func (m *mockGroupUsecase) GroupsByStock(ctx context.Context, stockCode string) ([]entity.GroupRef, error) {
	return m.GroupsByStockFunc(ctx, stockCode)
}

func (m *mockGroupUsecase) StocksWithGroups(ctx context.Context) ([]entity.StockGroups, error) {
	return m.StocksWithGroupsFunc(ctx)
}

func newRouter(uc handler.GroupUsecase) *gin.Engine {
	h := handler.NewGroupHandler(uc)
	r := gin.New()
	r.POST("/api/stock-groups", h.Create)
	r.GET("/api/stock-groups/:id", h.Get)
	r.PUT("/api/stock-groups/:id", h.Update)
	r.DELETE("/api/stock-groups/:id", h.Delete)
	r.POST("/api/stock-groups/:id/stocks", h.AddStock)
	r.GET("/api/stock-groups/:id/stocks", h.Stocks)
	r.DELETE("/api/stock-groups/:id/stocks/:ticker", h.RemoveStock)
	r.GET("/api/stocks/groups", h.StocksWithGroups)
	r.GET("/api/stocks/:ticker/groups", h.GroupsByStock)
	return r
}

func do(r *gin.Engine, method, url, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestGroupHandler_Create(t *testing.T) {
	uc := &mockGroupUsecase{CreateFunc: func(ctx context.Context, name string, description *string) (*entity.Group, error) {
		if name == "Dup" {
			return nil, fmt.Errorf("%w: group name %q already exists", apperr.ErrConflict, name)
		}
		return &entity.Group{ID: groupID, Name: name, Description: description}, nil
	}}
	r := newRouter(uc)

	w := do(r, http.MethodPost, "/api/stock-groups", `{"groupName":"Tech","description":"chips"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"groupName":"Tech"`)
	assert.Contains(t, w.Body.String(), `"stockCount":0`)

	w = do(r, http.MethodPost, "/api/stock-groups", `{"groupName":"Dup"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"CONFLICT"`)

	w = do(r, http.MethodPost, "/api/stock-groups", `{"description":"no name"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGroupHandler_GetUpdateDelete(t *testing.T) {
	uc := &mockGroupUsecase{
		GetFunc: func(ctx context.Context, id string) (*entity.Group, error) {
			return nil, fmt.Errorf("%w: stock group %s", apperr.ErrNotFound, id)
		},
		UpdateFunc: func(ctx context.Context, id string, name, description *string) (*entity.Group, error) {
			assert.Nil(t, name)
			return &entity.Group{ID: id, Name: "Tech", Description: description}, nil
		},
		DeleteFunc: func(ctx context.Context, id string) error { return nil },
	}
	r := newRouter(uc)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/stock-groups/"+groupID, "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/stock-groups/not-a-uuid", "").Code)

	w := do(r, http.MethodPut, "/api/stock-groups/"+groupID, `{"description":"updated"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"description":"updated"`)

	w = do(r, http.MethodDelete, "/api/stock-groups/"+groupID, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), groupID)
}

func TestGroupHandler_Membership(t *testing.T) {
	var added []string
	uc := &mockGroupUsecase{
		AddStockFunc: func(ctx context.Context, id, code string) error {
			added = append(added, code)
			return nil
		},
		RemoveStockFunc: func(ctx context.Context, id, code string) error {
			return fmt.Errorf("%w: %s is not in group", apperr.ErrNotFound, code)
		},
		StocksFunc: func(ctx context.Context, id string) ([]string, error) {
			return []string{"2330", "2454"}, nil
		},
	}
	r := newRouter(uc)

	w := do(r, http.MethodPost, "/api/stock-groups/"+groupID+"/stocks", `{"stockCode":"2330"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"2330"}, added)

	w = do(r, http.MethodPost, "/api/stock-groups/"+groupID+"/stocks", `{"stockCode":"bad code!"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/stock-groups/"+groupID+"/stocks", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"stocks":["2330","2454"]`)

	w = do(r, http.MethodDelete, "/api/stock-groups/"+groupID+"/stocks/2317", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGroupHandler_TickerViews(t *testing.T) {
	uc := &mockGroupUsecase{
		GroupsByStockFunc: func(ctx context.Context, code string) ([]entity.GroupRef, error) {
			return []entity.GroupRef{{ID: groupID, Name: "Tech"}}, nil
		},
		StocksWithGroupsFunc: func(ctx context.Context) ([]entity.StockGroups, error) {
			return []entity.StockGroups{{StockCode: "2330", GroupNames: []string{"Tech"}}}, nil
		},
	}
	r := newRouter(uc)

	w := do(r, http.MethodGet, "/api/stocks/2330/groups", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"stockCode":"2330"`)
	assert.Contains(t, w.Body.String(), `"groupName":"Tech"`)

	w = do(r, http.MethodGet, "/api/stocks/groups", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"groupNames":["Tech"]`)
}
