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

	"github.com/Yili-code/FinMind-Lab/internal/feature/financial/domain/entity"
	"github.com/Yili-code/FinMind-Lab/internal/feature/financial/transport/handler"
	"github.com/Yili-code/FinMind-Lab/internal/platform/http/validate"
	"github.com/Yili-code/FinMind-Lab/internal/shared/apperr"
	"github.com/Yili-code/FinMind-Lab/internal/shared/tiered"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validate.Register()
	os.Exit(m.Run())
}

// mockFinancialUsecase は FinancialUsecase のモック実装です。
type mockFinancialUsecase struct {
	GetStatementsFunc func(ctx context.Context, ticker string) (*entity.Statements, tiered.Source, error)
	lastIncome        *entity.IncomeStatement
	lastBalance       *entity.BalanceSheet
	lastCashFlow      *entity.CashFlow
}

func (m *mockFinancialUsecase) GetStatements(ctx context.Context, ticker string) (*entity.Statements, tiered.Source, error) {
	return m.GetStatementsFunc(ctx, ticker)
}

func (m *mockFinancialUsecase) UpsertIncome(ctx context.Context, ticker string, s entity.IncomeStatement) (*entity.IncomeStatement, error) {
	s.StockCode = ticker
	m.lastIncome = &s
	return &s, nil
}

func (m *mockFinancialUsecase) UpsertBalance(ctx context.Context, ticker string, s entity.BalanceSheet) (*entity.BalanceSheet, error) {
	s.StockCode = ticker
	m.lastBalance = &s
	return &s, nil
}

func (m *mockFinancialUsecase) UpsertCashFlow(ctx context.Context, ticker string, s entity.CashFlow) (*entity.CashFlow, error) {
	if s.Period == "bad" {
		return nil, fmt.Errorf("%w: period", apperr.ErrValidation)
	}
	s.StockCode = ticker
	m.lastCashFlow = &s
	return &s, nil
}

func newRouter(uc handler.FinancialUsecase) *gin.Engine {
	h := handler.NewFinancialHandler(uc)
	r := gin.New()
	r.GET("/api/stock/financial/:ticker", h.GetStatements)
	r.PUT("/api/stock/financial/:ticker/:statement", h.PutStatement)
	return r
}

func do(r *gin.Engine, method, url, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestFinancialHandler_GetStatements(t *testing.T) {
	uc := &mockFinancialUsecase{GetStatementsFunc: func(ctx context.Context, ticker string) (*entity.Statements, tiered.Source, error) {
		if ticker == "9999" {
			return nil, "", apperr.Diagnose(apperr.ErrNoData, "Unable to retrieve financial statements for 9999.")
		}
		return &entity.Statements{Income: &entity.IncomeStatement{StockCode: ticker, Period: "2025Q2"}}, tiered.SourceDatabase, nil
	}}
	r := newRouter(uc)

	w := do(r, http.MethodGet, "/api/stock/financial/2330", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"stockCode":"2330"`)
	assert.Contains(t, w.Body.String(), `"incomeStatement":{`)
	assert.Contains(t, w.Body.String(), `"balanceSheet":null`)
	assert.Contains(t, w.Body.String(), `"source":"database"`)

	w = do(r, http.MethodGet, "/api/stock/financial/9999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Unable to retrieve financial statements")
}

func TestFinancialHandler_PutStatement(t *testing.T) {
	uc := &mockFinancialUsecase{}
	r := newRouter(uc)

	w := do(r, http.MethodPut, "/api/stock/financial/2330/income", `{"period":"2025Q2","netIncome":42}`)
	assert.Equal(t, http.StatusOK, w.Code)
	if assert.NotNil(t, uc.lastIncome) {
		assert.Equal(t, 42.0, uc.lastIncome.NetIncome)
		assert.Equal(t, "2330", uc.lastIncome.StockCode)
	}

	w = do(r, http.MethodPut, "/api/stock/financial/2330/balance", `{"period":"2025Q2","totalAssets":10}`)
	assert.Equal(t, http.StatusOK, w.Code)
	if assert.NotNil(t, uc.lastBalance) {
		assert.Equal(t, 10.0, uc.lastBalance.TotalAssets)
	}

	w = do(r, http.MethodPut, "/api/stock/financial/2330/cashflow", `{"period":"2025Q2","netCashFlow":-3}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"netCashFlow":-3`)
}

func TestFinancialHandler_PutStatement_BadRequest(t *testing.T) {
	r := newRouter(&mockFinancialUsecase{})

	tests := []struct {
		name string
		url  string
		body string
	}{
		{name: "unknown statement", url: "/api/stock/financial/2330/dividend", body: `{"period":"2025Q2"}`},
		{name: "missing period", url: "/api/stock/financial/2330/income", body: `{"netIncome":1}`},
		{name: "malformed json", url: "/api/stock/financial/2330/balance", body: `{`},
		{name: "rejected by usecase", url: "/api/stock/financial/2330/cashflow", body: `{"period":"bad"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPut, tt.url, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
