package jwtmw

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// TestMain はテスト実行前にGinをテストモードに設定します。
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

const testSecret = "test-secret"

func createTokenWithSecret(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return s
}

func run(auth, secret string) (*httptest.ResponseRecorder, *gin.Context) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	if auth != "" {
		c.Request.Header.Set("Authorization", auth)
	}
	AuthRequired(secret)(c)
	return w, c
}

// TestAuthRequired_MissingBearerToken はBearerトークンがない場合やプレフィックスが不正な場合に401が返されることを検証します。
func TestAuthRequired_MissingBearerToken(t *testing.T) {
	t.Parallel()

	for _, h := range []string{"", "Basic dXNlcjpwYXNz", "bearer token123", "Bearertoken123"} {
		w, c := run(h, testSecret)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%q: expected status %d, got %d", h, http.StatusUnauthorized, w.Code)
		}
		if !c.IsAborted() {
			t.Errorf("%q: expected request to be aborted", h)
		}
	}
}

// TestAuthRequired_MissingSecret はシークレット未設定の場合に500が返されることを検証します。
func TestAuthRequired_MissingSecret(t *testing.T) {
	t.Parallel()

	w, _ := run("Bearer sometoken", "")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
}

// TestAuthRequired_InvalidToken は不正なトークン（改ざん・期限切れ・exp 欠落・別アルゴリズム）で401が返されることを検証します。
func TestAuthRequired_InvalidToken(t *testing.T) {
	t.Parallel()

	now := time.Now()
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "x", "exp": now.Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to sign none token: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-jwt"},
		{"wrong secret", createTokenWithSecret(t, "other", jwt.MapClaims{"sub": "x", "exp": now.Add(time.Hour).Unix()})},
		{"expired", createTokenWithSecret(t, testSecret, jwt.MapClaims{"sub": "x", "exp": now.Add(-time.Hour).Unix()})},
		{"missing exp", createTokenWithSecret(t, testSecret, jwt.MapClaims{"sub": "x"})},
		{"alg none", none},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w, c := run("Bearer "+tt.token, testSecret)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
			}
			if !c.IsAborted() {
				t.Error("expected request to be aborted")
			}
		})
	}
}

// TestAuthRequired_ValidToken は有効なトークンで後続に進み、subject がコンテキストに入ることを検証します。
func TestAuthRequired_ValidToken(t *testing.T) {
	t.Parallel()

	tok, err := NewGenerator(testSecret, time.Hour).GenerateToken("ops")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, c := run("Bearer "+tok, testSecret)
	if c.IsAborted() {
		t.Fatal("expected request to pass")
	}
	if got := c.GetString(ContextSubject); got != "ops" {
		t.Errorf("expected subject %q, got %q", "ops", got)
	}
}
