package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dujiao-next/storefront/internal/cache"
	"github.com/dujiao-next/storefront/internal/repository"
	"github.com/dujiao-next/storefront/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	generated := w2.Header().Get(requestIDHeader)
	if generated == "" {
		t.Fatalf("generated request id should not be empty")
	}
	if resp := strings.TrimSpace(generated); resp == "" {
		t.Fatalf("generated request id should not be blank")
	}
}

func TestJWTAuthMiddlewareMissingSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(JWTAuthMiddleware("", nil, nil))
	r.GET("/admin/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("status_code want 401 got %d", resp.StatusCode)
	}
}

const testUserSecret = "user-secret"

func signUserToken(t *testing.T, userID uint, version uint64) string {
	t.Helper()
	claims := service.UserJWTClaims{
		UserID:       userID,
		Email:        "asha@example.com",
		TokenVersion: version,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testUserSecret))
	if err != nil {
		t.Fatalf("sign token failed: %v", err)
	}
	return token
}

func serveUserAuth(t *testing.T, store cache.Store, authHeader string) (int, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(UserJWTAuthMiddleware(testUserSecret, repository.NewUserRepository(nil), store))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status_code": 0, "user_id": c.GetUint("user_id")})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	r.ServeHTTP(w, req)

	var resp struct {
		StatusCode int    `json:"status_code"`
		Msg        string `json:"msg"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	return resp.StatusCode, resp.Msg
}

func TestUserJWTAuthMiddlewareAcceptsCurrentVersion(t *testing.T) {
	store := cache.NewMemoryStore()
	if err := cache.SetUserAuthState(context.Background(), store, &cache.UserAuthState{UserID: 5, Active: true, TokenVersion: 2}); err != nil {
		t.Fatalf("seed auth state failed: %v", err)
	}

	code, _ := serveUserAuth(t, store, "Bearer "+signUserToken(t, 5, 2))
	if code != 0 {
		t.Fatalf("status_code want 0 got %d", code)
	}
}

func TestUserJWTAuthMiddlewareRejectsRevokedToken(t *testing.T) {
	store := cache.NewMemoryStore()
	if err := cache.SetUserAuthState(context.Background(), store, &cache.UserAuthState{UserID: 5, Active: true, TokenVersion: 3}); err != nil {
		t.Fatalf("seed auth state failed: %v", err)
	}

	code, msg := serveUserAuth(t, store, "Bearer "+signUserToken(t, 5, 2))
	if code != 401 {
		t.Fatalf("status_code want 401 got %d", code)
	}
	if msg != "Session has been revoked, please sign in again" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestUserJWTAuthMiddlewareRejectsDisabledUser(t *testing.T) {
	store := cache.NewMemoryStore()
	if err := cache.SetUserAuthState(context.Background(), store, &cache.UserAuthState{UserID: 5, Active: false}); err != nil {
		t.Fatalf("seed auth state failed: %v", err)
	}

	code, _ := serveUserAuth(t, store, "Bearer "+signUserToken(t, 5, 0))
	if code != 401 {
		t.Fatalf("status_code want 401 got %d", code)
	}
}

func TestUserJWTAuthMiddlewareHeaderChecks(t *testing.T) {
	store := cache.NewMemoryStore()

	if code, _ := serveUserAuth(t, store, ""); code != 401 {
		t.Fatalf("missing header want 401 got %d", code)
	}
	if code, _ := serveUserAuth(t, store, "Token abc"); code != 401 {
		t.Fatalf("non bearer header want 401 got %d", code)
	}
	if code, _ := serveUserAuth(t, store, "Bearer not-a-jwt"); code != 401 {
		t.Fatalf("malformed token want 401 got %d", code)
	}
}

func TestAdminRBACMiddlewareSuperBypass(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("admin_id", uint(1))
		c.Set(adminIsSuperContextKey, c.GetHeader("X-Super") == "1")
		c.Next()
	})
	r.Use(AdminRBACMiddleware(nil))
	r.GET("/api/v1/admin/orders", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status_code": 0})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders", nil)
	req.Header.Set("X-Super", "1")
	r.ServeHTTP(w, req)
	if !strings.Contains(w.Body.String(), `"status_code":0`) {
		t.Fatalf("super admin should pass, got %s", w.Body.String())
	}

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders", nil))
	if !strings.Contains(w2.Body.String(), `"status_code":401`) {
		t.Fatalf("non super admin without authz should be rejected, got %s", w2.Body.String())
	}
}
