package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newJSONContext(body string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/signin", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.RemoteAddr = "10.0.0.7:5678"
	return c
}

func TestKeyByIPAndJSONFieldRestoresBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := newJSONContext(`{"identifier":" Buyer@Shop.IN ","password":"x"}`)

	key := KeyByIPAndJSONField("identifier")(c)
	if key != "buyer@shop.in|10.0.0.7" {
		t.Fatalf("unexpected key %q", key)
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		t.Fatalf("read body failed: %v", err)
	}
	if !strings.Contains(string(body), "Buyer@Shop.IN") {
		t.Fatalf("body not restored: %s", body)
	}
}

func TestKeyByIPAndJSONFieldFallsBackToIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for _, body := range []string{``, `not-json`, `{"identifier":42}`, `{"other":"x"}`} {
		if key := KeyByIPAndJSONField("identifier")(newJSONContext(body)); key != "10.0.0.7" {
			t.Fatalf("body %q: expected ip fallback, got %q", body, key)
		}
	}
}

func TestRateLimitRuleHelpers(t *testing.T) {
	rule := RateLimitRule{Prefix: "sf:rl:signin", WindowSeconds: 300, MaxRequests: 5}
	if got := rule.key("buyer|1.1.1.1"); got != "sf:rl:signin:buyer|1.1.1.1" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := (RateLimitRule{}).key("ip"); got != "ip" {
		t.Fatalf("empty prefix should keep subject, got %q", got)
	}
	if got := rule.retryAfter(42); got != 42 {
		t.Fatalf("retry after want 42 got %d", got)
	}
	if got := rule.retryAfter(-1); got != 300 {
		t.Fatalf("missing ttl should fall back to window, got %d", got)
	}
	if got := (RateLimitRule{}).retryAfter(0); got != 1 {
		t.Fatalf("retry after floor want 1 got %d", got)
	}
	if rule.messageKey() != "error.rate_limited" {
		t.Fatalf("unexpected default message key %q", rule.messageKey())
	}
	if (RateLimitRule{WindowSeconds: 60}).enabled() {
		t.Fatalf("rule without max requests should be disabled")
	}
}

func TestAbortRateLimitedSetsRetryAfter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/signin", nil)

	abortRateLimited(c, RateLimitRule{WindowSeconds: 60, MaxRequests: 1}, 30)

	if !c.IsAborted() {
		t.Fatalf("expected request aborted")
	}
	if w.Header().Get("Retry-After") != "30" {
		t.Fatalf("unexpected Retry-After %q", w.Header().Get("Retry-After"))
	}
	if !strings.Contains(w.Body.String(), `"status_code":429`) || !strings.Contains(w.Body.String(), "30") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestRateLimitMiddlewareWithoutClient(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitRule{WindowSeconds: 60, MaxRequests: 1}, KeyByIP))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok":true`) {
			t.Fatalf("request %d should pass without redis: %d %s", i, w.Code, w.Body.String())
		}
	}
}
