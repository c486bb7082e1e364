package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"zh-CN":                 LocaleZhCN,
		"zh":                    LocaleZhCN,
		"en-GB,en;q=0.8":        LocaleEnUS,
		"fr-FR":                 DefaultLocale,
		"zh-Hans;q=0.9,en;q=.1": LocaleZhCN,
		"!!!":                   DefaultLocale,
	}
	for raw, want := range cases {
		if got := Normalize(raw); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestResolveLocalePrefersQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/v1/products?lang=zh-CN", nil)
	c.Request.Header.Set("Accept-Language", "en-US")
	if got := ResolveLocale(c); got != LocaleZhCN {
		t.Fatalf("expected zh-CN, got %s", got)
	}
}

func TestTranslateFallback(t *testing.T) {
	if got := T(LocaleZhCN, "error.cart_fetch_failed"); got != "Failed to load cart" {
		t.Fatalf("expected english fallback, got %q", got)
	}
	if got := T(LocaleEnUS, "error.unknown_key"); got != "error.unknown_key" {
		t.Fatalf("expected key fallback, got %q", got)
	}
	if got := Sprintf(LocaleEnUS, "error.size_unavailable_named", "XL"); got != "Size XL is unavailable" {
		t.Fatalf("unexpected message %q", got)
	}
}
