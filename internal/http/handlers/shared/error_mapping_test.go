package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/dujiao-next/storefront/internal/http/response"
	"github.com/dujiao-next/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	return body
}

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)
	return c, w
}

func TestRespondMappedErrorUsesRuleTable(t *testing.T) {
	c, w := newTestContext()
	err := fmt.Errorf("place: %w", service.ErrCartEmpty)
	RespondMappedError(c, err, ConcatRules(CatalogErrorRules, OrderErrorRules), response.CodeInternal, "error.order_create_failed")

	body := decodeEnvelope(t, w)
	if body.StatusCode != response.CodeBadRequest || body.Msg != "Your cart is empty" {
		t.Fatalf("unexpected envelope: %+v", body)
	}
}

func TestRespondMappedErrorNamesSize(t *testing.T) {
	c, w := newTestContext()
	err := &service.SizeError{Product: "Hair Oil", Size: "1L", Err: service.ErrSizeUnavailable}
	RespondMappedError(c, err, nil, response.CodeInternal, "error.internal_error")

	body := decodeEnvelope(t, w)
	if body.StatusCode != response.CodeBadRequest || body.Msg != "Size 1L is unavailable" {
		t.Fatalf("unexpected envelope: %+v", body)
	}

	c, w = newTestContext()
	RespondMappedError(c, &service.SizeError{Product: "Hair Oil", Err: service.ErrSizeRequired}, nil, response.CodeInternal, "error.internal_error")
	if body := decodeEnvelope(t, w); body.Msg != "Size is required for Hair Oil" {
		t.Fatalf("unexpected message: %q", body.Msg)
	}
}

func TestRespondMappedErrorFallback(t *testing.T) {
	c, w := newTestContext()
	RespondMappedError(c, errors.New("db down"), GenericErrorRules, response.CodeInternal, "error.order_fetch_failed")

	body := decodeEnvelope(t, w)
	if body.StatusCode != response.CodeInternal || body.Msg != "Failed to load orders" {
		t.Fatalf("unexpected envelope: %+v", body)
	}
}
