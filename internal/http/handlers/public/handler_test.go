package public

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dujiao-next/storefront/internal/cache"
	"github.com/dujiao-next/storefront/internal/constants"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/payment/razorpay"
	"github.com/dujiao-next/storefront/internal/provider"
	"github.com/dujiao-next/storefront/internal/repository"
	"github.com/dujiao-next/storefront/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const handlerWebhookSecret = "handler_webhook_secret"

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

func setupPublicHandlerTest(t *testing.T) (*Handler, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:public_handler_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.ProductSize{},
		&models.ProductReview{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Wishlist{},
	))

	store := cache.NewMemoryStore()
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	gateway := razorpay.NewClient(razorpay.Config{
		KeyID:         "rzp_test",
		KeySecret:     "secret",
		WebhookSecret: handlerWebhookSecret,
	})

	h := &Handler{Container: &provider.Container{
		Store:           store,
		CartService:     service.NewCartService(repository.NewCartRepository(db), productRepo, store, time.Minute),
		PaymentService:  service.NewPaymentService(orderRepo, gateway, nil, store),
		WishlistService: service.NewWishlistService(repository.NewWishlistRepository(db), productRepo),
	}}
	return h, db
}

func createHandlerProduct(t *testing.T, db *gorm.DB, name string, sizes ...models.ProductSize) *models.Product {
	t.Helper()
	product := &models.Product{Name: name, Category: "oils", IsActive: true, Sizes: sizes}
	require.NoError(t, repository.NewProductRepository(db).Create(product))
	return product
}

func performJSON(t *testing.T, handler gin.HandlerFunc, method, path string, body interface{}, userID uint) envelope {
	t.Helper()
	var payload []byte
	switch v := body.(type) {
	case nil:
	case []byte:
		payload = v
	default:
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		payload = raw
	}
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, path, bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		c.Set("user_id", userID)
	}
	handler(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestAddToCartRequiresSize(t *testing.T) {
	h, db := setupPublicHandlerTest(t)
	product := createHandlerProduct(t, db, "Coconut Oil",
		models.ProductSize{Size: "250ml", Price: models.NewMoneyFromDecimal(decimal.NewFromInt(350)), InStock: true},
	)

	resp := performJSON(t, h.AddToCart, http.MethodPost, "/api/v1/cart/add", gin.H{"product_id": product.ID}, 1)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "Size is required for Coconut Oil", resp.Msg)
}

func TestAddToCartAccumulatesTotal(t *testing.T) {
	h, db := setupPublicHandlerTest(t)
	product := createHandlerProduct(t, db, "Coconut Oil",
		models.ProductSize{Size: "250ml", Price: models.NewMoneyFromDecimal(decimal.NewFromInt(350)), InStock: true},
	)
	body := gin.H{"product_id": product.ID, "size": "250ml"}

	performJSON(t, h.AddToCart, http.MethodPost, "/api/v1/cart/add", body, 1)
	resp := performJSON(t, h.AddToCart, http.MethodPost, "/api/v1/cart/add", body, 1)
	require.Equal(t, 0, resp.StatusCode)

	var cart models.Cart
	require.NoError(t, json.Unmarshal(resp.Data, &cart))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, "700.00", cart.TotalAmount.String())
}

func TestCartRequiresUser(t *testing.T) {
	h, _ := setupPublicHandlerTest(t)

	resp := performJSON(t, h.GetCart, http.MethodGet, "/api/v1/cart", nil, 0)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestWishlistDuplicateIsConflict(t *testing.T) {
	h, db := setupPublicHandlerTest(t)
	product := createHandlerProduct(t, db, "Rose Soap",
		models.ProductSize{Size: "100g", Price: models.NewMoneyFromDecimal(decimal.NewFromInt(90)), InStock: true},
	)
	body := gin.H{"product_id": product.ID}

	resp := performJSON(t, h.AddToWishlist, http.MethodPost, "/api/v1/wishlist", body, 3)
	require.Equal(t, 0, resp.StatusCode)
	resp = performJSON(t, h.AddToWishlist, http.MethodPost, "/api/v1/wishlist", body, 3)
	assert.Equal(t, 409, resp.StatusCode)
}

func TestRazorpayWebhookRejectsBadSignature(t *testing.T) {
	h, _ := setupPublicHandlerTest(t)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/razorpay", bytes.NewReader([]byte(`{"event":"payment.captured"}`)))
	c.Request.Header.Set(constants.RazorpaySignatureHeader, "deadbeef")
	h.RazorpayWebhook(c)

	var resp envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 400, resp.StatusCode)
}

func TestRazorpayWebhookMarksOrderPaid(t *testing.T) {
	h, db := setupPublicHandlerTest(t)
	order := &models.Order{
		ID:              100001,
		UserID:          7,
		TotalPrice:      models.NewMoneyFromDecimal(decimal.NewFromInt(500)),
		PaymentMethod:   constants.PaymentMethodRazorpay,
		PaymentStatus:   constants.PaymentStatusPending,
		OrderStatus:     constants.OrderStatusProcessing,
		RazorpayOrderID: "order_HK1",
	}
	require.NoError(t, db.Create(order).Error)

	body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1","order_id":"order_HK1","amount":50000,"currency":"INR","status":"captured"}}}}`)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/razorpay", bytes.NewReader(body))
	c.Request.Header.Set(constants.RazorpaySignatureHeader, razorpay.ComputeSignature(handlerWebhookSecret, body))
	h.RazorpayWebhook(c)

	var resp envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 0, resp.StatusCode)

	var stored models.Order
	require.NoError(t, db.First(&stored, order.ID).Error)
	assert.Equal(t, constants.PaymentStatusPaid, stored.PaymentStatus)
	assert.Equal(t, "pay_1", stored.RazorpayPaymentID)
}
