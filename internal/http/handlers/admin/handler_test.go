package admin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dujiao-next/storefront/internal/cache"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/provider"
	"github.com/dujiao-next/storefront/internal/repository"
	"github.com/dujiao-next/storefront/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

func setupAdminHandlerTest(t *testing.T) (*Handler, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:admin_handler_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Product{},
		&models.ProductSize{},
		&models.Wallet{},
		&models.WalletTransaction{},
	))

	store := cache.NewMemoryStore()
	h := &Handler{Container: &provider.Container{
		Store:          store,
		ProductService: service.NewProductService(repository.NewProductRepository(db)),
		WalletService:  service.NewWalletService(repository.NewWalletRepository(db), store, time.Minute),
	}}
	return h, db
}

func perform(t *testing.T, handler gin.HandlerFunc, method, path string, params gin.Params, body interface{}) envelope {
	t.Helper()
	var payload []byte
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = raw
	}
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(method, path, bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = params
	c.Set("admin_id", uint(1))
	handler(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCreateProductWithSizes(t *testing.T) {
	h, _ := setupAdminHandlerTest(t)

	resp := perform(t, h.CreateProduct, http.MethodPost, "/api/v1/admin/products", nil, gin.H{
		"name":     "Almond Oil",
		"category": "oils",
		"sizes": []gin.H{
			{"size": "100ml", "price": "250", "in_stock": true},
			{"size": "250ml", "price": "550"},
		},
	})
	require.Equal(t, 0, resp.StatusCode, resp.Msg)

	var product models.Product
	require.NoError(t, json.Unmarshal(resp.Data, &product))
	require.Len(t, product.Sizes, 2)
	assert.Equal(t, "100ml", product.Sizes[0].Size)
}

func TestCreateProductRejectsDuplicateSizes(t *testing.T) {
	h, _ := setupAdminHandlerTest(t)

	resp := perform(t, h.CreateProduct, http.MethodPost, "/api/v1/admin/products", nil, gin.H{
		"name": "Almond Oil",
		"sizes": []gin.H{
			{"size": "100ml", "price": "250"},
			{"size": "100ml", "price": "260"},
		},
	})
	assert.Equal(t, 400, resp.StatusCode)
}

func TestGetAdminProductInvalidID(t *testing.T) {
	h, _ := setupAdminHandlerTest(t)

	resp := perform(t, h.GetAdminProduct, http.MethodGet, "/api/v1/admin/products/abc", gin.Params{{Key: "id", Value: "abc"}}, nil)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestReconcileWalletNotFound(t *testing.T) {
	h, _ := setupAdminHandlerTest(t)

	resp := perform(t, h.ReconcileWallet, http.MethodGet, "/api/v1/admin/wallets/9/reconcile", gin.Params{{Key: "user_id", Value: "9"}}, nil)
	assert.Equal(t, 404, resp.StatusCode)
}
