package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dujiao-next/storefront/internal/cache"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/payment/razorpay"
	"github.com/dujiao-next/storefront/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	testKeySecret     = "test_key_secret"
	testWebhookSecret = "test_webhook_secret"
)

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Admin{},
		&models.User{},
		&models.Product{},
		&models.ProductSize{},
		&models.ProductReview{},
		&models.Cart{},
		&models.CartItem{},
		&models.Counter{},
		&models.Order{},
		&models.OrderItem{},
		&models.Wallet{},
		&models.WalletTransaction{},
		&models.Review{},
		&models.ReviewLike{},
		&models.Wishlist{},
		&models.Blog{},
		&models.ContactMessage{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return db
}

func money(v string) models.Money {
	return models.NewMoneyFromDecimal(decimal.RequireFromString(v))
}

var phoneSeq int64

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		FirstName:    "Asha",
		LastName:     "Rao",
		Email:        email,
		Phone:        fmt.Sprintf("9%09d", atomic.AddInt64(&phoneSeq, 1)),
		PasswordHash: "x",
		IsActive:     true,
		Address: models.Address{
			Street:  "12 MG Road",
			City:    "Pune",
			State:   "MH",
			Zipcode: "411001",
			Country: "India",
		},
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func createSizedProduct(t *testing.T, db *gorm.DB, name string, sizes ...models.ProductSize) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:     name,
		Category: "oils",
		IsActive: true,
		Sizes:    sizes,
	}
	if err := repository.NewProductRepository(db).Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func createFlatProduct(t *testing.T, db *gorm.DB, name, price string) *models.Product {
	t.Helper()
	p := money(price)
	product := &models.Product{
		Name:     name,
		Category: "soaps",
		IsActive: true,
		Price:    &p,
	}
	if err := repository.NewProductRepository(db).Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func sizeOption(label, price string, inStock bool) models.ProductSize {
	return models.ProductSize{Size: label, Price: money(price), InStock: inStock, Weight: "0.5"}
}

type fakePaymentGateway struct {
	mu        sync.Mutex
	createErr error
	created   []int64
	refunds   []int64
}

func (f *fakePaymentGateway) CreateOrder(_ context.Context, amount int64, currency, receipt string) (*razorpay.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, amount)
	return &razorpay.Order{
		ID:       fmt.Sprintf("order_test_%d", len(f.created)),
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Status:   "created",
	}, nil
}

func (f *fakePaymentGateway) VerifyPaymentSignature(orderID, paymentID, signature string) error {
	return razorpay.VerifyPaymentSignature(testKeySecret, orderID, paymentID, signature)
}

func (f *fakePaymentGateway) VerifyWebhookSignature(body []byte, signature string) error {
	return razorpay.VerifyWebhookSignature(testWebhookSecret, body, signature)
}

func (f *fakePaymentGateway) FetchPayments(_ context.Context, _, _ int) ([]razorpay.Payment, error) {
	return []razorpay.Payment{{ID: "pay_1", Status: "captured"}}, nil
}

func (f *fakePaymentGateway) FetchPayment(_ context.Context, paymentID string) (*razorpay.Payment, error) {
	return &razorpay.Payment{ID: paymentID, Status: "captured"}, nil
}

func (f *fakePaymentGateway) RefundPayment(_ context.Context, paymentID string, amount int64) (*razorpay.Refund, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refunds = append(f.refunds, amount)
	return &razorpay.Refund{ID: "rfnd_1", PaymentID: paymentID, Amount: amount, Status: "processed"}, nil
}

type storefrontFixture struct {
	db       *gorm.DB
	store    *cache.MemoryStore
	gateway  *fakePaymentGateway
	carts    *CartService
	orders   *OrderService
	payments *PaymentService
	wallets  *WalletService
}

func newStorefrontFixture(t *testing.T) *storefrontFixture {
	t.Helper()
	db := setupServiceDB(t)
	store := cache.NewMemoryStore()
	gateway := &fakePaymentGateway{}

	orderRepo := repository.NewOrderRepository(db)
	cartRepo := repository.NewCartRepository(db)
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)

	wallets := NewWalletService(repository.NewWalletRepository(db), store, time.Hour)
	shipping := NewShippingService(orderRepo, userRepo, nil)
	dispatcher := NewShipmentDispatcher(nil, shipping)

	return &storefrontFixture{
		db:      db,
		store:   store,
		gateway: gateway,
		carts:   NewCartService(cartRepo, productRepo, store, time.Hour),
		orders: NewOrderService(orderRepo, cartRepo, userRepo, repository.NewCounterRepository(db), wallets, gateway, dispatcher, store, OrderServiceOptions{
			DeliveryDays: 7,
			CounterStart: 100000,
			Currency:     "INR",
		}),
		payments: NewPaymentService(orderRepo, gateway, dispatcher, store),
		wallets:  wallets,
	}
}
