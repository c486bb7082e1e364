package repository

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dujiao-next/storefront/internal/constants"
	"github.com/dujiao-next/storefront/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupRepositoryTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
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
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func money(v int64) models.Money {
	return models.NewMoneyFromDecimal(decimal.NewFromInt(v))
}

func createProduct(t *testing.T, db *gorm.DB, name string, rating float64, sizes ...models.ProductSize) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:     name,
		Category: "oils",
		Rating:   rating,
		IsActive: true,
		Sizes:    sizes,
	}
	if err := NewProductRepository(db).Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func TestCounterNextIsSequential(t *testing.T) {
	db := setupRepositoryTest(t)
	repo := NewCounterRepository(db)

	first, err := repo.Next(constants.OrderCounterName, 100000)
	if err != nil {
		t.Fatalf("next failed: %v", err)
	}
	second, err := repo.Next(constants.OrderCounterName, 100000)
	if err != nil {
		t.Fatalf("next failed: %v", err)
	}
	if first != 100000 || second != 100001 {
		t.Fatalf("unexpected sequence: %d %d", first, second)
	}
}

func TestCounterNextConcurrentDistinct(t *testing.T) {
	db := setupRepositoryTest(t)
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	repo := NewCounterRepository(db)

	const workers = 8
	var wg sync.WaitGroup
	results := make(chan int64, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seq, err := repo.Next("concurrent", 1)
			if err != nil {
				t.Errorf("next failed: %v", err)
				return
			}
			results <- seq
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]bool, workers)
	for seq := range results {
		if seen[seq] {
			t.Fatalf("duplicate sequence %d", seq)
		}
		seen[seq] = true
	}
	if len(seen) != workers {
		t.Fatalf("expected %d distinct ids, got %d", workers, len(seen))
	}
}

func TestCartSaveKeepsInsertionOrder(t *testing.T) {
	db := setupRepositoryTest(t)
	productA := createProduct(t, db, "A", 4, models.ProductSize{Size: "M", Price: money(500), InStock: true})
	productB := createProduct(t, db, "B", 3)

	repo := NewCartRepository(db)
	cart := &models.Cart{UserID: 9}
	if err := repo.Create(cart); err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	size := "M"
	cart.Items = []models.CartItem{
		{ProductID: productB.ID, Quantity: 1},
		{ProductID: productA.ID, Size: &size, Quantity: 2},
	}
	cart.TotalAmount = money(1300)
	if err := repo.Save(cart); err != nil {
		t.Fatalf("save cart failed: %v", err)
	}

	loaded, err := repo.GetByUser(9)
	if err != nil || loaded == nil {
		t.Fatalf("load cart failed: %v", err)
	}
	if len(loaded.Items) != 2 || loaded.Items[0].ProductID != productB.ID || loaded.Items[1].ProductID != productA.ID {
		t.Fatalf("unexpected item order: %+v", loaded.Items)
	}
	if loaded.Items[1].Product == nil || len(loaded.Items[1].Product.Sizes) != 1 {
		t.Fatalf("expected product sizes preloaded")
	}
	if !loaded.TotalAmount.Equal(decimal.NewFromInt(1300)) {
		t.Fatalf("unexpected total: %s", loaded.TotalAmount)
	}

	if err := repo.Clear(loaded.ID); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	cleared, _ := repo.GetByUser(9)
	if len(cleared.Items) != 0 || !cleared.TotalAmount.IsZero() {
		t.Fatalf("cart not cleared: %+v", cleared)
	}
}

func TestListRecommendationsExcludesAndSorts(t *testing.T) {
	db := setupRepositoryTest(t)
	inCart := createProduct(t, db, "in-cart", 5)
	low := createProduct(t, db, "low", 1)
	high := createProduct(t, db, "high", 4.5)
	hidden := createProduct(t, db, "hidden", 4.9)
	if err := db.Model(&models.Product{}).Where("id = ?", hidden.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	deleted := createProduct(t, db, "deleted", 4.8)
	if err := NewProductRepository(db).SoftDelete(deleted.ID); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}

	products, err := NewProductRepository(db).ListRecommendations([]uint{inCart.ID}, 4)
	if err != nil {
		t.Fatalf("recommendations failed: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].ID != high.ID || products[1].ID != low.ID {
		t.Fatalf("unexpected order: %d %d", products[0].ID, products[1].ID)
	}
}

func TestOrderMarkPaidIsIdempotent(t *testing.T) {
	db := setupRepositoryTest(t)
	repo := NewOrderRepository(db)
	order := &models.Order{
		ID:              100000,
		UserID:          1,
		TotalPrice:      money(100),
		PaymentMethod:   constants.PaymentMethodRazorpay,
		PaymentStatus:   constants.PaymentStatusPending,
		OrderStatus:     constants.OrderStatusProcessing,
		RazorpayOrderID: "order_abc",
	}
	if err := repo.Create(order, []models.OrderItem{{ProductID: 1, Name: "A", Quantity: 1, UnitPrice: money(100)}}); err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	changed, err := repo.MarkPaid(order.ID, "pay_1", time.Now())
	if err != nil || !changed {
		t.Fatalf("first mark paid: changed=%v err=%v", changed, err)
	}
	changed, err = repo.MarkPaid(order.ID, "pay_2", time.Now())
	if err != nil || changed {
		t.Fatalf("second mark paid should be a no-op: changed=%v err=%v", changed, err)
	}

	loaded, err := repo.GetByRazorpayOrderID("order_abc")
	if err != nil || loaded == nil {
		t.Fatalf("load by gateway id failed: %v", err)
	}
	if loaded.PaymentStatus != constants.PaymentStatusPaid || loaded.RazorpayPaymentID != "pay_1" {
		t.Fatalf("unexpected order state: %+v", loaded)
	}
	if len(loaded.Items) != 1 {
		t.Fatalf("expected items preloaded")
	}
}

func TestRefreshRatingStats(t *testing.T) {
	db := setupRepositoryTest(t)
	repo := NewProductRepository(db)
	product := createProduct(t, db, "rated", 0)
	for i, rating := range []int{5, 3} {
		if err := repo.CreateEmbeddedReview(&models.ProductReview{
			ProductID: product.ID,
			ReviewID:  uint(i + 1),
			UserID:    uint(i + 1),
			Rating:    rating,
		}); err != nil {
			t.Fatalf("create embedded review failed: %v", err)
		}
	}
	if err := repo.RefreshRatingStats(product.ID); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	loaded, _ := repo.GetByID(product.ID)
	if loaded.NumReviews != 2 || loaded.Rating != 4 {
		t.Fatalf("unexpected stats: rating=%v num=%d", loaded.Rating, loaded.NumReviews)
	}
}
