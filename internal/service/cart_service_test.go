package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dujiao-next/storefront/internal/cache"
	"github.com/dujiao-next/storefront/internal/models"
)

func TestCartAddMergesSameLine(t *testing.T) {
	f := newStorefrontFixture(t)
	ctx := context.Background()
	user := createTestUser(t, f.db, "cart-add@example.com")
	product := createSizedProduct(t, f.db, "Almond Oil", sizeOption("100ml", "400", true), sizeOption("250ml", "900", true))

	if _, err := f.carts.Add(ctx, CartLineInput{UserID: user.ID, ProductID: product.ID, Size: strPtr("100ml")}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	cart, err := f.carts.Add(ctx, CartLineInput{UserID: user.ID, ProductID: product.ID, Size: strPtr("100ml")})
	if err != nil {
		t.Fatalf("add again failed: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 {
		t.Fatalf("expected one line with quantity 2, got %+v", cart.Items)
	}
	if cart.TotalAmount.String() != "800.00" {
		t.Fatalf("expected total 800.00, got %s", cart.TotalAmount.String())
	}

	cart, err = f.carts.Add(ctx, CartLineInput{UserID: user.ID, ProductID: product.ID, Size: strPtr("250ml")})
	if err != nil {
		t.Fatalf("add other size failed: %v", err)
	}
	if len(cart.Items) != 2 {
		t.Fatalf("expected two lines, got %d", len(cart.Items))
	}
	if cart.Items[1].SizeLabel() != "250ml" {
		t.Fatalf("expected insertion order kept, got %s", cart.Items[1].SizeLabel())
	}
	if cart.TotalAmount.String() != "1700.00" {
		t.Fatalf("expected total 1700.00, got %s", cart.TotalAmount.String())
	}
}

func TestCartAddRejectsMissingOrUnavailableSize(t *testing.T) {
	f := newStorefrontFixture(t)
	ctx := context.Background()
	user := createTestUser(t, f.db, "cart-size@example.com")
	product := createSizedProduct(t, f.db, "Rose Water", sizeOption("S", "100", true), sizeOption("L", "300", false))

	_, err := f.carts.Add(ctx, CartLineInput{UserID: user.ID, ProductID: product.ID})
	if !errors.Is(err, ErrSizeRequired) {
		t.Fatalf("expected ErrSizeRequired, got %v", err)
	}

	_, err = f.carts.Add(ctx, CartLineInput{UserID: user.ID, ProductID: product.ID, Size: strPtr("L")})
	if !errors.Is(err, ErrSizeUnavailable) {
		t.Fatalf("expected ErrSizeUnavailable, got %v", err)
	}
	var sizeErr *SizeError
	if !errors.As(err, &sizeErr) || sizeErr.Size != "L" {
		t.Fatalf("expected size error naming L, got %v", err)
	}

	_, err = f.carts.Add(ctx, CartLineInput{UserID: user.ID, ProductID: 9999})
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestCartFlatProductIgnoresSize(t *testing.T) {
	f := newStorefrontFixture(t)
	ctx := context.Background()
	user := createTestUser(t, f.db, "cart-flat@example.com")
	product := createFlatProduct(t, f.db, "Neem Soap", "300")

	cart, err := f.carts.Add(ctx, CartLineInput{UserID: user.ID, ProductID: product.ID, Size: strPtr("XL")})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if cart.Items[0].Size != nil {
		t.Fatalf("expected size to be dropped for flat product")
	}
	if cart.TotalAmount.String() != "300.00" {
		t.Fatalf("expected legacy price total, got %s", cart.TotalAmount.String())
	}
}

func TestCartFlatProductLineMatchesRepeatedSize(t *testing.T) {
	f := newStorefrontFixture(t)
	ctx := context.Background()
	user := createTestUser(t, f.db, "cart-flat-repeat@example.com")
	product := createFlatProduct(t, f.db, "Sandal Soap", "120")
	line := CartLineInput{UserID: user.ID, ProductID: product.ID, Size: strPtr("XL")}

	if _, err := f.carts.Add(ctx, line); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	cart, err := f.carts.Increment(ctx, line)
	if err != nil {
		t.Fatalf("increment failed: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 {
		t.Fatalf("expected single line with quantity 2, got %+v", cart.Items)
	}
	cart, err = f.carts.Decrement(ctx, line)
	if err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if cart.Items[0].Quantity != 1 || cart.TotalAmount.String() != "120.00" {
		t.Fatalf("unexpected cart after decrement: qty=%d total=%s", cart.Items[0].Quantity, cart.TotalAmount.String())
	}
	cart, err = f.carts.Remove(ctx, line)
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", cart.Items)
	}
}

func TestCartDecrementRemovesLastUnit(t *testing.T) {
	f := newStorefrontFixture(t)
	ctx := context.Background()
	user := createTestUser(t, f.db, "cart-dec@example.com")
	product := createSizedProduct(t, f.db, "Castor Oil", sizeOption("S", "150", true))
	line := CartLineInput{UserID: user.ID, ProductID: product.ID, Size: strPtr("S")}

	if _, err := f.carts.Add(ctx, line); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	cart, err := f.carts.Increment(ctx, line)
	if err != nil {
		t.Fatalf("increment failed: %v", err)
	}
	if cart.Items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", cart.Items[0].Quantity)
	}
	if _, err := f.carts.Decrement(ctx, line); err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	cart, err = f.carts.Decrement(ctx, line)
	if err != nil {
		t.Fatalf("decrement to zero failed: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected line removed, got %+v", cart.Items)
	}
	if !cart.TotalAmount.IsZero() {
		t.Fatalf("expected zero total, got %s", cart.TotalAmount.String())
	}

	_, err = f.carts.Decrement(ctx, line)
	if !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("expected ErrCartItemNotFound, got %v", err)
	}
}

func TestCartIncrementRevalidatesStock(t *testing.T) {
	f := newStorefrontFixture(t)
	ctx := context.Background()
	user := createTestUser(t, f.db, "cart-inc@example.com")
	product := createSizedProduct(t, f.db, "Argan Oil", sizeOption("S", "500", true))
	line := CartLineInput{UserID: user.ID, ProductID: product.ID, Size: strPtr("S")}
	if _, err := f.carts.Add(ctx, line); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := f.db.Model(&models.ProductSize{}).Where("product_id = ?", product.ID).Update("in_stock", false).Error; err != nil {
		t.Fatalf("mark out of stock failed: %v", err)
	}
	_, err := f.carts.Increment(ctx, line)
	if !errors.Is(err, ErrSizeUnavailable) {
		t.Fatalf("expected ErrSizeUnavailable, got %v", err)
	}
}

func TestCartChangeSizeMergesIntoExistingLine(t *testing.T) {
	f := newStorefrontFixture(t)
	ctx := context.Background()
	user := createTestUser(t, f.db, "cart-change@example.com")
	product := createSizedProduct(t, f.db, "Coconut Oil", sizeOption("S", "100", true), sizeOption("M", "180", true))

	for i := 0; i < 2; i++ {
		if _, err := f.carts.Add(ctx, CartLineInput{UserID: user.ID, ProductID: product.ID, Size: strPtr("S")}); err != nil {
			t.Fatalf("add S failed: %v", err)
		}
	}
	if _, err := f.carts.Add(ctx, CartLineInput{UserID: user.ID, ProductID: product.ID, Size: strPtr("M")}); err != nil {
		t.Fatalf("add M failed: %v", err)
	}

	cart, err := f.carts.ChangeSize(ctx, ChangeSizeInput{UserID: user.ID, ProductID: product.ID, FromSize: strPtr("S"), ToSize: "M"})
	if err != nil {
		t.Fatalf("change size failed: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("expected merged single line, got %d", len(cart.Items))
	}
	if cart.Items[0].SizeLabel() != "M" || cart.Items[0].Quantity != 3 {
		t.Fatalf("unexpected merged line: size=%s qty=%d", cart.Items[0].SizeLabel(), cart.Items[0].Quantity)
	}
	if cart.TotalAmount.String() != "540.00" {
		t.Fatalf("expected total 540.00, got %s", cart.TotalAmount.String())
	}
}

func TestCartChangeSizeRelabels(t *testing.T) {
	f := newStorefrontFixture(t)
	ctx := context.Background()
	user := createTestUser(t, f.db, "cart-relabel@example.com")
	product := createSizedProduct(t, f.db, "Sesame Oil", sizeOption("S", "100", true), sizeOption("L", "250", true))
	if _, err := f.carts.Add(ctx, CartLineInput{UserID: user.ID, ProductID: product.ID, Size: strPtr("S")}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	cart, err := f.carts.ChangeSize(ctx, ChangeSizeInput{UserID: user.ID, ProductID: product.ID, FromSize: strPtr("S"), ToSize: "L"})
	if err != nil {
		t.Fatalf("change size failed: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].SizeLabel() != "L" {
		t.Fatalf("expected relabelled line, got %+v", cart.Items)
	}
	if cart.TotalAmount.String() != "250.00" {
		t.Fatalf("expected total 250.00, got %s", cart.TotalAmount.String())
	}
}

func TestCartRemoveWithoutSizeDropsAllLines(t *testing.T) {
	f := newStorefrontFixture(t)
	ctx := context.Background()
	user := createTestUser(t, f.db, "cart-remove@example.com")
	product := createSizedProduct(t, f.db, "Jojoba Oil", sizeOption("S", "100", true), sizeOption("M", "200", true))
	other := createFlatProduct(t, f.db, "Turmeric Soap", "50")

	for _, label := range []string{"S", "M"} {
		if _, err := f.carts.Add(ctx, CartLineInput{UserID: user.ID, ProductID: product.ID, Size: strPtr(label)}); err != nil {
			t.Fatalf("add %s failed: %v", label, err)
		}
	}
	if _, err := f.carts.Add(ctx, CartLineInput{UserID: user.ID, ProductID: other.ID}); err != nil {
		t.Fatalf("add flat failed: %v", err)
	}

	cart, err := f.carts.Remove(ctx, CartLineInput{UserID: user.ID, ProductID: product.ID})
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].ProductID != other.ID {
		t.Fatalf("expected only the flat product to remain, got %+v", cart.Items)
	}
	if cart.TotalAmount.String() != "50.00" {
		t.Fatalf("expected total 50.00, got %s", cart.TotalAmount.String())
	}
}

func TestCartGetUsesCacheAndWritesInvalidate(t *testing.T) {
	f := newStorefrontFixture(t)
	ctx := context.Background()
	user := createTestUser(t, f.db, "cart-cache@example.com")
	product := createFlatProduct(t, f.db, "Aloe Gel", "120")

	cart, err := f.carts.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("get empty cart failed: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected empty cart")
	}
	if !f.store.Has(cache.CartKey(user.ID)) {
		t.Fatalf("expected cart cached after read")
	}

	if _, err := f.carts.Add(ctx, CartLineInput{UserID: user.ID, ProductID: product.ID}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if f.store.Has(cache.CartKey(user.ID)) {
		t.Fatalf("expected cart cache invalidated after write")
	}
	cart, err = f.carts.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(cart.Items) != 1 || cart.TotalAmount.String() != "120.00" {
		t.Fatalf("unexpected cart after reload: %+v", cart)
	}
}

func TestCartRecommendationsExcludeCartProducts(t *testing.T) {
	f := newStorefrontFixture(t)
	ctx := context.Background()
	user := createTestUser(t, f.db, "cart-reco@example.com")
	inCart := createFlatProduct(t, f.db, "In Cart", "10")
	for i := 0; i < 5; i++ {
		p := createFlatProduct(t, f.db, "Other", "10")
		if err := f.db.Model(p).Update("rating", float64(i)).Error; err != nil {
			t.Fatalf("set rating failed: %v", err)
		}
	}
	if err := f.db.Model(inCart).Update("rating", 5.0).Error; err != nil {
		t.Fatalf("set rating failed: %v", err)
	}
	if _, err := f.carts.Add(ctx, CartLineInput{UserID: user.ID, ProductID: inCart.ID}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	products, err := f.carts.Recommendations(user.ID)
	if err != nil {
		t.Fatalf("recommendations failed: %v", err)
	}
	if len(products) != 4 {
		t.Fatalf("expected 4 recommendations, got %d", len(products))
	}
	for i, p := range products {
		if p.ID == inCart.ID {
			t.Fatalf("cart product must be excluded")
		}
		if i > 0 && products[i-1].Rating < p.Rating {
			t.Fatalf("expected rating desc order")
		}
	}
}
