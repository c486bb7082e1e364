package service

import (
	"testing"

	"github.com/dujiao-next/storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlistAddListRemove(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewWishlistService(repository.NewWishlistRepository(db), repository.NewProductRepository(db))
	user := createTestUser(t, db, "wishlist@example.com")
	sized := createSizedProduct(t, db, "Body Oil", sizeOption("S", "199", true), sizeOption("L", "499", true))
	flat := createFlatProduct(t, db, "Soap Bar", "60")

	require.NoError(t, svc.Add(user.ID, sized.ID))
	require.NoError(t, svc.Add(user.ID, flat.ID))
	assert.ErrorIs(t, svc.Add(user.ID, sized.ID), ErrWishlistDuplicate)
	assert.ErrorIs(t, svc.Add(user.ID, 4242), ErrProductNotFound)

	entries, err := svc.List(user.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	prices := map[uint]string{}
	for _, entry := range entries {
		prices[entry.ProductID] = entry.Price.String()
	}
	assert.Equal(t, "199.00", prices[sized.ID])
	assert.Equal(t, "60.00", prices[flat.ID])

	require.NoError(t, svc.Remove(user.ID, sized.ID))
	assert.ErrorIs(t, svc.Remove(user.ID, sized.ID), ErrWishlistItemNotFound)
	entries, err = svc.List(user.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
