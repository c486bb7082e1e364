package service

import (
	"context"
	"testing"

	"github.com/dujiao-next/storefront/internal/cache"
	"github.com/dujiao-next/storefront/internal/constants"
	"github.com/dujiao-next/storefront/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletAddMoneyAndCache(t *testing.T) {
	db := setupServiceDB(t)
	store := cache.NewMemoryStore()
	svc := NewWalletService(repository.NewWalletRepository(db), store, 0)
	user := createTestUser(t, db, "wallet@example.com")
	ctx := context.Background()

	wallet, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, wallet.Balance.IsZero())
	assert.True(t, store.Has(cache.WalletKey(user.ID)))

	_, _, err = svc.AddMoney(ctx, user.ID, decimal.Zero)
	assert.ErrorIs(t, err, ErrWalletInvalidAmount)
	_, _, err = svc.AddMoney(ctx, user.ID, decimal.RequireFromString("-5"))
	assert.ErrorIs(t, err, ErrWalletInvalidAmount)

	wallet, txn, err := svc.AddMoney(ctx, user.ID, decimal.RequireFromString("250.456"))
	require.NoError(t, err)
	assert.Equal(t, "250.46", wallet.Balance.String())
	assert.Equal(t, constants.WalletTxnTypeDeposit, txn.Type)
	assert.Equal(t, constants.WalletTxnStatusCompleted, txn.Status)
	assert.False(t, store.Has(cache.WalletKey(user.ID)))

	wallet, err = svc.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, wallet.Transactions, 1)

	result, err := svc.Reconcile(user.ID)
	require.NoError(t, err)
	assert.True(t, result.Consistent)
	assert.Equal(t, 1, result.Completed)
}

func TestWalletReconcileDetectsDrift(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewWalletService(repository.NewWalletRepository(db), cache.NewMemoryStore(), 0)
	user := createTestUser(t, db, "wallet-drift@example.com")

	_, _, err := svc.AddMoney(context.Background(), user.ID, decimal.NewFromInt(100))
	require.NoError(t, err)
	require.NoError(t, db.Exec("UPDATE wallets SET balance = 120 WHERE user_id = ?", user.ID).Error)

	result, err := svc.Reconcile(user.ID)
	require.NoError(t, err)
	assert.False(t, result.Consistent)
	assert.Equal(t, "20.00", result.Difference.String())

	_, err = svc.Reconcile(99999)
	assert.ErrorIs(t, err, ErrWalletNotFound)
}
