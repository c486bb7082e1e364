package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dujiao-next/storefront/internal/cache"
	"github.com/dujiao-next/storefront/internal/constants"
	"github.com/dujiao-next/storefront/internal/logger"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WalletService 钱包服务
type WalletService struct {
	walletRepo repository.WalletRepository
	store      cache.Store
	ttl        time.Duration
	now        func() time.Time
}

// WalletReconcileResult 余额与流水对账结果
type WalletReconcileResult struct {
	UserID     uint         `json:"user_id"`
	Balance    models.Money `json:"balance"`
	LedgerSum  models.Money `json:"ledger_sum"`
	Difference models.Money `json:"difference"`
	Consistent bool         `json:"consistent"`
	Completed  int          `json:"completed_transactions"`
	CheckedAt  time.Time    `json:"checked_at"`
}

// NewWalletService 创建钱包服务
func NewWalletService(walletRepo repository.WalletRepository, store cache.Store, ttl time.Duration) *WalletService {
	if ttl <= 0 {
		ttl = constants.DefaultCacheTTL
	}
	return &WalletService{
		walletRepo: walletRepo,
		store:      store,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Get 获取钱包及流水（不存在时自动创建）
func (s *WalletService) Get(ctx context.Context, userID uint) (*models.Wallet, error) {
	if userID == 0 {
		return nil, ErrWalletNotFound
	}
	key := cache.WalletKey(userID)
	var cached models.Wallet
	hit, err := cache.GetJSON(ctx, s.store, key, &cached)
	if err != nil {
		logger.Warnw("wallet_cache_read_failed", "user_id", userID, "error", err)
	}
	if hit {
		return &cached, nil
	}

	wallet, err := s.getOrCreate(s.walletRepo, userID)
	if err != nil {
		return nil, err
	}
	txns, err := s.walletRepo.ListTransactions(wallet.ID, "")
	if err != nil {
		return nil, err
	}
	wallet.Transactions = txns
	if err := cache.SetJSON(ctx, s.store, key, wallet, s.ttl); err != nil {
		logger.Warnw("wallet_cache_write_failed", "user_id", userID, "error", err)
	}
	return wallet, nil
}

// AddMoney 充值：写入已完成的充值流水并增加余额
func (s *WalletService) AddMoney(ctx context.Context, userID uint, amount decimal.Decimal) (*models.Wallet, *models.WalletTransaction, error) {
	if userID == 0 {
		return nil, nil, ErrWalletNotFound
	}
	amount = amount.Round(2)
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, ErrWalletInvalidAmount
	}

	now := s.now()
	var (
		wallet *models.Wallet
		txn    *models.WalletTransaction
	)
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.walletRepo.WithTx(tx)
		locked, err := s.getOrCreateForUpdate(repo, userID)
		if err != nil {
			return err
		}
		locked.Balance = models.NewMoneyFromDecimal(locked.Balance.Decimal.Add(amount))
		if err := repo.UpdateBalance(locked.ID, locked.Balance); err != nil {
			return err
		}
		txn = &models.WalletTransaction{
			WalletID:    locked.ID,
			UserID:      userID,
			Type:        constants.WalletTxnTypeDeposit,
			Amount:      models.NewMoneyFromDecimal(amount),
			Status:      constants.WalletTxnStatusCompleted,
			ReferenceID: fmt.Sprintf("DEPOSIT%d", now.UnixMilli()),
			Description: "Money added to wallet",
			CreatedAt:   now,
		}
		if err := repo.CreateTransaction(txn); err != nil {
			return err
		}
		wallet = locked
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	s.InvalidateCache(ctx, userID)
	logger.Infow("wallet_money_added", "user_id", userID, "amount", amount.StringFixed(2), "reference", txn.ReferenceID)
	return wallet, txn, nil
}

// PayOrder 在下单事务内使用余额支付订单
func (s *WalletService) PayOrder(tx *gorm.DB, order *models.Order) (*models.WalletTransaction, error) {
	if tx == nil || order == nil || order.ID == 0 {
		return nil, ErrOrderNotFound
	}
	amount := order.TotalPrice.Decimal.Round(2)
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil
	}
	repo := s.walletRepo.WithTx(tx)
	reference := fmt.Sprintf("ORDER%d", order.ID)
	existing, err := repo.GetTransactionByReference(reference)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	wallet, err := s.getOrCreateForUpdate(repo, order.UserID)
	if err != nil {
		return nil, err
	}
	after := wallet.Balance.Decimal.Sub(amount).Round(2)
	if after.LessThan(decimal.Zero) {
		return nil, ErrWalletInsufficient
	}
	if err := repo.UpdateBalance(wallet.ID, models.NewMoneyFromDecimal(after)); err != nil {
		return nil, err
	}
	orderID := order.ID
	txn := &models.WalletTransaction{
		WalletID:    wallet.ID,
		UserID:      order.UserID,
		Type:        constants.WalletTxnTypeOrderPayment,
		Amount:      models.NewMoneyFromDecimal(amount),
		Status:      constants.WalletTxnStatusCompleted,
		ReferenceID: reference,
		Description: fmt.Sprintf("Payment for order #%d", order.ID),
		OrderID:     &orderID,
		CreatedAt:   s.now(),
	}
	if err := repo.CreateTransaction(txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// Reconcile 对比余额与已完成流水的带符号合计
func (s *WalletService) Reconcile(userID uint) (*WalletReconcileResult, error) {
	if userID == 0 {
		return nil, ErrWalletNotFound
	}
	wallet, err := s.walletRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, ErrWalletNotFound
	}
	txns, err := s.walletRepo.ListTransactions(wallet.ID, constants.WalletTxnStatusCompleted)
	if err != nil {
		return nil, err
	}
	sum := decimal.Zero
	for _, txn := range txns {
		sum = sum.Add(signedAmount(txn))
	}
	sum = sum.Round(2)
	balance := wallet.Balance.Decimal.Round(2)
	diff := balance.Sub(sum).Round(2)
	result := &WalletReconcileResult{
		UserID:     userID,
		Balance:    models.NewMoneyFromDecimal(balance),
		LedgerSum:  models.NewMoneyFromDecimal(sum),
		Difference: models.NewMoneyFromDecimal(diff),
		Consistent: diff.IsZero(),
		Completed:  len(txns),
		CheckedAt:  s.now(),
	}
	if !result.Consistent {
		logger.Warnw("wallet_reconcile_mismatch", "user_id", userID, "balance", balance.StringFixed(2), "ledger_sum", sum.StringFixed(2))
	}
	return result, nil
}

// InvalidateCache 删除钱包缓存
func (s *WalletService) InvalidateCache(ctx context.Context, userID uint) {
	if err := cache.Del(ctx, s.store, cache.WalletKey(userID)); err != nil {
		logger.Warnw("wallet_cache_invalidate_failed", "user_id", userID, "error", err)
	}
}

func signedAmount(txn models.WalletTransaction) decimal.Decimal {
	amount := txn.Amount.Decimal
	switch strings.TrimSpace(txn.Type) {
	case constants.WalletTxnTypeDeposit, constants.WalletTxnTypeRefund:
		return amount
	case constants.WalletTxnTypeWithdrawal, constants.WalletTxnTypeOrderPayment:
		return amount.Neg()
	default:
		return decimal.Zero
	}
}

func (s *WalletService) getOrCreate(repo repository.WalletRepository, userID uint) (*models.Wallet, error) {
	wallet, err := repo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if wallet != nil {
		return wallet, nil
	}
	wallet = &models.Wallet{UserID: userID}
	if err := repo.Create(wallet); err != nil {
		return nil, err
	}
	return wallet, nil
}

func (s *WalletService) getOrCreateForUpdate(repo *repository.GormWalletRepository, userID uint) (*models.Wallet, error) {
	wallet, err := repo.GetByUserIDForUpdate(userID)
	if err != nil {
		return nil, err
	}
	if wallet != nil {
		return wallet, nil
	}
	if _, err := s.getOrCreate(repo, userID); err != nil {
		return nil, err
	}
	return repo.GetByUserIDForUpdate(userID)
}
