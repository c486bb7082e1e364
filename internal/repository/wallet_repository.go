package repository

import (
	"errors"
	"strings"

	"github.com/dujiao-next/storefront/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WalletRepository 钱包数据访问接口
type WalletRepository interface {
	GetByUserID(userID uint) (*models.Wallet, error)
	GetByUserIDForUpdate(userID uint) (*models.Wallet, error)
	Create(wallet *models.Wallet) error
	UpdateBalance(walletID uint, balance models.Money) error
	CreateTransaction(txn *models.WalletTransaction) error
	GetTransactionByReference(reference string) (*models.WalletTransaction, error)
	ListTransactions(walletID uint, status string) ([]models.WalletTransaction, error)
	WithTx(tx *gorm.DB) *GormWalletRepository
}

// GormWalletRepository GORM 钱包仓储实现
type GormWalletRepository struct {
	db *gorm.DB
}

// NewWalletRepository 创建钱包仓储
func NewWalletRepository(db *gorm.DB) *GormWalletRepository {
	return &GormWalletRepository{db: db}
}

// WithTx 绑定事务
func (r *GormWalletRepository) WithTx(tx *gorm.DB) *GormWalletRepository {
	if tx == nil {
		return r
	}
	return &GormWalletRepository{db: tx}
}

// GetByUserID 按用户ID获取钱包
func (r *GormWalletRepository) GetByUserID(userID uint) (*models.Wallet, error) {
	if userID == 0 {
		return nil, nil
	}
	var wallet models.Wallet
	if err := r.db.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &wallet, nil
}

// GetByUserIDForUpdate 按用户ID加锁获取钱包
func (r *GormWalletRepository) GetByUserIDForUpdate(userID uint) (*models.Wallet, error) {
	if userID == 0 {
		return nil, nil
	}
	var wallet models.Wallet
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &wallet, nil
}

// Create 创建钱包
func (r *GormWalletRepository) Create(wallet *models.Wallet) error {
	return r.db.Omit("Transactions").Create(wallet).Error
}

// UpdateBalance 写入余额
func (r *GormWalletRepository) UpdateBalance(walletID uint, balance models.Money) error {
	return r.db.Model(&models.Wallet{}).Where("id = ?", walletID).Update("balance", balance).Error
}

// CreateTransaction 追加交易流水
func (r *GormWalletRepository) CreateTransaction(txn *models.WalletTransaction) error {
	return r.db.Create(txn).Error
}

// GetTransactionByReference 根据引用号获取流水
func (r *GormWalletRepository) GetTransactionByReference(reference string) (*models.WalletTransaction, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, nil
	}
	var txn models.WalletTransaction
	if err := r.db.Where("reference_id = ?", reference).First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &txn, nil
}

// ListTransactions 获取钱包流水，status 为空时返回全部
func (r *GormWalletRepository) ListTransactions(walletID uint, status string) ([]models.WalletTransaction, error) {
	var txns []models.WalletTransaction
	query := r.db.Where("wallet_id = ?", walletID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Order("id desc").Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}
