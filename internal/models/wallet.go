package models

import (
	"time"
)

// Wallet 用户钱包
type Wallet struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                 // 主键
	UserID    uint      `gorm:"not null;uniqueIndex" json:"user_id"`                  // 用户ID
	Balance   Money     `gorm:"type:decimal(20,2);not null;default:0" json:"balance"` // 余额
	CreatedAt time.Time `json:"created_at"`                                           // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                           // 更新时间

	Transactions []WalletTransaction `gorm:"foreignKey:WalletID" json:"transactions,omitempty"` // 交易流水
}

// TableName 指定表名
func (Wallet) TableName() string {
	return "wallets"
}

// WalletTransaction 钱包交易流水（只追加）
type WalletTransaction struct {
	ID          uint      `gorm:"primarykey" json:"id"`                          // 主键
	WalletID    uint      `gorm:"not null;index" json:"wallet_id"`               // 钱包ID
	UserID      uint      `gorm:"not null;index" json:"user_id"`                 // 用户ID
	Type        string    `gorm:"type:varchar(20);not null;index" json:"type"`   // 交易类型
	Amount      Money     `gorm:"type:decimal(20,2);not null" json:"amount"`     // 金额（正数）
	Status      string    `gorm:"type:varchar(20);not null;index" json:"status"` // 交易状态
	ReferenceID string    `gorm:"type:varchar(64);index" json:"reference_id"`    // 业务引用号
	Description string    `gorm:"type:varchar(255)" json:"description"`          // 描述
	OrderID     *uint     `gorm:"index" json:"order_id,omitempty"`               // 关联订单
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                       // 创建时间
}

// TableName 指定表名
func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}
