package models

import (
	"time"
)

// Cart 购物车（每个用户一份）
type Cart struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                      // 主键
	UserID      uint      `gorm:"not null;uniqueIndex" json:"user_id"`                       // 用户ID
	TotalAmount Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"` // 派生总额
	CreatedAt   time.Time `json:"created_at"`                                                // 创建时间
	UpdatedAt   time.Time `json:"updated_at"`                                                // 更新时间

	Items []CartItem `gorm:"foreignKey:CartID" json:"items"` // 购物车项（按插入顺序）
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}

// ProductIDs 返回购物车内的商品ID
func (c *Cart) ProductIDs() []uint {
	if c == nil {
		return nil
	}
	seen := make(map[uint]struct{}, len(c.Items))
	ids := make([]uint, 0, len(c.Items))
	for _, item := range c.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

// CartItem 购物车项
type CartItem struct {
	ID        uint    `gorm:"primarykey" json:"id"`                   // 主键
	CartID    uint    `gorm:"not null;index" json:"cart_id"`          // 购物车ID
	Position  int     `gorm:"not null;default:0" json:"-"`            // 插入顺序
	ProductID uint    `gorm:"not null;index" json:"product_id"`       // 商品ID
	Size      *string `gorm:"type:varchar(50)" json:"size,omitempty"` // 规格（无规格商品为空）
	Quantity  int     `gorm:"not null;default:1" json:"quantity"`     // 数量（>=1）

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}

// SizeLabel 返回规格名，无规格时为空串
func (i CartItem) SizeLabel() string {
	if i.Size == nil {
		return ""
	}
	return *i.Size
}

// SameLine 判断是否为同一商品同一规格
func (i CartItem) SameLine(productID uint, size string) bool {
	return i.ProductID == productID && i.SizeLabel() == size
}
