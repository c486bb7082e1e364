package models

import (
	"time"
)

// Delivery 配送信息
type Delivery struct {
	Status string    `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"` // 配送状态
	Date   time.Time `json:"date"`                                                      // 预计送达日期
}

// Order 订单表（主键来自计数器，顺序递增）
type Order struct {
	ID                uint       `gorm:"primaryKey;autoIncrement:false" json:"id"`                 // 订单序号
	UserID            uint       `gorm:"not null;index" json:"user_id"`                            // 用户ID
	TotalPrice        Money      `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"` // 订单总额
	PaymentMethod     string     `gorm:"type:varchar(20);not null" json:"payment_method"`          // 支付方式
	PaymentStatus     string     `gorm:"type:varchar(20);not null;index" json:"payment_status"`    // 支付状态
	OrderStatus       string     `gorm:"type:varchar(20);not null;index" json:"order_status"`      // 订单状态
	RazorpayOrderID   string     `gorm:"type:varchar(100);index" json:"razorpay_order_id"`         // 网关订单号
	RazorpayPaymentID string     `gorm:"type:varchar(100)" json:"razorpay_payment_id"`             // 网关支付号
	Address           Address    `gorm:"embedded;embeddedPrefix:address_" json:"address"`          // 收货地址
	Delivery          Delivery   `gorm:"embedded;embeddedPrefix:delivery_" json:"delivery"`        // 配送信息
	ShiprocketOrderID string     `gorm:"type:varchar(64)" json:"shiprocket_order_id"`              // 物流订单号
	ShipmentID        string     `gorm:"type:varchar(64)" json:"shipment_id"`                      // 物流运单号
	IsDeleted         bool       `gorm:"not null;default:false;index" json:"is_deleted"`           // 软删除标记
	PaidAt            *time.Time `json:"paid_at,omitempty"`                                        // 支付时间
	CreatedAt         time.Time  `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt         time.Time  `json:"updated_at"`                                               // 更新时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`         // 订单项快照
	User  *User       `gorm:"foreignKey:UserID" json:"user,omitempty"` // 下单用户
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// OrderItem 订单项快照
type OrderItem struct {
	ID        uint    `gorm:"primarykey" json:"id"`                                    // 主键
	OrderID   uint    `gorm:"not null;index" json:"order_id"`                          // 订单ID
	ProductID uint    `gorm:"not null;index" json:"product_id"`                        // 商品ID
	Name      string  `gorm:"type:varchar(255)" json:"name"`                           // 商品名称快照
	Category  string  `gorm:"type:varchar(100)" json:"category"`                       // 分类快照
	Size      *string `gorm:"type:varchar(50)" json:"size,omitempty"`                  // 规格
	Quantity  int     `gorm:"not null" json:"quantity"`                                // 数量
	UnitPrice Money   `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"` // 成交单价
	Weight    string  `gorm:"type:varchar(20)" json:"weight"`                          // 单件重量（kg）
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}

// Counter 顺序号计数器
type Counter struct {
	Name string `gorm:"primaryKey;type:varchar(50)" json:"name"` // 计数器名称
	Seq  int64  `gorm:"not null;default:0" json:"seq"`           // 当前值
}

// TableName 指定表名
func (Counter) TableName() string {
	return "counters"
}
