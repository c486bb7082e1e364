package models

import (
	"time"
)

// Review 商品评论
type Review struct {
	ID        uint      `gorm:"primarykey" json:"id"`             // 主键
	UserID    uint      `gorm:"not null;index" json:"user_id"`    // 用户ID
	ProductID uint      `gorm:"not null;index" json:"product_id"` // 商品ID
	Rating    int       `gorm:"not null" json:"rating"`           // 评分 1-5
	Message   string    `gorm:"type:text" json:"message"`         // 评论内容
	CreatedAt time.Time `gorm:"index" json:"created_at"`          // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                       // 更新时间

	Likes []ReviewLike `gorm:"foreignKey:ReviewID" json:"likes"`        // 点赞
	User  *User        `gorm:"foreignKey:UserID" json:"user,omitempty"` // 评论用户
}

// TableName 指定表名
func (Review) TableName() string {
	return "reviews"
}

// ReviewLike 评论点赞
type ReviewLike struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                  // 主键
	ReviewID  uint      `gorm:"not null;uniqueIndex:idx_review_like" json:"review_id"` // 评论ID
	UserID    uint      `gorm:"not null;uniqueIndex:idx_review_like" json:"user_id"`   // 用户ID
	CreatedAt time.Time `json:"created_at"`                                            // 创建时间
}

// TableName 指定表名
func (ReviewLike) TableName() string {
	return "review_likes"
}

// Wishlist 心愿单
type Wishlist struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                             // 主键
	UserID    uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_product" json:"user_id"`    // 用户ID
	ProductID uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_product" json:"product_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`                                          // 加入时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName 指定表名
func (Wishlist) TableName() string {
	return "wishlists"
}
