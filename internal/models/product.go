package models

import (
	"strings"
	"time"
)

// Product 商品表
type Product struct {
	ID                 uint        `gorm:"primarykey" json:"id"`                           // 主键
	Name               string      `gorm:"type:varchar(255);not null;index" json:"name"`   // 商品名称
	Description        string      `gorm:"type:text" json:"description"`                   // 简介
	ProductDescription string      `gorm:"type:text" json:"product_description"`           // 详细描述
	ProductDetails     string      `gorm:"type:text" json:"product_details"`               // 规格参数
	Category           string      `gorm:"type:varchar(100);index" json:"category"`        // 分类
	Images             StringArray `gorm:"type:json" json:"images"`                        // 图片数组
	Price              *Money      `gorm:"type:decimal(20,2)" json:"price,omitempty"`      // 旧版统一价格（无规格时使用）
	Rating             float64     `gorm:"not null;default:0;index" json:"rating"`         // 平均评分
	NumReviews         int         `gorm:"not null;default:0" json:"num_reviews"`          // 评论数
	IsActive           bool        `gorm:"not null;default:true;index" json:"is_active"`   // 是否上架
	IsDeleted          bool        `gorm:"not null;default:false;index" json:"is_deleted"` // 软删除标记
	IsCertified        bool        `gorm:"not null;default:false" json:"is_certified"`     // 是否认证
	CertifiedImage     string      `gorm:"type:varchar(500)" json:"certified_image"`       // 认证图片
	CreatedAt          time.Time   `gorm:"index" json:"created_at"`                        // 创建时间
	UpdatedAt          time.Time   `json:"updated_at"`                                     // 更新时间

	Sizes   []ProductSize   `gorm:"foreignKey:ProductID" json:"sizes"`   // 规格列表
	Reviews []ProductReview `gorm:"foreignKey:ProductID" json:"reviews"` // 内嵌评论副本
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// HasSizes 商品是否定义了规格
func (p *Product) HasSizes() bool {
	return p != nil && len(p.Sizes) > 0
}

// FindSize 按规格名查找
func (p *Product) FindSize(label string) *ProductSize {
	if p == nil {
		return nil
	}
	label = strings.TrimSpace(label)
	for i := range p.Sizes {
		if p.Sizes[i].Size == label {
			return &p.Sizes[i]
		}
	}
	return nil
}

// ProductSize 商品规格
type ProductSize struct {
	ID        uint   `gorm:"primarykey" json:"id"`                               // 主键
	ProductID uint   `gorm:"not null;index" json:"product_id"`                   // 商品ID
	Position  int    `gorm:"not null;default:0" json:"-"`                        // 排序
	Size      string `gorm:"type:varchar(50);not null" json:"size"`              // 规格名
	Price     Money  `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 价格
	InStock   bool   `gorm:"not null" json:"in_stock"`                           // 是否有货
	Weight    string `gorm:"type:varchar(20)" json:"weight"`                     // 重量（kg）
}

// TableName 指定表名
func (ProductSize) TableName() string {
	return "product_sizes"
}

// ProductReview 商品内嵌评论副本
type ProductReview struct {
	ID        uint      `gorm:"primarykey" json:"id"`                  // 主键
	ProductID uint      `gorm:"not null;index" json:"product_id"`      // 商品ID
	ReviewID  uint      `gorm:"not null;uniqueIndex" json:"review_id"` // 评论ID
	UserID    uint      `gorm:"not null;index" json:"user_id"`         // 用户ID
	Name      string    `gorm:"type:varchar(200)" json:"name"`         // 用户名称
	Rating    int       `gorm:"not null" json:"rating"`                // 评分
	Comment   string    `gorm:"type:text" json:"comment"`              // 评论内容
	CreatedAt time.Time `json:"created_at"`                            // 创建时间
}

// TableName 指定表名
func (ProductReview) TableName() string {
	return "product_reviews"
}
