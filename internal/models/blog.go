package models

import (
	"time"
)

// Blog 博客文章
type Blog struct {
	ID          uint      `gorm:"primarykey" json:"id"`                           // 主键
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`        // 标题
	Description string    `gorm:"type:text" json:"description"`                   // 正文
	Image       string    `gorm:"type:varchar(500)" json:"image"`                 // 封面
	Type        string    `gorm:"type:varchar(50)" json:"type"`                   // 类型
	Category    string    `gorm:"type:varchar(100);index" json:"category"`        // 分类
	CreatedBy   uint      `gorm:"index" json:"created_by"`                        // 作者用户ID
	IsActive    bool      `gorm:"not null;default:true;index" json:"is_active"`   // 是否展示
	IsDeleted   bool      `gorm:"not null;default:false;index" json:"is_deleted"` // 软删除标记
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                        // 创建时间
	UpdatedAt   time.Time `json:"updated_at"`                                     // 更新时间
}

// TableName 指定表名
func (Blog) TableName() string {
	return "blogs"
}

// ContactMessage 联系我们留言
type ContactMessage struct {
	ID        uint      `gorm:"primarykey" json:"id" bson:"-"`
	Name      string    `gorm:"type:varchar(200);not null" json:"name" bson:"name"`
	Email     string    `gorm:"type:varchar(255);not null" json:"email" bson:"email"`
	Phone     string    `gorm:"type:varchar(32);not null" json:"phone" bson:"phone"`
	Message   string    `gorm:"type:text;not null" json:"message" bson:"message"`
	CreatedAt time.Time `gorm:"index" json:"created_at" bson:"created_at"`
}

// TableName 指定表名
func (ContactMessage) TableName() string {
	return "contact_messages"
}
