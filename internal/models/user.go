package models

import (
	"strings"
	"time"
)

// Address 收货地址
type Address struct {
	Street  string `gorm:"type:varchar(255)" json:"street"`
	City    string `gorm:"type:varchar(100)" json:"city"`
	State   string `gorm:"type:varchar(100)" json:"state"`
	Zipcode string `gorm:"type:varchar(20)" json:"zipcode"`
	Country string `gorm:"type:varchar(100)" json:"country"`
}

// IsEmpty 地址是否未填写
func (a Address) IsEmpty() bool {
	return strings.TrimSpace(a.Street) == "" &&
		strings.TrimSpace(a.City) == "" &&
		strings.TrimSpace(a.State) == "" &&
		strings.TrimSpace(a.Zipcode) == ""
}

// User 用户表
type User struct {
	ID           uint       `gorm:"primarykey" json:"id"`                               // 主键
	FirstName    string     `gorm:"type:varchar(100);not null" json:"first_name"`       // 名
	LastName     string     `gorm:"type:varchar(100)" json:"last_name"`                 // 姓
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`                  // 邮箱
	Phone        string     `gorm:"type:varchar(32);uniqueIndex;not null" json:"phone"` // 手机号
	PasswordHash string     `gorm:"not null" json:"-"`                                  // 密码哈希（不返回给前端）
	Dob          *time.Time `json:"dob,omitempty"`                                      // 生日
	Address      Address    `gorm:"embedded;embeddedPrefix:address_" json:"address"`    // 默认地址
	IsActive     bool       `gorm:"not null;default:true;index" json:"is_active"`       // 是否启用
	IsDeleted    bool       `gorm:"not null;default:false;index" json:"is_deleted"`     // 软删除标记
	TokenVersion uint64     `gorm:"not null;default:0" json:"-"`                        // Token 版本（用于全量失效）
	LastLoginAt  *time.Time `json:"last_login_at"`                                      // 最后登录时间
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt    time.Time  `json:"updated_at"`                                         // 更新时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// FullName 返回完整姓名
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
