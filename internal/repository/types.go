package repository

import "time"

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page           int
	PageSize       int
	Category       string
	Search         string
	OnlyActive     bool
	IncludeDeleted bool
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page          int
	PageSize      int
	UserID        uint
	OrderStatus   string
	PaymentStatus string
	PaymentMethod string
	OrderID       uint
	WithDeleted   bool
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page           int
	PageSize       int
	Keyword        string
	IncludeDeleted bool
}

// BlogListFilter 查询博客列表的过滤条件
type BlogListFilter struct {
	Page       int
	PageSize   int
	Category   string
	OnlyActive bool
}
