package cache

import "fmt"

// 全局固定键
const (
	KeyAllBlogs        = "all_blogs"
	KeyAllAdminBlogs   = "all_admin_blogs"
	KeyShiprocketToken = "shiprocket_token"
)

// CartKey 购物车缓存键
func CartKey(userID uint) string {
	return fmt.Sprintf("cart:%d", userID)
}

// WalletKey 钱包缓存键
func WalletKey(userID uint) string {
	return fmt.Sprintf("wallet:%d", userID)
}

// DashboardKey 用户看板缓存键
func DashboardKey(userID uint) string {
	return fmt.Sprintf("dashboard:%d", userID)
}

// UserKey 单个用户缓存键
func UserKey(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

// UsersKey 管理端用户列表缓存键
func UsersKey(adminID uint) string {
	return fmt.Sprintf("users:%d", adminID)
}

// BlogKey 博客详情缓存键
func BlogKey(blogID uint) string {
	return fmt.Sprintf("blog_%d", blogID)
}
