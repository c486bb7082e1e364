package i18n

var catalog = map[string]map[string]string{
	LocaleEnUS: {
		"error.bad_request":             "Invalid request",
		"error.unauthorized":            "Please sign in first",
		"error.forbidden":               "You do not have permission for this action",
		"error.not_found":               "Resource not found",
		"error.internal_error":          "Internal server error",
		"error.login_too_many":          "Too many sign-in attempts, please try again in %d seconds",
		"error.rate_limited":            "Too many requests, please try again in %d seconds",
		"error.rate_limit_unavailable":  "Rate limiter is unavailable",
		"error.token_invalid":           "Invalid or expired token",
		"error.token_revoked":           "Session has been revoked, please sign in again",
		"error.auth_header_missing":     "Authorization header is required",
		"error.auth_header_invalid":     "Authorization header must be a Bearer token",
		"error.jwt_secret_missing":      "Authentication is not configured",
		"error.user_id_invalid":         "Invalid user id",
		"error.user_id_type_invalid":    "Invalid user id type",
		"error.admin_id_invalid":        "Invalid admin id",
		"error.admin_id_type_invalid":   "Invalid admin id type",
		"error.user_not_found":          "User not found",
		"error.user_disabled":           "This account has been deactivated",
		"error.email_exists":            "Email is already registered",
		"error.phone_exists":            "Phone number is already registered",
		"error.email_invalid":           "Invalid email address",
		"error.phone_required":          "Phone number is required",
		"error.invalid_credentials":     "Incorrect email/phone or password",
		"error.password_invalid":        "Current password is incorrect",
		"error.password_weak":           "Password is too weak",
		"error.password_min_length":     "Password must be at least %d characters",
		"error.password_require_number": "Password must contain a number",
		"error.captcha_required":        "Please complete the captcha",
		"error.captcha_invalid":         "Captcha is incorrect",
		"error.captcha_config_invalid":  "Captcha is not available",
		"error.product_not_found":       "Product not found",
		"error.product_not_available":   "Product is not available",
		"error.product_sizes_invalid":   "Invalid product sizes",
		"error.product_price_invalid":   "Invalid product price",
		"error.size_required":           "Please select a size",
		"error.size_required_named":     "Size is required for %s",
		"error.size_unavailable":        "Selected size is unavailable",
		"error.size_unavailable_named":  "Size %s is unavailable",
		"error.cart_item_not_found":     "Item is not in your cart",
		"error.cart_empty":              "Your cart is empty",
		"error.cart_fetch_failed":       "Failed to load cart",
		"error.cart_update_failed":      "Failed to update cart",
		"error.address_required":        "Shipping address is required",
		"error.payment_method_invalid":  "Unsupported payment method",
		"error.order_not_found":         "Order not found",
		"error.order_status_invalid":    "Order cannot be changed in its current state",
		"error.order_create_failed":     "Failed to place order",
		"error.order_fetch_failed":      "Failed to load orders",
		"error.order_update_failed":     "Failed to update order",
		"error.payment_signature":       "Payment verification failed",
		"error.payment_gateway_failed":  "Payment gateway is unavailable",
		"error.payment_verify_failed":   "Failed to verify payment",
		"error.webhook_signature":       "Invalid webhook signature",
		"error.wallet_invalid_amount":   "Amount must be greater than zero",
		"error.wallet_insufficient":     "Insufficient wallet balance",
		"error.wallet_not_found":        "Wallet not found",
		"error.wallet_fetch_failed":     "Failed to load wallet",
		"error.review_not_found":        "Review not found",
		"error.review_rating_invalid":   "Rating must be between 1 and 5",
		"error.review_not_owner":        "You can only change your own review",
		"error.review_not_liked":        "You have not liked this review",
		"error.review_failed":           "Failed to save review",
		"error.wishlist_duplicate":      "Product is already in your wishlist",
		"error.wishlist_item_not_found": "Product is not in your wishlist",
		"error.wishlist_failed":         "Failed to update wishlist",
		"error.blog_not_found":          "Blog not found",
		"error.blog_failed":             "Failed to save blog",
		"error.shipping_disabled":       "Shipping service is not enabled",
		"error.shipping_failed":         "Shipping service request failed",
		"error.contact_fields_missing":  "All fields are required",
		"error.contact_failed":          "Failed to send message",
		"error.dashboard_fetch_failed":  "Failed to load dashboard",
		"error.user_update_failed":      "Failed to update user",
		"error.product_save_failed":     "Failed to save product",
		"error.payment_fetch_failed":    "Failed to load payments",
		"error.refund_failed":           "Refund failed",
		"error.reconcile_failed":        "Failed to reconcile wallet",
		"error.admin_login_failed":      "Incorrect username or password",
		"error.admin_password_change":   "Failed to change password",
		"error.signup_failed":           "Failed to sign up",
		"error.signin_failed":           "Failed to sign in",
		"error.signout_failed":          "Failed to sign out",
		"message.signout_success":       "Signed out",
		"message.contact_received":      "Thanks, we will get back to you soon",
		"message.webhook_ignored":       "Event ignored",
		"message.webhook_processed":     "Webhook processed",
		"message.wishlist_added":        "Added to wishlist",
		"message.wishlist_removed":      "Removed from wishlist",
		"message.deleted":               "Deleted",
	},
	LocaleZhCN: {
		"error.bad_request":             "请求参数错误",
		"error.unauthorized":            "请先登录",
		"error.forbidden":               "无权执行该操作",
		"error.not_found":               "资源不存在",
		"error.internal_error":          "服务器内部错误",
		"error.login_too_many":          "登录尝试次数过多，请 %d 秒后再试",
		"error.rate_limited":            "请求过于频繁，请 %d 秒后再试",
		"error.rate_limit_unavailable":  "限流服务不可用",
		"error.token_invalid":           "登录状态无效或已过期",
		"error.token_revoked":           "登录已失效，请重新登录",
		"error.auth_header_missing":     "缺少认证信息",
		"error.auth_header_invalid":     "认证信息格式错误",
		"error.jwt_secret_missing":      "认证未配置",
		"error.user_not_found":          "用户不存在",
		"error.user_disabled":           "账号已停用",
		"error.email_exists":            "邮箱已注册",
		"error.phone_exists":            "手机号已注册",
		"error.email_invalid":           "邮箱格式错误",
		"error.phone_required":          "请填写手机号",
		"error.invalid_credentials":     "账号或密码错误",
		"error.password_invalid":        "原密码错误",
		"error.password_weak":           "密码强度不足",
		"error.password_min_length":     "密码长度至少 %d 位",
		"error.password_require_number": "密码必须包含数字",
		"error.captcha_required":        "请完成验证码",
		"error.captcha_invalid":         "验证码错误",
		"error.product_not_found":       "商品不存在",
		"error.product_not_available":   "商品不可购买",
		"error.product_sizes_invalid":   "商品规格格式错误",
		"error.size_required":           "请选择规格",
		"error.size_required_named":     "%s 需要选择规格",
		"error.size_unavailable":        "规格不存在或缺货",
		"error.size_unavailable_named":  "规格 %s 不存在或缺货",
		"error.cart_empty":              "购物车为空",
		"error.address_required":        "缺少收货地址",
		"error.payment_method_invalid":  "不支持的支付方式",
		"error.order_not_found":         "订单不存在",
		"error.order_status_invalid":    "订单状态不允许该操作",
		"error.order_create_failed":     "下单失败",
		"error.payment_signature":       "支付签名校验失败",
		"error.payment_gateway_failed":  "支付网关不可用",
		"error.webhook_signature":       "webhook 签名校验失败",
		"error.wallet_invalid_amount":   "金额无效",
		"error.wallet_insufficient":     "钱包余额不足",
		"error.review_rating_invalid":   "评分必须在 1-5 之间",
		"error.review_not_owner":        "只能修改自己的评论",
		"error.review_not_liked":        "尚未点赞该评论",
		"error.wishlist_duplicate":      "商品已在心愿单中",
		"error.shipping_disabled":       "物流服务未启用",
		"error.contact_fields_missing":  "请填写全部字段",
		"message.signout_success":       "已退出登录",
		"message.contact_received":      "留言已收到",
	},
}
