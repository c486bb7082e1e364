package constants

import "time"

// 订单状态常量
const (
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
)

// 支付状态常量
const (
	PaymentStatusPending  = "Pending"
	PaymentStatusPaid     = "Paid"
	PaymentStatusFailed   = "Failed"
	PaymentStatusRefunded = "Refunded"
)

// 配送状态常量
const (
	DeliveryStatusPending   = "Pending"
	DeliveryStatusShipped   = "Shipped"
	DeliveryStatusDelivered = "Delivered"
)

// 支付方式常量
const (
	PaymentMethodCOD      = "COD"
	PaymentMethodRazorpay = "Razorpay"
	PaymentMethodWallet   = "Wallet"
)

// 钱包交易类型常量
const (
	WalletTxnTypeDeposit      = "deposit"
	WalletTxnTypeWithdrawal   = "withdrawal"
	WalletTxnTypeOrderPayment = "order_payment"
	WalletTxnTypeRefund       = "refund"
)

// 钱包交易状态常量
const (
	WalletTxnStatusPending   = "pending"
	WalletTxnStatusCompleted = "completed"
	WalletTxnStatusFailed    = "failed"
)

// Webhook 事件
const (
	RazorpayEventPaymentCaptured = "payment.captured"
	RazorpaySignatureHeader      = "X-Razorpay-Signature"
)

// 异步任务
const (
	TaskShipmentCreate = "shipment:create"
	QueueDefault       = "default"
	QueueCritical      = "critical"
)

// 验证码
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
	CaptchaSceneSignin   = "signin"
	CaptchaSceneSignup   = "signup"
)

// 缓存过期时间
const (
	DefaultCacheTTL    = 3600 * time.Second
	DashboardCacheTTL  = 200 * time.Second
	ShippingTokenTTL   = 24 * time.Hour
	DefaultDeliveryDay = 7
)

// OrderCounterName 订单序号计数器名称
const OrderCounterName = "order_id"

// RecommendationLimit 推荐商品数量上限
const RecommendationLimit = 4
