package service

import (
	"errors"
	"fmt"
)

// 通用错误
var (
	ErrNotFound      = errors.New("资源不存在")
	ErrInvalidInput  = errors.New("参数错误")
	ErrForbidden     = errors.New("无权操作")
	ErrUpstreamError = errors.New("上游服务异常")
)

// 用户与鉴权
var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrUserDisabled       = errors.New("账号已停用")
	ErrEmailExists        = errors.New("邮箱已注册")
	ErrPhoneExists        = errors.New("手机号已注册")
	ErrInvalidEmail       = errors.New("邮箱格式错误")
	ErrInvalidCredentials = errors.New("账号或密码错误")
	ErrInvalidPassword    = errors.New("原密码错误")
	ErrPhoneRequired      = errors.New("请填写手机号")
	ErrWeakPassword       = errors.New("密码强度不足")
	ErrInvalidToken       = errors.New("无效的 token")
	ErrTokenRevoked       = errors.New("token 已失效")
)

// 商品与购物车
var (
	ErrProductNotFound      = errors.New("商品不存在")
	ErrProductNotAvailable  = errors.New("商品不可购买")
	ErrProductSizesInvalid  = errors.New("商品规格格式错误")
	ErrProductPriceInvalid  = errors.New("商品价格错误")
	ErrSizeRequired         = errors.New("请选择规格")
	ErrSizeUnavailable      = errors.New("规格不存在或缺货")
	ErrCartItemNotFound     = errors.New("购物车中无此商品")
	ErrCartEmpty            = errors.New("购物车为空")
	ErrAddressRequired      = errors.New("缺少收货地址")
	ErrPaymentMethodInvalid = errors.New("不支持的支付方式")
)

// 订单与支付
var (
	ErrOrderNotFound           = errors.New("订单不存在")
	ErrOrderStatusInvalid      = errors.New("订单状态不允许该操作")
	ErrPaymentSignatureInvalid = errors.New("支付签名校验失败")
	ErrPaymentGatewayFailed    = errors.New("支付网关请求失败")
	ErrWebhookSignatureInvalid = errors.New("webhook 签名校验失败")
)

// 钱包
var (
	ErrWalletInvalidAmount = errors.New("金额无效")
	ErrWalletInsufficient  = errors.New("钱包余额不足")
	ErrWalletNotFound      = errors.New("钱包不存在")
)

// 评论与心愿单
var (
	ErrReviewNotFound       = errors.New("评论不存在")
	ErrReviewRatingInvalid  = errors.New("评分必须在 1-5 之间")
	ErrReviewNotOwner       = errors.New("只能修改自己的评论")
	ErrReviewNotLiked       = errors.New("尚未点赞该评论")
	ErrWishlistDuplicate    = errors.New("商品已在心愿单中")
	ErrWishlistItemNotFound = errors.New("心愿单中无此商品")
)

// 其他
var (
	ErrBlogNotFound         = errors.New("文章不存在")
	ErrShippingDisabled     = errors.New("物流服务未启用")
	ErrShippingFailed       = errors.New("物流服务请求失败")
	ErrContactFieldsMissing = errors.New("请填写全部字段")
	ErrCaptchaRequired      = errors.New("请完成验证码")
	ErrCaptchaInvalid       = errors.New("验证码错误")
	ErrCaptchaConfigInvalid = errors.New("验证码配置错误")
)

// SizeError 规格校验失败，携带具体规格名
type SizeError struct {
	ProductID uint
	Product   string
	Size      string
	Err       error
}

func (e *SizeError) Error() string {
	if e.Size == "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Product)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Err.Error(), e.Product, e.Size)
}

// Unwrap 支持 errors.Is 判断
func (e *SizeError) Unwrap() error {
	return e.Err
}
