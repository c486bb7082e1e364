package shared

import (
	"errors"

	"github.com/dujiao-next/storefront/internal/http/response"
	"github.com/dujiao-next/storefront/internal/i18n"
	"github.com/dujiao-next/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// MappedError 业务错误到接口错误响应的映射关系。
type MappedError struct {
	Target error
	Code   int
	Key    string
}

// keyedError 携带国际化 key 与参数的错误（如密码策略）。
type keyedError interface {
	Key() string
	Args() []interface{}
}

// UserErrorRules 用户与认证相关错误。
var UserErrorRules = []MappedError{
	{Target: service.ErrUserNotFound, Code: response.CodeNotFound, Key: "error.user_not_found"},
	{Target: service.ErrUserDisabled, Code: response.CodeForbidden, Key: "error.user_disabled"},
	{Target: service.ErrEmailExists, Code: response.CodeConflict, Key: "error.email_exists"},
	{Target: service.ErrPhoneExists, Code: response.CodeConflict, Key: "error.phone_exists"},
	{Target: service.ErrInvalidEmail, Code: response.CodeBadRequest, Key: "error.email_invalid"},
	{Target: service.ErrPhoneRequired, Code: response.CodeBadRequest, Key: "error.phone_required"},
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.invalid_credentials"},
	{Target: service.ErrInvalidPassword, Code: response.CodeBadRequest, Key: "error.password_invalid"},
	{Target: service.ErrWeakPassword, Code: response.CodeBadRequest, Key: "error.password_weak"},
	{Target: service.ErrCaptchaRequired, Code: response.CodeBadRequest, Key: "error.captcha_required"},
	{Target: service.ErrCaptchaInvalid, Code: response.CodeBadRequest, Key: "error.captcha_invalid"},
	{Target: service.ErrCaptchaConfigInvalid, Code: response.CodeBadRequest, Key: "error.captcha_config_invalid"},
}

// CatalogErrorRules 商品与购物车相关错误。
var CatalogErrorRules = []MappedError{
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrProductNotAvailable, Code: response.CodeBadRequest, Key: "error.product_not_available"},
	{Target: service.ErrProductSizesInvalid, Code: response.CodeBadRequest, Key: "error.product_sizes_invalid"},
	{Target: service.ErrProductPriceInvalid, Code: response.CodeBadRequest, Key: "error.product_price_invalid"},
	{Target: service.ErrCartItemNotFound, Code: response.CodeNotFound, Key: "error.cart_item_not_found"},
	{Target: service.ErrCartEmpty, Code: response.CodeBadRequest, Key: "error.cart_empty"},
}

// OrderErrorRules 下单与支付相关错误。
var OrderErrorRules = []MappedError{
	{Target: service.ErrAddressRequired, Code: response.CodeBadRequest, Key: "error.address_required"},
	{Target: service.ErrPaymentMethodInvalid, Code: response.CodeBadRequest, Key: "error.payment_method_invalid"},
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrOrderStatusInvalid, Code: response.CodeBadRequest, Key: "error.order_status_invalid"},
	{Target: service.ErrPaymentSignatureInvalid, Code: response.CodeBadRequest, Key: "error.payment_signature"},
	{Target: service.ErrWebhookSignatureInvalid, Code: response.CodeBadRequest, Key: "error.webhook_signature"},
	{Target: service.ErrPaymentGatewayFailed, Code: response.CodeBadGateway, Key: "error.payment_gateway_failed"},
	{Target: service.ErrWalletInvalidAmount, Code: response.CodeBadRequest, Key: "error.wallet_invalid_amount"},
	{Target: service.ErrWalletInsufficient, Code: response.CodeBadRequest, Key: "error.wallet_insufficient"},
	{Target: service.ErrWalletNotFound, Code: response.CodeNotFound, Key: "error.wallet_not_found"},
}

// ContentErrorRules 评论、心愿单、博客、物流与留言相关错误。
var ContentErrorRules = []MappedError{
	{Target: service.ErrReviewNotFound, Code: response.CodeNotFound, Key: "error.review_not_found"},
	{Target: service.ErrReviewRatingInvalid, Code: response.CodeBadRequest, Key: "error.review_rating_invalid"},
	{Target: service.ErrReviewNotOwner, Code: response.CodeForbidden, Key: "error.review_not_owner"},
	{Target: service.ErrReviewNotLiked, Code: response.CodeBadRequest, Key: "error.review_not_liked"},
	{Target: service.ErrWishlistDuplicate, Code: response.CodeConflict, Key: "error.wishlist_duplicate"},
	{Target: service.ErrWishlistItemNotFound, Code: response.CodeNotFound, Key: "error.wishlist_item_not_found"},
	{Target: service.ErrBlogNotFound, Code: response.CodeNotFound, Key: "error.blog_not_found"},
	{Target: service.ErrShippingDisabled, Code: response.CodeBadRequest, Key: "error.shipping_disabled"},
	{Target: service.ErrShippingFailed, Code: response.CodeBadGateway, Key: "error.shipping_failed"},
	{Target: service.ErrContactFieldsMissing, Code: response.CodeBadRequest, Key: "error.contact_fields_missing"},
}

// GenericErrorRules 通用错误，放在最后匹配。
var GenericErrorRules = []MappedError{
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.not_found"},
	{Target: service.ErrInvalidInput, Code: response.CodeBadRequest, Key: "error.bad_request"},
	{Target: service.ErrForbidden, Code: response.CodeForbidden, Key: "error.forbidden"},
}

// ConcatRules 合并多组映射规则。
func ConcatRules(groups ...[]MappedError) []MappedError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]MappedError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

// RespondMappedError 按规则映射错误；规格错误与密码策略错误带上具体参数。
func RespondMappedError(c *gin.Context, err error, rules []MappedError, fallbackCode int, fallbackKey string) {
	var sizeErr *service.SizeError
	if errors.As(err, &sizeErr) {
		respondSizeError(c, sizeErr)
		return
	}
	var keyed keyedError
	if errors.As(err, &keyed) {
		msg := i18n.Sprintf(i18n.ResolveLocale(c), keyed.Key(), keyed.Args()...)
		RespondErrorWithMsg(c, response.CodeBadRequest, msg, nil)
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Key, nil)
			return
		}
	}
	RespondError(c, fallbackCode, fallbackKey, err)
}

func respondSizeError(c *gin.Context, err *service.SizeError) {
	locale := i18n.ResolveLocale(c)
	var msg string
	switch {
	case errors.Is(err, service.ErrSizeRequired):
		msg = i18n.Sprintf(locale, "error.size_required_named", err.Product)
	case err.Size != "":
		msg = i18n.Sprintf(locale, "error.size_unavailable_named", err.Size)
	default:
		msg = i18n.T(locale, "error.size_unavailable")
	}
	RespondErrorWithMsg(c, response.CodeBadRequest, msg, nil)
}
