package public

import (
	"io"

	"github.com/dujiao-next/storefront/internal/constants"
	"github.com/dujiao-next/storefront/internal/http/response"
	"github.com/dujiao-next/storefront/internal/i18n"
	"github.com/dujiao-next/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

const maxWebhookBodyBytes = 1 << 20

// VerifyPaymentRequest 前端支付完成后的验签请求
type VerifyPaymentRequest struct {
	OrderID           uint   `json:"order_id"`
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

// VerifyPayment 校验支付签名并标记订单已支付
func (h *Handler) VerifyPayment(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	order, err := h.PaymentService.VerifyPayment(c.Request.Context(), service.VerifyPaymentInput{
		UserID:            uid,
		OrderID:           req.OrderID,
		RazorpayOrderID:   req.RazorpayOrderID,
		RazorpayPaymentID: req.RazorpayPaymentID,
		Signature:         req.RazorpaySignature,
	})
	if err != nil {
		respondMappedError(c, err, orderRules, "error.payment_verify_failed")
		return
	}
	response.Success(c, order)
}

// RazorpayWebhook 支付网关回调，签名基于原始请求体计算
func (h *Handler) RazorpayWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	signature := c.GetHeader(constants.RazorpaySignatureHeader)
	result, err := h.PaymentService.HandleWebhook(c.Request.Context(), body, signature)
	if err != nil {
		requestLog(c).Warnw("webhook_razorpay_rejected", "error", err)
		respondMappedError(c, err, orderRules, "error.payment_verify_failed")
		return
	}
	key := "message.webhook_ignored"
	if result.Handled {
		key = "message.webhook_processed"
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), key), result)
}
