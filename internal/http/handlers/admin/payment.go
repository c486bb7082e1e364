package admin

import (
	"strings"

	handlershared "github.com/dujiao-next/storefront/internal/http/handlers/shared"
	"github.com/dujiao-next/storefront/internal/http/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// RefundRequest 退款请求，金额缺省时全额退款
type RefundRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// GetAdminPayments 网关支付记录
func (h *Handler) GetAdminPayments(c *gin.Context) {
	count := handlershared.QueryInt(c, "count", 20)
	skip := handlershared.QueryInt(c, "skip", 0)
	payments, err := h.PaymentService.ListGatewayPayments(c.Request.Context(), count, skip)
	if err != nil {
		respondMappedError(c, err, adminOrderRules, "error.payment_fetch_failed")
		return
	}
	response.Success(c, payments)
}

// GetAdminPayment 网关支付详情
func (h *Handler) GetAdminPayment(c *gin.Context) {
	paymentID := strings.TrimSpace(c.Param("id"))
	if paymentID == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	payment, err := h.PaymentService.GetGatewayPayment(c.Request.Context(), paymentID)
	if err != nil {
		respondMappedError(c, err, adminOrderRules, "error.payment_fetch_failed")
		return
	}
	response.Success(c, payment)
}

// RefundAdminPayment 发起网关退款
func (h *Handler) RefundAdminPayment(c *gin.Context) {
	paymentID := strings.TrimSpace(c.Param("id"))
	if paymentID == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var req RefundRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
	}
	refund, err := h.PaymentService.RefundGatewayPayment(c.Request.Context(), paymentID, req.Amount)
	if err != nil {
		respondMappedError(c, err, adminOrderRules, "error.refund_failed")
		return
	}
	requestLog(c).Infow("admin_payment_refunded", "payment_id", paymentID, "refund_id", refund.ID)
	response.Success(c, refund)
}
