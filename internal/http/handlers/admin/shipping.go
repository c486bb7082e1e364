package admin

import (
	"github.com/dujiao-next/storefront/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CreateShipmentForOrderRequest 按订单创建物流单请求
type CreateShipmentForOrderRequest struct {
	OrderID uint `json:"order_id"`
}

// ShiprocketLogin 刷新物流网关 Token
func (h *Handler) ShiprocketLogin(c *gin.Context) {
	token, err := h.ShippingService.Login(c.Request.Context())
	if err != nil {
		respondMappedError(c, err, adminContentRules, "error.shipping_failed")
		return
	}
	response.Success(c, gin.H{"token": token})
}

// ShiprocketCreateOrder 创建物流单；带 order_id 时按订单组装报文，否则原样透传
func (h *Handler) ShiprocketCreateOrder(c *gin.Context) {
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if orderID := readOrderID(payload); orderID > 0 && len(payload) == 1 {
		order, err := h.ShippingService.CreateForOrder(c.Request.Context(), orderID)
		if err != nil {
			respondMappedError(c, err, adminShippingRules, "error.shipping_failed")
			return
		}
		response.Success(c, order)
		return
	}
	result, err := h.ShippingService.CreateRaw(c.Request.Context(), payload)
	if err != nil {
		respondMappedError(c, err, adminContentRules, "error.shipping_failed")
		return
	}
	response.Success(c, result)
}

// ShiprocketShipments 物流单列表
func (h *Handler) ShiprocketShipments(c *gin.Context) {
	data, err := h.ShippingService.ListShipments(c.Request.Context())
	if err != nil {
		respondMappedError(c, err, adminContentRules, "error.shipping_failed")
		return
	}
	response.Success(c, data)
}

func readOrderID(payload map[string]interface{}) uint {
	raw, ok := payload["order_id"]
	if !ok {
		return 0
	}
	value, ok := raw.(float64)
	if !ok || value <= 0 {
		return 0
	}
	return uint(value)
}
