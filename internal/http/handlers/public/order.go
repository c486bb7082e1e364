package public

import (
	handlershared "github.com/dujiao-next/storefront/internal/http/handlers/shared"
	"github.com/dujiao-next/storefront/internal/http/response"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

const recentOrderLimit = 5

// PlaceOrderRequest 下单请求，未填写地址时使用用户资料中的地址
type PlaceOrderRequest struct {
	PaymentMethod string          `json:"payment_method" binding:"required"`
	Address       *models.Address `json:"address"`
}

// PlaceOrder 提交订单
func (h *Handler) PlaceOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	result, err := h.OrderService.PlaceOrder(c.Request.Context(), service.PlaceOrderInput{
		UserID:        uid,
		PaymentMethod: req.PaymentMethod,
		Address:       req.Address,
	})
	if err != nil {
		respondMappedError(c, err, orderRules, "error.order_create_failed")
		return
	}
	response.Success(c, result)
}

// ListOrders 当前用户订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.NormalizePagination(
		handlershared.QueryInt(c, "page", 1),
		handlershared.QueryInt(c, "page_size", 20),
	)
	orders, total, err := h.OrderService.ListByUser(uid, page, pageSize)
	if err != nil {
		respondMappedError(c, err, orderRules, "error.order_fetch_failed")
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// RecentOrders 最近订单
func (h *Handler) RecentOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orders, err := h.OrderService.Recent(uid, recentOrderLimit)
	if err != nil {
		respondMappedError(c, err, orderRules, "error.order_fetch_failed")
		return
	}
	response.Success(c, orders)
}

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.Detail(uid, id)
	if err != nil {
		respondMappedError(c, err, orderRules, "error.order_fetch_failed")
		return
	}
	response.Success(c, order)
}

// CancelOrder 用户取消订单
func (h *Handler) CancelOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.Cancel(c.Request.Context(), uid, id)
	if err != nil {
		respondMappedError(c, err, orderRules, "error.order_update_failed")
		return
	}
	response.Success(c, order)
}
