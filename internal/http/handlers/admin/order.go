package admin

import (
	"strings"
	"time"

	"github.com/dujiao-next/storefront/internal/http/response"
	"github.com/dujiao-next/storefront/internal/i18n"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/repository"
	"github.com/dujiao-next/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateOrderRequest 管理端订单更新请求
type UpdateOrderRequest struct {
	OrderStatus    string          `json:"order_status"`
	PaymentStatus  string          `json:"payment_status"`
	DeliveryStatus string          `json:"delivery_status"`
	DeliveryDate   *time.Time      `json:"delivery_date"`
	Address        *models.Address `json:"address"`
}

// GetAdminOrders 订单列表，支持状态、用户与时间过滤
func (h *Handler) GetAdminOrders(c *gin.Context) {
	page, pageSize := pageParams(c)
	filter := repository.OrderListFilter{
		Page:          page,
		PageSize:      pageSize,
		OrderStatus:   strings.TrimSpace(c.Query("order_status")),
		PaymentStatus: strings.TrimSpace(c.Query("payment_status")),
		PaymentMethod: strings.TrimSpace(c.Query("payment_method")),
		WithDeleted:   strings.EqualFold(strings.TrimSpace(c.Query("include_deleted")), "true"),
	}
	if userID := queryUint(c, "user_id"); userID > 0 {
		filter.UserID = userID
	}
	if orderID := queryUint(c, "order_id"); orderID > 0 {
		filter.OrderID = orderID
	}
	if from, ok := queryDate(c, "created_from"); ok {
		filter.CreatedFrom = &from
	}
	if to, ok := queryDate(c, "created_to"); ok {
		end := to.Add(24*time.Hour - time.Nanosecond)
		filter.CreatedTo = &end
	}

	orders, total, err := h.OrderService.ListAll(filter)
	if err != nil {
		respondMappedError(c, err, adminOrderRules, "error.order_fetch_failed")
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetAdminOrder 订单详情
func (h *Handler) GetAdminOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.Get(id)
	if err != nil {
		respondMappedError(c, err, adminOrderRules, "error.order_fetch_failed")
		return
	}
	response.Success(c, order)
}

// SearchAdminOrders 按订单号前缀搜索
func (h *Handler) SearchAdminOrders(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	orders, err := h.OrderService.SearchByID(id)
	if err != nil {
		respondMappedError(c, err, adminOrderRules, "error.order_fetch_failed")
		return
	}
	response.Success(c, orders)
}

// UpdateAdminOrder 更新订单/支付/配送状态
func (h *Handler) UpdateAdminOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	order, err := h.OrderService.UpdateStatus(id, service.AdminOrderUpdateInput{
		OrderStatus:    req.OrderStatus,
		PaymentStatus:  req.PaymentStatus,
		DeliveryStatus: req.DeliveryStatus,
		DeliveryDate:   req.DeliveryDate,
		Address:        req.Address,
	})
	if err != nil {
		respondMappedError(c, err, adminOrderRules, "error.order_update_failed")
		return
	}
	response.Success(c, order)
}

// SoftDeleteAdminOrder 软删除订单
func (h *Handler) SoftDeleteAdminOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.OrderService.SoftDelete(id); err != nil {
		respondMappedError(c, err, adminOrderRules, "error.order_update_failed")
		return
	}
	response.Success(c, gin.H{"soft_deleted": true})
}

// BulkSoftDeleteAdminOrders 批量软删除订单
func (h *Handler) BulkSoftDeleteAdminOrders(c *gin.Context) {
	var req BulkIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.OrderService.BulkSoftDelete(req.IDs); err != nil {
		respondMappedError(c, err, adminOrderRules, "error.order_update_failed")
		return
	}
	response.Success(c, gin.H{"soft_deleted": len(req.IDs)})
}

// DeleteAdminOrder 物理删除订单
func (h *Handler) DeleteAdminOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.OrderService.HardDelete(id); err != nil {
		respondMappedError(c, err, adminOrderRules, "error.order_update_failed")
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "message.deleted"), gin.H{"deleted": true})
}
