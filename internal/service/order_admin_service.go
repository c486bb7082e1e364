package service

import (
	"strings"
	"time"

	"github.com/dujiao-next/storefront/internal/constants"
	"github.com/dujiao-next/storefront/internal/logger"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/repository"
)

// AdminOrderUpdateInput 管理端订单状态更新输入，空值字段不修改
type AdminOrderUpdateInput struct {
	OrderStatus    string
	PaymentStatus  string
	DeliveryStatus string
	DeliveryDate   *time.Time
	Address        *models.Address
}

var (
	validOrderStatuses = map[string]struct{}{
		constants.OrderStatusProcessing: {},
		constants.OrderStatusShipped:    {},
		constants.OrderStatusDelivered:  {},
		constants.OrderStatusCancelled:  {},
	}
	validPaymentStatuses = map[string]struct{}{
		constants.PaymentStatusPending:  {},
		constants.PaymentStatusPaid:     {},
		constants.PaymentStatusFailed:   {},
		constants.PaymentStatusRefunded: {},
	}
	validDeliveryStatuses = map[string]struct{}{
		constants.DeliveryStatusPending:   {},
		constants.DeliveryStatusShipped:   {},
		constants.DeliveryStatusDelivered: {},
	}
)

// ListAll 管理端订单列表
func (s *OrderService) ListAll(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListAdmin(filter)
}

// Get 管理端订单详情
func (s *OrderService) Get(orderID uint) (*models.Order, error) {
	if orderID == 0 {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// SearchByID 按订单号查询（含已软删除订单）
func (s *OrderService) SearchByID(orderID uint) ([]models.Order, error) {
	if orderID == 0 {
		return []models.Order{}, nil
	}
	orders, _, err := s.orderRepo.ListAdmin(repository.OrderListFilter{OrderID: orderID, WithDeleted: true, Page: 1, PageSize: 1})
	return orders, err
}

// UpdateStatus 管理端更新订单、支付与配送状态
func (s *OrderService) UpdateStatus(orderID uint, input AdminOrderUpdateInput) (*models.Order, error) {
	order, err := s.Get(orderID)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if status := strings.TrimSpace(input.OrderStatus); status != "" {
		if _, ok := validOrderStatuses[status]; !ok {
			return nil, ErrOrderStatusInvalid
		}
		updates["order_status"] = status
	}
	if status := strings.TrimSpace(input.PaymentStatus); status != "" {
		if _, ok := validPaymentStatuses[status]; !ok {
			return nil, ErrOrderStatusInvalid
		}
		updates["payment_status"] = status
		if status == constants.PaymentStatusPaid && order.PaidAt == nil {
			updates["paid_at"] = s.now()
		}
	}
	if status := strings.TrimSpace(input.DeliveryStatus); status != "" {
		if _, ok := validDeliveryStatuses[status]; !ok {
			return nil, ErrOrderStatusInvalid
		}
		updates["delivery_status"] = status
	}
	if input.DeliveryDate != nil {
		updates["delivery_date"] = *input.DeliveryDate
	}
	if input.Address != nil && !input.Address.IsEmpty() {
		updates["address_street"] = input.Address.Street
		updates["address_city"] = input.Address.City
		updates["address_state"] = input.Address.State
		updates["address_zipcode"] = input.Address.Zipcode
		updates["address_country"] = input.Address.Country
	}
	if len(updates) == 0 {
		return order, nil
	}
	if err := s.orderRepo.UpdateFields(order.ID, updates); err != nil {
		return nil, err
	}
	logger.Infow("admin_order_updated", "order_id", order.ID, "fields", len(updates))
	return s.Get(order.ID)
}

// SoftDelete 软删除订单
func (s *OrderService) SoftDelete(orderID uint) error {
	if orderID == 0 {
		return ErrOrderNotFound
	}
	return s.orderRepo.SoftDelete([]uint{orderID})
}

// BulkSoftDelete 批量软删除订单
func (s *OrderService) BulkSoftDelete(orderIDs []uint) error {
	if len(orderIDs) == 0 {
		return ErrInvalidInput
	}
	return s.orderRepo.SoftDelete(orderIDs)
}

// HardDelete 物理删除订单
func (s *OrderService) HardDelete(orderID uint) error {
	if _, err := s.Get(orderID); err != nil {
		return err
	}
	if err := s.orderRepo.HardDelete(orderID); err != nil {
		return err
	}
	logger.Infow("admin_order_hard_deleted", "order_id", orderID)
	return nil
}
