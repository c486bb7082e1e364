package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dujiao-next/storefront/internal/cache"
	"github.com/dujiao-next/storefront/internal/constants"
	"github.com/dujiao-next/storefront/internal/logger"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/payment/razorpay"
	"github.com/dujiao-next/storefront/internal/repository"

	"github.com/shopspring/decimal"
)

// PaymentGateway 支付网关能力
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*razorpay.Order, error)
	VerifyPaymentSignature(orderID, paymentID, signature string) error
	VerifyWebhookSignature(body []byte, signature string) error
	FetchPayments(ctx context.Context, count, skip int) ([]razorpay.Payment, error)
	FetchPayment(ctx context.Context, paymentID string) (*razorpay.Payment, error)
	RefundPayment(ctx context.Context, paymentID string, amount int64) (*razorpay.Refund, error)
}

// VerifyPaymentInput 支付回调校验输入
type VerifyPaymentInput struct {
	UserID            uint
	OrderID           uint
	RazorpayOrderID   string
	RazorpayPaymentID string
	Signature         string
}

// WebhookResult Webhook 处理结果
type WebhookResult struct {
	Event   string `json:"event"`
	OrderID uint   `json:"order_id,omitempty"`
	Handled bool   `json:"handled"`
}

// PaymentService 支付服务
type PaymentService struct {
	orderRepo  repository.OrderRepository
	gateway    PaymentGateway
	dispatcher *ShipmentDispatcher
	store      cache.Store
	now        func() time.Time
}

// NewPaymentService 创建支付服务
func NewPaymentService(orderRepo repository.OrderRepository, gateway PaymentGateway, dispatcher *ShipmentDispatcher, store cache.Store) *PaymentService {
	return &PaymentService{
		orderRepo:  orderRepo,
		gateway:    gateway,
		dispatcher: dispatcher,
		store:      store,
		now:        time.Now,
	}
}

// VerifyPayment 校验 HMAC 签名，通过后将订单标记为已支付
func (s *PaymentService) VerifyPayment(ctx context.Context, input VerifyPaymentInput) (*models.Order, error) {
	gatewayOrderID := strings.TrimSpace(input.RazorpayOrderID)
	paymentID := strings.TrimSpace(input.RazorpayPaymentID)
	if gatewayOrderID == "" || paymentID == "" || strings.TrimSpace(input.Signature) == "" {
		return nil, ErrInvalidInput
	}
	if err := s.gateway.VerifyPaymentSignature(gatewayOrderID, paymentID, strings.TrimSpace(input.Signature)); err != nil {
		logger.Warnw("payment_signature_invalid", "user_id", input.UserID, "razorpay_order_id", gatewayOrderID)
		if errors.Is(err, razorpay.ErrSignatureInvalid) {
			return nil, ErrPaymentSignatureInvalid
		}
		return nil, fmt.Errorf("%w: %v", ErrPaymentGatewayFailed, err)
	}

	order, err := s.locateOrder(input.OrderID, gatewayOrderID)
	if err != nil {
		return nil, err
	}
	if order == nil || (input.UserID != 0 && order.UserID != input.UserID) {
		return nil, ErrOrderNotFound
	}
	return s.markPaid(ctx, order, paymentID, "verify")
}

// HandleWebhook 处理网关 Webhook；仅 payment.captured 会修改订单
func (s *PaymentService) HandleWebhook(ctx context.Context, body []byte, signature string) (*WebhookResult, error) {
	if strings.TrimSpace(signature) == "" {
		return nil, ErrWebhookSignatureInvalid
	}
	if err := s.gateway.VerifyWebhookSignature(body, signature); err != nil {
		logger.Warnw("webhook_signature_invalid", "error", err)
		return nil, ErrWebhookSignatureInvalid
	}
	event, err := razorpay.ParseWebhookEvent(body)
	if err != nil {
		return nil, ErrInvalidInput
	}
	result := &WebhookResult{Event: event.Event}
	if event.Event != constants.RazorpayEventPaymentCaptured {
		logger.Debugw("webhook_event_ignored", "event", event.Event)
		return result, nil
	}

	order, err := s.orderRepo.GetByRazorpayOrderID(event.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		logger.Warnw("webhook_order_not_found", "razorpay_order_id", event.OrderID, "payment_id", event.PaymentID)
		return result, nil
	}
	if _, err := s.markPaid(ctx, order, event.PaymentID, "webhook"); err != nil {
		return nil, err
	}
	result.OrderID = order.ID
	result.Handled = true
	return result, nil
}

// ListGatewayPayments 查询网关支付记录
func (s *PaymentService) ListGatewayPayments(ctx context.Context, count, skip int) ([]razorpay.Payment, error) {
	payments, err := s.gateway.FetchPayments(ctx, count, skip)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentGatewayFailed, err)
	}
	return payments, nil
}

// GetGatewayPayment 查询单笔网关支付
func (s *PaymentService) GetGatewayPayment(ctx context.Context, paymentID string) (*razorpay.Payment, error) {
	payment, err := s.gateway.FetchPayment(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentGatewayFailed, err)
	}
	return payment, nil
}

// RefundGatewayPayment 发起网关退款，amount 为空或 0 表示全额
func (s *PaymentService) RefundGatewayPayment(ctx context.Context, paymentID string, amount decimal.Decimal) (*razorpay.Refund, error) {
	if strings.TrimSpace(paymentID) == "" || amount.IsNegative() {
		return nil, ErrInvalidInput
	}
	refund, err := s.gateway.RefundPayment(ctx, paymentID, MinorUnits(amount))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentGatewayFailed, err)
	}
	logger.Infow("payment_refunded", "payment_id", paymentID, "refund_id", refund.ID, "amount", refund.Amount)
	return refund, nil
}

func (s *PaymentService) locateOrder(orderID uint, gatewayOrderID string) (*models.Order, error) {
	if orderID != 0 {
		order, err := s.orderRepo.GetByID(orderID)
		if err != nil {
			return nil, err
		}
		if order != nil && order.RazorpayOrderID != gatewayOrderID {
			return nil, ErrOrderNotFound
		}
		return order, nil
	}
	return s.orderRepo.GetByRazorpayOrderID(gatewayOrderID)
}

func (s *PaymentService) markPaid(ctx context.Context, order *models.Order, paymentID, source string) (*models.Order, error) {
	now := s.now()
	changed, err := s.orderRepo.MarkPaid(order.ID, paymentID, now)
	if err != nil {
		return nil, err
	}
	if !changed {
		logger.Debugw("payment_already_marked_paid", "order_id", order.ID, "source", source)
		return order, nil
	}
	order.PaymentStatus = constants.PaymentStatusPaid
	order.RazorpayPaymentID = paymentID
	order.PaidAt = &now
	if err := cache.Del(ctx, s.store, cache.DashboardKey(order.UserID)); err != nil {
		logger.Warnw("payment_cache_invalidate_failed", "order_id", order.ID, "error", err)
	}
	logger.Infow("order_marked_paid", "order_id", order.ID, "payment_id", paymentID, "source", source)
	s.dispatcher.Dispatch(ctx, order.ID, source)
	return order, nil
}
