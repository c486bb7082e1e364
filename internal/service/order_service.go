package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dujiao-next/storefront/internal/cache"
	"github.com/dujiao-next/storefront/internal/constants"
	"github.com/dujiao-next/storefront/internal/logger"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/payment/razorpay"
	"github.com/dujiao-next/storefront/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderServiceOptions 订单服务配置
type OrderServiceOptions struct {
	DeliveryDays int
	CounterStart int64
	Currency     string
}

// PlaceOrderInput 下单输入
type PlaceOrderInput struct {
	UserID        uint
	PaymentMethod string
	Address       *models.Address
}

// PlaceOrderResult 下单结果，包含本地订单与网关订单
type PlaceOrderResult struct {
	Order        *models.Order   `json:"order"`
	GatewayOrder *razorpay.Order `json:"razorpay_order"`
}

// OrderService 订单服务
type OrderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	userRepo    repository.UserRepository
	counterRepo repository.CounterRepository
	walletSvc   *WalletService
	gateway     PaymentGateway
	dispatcher  *ShipmentDispatcher
	store       cache.Store
	options     OrderServiceOptions
	now         func() time.Time
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	userRepo repository.UserRepository,
	counterRepo repository.CounterRepository,
	walletSvc *WalletService,
	gateway PaymentGateway,
	dispatcher *ShipmentDispatcher,
	store cache.Store,
	options OrderServiceOptions,
) *OrderService {
	if options.DeliveryDays <= 0 {
		options.DeliveryDays = constants.DefaultDeliveryDay
	}
	if options.CounterStart <= 0 {
		options.CounterStart = 100000
	}
	if strings.TrimSpace(options.Currency) == "" {
		options.Currency = "INR"
	}
	return &OrderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		userRepo:    userRepo,
		counterRepo: counterRepo,
		walletSvc:   walletSvc,
		gateway:     gateway,
		dispatcher:  dispatcher,
		store:       store,
		options:     options,
		now:         time.Now,
	}
}

// PlaceOrder 购物车下单：校验、计价、创建网关订单、写订单并清空购物车
func (s *OrderService) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*PlaceOrderResult, error) {
	method, err := normalizePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.IsDeleted {
		return nil, ErrUserNotFound
	}
	cart, err := s.cartRepo.GetByUser(user.ID)
	if err != nil {
		return nil, err
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		product := line.Product
		if product == nil {
			return nil, ErrProductNotFound
		}
		if product.IsDeleted || !product.IsActive {
			return nil, ErrProductNotAvailable
		}
		size, err := ValidateSize(product, line.Size)
		if err != nil {
			return nil, err
		}
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Category:  product.Category,
			Size:      size,
			Quantity:  line.Quantity,
			UnitPrice: models.NewMoneyFromDecimal(ResolveUnitPrice(product, size)),
			Weight:    resolveSizeWeight(product, size),
		})
	}
	total := ComputeCartTotal(cart.Items)

	address, err := resolveOrderAddress(input.Address, user.Address)
	if err != nil {
		return nil, err
	}

	receipt := "receipt_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
	gatewayOrder, err := s.gateway.CreateOrder(ctx, MinorUnits(total), s.options.Currency, receipt)
	if err != nil {
		logger.Warnw("order_place_gateway_failed", "user_id", user.ID, "amount", total.StringFixed(2), "error", err)
		return nil, fmt.Errorf("%w: %v", ErrPaymentGatewayFailed, err)
	}

	now := s.now()
	order := &models.Order{
		UserID:          user.ID,
		TotalPrice:      models.NewMoneyFromDecimal(total),
		PaymentMethod:   method,
		PaymentStatus:   constants.PaymentStatusPending,
		OrderStatus:     constants.OrderStatusProcessing,
		RazorpayOrderID: gatewayOrder.ID,
		Address:         address,
		Delivery: models.Delivery{
			Status: constants.DeliveryStatusPending,
			Date:   now.AddDate(0, 0, s.options.DeliveryDays),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		seq, err := s.counterRepo.WithTx(tx).Next(constants.OrderCounterName, s.options.CounterStart)
		if err != nil {
			return err
		}
		order.ID = uint(seq)
		if method == constants.PaymentMethodWallet {
			order.PaymentStatus = constants.PaymentStatusPaid
			order.PaidAt = &now
		}
		if err := s.orderRepo.WithTx(tx).Create(order, items); err != nil {
			return err
		}
		if method == constants.PaymentMethodWallet {
			if _, err := s.walletSvc.PayOrder(tx, order); err != nil {
				return err
			}
		}
		return s.cartRepo.WithTx(tx).Clear(cart.ID)
	})
	if err != nil {
		return nil, err
	}

	keys := []string{cache.CartKey(user.ID), cache.DashboardKey(user.ID)}
	if method == constants.PaymentMethodWallet {
		keys = append(keys, cache.WalletKey(user.ID))
	}
	if err := cache.Del(ctx, s.store, keys...); err != nil {
		logger.Warnw("order_place_cache_invalidate_failed", "user_id", user.ID, "error", err)
	}
	logger.Infow("order_placed",
		"order_id", order.ID,
		"user_id", user.ID,
		"payment_method", method,
		"total", total.StringFixed(2),
		"razorpay_order_id", gatewayOrder.ID,
	)
	if order.PaymentStatus == constants.PaymentStatusPaid {
		s.dispatcher.Dispatch(ctx, order.ID, "wallet")
	}
	return &PlaceOrderResult{Order: order, GatewayOrder: gatewayOrder}, nil
}

// ListByUser 用户订单列表
func (s *OrderService) ListByUser(userID uint, page, pageSize int) ([]models.Order, int64, error) {
	if userID == 0 {
		return nil, 0, ErrUserNotFound
	}
	return s.orderRepo.ListByUser(repository.OrderListFilter{UserID: userID, Page: page, PageSize: pageSize})
}

// Recent 最近订单
func (s *OrderService) Recent(userID uint, limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 5
	}
	orders, _, err := s.ListByUser(userID, 1, limit)
	return orders, err
}

// Detail 用户订单详情
func (s *OrderService) Detail(userID, orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// Cancel 用户取消订单：仅处理中且未在线支付的订单可取消
func (s *OrderService) Cancel(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	order, err := s.Detail(userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.OrderStatus != constants.OrderStatusProcessing {
		return nil, ErrOrderStatusInvalid
	}
	if order.PaymentStatus == constants.PaymentStatusPaid && order.PaymentMethod != constants.PaymentMethodCOD {
		return nil, ErrOrderStatusInvalid
	}
	if err := s.orderRepo.UpdateFields(order.ID, map[string]interface{}{
		"order_status": constants.OrderStatusCancelled,
	}); err != nil {
		return nil, err
	}
	order.OrderStatus = constants.OrderStatusCancelled
	_ = cache.Del(ctx, s.store, cache.DashboardKey(userID))
	logger.Infow("order_cancelled", "order_id", order.ID, "user_id", userID)
	return order, nil
}

func normalizePaymentMethod(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "cod":
		return constants.PaymentMethodCOD, nil
	case "razorpay", "online":
		return constants.PaymentMethodRazorpay, nil
	case "wallet":
		return constants.PaymentMethodWallet, nil
	default:
		return "", ErrPaymentMethodInvalid
	}
}

func resolveOrderAddress(requested *models.Address, profile models.Address) (models.Address, error) {
	if requested != nil && !requested.IsEmpty() {
		return *requested, nil
	}
	if !profile.IsEmpty() {
		return profile, nil
	}
	return models.Address{}, ErrAddressRequired
}

func resolveSizeWeight(product *models.Product, size *string) string {
	if product == nil || len(product.Sizes) == 0 {
		return ""
	}
	if size != nil {
		if matched := product.FindSize(*size); matched != nil {
			return matched.Weight
		}
	}
	return product.Sizes[0].Weight
}
