package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dujiao-next/storefront/internal/constants"
	"github.com/dujiao-next/storefront/internal/logger"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/queue"
	"github.com/dujiao-next/storefront/internal/repository"
	"github.com/dujiao-next/storefront/internal/shipping/shiprocket"

	"github.com/shopspring/decimal"
)

const (
	defaultItemWeightKg = 0.5
	defaultPackageSide  = 10
)

// ShippingGateway 物流网关能力
type ShippingGateway interface {
	Login(ctx context.Context) (string, error)
	CreateOrder(ctx context.Context, payload interface{}) (*shiprocket.OrderResult, error)
	Track(ctx context.Context, shipmentID string) (map[string]interface{}, error)
	ListShipments(ctx context.Context) (map[string]interface{}, error)
	PickupLocation() string
}

// ShippingService 物流服务
type ShippingService struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	gateway   ShippingGateway
}

// NewShippingService 创建物流服务，gateway 为空表示未启用
func NewShippingService(orderRepo repository.OrderRepository, userRepo repository.UserRepository, gateway ShippingGateway) *ShippingService {
	return &ShippingService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		gateway:   gateway,
	}
}

// Enabled 是否启用物流网关
func (s *ShippingService) Enabled() bool {
	return s != nil && s.gateway != nil
}

// CreateForOrder 为已支付订单创建物流订单，已创建过时直接返回
func (s *ShippingService) CreateForOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	if !s.Enabled() {
		return nil, ErrShippingDisabled
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.ShipmentID != "" || order.ShiprocketOrderID != "" {
		return order, nil
	}
	user := order.User
	if user == nil {
		user, err = s.userRepo.GetByID(order.UserID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
	}

	payload := BuildShipmentPayload(order, user, s.gateway.PickupLocation())
	result, err := s.gateway.CreateOrder(ctx, payload)
	if err != nil {
		logger.Warnw("shipment_create_failed", "order_id", order.ID, "error", err)
		return nil, wrapShippingError(err)
	}
	updates := map[string]interface{}{
		"shiprocket_order_id": result.OrderID,
		"shipment_id":         result.ShipmentID,
	}
	if err := s.orderRepo.UpdateFields(order.ID, updates); err != nil {
		return nil, err
	}
	order.ShiprocketOrderID = result.OrderID
	order.ShipmentID = result.ShipmentID
	logger.Infow("shipment_created", "order_id", order.ID, "shiprocket_order_id", result.OrderID, "shipment_id", result.ShipmentID)
	return order, nil
}

// Login 手动刷新物流网关令牌
func (s *ShippingService) Login(ctx context.Context) (string, error) {
	if !s.Enabled() {
		return "", ErrShippingDisabled
	}
	token, err := s.gateway.Login(ctx)
	if err != nil {
		return "", wrapShippingError(err)
	}
	return token, nil
}

// CreateRaw 透传原始物流订单请求
func (s *ShippingService) CreateRaw(ctx context.Context, payload map[string]interface{}) (map[string]interface{}, error) {
	if !s.Enabled() {
		return nil, ErrShippingDisabled
	}
	result, err := s.gateway.CreateOrder(ctx, payload)
	if err != nil {
		return nil, wrapShippingError(err)
	}
	return result.Raw, nil
}

// Track 查询运单轨迹
func (s *ShippingService) Track(ctx context.Context, shipmentID string) (map[string]interface{}, error) {
	if !s.Enabled() {
		return nil, ErrShippingDisabled
	}
	if strings.TrimSpace(shipmentID) == "" {
		return nil, ErrInvalidInput
	}
	data, err := s.gateway.Track(ctx, shipmentID)
	if err != nil {
		return nil, wrapShippingError(err)
	}
	return data, nil
}

// ListShipments 查询全部运单
func (s *ShippingService) ListShipments(ctx context.Context) (map[string]interface{}, error) {
	if !s.Enabled() {
		return nil, ErrShippingDisabled
	}
	data, err := s.gateway.ListShipments(ctx)
	if err != nil {
		return nil, wrapShippingError(err)
	}
	return data, nil
}

// BuildShipmentPayload 根据订单快照组装物流订单请求
func BuildShipmentPayload(order *models.Order, user *models.User, pickup string) shiprocket.OrderPayload {
	items := make([]shiprocket.OrderItem, 0, len(order.Items))
	weight := 0.0
	for _, item := range order.Items {
		label := "default"
		if item.Size != nil && strings.TrimSpace(*item.Size) != "" {
			label = strings.TrimSpace(*item.Size)
		}
		price, _ := item.UnitPrice.Decimal.Float64()
		items = append(items, shiprocket.OrderItem{
			Name:         item.Name,
			SKU:          fmt.Sprintf("%d-%s", item.ProductID, label),
			Units:        item.Quantity,
			SellingPrice: price,
		})
		weight += parseWeightKg(item.Weight) * float64(item.Quantity)
	}
	if weight <= 0 {
		weight = defaultItemWeightKg
	}

	var profile models.Address
	var customer models.User
	if user != nil {
		profile = user.Address
		customer = *user
	}
	paymentMethod := "Prepaid"
	if order.PaymentMethod == constants.PaymentMethodCOD {
		paymentMethod = "COD"
	}
	subTotal, _ := order.TotalPrice.Decimal.Float64()

	return shiprocket.OrderPayload{
		OrderID:             strconv.FormatUint(uint64(order.ID), 10),
		OrderDate:           order.CreatedAt.Format("2006-01-02"),
		PickupLocation:      pickup,
		BillingCustomerName: customer.FirstName,
		BillingLastName:     customer.LastName,
		BillingAddress:      firstNonEmpty(profile.Street, order.Address.Street, "No address provided"),
		BillingCity:         firstNonEmpty(profile.City, order.Address.City, "Unknown"),
		BillingPincode:      firstNonEmpty(profile.Zipcode, order.Address.Zipcode, "000000"),
		BillingState:        firstNonEmpty(profile.State, order.Address.State, "Unknown"),
		BillingCountry:      firstNonEmpty(profile.Country, order.Address.Country, "India"),
		BillingEmail:        customer.Email,
		BillingPhone:        customer.Phone,
		ShippingIsBilling:   true,
		OrderItems:          items,
		PaymentMethod:       paymentMethod,
		SubTotal:            subTotal,
		Length:              defaultPackageSide,
		Breadth:             defaultPackageSide,
		Height:              defaultPackageSide,
		Weight:              weight,
	}
}

// parseWeightKg 解析 "1.5"、"1.5kg" 这类重量，无法解析时按默认重量计
func parseWeightKg(raw string) float64 {
	raw = strings.TrimSpace(raw)
	end := 0
	for end < len(raw) && (raw[end] == '.' || (raw[end] >= '0' && raw[end] <= '9')) {
		end++
	}
	if end == 0 {
		return defaultItemWeightKg
	}
	value, err := decimal.NewFromString(strings.TrimRight(raw[:end], "."))
	if err != nil || !value.IsPositive() {
		return defaultItemWeightKg
	}
	parsed, _ := value.Float64()
	return parsed
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func wrapShippingError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrShippingFailed) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrShippingFailed, err)
}

// ShipmentDispatcher 物流订单派发：启用队列时异步，否则同步创建
type ShipmentDispatcher struct {
	queue    *queue.Client
	shipping *ShippingService
}

// NewShipmentDispatcher 创建派发器
func NewShipmentDispatcher(queueClient *queue.Client, shipping *ShippingService) *ShipmentDispatcher {
	return &ShipmentDispatcher{queue: queueClient, shipping: shipping}
}

// Dispatch 派发物流订单创建；失败只记录日志，不影响支付结果
func (d *ShipmentDispatcher) Dispatch(ctx context.Context, orderID uint, source string) {
	if d == nil || orderID == 0 {
		return
	}
	if !d.shipping.Enabled() {
		logger.Debugw("shipment_dispatch_skip_disabled", "order_id", orderID, "source", source)
		return
	}
	if d.queue != nil && d.queue.Enabled() {
		if err := d.queue.EnqueueShipmentCreate(queue.ShipmentCreatePayload{OrderID: orderID, Source: source}); err != nil {
			logger.Warnw("shipment_enqueue_failed", "order_id", orderID, "source", source, "error", err)
		}
		return
	}
	if _, err := d.shipping.CreateForOrder(ctx, orderID); err != nil {
		logger.Warnw("shipment_inline_create_failed", "order_id", orderID, "source", source, "error", err)
	}
}
