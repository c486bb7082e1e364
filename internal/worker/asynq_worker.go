package worker

import (
	"context"
	"errors"

	"github.com/dujiao-next/storefront/internal/logger"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/provider"
	"github.com/dujiao-next/storefront/internal/queue"
	"github.com/dujiao-next/storefront/internal/service"

	"github.com/hibiken/asynq"
)

type shipmentCreator interface {
	CreateForOrder(ctx context.Context, orderID uint) (*models.Order, error)
}

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
	shipments shipmentCreator
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	consumer := &Consumer{
		Container: c,
	}
	if c != nil && c.ShippingService != nil {
		consumer.shipments = c.ShippingService
	}
	return consumer
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskShipmentCreate, c.handleShipmentCreate)
}

func (c *Consumer) handleShipmentCreate(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_shipment_create_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseShipmentCreatePayload(task)
	if err != nil {
		logger.Warnw("worker_shipment_create_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_shipment_create_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if c.shipments == nil {
		logger.Warnw("worker_shipment_create_skip_service_nil", "order_id", payload.OrderID)
		return nil
	}
	order, err := c.shipments.CreateForOrder(ctx, payload.OrderID)
	if err != nil {
		// 订单不存在或物流未启用时重试没有意义
		if errors.Is(err, service.ErrOrderNotFound) || errors.Is(err, service.ErrShippingDisabled) {
			logger.Warnw("worker_shipment_create_skip",
				"order_id", payload.OrderID,
				"source", payload.Source,
				"error", err,
			)
			return nil
		}
		logger.Warnw("worker_shipment_create_failed",
			"order_id", payload.OrderID,
			"source", payload.Source,
			"error", err,
		)
		return err
	}
	logger.Infow("worker_shipment_created",
		"order_id", payload.OrderID,
		"source", payload.Source,
		"shipment_id", order.ShipmentID,
	)
	return nil
}
