package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/dujiao-next/storefront/internal/config"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/queue"
	"github.com/dujiao-next/storefront/internal/service"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubShipments struct {
	calls []uint
	err   error
}

func (s *stubShipments) CreateForOrder(_ context.Context, orderID uint) (*models.Order, error) {
	s.calls = append(s.calls, orderID)
	if s.err != nil {
		return nil, s.err
	}
	return &models.Order{ID: orderID, ShipmentID: "SHP-1"}, nil
}

func newShipmentTask(t *testing.T, orderID uint) *asynq.Task {
	t.Helper()
	task, err := queue.NewShipmentCreateTask(queue.ShipmentCreatePayload{OrderID: orderID, Source: "webhook"})
	require.NoError(t, err)
	return task
}

func TestHandleShipmentCreate(t *testing.T) {
	stub := &stubShipments{}
	consumer := &Consumer{shipments: stub}

	require.NoError(t, consumer.handleShipmentCreate(context.Background(), newShipmentTask(t, 100001)))
	assert.Equal(t, []uint{100001}, stub.calls)
}

func TestHandleShipmentCreateSkipsZeroOrder(t *testing.T) {
	stub := &stubShipments{}
	consumer := &Consumer{shipments: stub}

	require.NoError(t, consumer.handleShipmentCreate(context.Background(), newShipmentTask(t, 0)))
	assert.Empty(t, stub.calls)
}

func TestHandleShipmentCreateRejectsBadPayload(t *testing.T) {
	consumer := &Consumer{shipments: &stubShipments{}}
	task := asynq.NewTask(queue.TaskShipmentCreate, []byte("{not-json"))

	assert.Error(t, consumer.handleShipmentCreate(context.Background(), task))
}

func TestHandleShipmentCreateDropsPermanentErrors(t *testing.T) {
	for _, target := range []error{service.ErrOrderNotFound, service.ErrShippingDisabled} {
		consumer := &Consumer{shipments: &stubShipments{err: target}}
		assert.NoError(t, consumer.handleShipmentCreate(context.Background(), newShipmentTask(t, 7)))
	}
}

func TestHandleShipmentCreateRetriesGatewayErrors(t *testing.T) {
	gatewayErr := errors.New("gateway down")
	consumer := &Consumer{shipments: &stubShipments{err: gatewayErr}}

	err := consumer.handleShipmentCreate(context.Background(), newShipmentTask(t, 7))
	assert.ErrorIs(t, err, gatewayErr)
}

func TestNewServiceRequiresQueue(t *testing.T) {
	_, err := NewService(&config.QueueConfig{Enabled: false}, &Consumer{})
	assert.Error(t, err)

	_, err = NewService(&config.QueueConfig{Enabled: true}, nil)
	assert.Error(t, err)
}
