package queue

import (
	"encoding/json"

	"github.com/dujiao-next/storefront/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskShipmentCreate 支付完成后创建物流订单任务
	TaskShipmentCreate = constants.TaskShipmentCreate
)

// ShipmentCreatePayload 物流订单任务载荷
type ShipmentCreatePayload struct {
	OrderID uint   `json:"order_id"`
	Source  string `json:"source"`
}

// NewShipmentCreateTask 创建物流订单任务
func NewShipmentCreateTask(payload ShipmentCreatePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskShipmentCreate, body), nil
}

// ParseShipmentCreatePayload 解析物流订单任务载荷
func ParseShipmentCreatePayload(task *asynq.Task) (ShipmentCreatePayload, error) {
	var payload ShipmentCreatePayload
	if task == nil {
		return payload, nil
	}
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
