package queue

import (
	"encoding/json"

	"github.com/alphadeveloper12/dosta-backend/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderFulfill 订单履约任务
	TaskOrderFulfill = constants.TaskOrderFulfill
	// TaskOrderTimeoutCancel 超时取消任务
	TaskOrderTimeoutCancel = constants.TaskOrderTimeoutCancel
)

// OrderFulfillPayload 订单履约任务载荷
type OrderFulfillPayload struct {
	OrderID uint `json:"order_id"`
}

// OrderTimeoutCancelPayload 超时取消任务载荷
type OrderTimeoutCancelPayload struct {
	OrderID uint `json:"order_id"`
}

// NewOrderFulfillTask 创建订单履约任务
func NewOrderFulfillTask(payload OrderFulfillPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderFulfill, body), nil
}

// NewOrderTimeoutCancelTask 创建超时取消任务
func NewOrderTimeoutCancelTask(payload OrderTimeoutCancelPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderTimeoutCancel, body), nil
}
