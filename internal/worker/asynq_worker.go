package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/alphadeveloper12/dosta-backend/internal/logger"
	"github.com/alphadeveloper12/dosta-backend/internal/provider"
	"github.com/alphadeveloper12/dosta-backend/internal/queue"
	"github.com/alphadeveloper12/dosta-backend/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderFulfill, c.handleOrderFulfill)
	mux.HandleFunc(queue.TaskOrderTimeoutCancel, c.handleOrderTimeoutCancel)
}

func (c *Consumer) handleOrderFulfill(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_fulfill_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderFulfillPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_fulfill_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_fulfill_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if c.FulfillmentService == nil {
		logger.Warnw("worker_order_fulfill_skip_service_nil", "order_id", payload.OrderID)
		return nil
	}

	err := c.FulfillmentService.FulfillOrder(ctx, payload.OrderID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, service.ErrOrderNotFound), errors.Is(err, service.ErrAlreadyFulfilled):
		logger.Debugw("worker_order_fulfill_skip", "order_id", payload.OrderID, "reason", err)
		return nil
	case errors.Is(err, service.ErrPartialFulfillment):
		logger.Warnw("worker_order_fulfill_partial", "order_id", payload.OrderID)
		return nil
	case errors.Is(err, service.ErrNoFulfillableItems):
		logger.Warnw("worker_order_fulfill_nothing_fulfillable", "order_id", payload.OrderID)
		return nil
	case errors.Is(err, service.ErrMachineBusy):
		// 返回错误让 asynq 按退避策略重试
		logger.Debugw("worker_order_fulfill_machine_busy", "order_id", payload.OrderID)
		return err
	default:
		logger.Warnw("worker_order_fulfill_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
}

func (c *Consumer) handleOrderTimeoutCancel(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_timeout_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderTimeoutCancelPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_timeout_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_timeout_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if c.OrderService == nil {
		logger.Warnw("worker_order_timeout_skip_service_nil", "order_id", payload.OrderID)
		return nil
	}

	err := c.OrderService.CancelExpiredOrder(payload.OrderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			logger.Debugw("worker_order_timeout_skip_order_not_found", "order_id", payload.OrderID)
			return nil
		}
		logger.Warnw("worker_order_timeout_cancel_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	return nil
}
