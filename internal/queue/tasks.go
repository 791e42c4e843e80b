package queue

import (
	"encoding/json"

	"github.com/Theloho/live-commerce-sub002/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderInventoryDeduct 延后库存扣减任务
	TaskOrderInventoryDeduct = constants.TaskOrderInventory
	// TaskOrderStatusNotify 订单状态变更通知任务
	TaskOrderStatusNotify = constants.TaskOrderStatusNotify
)

// OrderInventoryDeductPayload 延后库存扣减任务载荷
type OrderInventoryDeductPayload struct {
	OrderID uint `json:"order_id"`
}

// OrderStatusNotifyPayload 订单状态变更通知任务载荷
type OrderStatusNotifyPayload struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
}

// NewOrderInventoryDeductTask 创建延后库存扣减任务
func NewOrderInventoryDeductTask(payload OrderInventoryDeductPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderInventoryDeduct, body), nil
}

// NewOrderStatusNotifyTask 创建订单状态变更通知任务
func NewOrderStatusNotifyTask(payload OrderStatusNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusNotify, body), nil
}
