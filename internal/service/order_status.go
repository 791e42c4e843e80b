package service

import (
	"strings"
	"time"

	"github.com/Theloho/live-commerce-sub002/internal/constants"
	"github.com/Theloho/live-commerce-sub002/internal/logger"
	"github.com/Theloho/live-commerce-sub002/internal/models"
	"github.com/Theloho/live-commerce-sub002/internal/queue"
)

// allowedTransitions 订单状态机。取消只允许从 pending/verifying 发起。
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusVerifying: true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusVerifying: {
		constants.OrderStatusPaid:      true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusPaid: {
		constants.OrderStatusPreparing: true,
	},
	constants.OrderStatusPreparing: {
		constants.OrderStatusShipped: true,
	},
	constants.OrderStatusShipped: {
		constants.OrderStatusDelivered: true,
	},
}

func isTransitionAllowed(from, to string) bool {
	targets, ok := allowedTransitions[strings.ToLower(strings.TrimSpace(from))]
	if !ok {
		return false
	}
	return targets[strings.ToLower(strings.TrimSpace(to))]
}

func isCancellable(status string) bool {
	return isTransitionAllowed(status, constants.OrderStatusCancelled)
}

// statusTimestampUpdates 状态落位时间戳
func statusTimestampUpdates(status string, now time.Time) map[string]interface{} {
	updates := map[string]interface{}{"updated_at": now}
	switch status {
	case constants.OrderStatusPaid:
		updates["paid_at"] = now
	case constants.OrderStatusDelivered:
		updates["delivered_at"] = now
	case constants.OrderStatusCancelled:
		updates["cancelled_at"] = now
	}
	return updates
}

// UpdateOrderStatus 推进订单状态。
// 目标为取消时走取消事务（含库存回补），其余状态仅校验状态机并写入时间戳。
func (s *OrderService) UpdateOrderStatus(orderID uint, target string) (*models.Order, error) {
	target = strings.ToLower(strings.TrimSpace(target))
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !isTransitionAllowed(order.Status, target) {
		return nil, ErrOrderStatusInvalid
	}

	if target == constants.OrderStatusCancelled {
		if err := s.cancelOrderTx(order); err != nil {
			return nil, err
		}
		return s.orderRepo.GetByID(order.ID)
	}

	now := time.Now()
	if err := s.orderRepo.UpdateStatus(order.ID, target, statusTimestampUpdates(target, now)); err != nil {
		logger.Errorw("order_status_update_failed",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"from", order.Status,
			"to", target,
			"error", err,
		)
		return nil, ErrOrderUpdateFailed
	}

	if s.queueClient.Enabled() {
		if err := s.queueClient.EnqueueOrderStatusNotify(queue.OrderStatusNotifyPayload{
			OrderID: order.ID,
			Status:  target,
		}); err != nil {
			logger.Warnw("order_enqueue_status_notify_failed",
				"order_id", order.ID,
				"status", target,
				"error", err,
			)
		}
	}

	return s.orderRepo.GetByID(order.ID)
}

// UpdateOrdersStatus 按订单 ID 集合批量推进状态，任一订单不满足状态机则整批拒绝
func (s *OrderService) UpdateOrdersStatus(orderIDs []uint, target string) ([]models.Order, error) {
	target = strings.ToLower(strings.TrimSpace(target))
	if len(orderIDs) == 0 {
		return nil, ErrOrderNotFound
	}
	orders, err := s.orderRepo.ListByIDs(orderIDs)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if len(orders) != len(dedupeIDs(orderIDs)) {
		return nil, ErrOrderNotFound
	}
	ids := make([]uint, 0, len(orders))
	for _, order := range orders {
		if !isTransitionAllowed(order.Status, target) {
			return nil, ErrOrderStatusInvalid
		}
		ids = append(ids, order.ID)
	}

	if target == constants.OrderStatusCancelled {
		for i := range orders {
			if err := s.cancelOrderTx(&orders[i]); err != nil {
				return nil, err
			}
		}
		return s.orderRepo.ListByIDs(ids)
	}

	now := time.Now()
	if err := s.orderRepo.UpdateStatusBulk(ids, target, statusTimestampUpdates(target, now)); err != nil {
		logger.Errorw("order_bulk_status_update_failed",
			"order_ids", ids,
			"to", target,
			"error", err,
		)
		return nil, ErrOrderUpdateFailed
	}
	return s.orderRepo.ListByIDs(ids)
}

func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	result := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

// UpdatePaymentGroupStatus 按合并支付分组批量推进状态，任一成员不满足状态机则整组拒绝
func (s *OrderService) UpdatePaymentGroupStatus(groupID string, target string) ([]models.Order, error) {
	target = strings.ToLower(strings.TrimSpace(target))
	if strings.TrimSpace(groupID) == "" {
		return nil, ErrPaymentGroupInvalid
	}
	members, err := s.orderRepo.ListByPaymentGroup(groupID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if len(members) == 0 {
		return nil, ErrOrderNotFound
	}
	ids := make([]uint, 0, len(members))
	for _, member := range members {
		if !isTransitionAllowed(member.Status, target) {
			return nil, ErrOrderStatusInvalid
		}
		ids = append(ids, member.ID)
	}

	if target == constants.OrderStatusCancelled {
		for i := range members {
			if err := s.cancelOrderTx(&members[i]); err != nil {
				return nil, err
			}
		}
		return s.orderRepo.ListByPaymentGroup(groupID)
	}

	now := time.Now()
	if err := s.orderRepo.UpdateStatusBulk(ids, target, statusTimestampUpdates(target, now)); err != nil {
		logger.Errorw("order_group_status_update_failed",
			"group_id", groupID,
			"to", target,
			"error", err,
		)
		return nil, ErrOrderUpdateFailed
	}
	return s.orderRepo.ListByPaymentGroup(groupID)
}
