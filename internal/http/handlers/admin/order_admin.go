package admin

import (
	"errors"
	"strconv"
	"strings"

	handlershared "github.com/Theloho/live-commerce-sub002/internal/http/handlers/shared"
	"github.com/Theloho/live-commerce-sub002/internal/http/response"
	"github.com/Theloho/live-commerce-sub002/internal/repository"
	"github.com/Theloho/live-commerce-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

// ListOrders 管理端订单列表（不限身份归属）
func (h *Handler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	orders, total, err := h.OrderRepo.List(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
		OrderNo:  strings.TrimSpace(c.Query("order_no")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "order fetch failed", err)
		return
	}

	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, orders, pagination)
}

// UpdateOrderStatusRequest 更新订单状态请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus 推进订单状态（银行转账确认、发货、送达等）
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "invalid order id", err)
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	order, svcErr := h.OrderService.UpdateOrderStatus(uint(orderID), req.Status)
	if svcErr != nil {
		respondOrderStatusError(c, svcErr)
		return
	}
	response.Success(c, order)
}

// BulkUpdateOrderStatusRequest 批量更新订单状态请求
type BulkUpdateOrderStatusRequest struct {
	OrderIDs []uint `json:"order_ids" binding:"required"`
	Status   string `json:"status" binding:"required"`
}

// BulkUpdateOrderStatus 按订单 ID 集合批量推进状态
func (h *Handler) BulkUpdateOrderStatus(c *gin.Context) {
	var req BulkUpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	orders, svcErr := h.OrderService.UpdateOrdersStatus(req.OrderIDs, req.Status)
	if svcErr != nil {
		respondOrderStatusError(c, svcErr)
		return
	}
	response.Success(c, orders)
}

// UpdatePaymentGroupStatus 按合并支付分组批量推进状态
func (h *Handler) UpdatePaymentGroupStatus(c *gin.Context) {
	groupID := strings.TrimSpace(c.Param("group_id"))

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	members, svcErr := h.OrderService.UpdatePaymentGroupStatus(groupID, req.Status)
	if svcErr != nil {
		respondOrderStatusError(c, svcErr)
		return
	}
	response.Success(c, members)
}

func respondOrderStatusError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		respondError(c, response.CodeNotFound, "order not found", nil)
	case errors.Is(err, service.ErrOrderStatusInvalid):
		respondError(c, response.CodeBadRequest, "invalid order status transition", nil)
	case errors.Is(err, service.ErrPaymentGroupInvalid):
		respondError(c, response.CodeBadRequest, "invalid payment group", nil)
	default:
		respondError(c, response.CodeInternal, "order update failed", err)
	}
}
