package public

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Theloho/live-commerce-sub002/internal/constants"
	handlershared "github.com/Theloho/live-commerce-sub002/internal/http/handlers/shared"
	"github.com/Theloho/live-commerce-sub002/internal/http/response"
	"github.com/Theloho/live-commerce-sub002/internal/repository"
	"github.com/Theloho/live-commerce-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderItemRequest 订单项请求
type OrderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	VariantID uint `json:"variant_id"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// ShippingRequest 配送信息请求
type ShippingRequest struct {
	Recipient  string `json:"recipient" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	Address    string `json:"address" binding:"required"`
	PostalCode string `json:"postal_code"`
}

// PaymentRequest 支付信息请求
type PaymentRequest struct {
	Method    string `json:"method" binding:"required"`
	Depositor string `json:"depositor_name"`
}

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	OrderType  string             `json:"order_type"`
	Items      []OrderItemRequest `json:"items" binding:"required"`
	Shipping   ShippingRequest    `json:"shipping" binding:"required"`
	Payment    PaymentRequest     `json:"payment" binding:"required"`
	CouponCode string             `json:"coupon_code"`
}

// CreateOrder 创建订单
func (h *Handler) CreateOrder(c *gin.Context) {
	identity, ok := h.resolveIdentity(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	items := make([]service.CreateOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.CreateOrderItem{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		})
	}

	result, err := h.OrderService.CreateOrder(service.CreateOrderInput{
		Identity:  identity,
		OrderType: req.OrderType,
		Items:     items,
		Shipping: service.ShippingInput{
			Recipient:  req.Shipping.Recipient,
			Phone:      req.Shipping.Phone,
			Address:    req.Shipping.Address,
			PostalCode: req.Shipping.PostalCode,
		},
		Payment: service.PaymentInput{
			Method:    req.Payment.Method,
			Depositor: req.Payment.Depositor,
		},
		CouponCode: req.CouponCode,
	})
	if err != nil {
		respondWithMappedError(c, err, orderCreateErrorRules, response.CodeInternal, "order create failed")
		return
	}

	response.Success(c, result)
}

// GetOrder 获取订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	identity, ok := h.resolveIdentity(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "invalid order id", err)
		return
	}

	view, err := h.OrderService.GetOrder(uint(orderID), identity)
	if err != nil {
		respondWithMappedError(c, err, orderFetchErrorRules, response.CodeInternal, "order fetch failed")
		return
	}
	response.Success(c, view)
}

// GetOrderByOrderNo 按订单号获取订单详情
func (h *Handler) GetOrderByOrderNo(c *gin.Context) {
	identity, ok := h.resolveIdentity(c)
	if !ok {
		return
	}
	orderNo := strings.TrimSpace(c.Param("order_no"))

	view, err := h.OrderService.GetOrderByNo(orderNo, identity)
	if err != nil {
		respondWithMappedError(c, err, orderFetchErrorRules, response.CodeInternal, "order fetch failed")
		return
	}
	response.Success(c, view)
}

// ListOrders 获取订单列表（含状态统计，分组订单折叠返回）
func (h *Handler) ListOrders(c *gin.Context) {
	identity, ok := h.resolveIdentity(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	// 默认不返回已取消订单，显式筛选取消状态或 include_cancelled=true 时放开
	status := strings.TrimSpace(c.Query("status"))
	includeCancelled := c.Query("include_cancelled") == "true" || status == constants.OrderStatusCancelled

	result, err := h.OrderService.ListOrders(repository.OrderListFilter{
		Page:             page,
		PageSize:         pageSize,
		Identity:         identity,
		Status:           status,
		OrderNo:          strings.TrimSpace(c.Query("order_no")),
		ExcludeCancelled: !includeCancelled,
	})
	if err != nil {
		respondWithMappedError(c, err, orderFetchErrorRules, response.CodeInternal, "order fetch failed")
		return
	}

	pagination := response.BuildPagination(page, pageSize, result.Total)
	response.SuccessWithPage(c, result, pagination)
}

// CancelOrder 取消订单
func (h *Handler) CancelOrder(c *gin.Context) {
	identity, ok := h.resolveIdentity(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "invalid order id", err)
		return
	}

	order, err := h.OrderService.CancelOrder(uint(orderID), identity)
	if err != nil {
		respondWithMappedError(c, err, orderCancelErrorRules, response.CodeInternal, "order cancel failed")
		return
	}
	response.Success(c, order)
}

// BulkPaymentRequest 合并支付请求
type BulkPaymentRequest struct {
	OrderIDs []uint `json:"order_ids" binding:"required"`
}

// CreateBulkPayment 将多笔待支付订单归入同一合并支付分组
func (h *Handler) CreateBulkPayment(c *gin.Context) {
	identity, ok := h.resolveIdentity(c)
	if !ok {
		return
	}

	var req BulkPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	groupID, members, err := h.OrderService.CreateBulkPayment(identity, req.OrderIDs)
	if err != nil {
		respondWithMappedError(c, err, bulkPaymentErrorRules, response.CodeInternal, "bulk payment failed")
		return
	}
	response.Success(c, gin.H{
		"payment_group_id": groupID,
		"orders":           members,
	})
}

// CheckPendingOrders 查询该身份是否存在可合并配送的在途订单
func (h *Handler) CheckPendingOrders(c *gin.Context) {
	identity, ok := h.resolveIdentity(c)
	if !ok {
		return
	}

	excludeIDs, err := parseUintList(c.Query("exclude_ids"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid exclude_ids", err)
		return
	}

	hasPending, err := h.OrderService.HasInFlightOrders(identity, excludeIDs)
	if err != nil {
		respondWithMappedError(c, err, orderFetchErrorRules, response.CodeInternal, "order fetch failed")
		return
	}
	response.Success(c, gin.H{"has_pending": hasPending})
}

// parseUintList 解析逗号分隔的 ID 列表
func parseUintList(raw string) ([]uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
