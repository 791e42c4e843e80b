package service

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/Theloho/live-commerce-sub002/internal/constants"
	"github.com/Theloho/live-commerce-sub002/internal/models"
	"github.com/Theloho/live-commerce-sub002/internal/repository"
)

// OrderView 面向客户端的订单视图。
// 配送与支付快照在存储层按集合返回，视图统一压平为单条；
// 同一合并支付分组内的多笔订单折叠为一条分组视图。
type OrderView struct {
	ID                  uint                     `json:"id"`
	CustomerOrderNumber string                   `json:"customer_order_number"`
	OrderType           string                   `json:"order_type"`
	Status              string                   `json:"status"`
	Currency            string                   `json:"currency"`
	TotalAmount         models.Money             `json:"total_amount"`
	DiscountAmount      models.Money             `json:"discount_amount"`
	IsFreeShipping      bool                     `json:"is_free_shipping"`
	PaymentGroupID      *string                  `json:"payment_group_id,omitempty"`
	IsGroup             bool                     `json:"is_group"`
	GroupOrderIDs       []uint                   `json:"group_order_ids,omitempty"`
	Items               []OrderItemView          `json:"items"`
	Shipping            *models.ShippingSnapshot `json:"shipping,omitempty"`
	Payment             *models.PaymentSnapshot  `json:"payment,omitempty"`
	CreatedAt           time.Time                `json:"created_at"`
	PaidAt              *time.Time               `json:"paid_at,omitempty"`
	DeliveredAt         *time.Time               `json:"delivered_at,omitempty"`
	CancelledAt         *time.Time               `json:"cancelled_at,omitempty"`
}

// OrderItemView 订单项视图。字段显式白名单：
// 缩略图之类仅供后台的展示大字段留在存储快照里，不随列表接口外发。
type OrderItemView struct {
	ID              uint         `json:"id"`
	ProductID       uint         `json:"product_id"`
	VariantID       *uint        `json:"variant_id,omitempty"`
	Title           string       `json:"title"`
	ProductNo       string       `json:"product_no"`
	SelectedOptions models.JSON  `json:"selected_options"`
	UnitPrice       models.Money `json:"unit_price"`
	Quantity        int          `json:"quantity"`
	TotalPrice      models.Money `json:"total_price"`
}

// OrderListResult 订单列表输出
type OrderListResult struct {
	Orders       []OrderView      `json:"orders"`
	Total        int64            `json:"total"`
	StatusCounts map[string]int64 `json:"status_counts"`
}

// GetOrder 获取订单详情（按身份归属校验）
func (s *OrderService) GetOrder(orderID uint, identity repository.OrderIdentity) (*OrderView, error) {
	order, err := s.orderRepo.GetScoped(orderID, identity)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	view := buildOrderView(*order)
	return &view, nil
}

// GetOrderByNo 按订单号获取订单详情（按身份归属校验）
func (s *OrderService) GetOrderByNo(orderNo string, identity repository.OrderIdentity) (*OrderView, error) {
	orderNo = strings.TrimSpace(orderNo)
	if orderNo == "" {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByOrderNo(orderNo, identity)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	view := buildOrderView(*order)
	return &view, nil
}

// ListOrders 获取身份维度的订单列表，附状态统计，分组订单折叠返回。
// 折叠必须覆盖完整匹配集，否则跨页的分组会按页内成员算出错误合计，
// 因此先全量取回折叠成视图，再按页切片返回。
func (s *OrderService) ListOrders(filter repository.OrderListFilter) (*OrderListResult, error) {
	if filter.Identity.IsZero() {
		return nil, ErrOrderIdentityRequired
	}
	page, pageSize := filter.Page, filter.PageSize
	full := filter
	full.Page = 0
	full.PageSize = 0
	orders, total, err := s.orderRepo.List(full)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	counts, err := s.orderRepo.CountByStatus(filter.Identity)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	return &OrderListResult{
		Orders:       paginateViews(collapsePaymentGroups(orders), page, pageSize),
		Total:        total,
		StatusCounts: counts,
	}, nil
}

// paginateViews 折叠后的视图按页切片，pageSize<=0 返回全部
func paginateViews(views []OrderView, page, pageSize int) []OrderView {
	if pageSize <= 0 {
		return views
	}
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(views) {
		return []OrderView{}
	}
	end := start + pageSize
	if end > len(views) {
		end = len(views)
	}
	return views[start:end]
}

// buildOrderView 单笔订单压平为视图
func buildOrderView(order models.Order) OrderView {
	view := OrderView{
		ID:                  order.ID,
		CustomerOrderNumber: order.OrderNo,
		OrderType:           repository.DecodeOrderType(order.OrderType),
		Status:              order.Status,
		Currency:            order.Currency,
		TotalAmount:         order.TotalAmount,
		DiscountAmount:      order.DiscountAmount,
		IsFreeShipping:      order.IsFreeShipping,
		PaymentGroupID:      order.PaymentGroupID,
		Items:               buildItemViews(order.Items),
		CreatedAt:           order.CreatedAt,
		PaidAt:              order.PaidAt,
		DeliveredAt:         order.DeliveredAt,
		CancelledAt:         order.CancelledAt,
	}
	if len(order.Shipping) > 0 {
		snapshot := order.Shipping[0]
		view.Shipping = &snapshot
	}
	if len(order.Payment) > 0 {
		snapshot := order.Payment[0]
		view.Payment = &snapshot
	}
	return view
}

func buildItemViews(items []models.OrderItem) []OrderItemView {
	views := make([]OrderItemView, 0, len(items))
	for _, item := range items {
		views = append(views, OrderItemView{
			ID:              item.ID,
			ProductID:       item.ProductID,
			VariantID:       item.VariantID,
			Title:           item.Title,
			ProductNo:       item.ProductNo,
			SelectedOptions: item.SelectedOptions,
			UnitPrice:       item.UnitPrice,
			Quantity:        item.Quantity,
			TotalPrice:      item.TotalPrice,
		})
	}
	return views
}

// collapsePaymentGroups 将同一合并支付分组的成员折叠为一条分组视图。
// 成员不足两笔的分组按普通订单返回，顺序保持首次出现的位置。
func collapsePaymentGroups(orders []models.Order) []OrderView {
	groupMembers := make(map[string][]models.Order)
	for _, order := range orders {
		if order.PaymentGroupID == nil || *order.PaymentGroupID == "" {
			continue
		}
		groupID := *order.PaymentGroupID
		groupMembers[groupID] = append(groupMembers[groupID], order)
	}

	views := make([]OrderView, 0, len(orders))
	emitted := make(map[string]bool)
	for _, order := range orders {
		if order.PaymentGroupID == nil || *order.PaymentGroupID == "" {
			views = append(views, buildOrderView(order))
			continue
		}
		groupID := *order.PaymentGroupID
		members := groupMembers[groupID]
		if len(members) < 2 {
			views = append(views, buildOrderView(order))
			continue
		}
		if emitted[groupID] {
			continue
		}
		emitted[groupID] = true
		views = append(views, buildGroupView(groupID, members))
	}
	return views
}

// buildGroupView 汇总分组成员：订单项拼接、金额求和、编号换为分组编号
func buildGroupView(groupID string, members []models.Order) OrderView {
	head := members[0]
	view := buildOrderView(head)
	view.IsGroup = true
	view.CustomerOrderNumber = buildGroupOrderNo(groupID, head.CreatedAt)

	total := models.Money{}
	discount := models.Money{}
	items := make([]OrderItemView, 0)
	ids := make([]uint, 0, len(members))
	for _, member := range members {
		total = total.Add(member.TotalAmount)
		discount = discount.Add(member.DiscountAmount)
		items = append(items, buildItemViews(member.Items)...)
		ids = append(ids, member.ID)
	}
	view.TotalAmount = total
	view.DiscountAmount = discount
	view.Items = items
	view.GroupOrderIDs = ids
	return view
}

// buildGroupOrderNo 生成分组编号：G + 首单日期(YYMMDD) + "-" + 分组ID哈希4位。
// 同一分组每次生成结果一致。
func buildGroupOrderNo(groupID string, createdAt time.Time) string {
	h := fnv.New32a()
	h.Write([]byte(groupID))
	suffix := strings.ToUpper(fmt.Sprintf("%04x", h.Sum32()&0xffff))
	return fmt.Sprintf("%s%s-%s", constants.GroupOrderNoPrefix, createdAt.Format("060102"), suffix)
}
