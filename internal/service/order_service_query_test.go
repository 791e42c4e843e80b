package service

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/Theloho/live-commerce-sub002/internal/constants"
	"github.com/Theloho/live-commerce-sub002/internal/models"
	"github.com/Theloho/live-commerce-sub002/internal/repository"
)

func groupRef(groupID string) *string {
	return &groupID
}

func TestCollapsePaymentGroupsMergesMembers(t *testing.T) {
	createdAt := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	groupID := "PG-1756500000000-AB23"
	orders := []models.Order{
		{
			ID:             3,
			OrderNo:        "S260830-CCCC",
			OrderType:      "bulk_payment:KAKAO:3456789012",
			Status:         constants.OrderStatusPending,
			PaymentGroupID: groupRef(groupID),
			TotalAmount:    models.NewMoneyFromInt(20000),
			Items:          []models.OrderItem{{ID: 31, ProductID: 1}},
			CreatedAt:      createdAt,
		},
		{
			ID:          2,
			OrderNo:     "S260830-BBBB",
			OrderType:   "direct:KAKAO:3456789012",
			Status:      constants.OrderStatusPending,
			TotalAmount: models.NewMoneyFromInt(5000),
			Items:       []models.OrderItem{{ID: 21, ProductID: 2}},
			CreatedAt:   createdAt,
		},
		{
			ID:             1,
			OrderNo:        "S260830-AAAA",
			OrderType:      "bulk_payment:KAKAO:3456789012",
			Status:         constants.OrderStatusPending,
			PaymentGroupID: groupRef(groupID),
			TotalAmount:    models.NewMoneyFromInt(10000),
			Items:          []models.OrderItem{{ID: 11, ProductID: 3}},
			CreatedAt:      createdAt,
		},
	}

	views := collapsePaymentGroups(orders)
	if len(views) != 2 {
		t.Fatalf("collapsed views want 2 got %d", len(views))
	}

	group := views[0]
	if !group.IsGroup {
		t.Fatalf("first view should be the group view: %+v", group)
	}
	if group.TotalAmount.Int() != 30000 {
		t.Fatalf("group total want 30000 got %d", group.TotalAmount.Int())
	}
	if len(group.Items) != 2 {
		t.Fatalf("group items want 2 got %d", len(group.Items))
	}
	if len(group.GroupOrderIDs) != 2 || group.GroupOrderIDs[0] != 3 || group.GroupOrderIDs[1] != 1 {
		t.Fatalf("group order ids want [3 1] got %v", group.GroupOrderIDs)
	}
	if group.OrderType != constants.OrderTypeBulkPayment {
		t.Fatalf("group order type want bulk_payment got %s", group.OrderType)
	}

	single := views[1]
	if single.IsGroup || single.ID != 2 {
		t.Fatalf("second view should be the plain order, got %+v", single)
	}
	if single.CustomerOrderNumber != "S260830-BBBB" {
		t.Fatalf("plain order keeps own number, got %s", single.CustomerOrderNumber)
	}
}

func TestCollapsePaymentGroupsSingleMemberPassthrough(t *testing.T) {
	groupID := "PG-1756500000000-CD45"
	orders := []models.Order{
		{
			ID:             1,
			OrderNo:        "S260830-AAAA",
			OrderType:      constants.OrderTypeDirect,
			PaymentGroupID: groupRef(groupID),
			TotalAmount:    models.NewMoneyFromInt(10000),
		},
	}
	views := collapsePaymentGroups(orders)
	if len(views) != 1 {
		t.Fatalf("views want 1 got %d", len(views))
	}
	if views[0].IsGroup {
		t.Fatalf("single member group should pass through as plain order")
	}
	if views[0].CustomerOrderNumber != "S260830-AAAA" {
		t.Fatalf("single member keeps own number, got %s", views[0].CustomerOrderNumber)
	}
}

func TestBuildGroupOrderNoDeterministic(t *testing.T) {
	createdAt := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	first := buildGroupOrderNo("PG-1756500000000-AB23", createdAt)
	second := buildGroupOrderNo("PG-1756500000000-AB23", createdAt)
	if first != second {
		t.Fatalf("group order no should be deterministic: %s vs %s", first, second)
	}
	pattern := regexp.MustCompile(`^G260830-[0-9A-F]{4}$`)
	if !pattern.MatchString(first) {
		t.Fatalf("group order no %s does not match expected format", first)
	}
	other := buildGroupOrderNo("PG-1756500000000-XY99", createdAt)
	if other == first {
		t.Fatalf("different group ids should not collide: %s", other)
	}
}

func TestBuildOrderViewFlattensSnapshots(t *testing.T) {
	order := models.Order{
		ID:        1,
		OrderNo:   "S260830-AAAA",
		OrderType: "cart:KAKAO:3456789012",
		Status:    constants.OrderStatusPending,
		Shipping: []models.ShippingSnapshot{
			{OrderID: 1, Recipient: "김철수", ShippingFee: models.NewMoneyFromInt(4000)},
		},
		Payment: []models.PaymentSnapshot{
			{OrderID: 1, Method: constants.PaymentMethodBankTransfer, Amount: models.NewMoneyFromInt(34000)},
		},
	}
	view := buildOrderView(order)
	if view.OrderType != constants.OrderTypeCart {
		t.Fatalf("view order type want cart got %s", view.OrderType)
	}
	if view.CustomerOrderNumber != "S260830-AAAA" {
		t.Fatalf("view order number want S260830-AAAA got %s", view.CustomerOrderNumber)
	}
	if view.Shipping == nil || view.Shipping.Recipient != "김철수" {
		t.Fatalf("shipping snapshot should be flattened, got %+v", view.Shipping)
	}
	if view.Payment == nil || view.Payment.Amount.Int() != 34000 {
		t.Fatalf("payment snapshot should be flattened, got %+v", view.Payment)
	}
}

func TestOrderViewItemsWhitelistFields(t *testing.T) {
	order := models.Order{
		ID:      1,
		OrderNo: "S260830-AAAA",
		Items: []models.OrderItem{
			{
				ID:        11,
				OrderID:   1,
				ProductID: 2,
				Title:     "라이브 한정 티셔츠",
				ProductNo: "LIVE-TEE-001",
				Thumbnail: "https://cdn.example.com/p/2.jpg",
				UnitPrice: models.NewMoneyFromInt(25000),
				Quantity:  1,
			},
		},
	}
	view := buildOrderView(order)
	if len(view.Items) != 1 || view.Items[0].Title != "라이브 한정 티셔츠" {
		t.Fatalf("item view not built: %+v", view.Items)
	}

	payload, err := json.Marshal(view)
	if err != nil {
		t.Fatalf("marshal view failed: %v", err)
	}
	if strings.Contains(string(payload), "thumbnail") || strings.Contains(string(payload), "cdn.example.com") {
		t.Fatalf("view payload must not carry thumbnails: %s", payload)
	}

	// 创建响应直接回传存储行，缩略图同样不出接口
	raw, err := json.Marshal(order.Items[0])
	if err != nil {
		t.Fatalf("marshal item failed: %v", err)
	}
	if strings.Contains(string(raw), "thumbnail") || strings.Contains(string(raw), "cdn.example.com") {
		t.Fatalf("item payload must not carry thumbnails: %s", raw)
	}
}

func TestListOrdersRequiresIdentity(t *testing.T) {
	svc := &OrderService{}
	if _, err := svc.ListOrders(repository.OrderListFilter{}); !errors.Is(err, ErrOrderIdentityRequired) {
		t.Fatalf("zero identity want ErrOrderIdentityRequired got %v", err)
	}
}

func TestListOrdersCollapsesGroupAndCountsStatus(t *testing.T) {
	svc, db := setupOrderServiceTest(t, "list_collapse")
	product := createServiceProduct(t, db, "QRY-001", 10000, 20)
	identity := repository.AnonymousIdentity("KAKAO", "7700000020")

	first, err := svc.CreateOrder(baseCreateOrderInput(identity, constants.OrderTypeDirect, []CreateOrderItem{
		{ProductID: product.ID, Quantity: 1},
	}))
	if err != nil {
		t.Fatalf("create first order failed: %v", err)
	}
	second, err := svc.CreateOrder(baseCreateOrderInput(identity, constants.OrderTypeDirect, []CreateOrderItem{
		{ProductID: product.ID, Quantity: 2},
	}))
	if err != nil {
		t.Fatalf("create second order failed: %v", err)
	}
	if _, err := svc.CreateOrder(baseCreateOrderInput(identity, constants.OrderTypeDirect, []CreateOrderItem{
		{ProductID: product.ID, Quantity: 1},
	})); err != nil {
		t.Fatalf("create third order failed: %v", err)
	}

	if _, _, err := svc.CreateBulkPayment(identity, []uint{first.Order.ID, second.Order.ID}); err != nil {
		t.Fatalf("create bulk payment failed: %v", err)
	}

	result, err := svc.ListOrders(repository.OrderListFilter{Identity: identity})
	if err != nil {
		t.Fatalf("list orders failed: %v", err)
	}
	if result.Total != 3 {
		t.Fatalf("raw total want 3 got %d", result.Total)
	}
	if len(result.Orders) != 2 {
		t.Fatalf("collapsed views want 2 got %d", len(result.Orders))
	}
	if result.StatusCounts[constants.OrderStatusPending] != 3 {
		t.Fatalf("pending status count want 3 got %d", result.StatusCounts[constants.OrderStatusPending])
	}

	var groupView *OrderView
	for i := range result.Orders {
		if result.Orders[i].IsGroup {
			groupView = &result.Orders[i]
		}
	}
	if groupView == nil {
		t.Fatalf("group view missing in %+v", result.Orders)
	}
	if len(groupView.GroupOrderIDs) != 2 {
		t.Fatalf("group view members want 2 got %v", groupView.GroupOrderIDs)
	}
}

func TestListOrdersCollapsesGroupAcrossPageBoundary(t *testing.T) {
	svc, db := setupOrderServiceTest(t, "list_group_pages")
	product := createServiceProduct(t, db, "QRY-003", 5000, 50)
	identity := repository.AnonymousIdentity("KAKAO", "7700000022")

	quantities := []int{2, 4, 1}
	memberIDs := make([]uint, 0, len(quantities))
	var memberTotal int64
	for _, quantity := range quantities {
		result, err := svc.CreateOrder(baseCreateOrderInput(identity, constants.OrderTypeDirect, []CreateOrderItem{
			{ProductID: product.ID, Quantity: quantity},
		}))
		if err != nil {
			t.Fatalf("create member order failed: %v", err)
		}
		memberIDs = append(memberIDs, result.Order.ID)
		memberTotal += result.Order.TotalAmount.Int()
	}
	single, err := svc.CreateOrder(baseCreateOrderInput(identity, constants.OrderTypeDirect, []CreateOrderItem{
		{ProductID: product.ID, Quantity: 1},
	}))
	if err != nil {
		t.Fatalf("create single order failed: %v", err)
	}
	if _, _, err := svc.CreateBulkPayment(identity, memberIDs); err != nil {
		t.Fatalf("create bulk payment failed: %v", err)
	}

	// 每页 1 条时分组成员跨页，折叠仍要覆盖全部成员
	pageOne, err := svc.ListOrders(repository.OrderListFilter{Identity: identity, Page: 1, PageSize: 1})
	if err != nil {
		t.Fatalf("list page 1 failed: %v", err)
	}
	if len(pageOne.Orders) != 1 || pageOne.Orders[0].ID != single.Order.ID {
		t.Fatalf("page 1 want the ungrouped order, got %+v", pageOne.Orders)
	}
	if pageOne.Total != 4 {
		t.Fatalf("raw total want 4 got %d", pageOne.Total)
	}

	pageTwo, err := svc.ListOrders(repository.OrderListFilter{Identity: identity, Page: 2, PageSize: 1})
	if err != nil {
		t.Fatalf("list page 2 failed: %v", err)
	}
	if len(pageTwo.Orders) != 1 || !pageTwo.Orders[0].IsGroup {
		t.Fatalf("page 2 want the group view, got %+v", pageTwo.Orders)
	}
	group := pageTwo.Orders[0]
	if len(group.GroupOrderIDs) != 3 {
		t.Fatalf("group members want 3 got %v", group.GroupOrderIDs)
	}
	if group.TotalAmount.Int() != memberTotal {
		t.Fatalf("group total want %d got %d", memberTotal, group.TotalAmount.Int())
	}
	if len(group.Items) != 3 {
		t.Fatalf("group items want 3 got %d", len(group.Items))
	}

	// 分组视图只出现一次，后续页不再出现散落成员
	pageThree, err := svc.ListOrders(repository.OrderListFilter{Identity: identity, Page: 3, PageSize: 1})
	if err != nil {
		t.Fatalf("list page 3 failed: %v", err)
	}
	if len(pageThree.Orders) != 0 {
		t.Fatalf("page 3 want no views, got %+v", pageThree.Orders)
	}
}

func TestGetOrderByNoScopedToIdentity(t *testing.T) {
	svc, db := setupOrderServiceTest(t, "get_by_no")
	product := createServiceProduct(t, db, "QRY-002", 10000, 10)
	identity := repository.AnonymousIdentity("KAKAO", "7700000021")

	result, err := svc.CreateOrder(baseCreateOrderInput(identity, constants.OrderTypeDirect, []CreateOrderItem{
		{ProductID: product.ID, Quantity: 1},
	}))
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	view, err := svc.GetOrderByNo(result.Order.OrderNo, identity)
	if err != nil {
		t.Fatalf("get order by no failed: %v", err)
	}
	if view.ID != result.Order.ID {
		t.Fatalf("order id want %d got %d", result.Order.ID, view.ID)
	}

	if _, err := svc.GetOrderByNo(result.Order.OrderNo, repository.AnonymousIdentity("KAKAO", "9999999999")); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("stranger lookup want ErrOrderNotFound got %v", err)
	}
	if _, err := svc.GetOrderByNo("  ", identity); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("blank order no want ErrOrderNotFound got %v", err)
	}
}
