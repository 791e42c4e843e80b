package public

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Theloho/live-commerce-sub002/internal/constants"
	"github.com/Theloho/live-commerce-sub002/internal/models"
	"github.com/Theloho/live-commerce-sub002/internal/provider"
	"github.com/Theloho/live-commerce-sub002/internal/repository"
	"github.com/Theloho/live-commerce-sub002/internal/service"
	"github.com/Theloho/live-commerce-sub002/internal/shipping"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupOrderHandlerTest(t *testing.T, name string) (*Handler, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:order_handler_%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.ProductVariant{},
		&models.Order{},
		&models.OrderItem{},
		&models.ShippingSnapshot{},
		&models.PaymentSnapshot{},
		&models.Coupon{},
		&models.CouponUsage{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	couponService := service.NewCouponService(
		repository.NewCouponRepository(db),
		repository.NewCouponUsageRepository(db),
	)
	calc := shipping.NewRegionCalculator(nil)
	container := &provider.Container{
		UserRepo:      repository.NewUserRepository(db),
		OrderRepo:     repository.NewOrderRepository(db),
		ProductRepo:   repository.NewProductRepository(db),
		VariantRepo:   repository.NewProductVariantRepository(db),
		ShippingRepo:  repository.NewShippingSnapshotRepository(db),
		PaymentRepo:   repository.NewPaymentSnapshotRepository(db),
		CouponRepo:    repository.NewCouponRepository(db),
		UsageRepo:     repository.NewCouponUsageRepository(db),
		ShippingCalc:  calc,
		CouponService: couponService,
	}
	container.OrderService = service.NewOrderService(
		container.OrderRepo,
		container.ProductRepo,
		container.VariantRepo,
		container.ShippingRepo,
		container.PaymentRepo,
		couponService,
		calc,
		nil,
		4000,
		10,
	)
	container.ProductService = service.NewProductService(container.ProductRepo, container.VariantRepo)
	return New(container), db
}

func performJSON(t *testing.T, handler gin.HandlerFunc, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	c.Request = req
	handler(c)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) (int, map[string]interface{}) {
	t.Helper()
	var envelope struct {
		StatusCode int                    `json:"status_code"`
		Msg        string                 `json:"msg"`
		Data       map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response failed: %v body=%s", err, w.Body.String())
	}
	return envelope.StatusCode, envelope.Data
}

func TestCreateOrderRequiresIdentity(t *testing.T) {
	h, _ := setupOrderHandlerTest(t, "identity_required")

	w := performJSON(t, h.CreateOrder, http.MethodPost, "/api/v1/orders", `{}`, nil)
	code, _ := decodeEnvelope(t, w)
	if code != 401 {
		t.Fatalf("status_code want 401 got %d", code)
	}
}

func TestCreateOrderRejectsUnknownUser(t *testing.T) {
	h, _ := setupOrderHandlerTest(t, "unknown_user")

	w := performJSON(t, h.CreateOrder, http.MethodPost, "/api/v1/orders", `{}`, map[string]string{
		"X-User-Id": "999",
	})
	code, _ := decodeEnvelope(t, w)
	if code != 401 {
		t.Fatalf("status_code want 401 got %d", code)
	}
}

func TestCreateOrderAnonymousSocialIdentity(t *testing.T) {
	h, db := setupOrderHandlerTest(t, "anonymous_create")
	product := &models.Product{
		ProductNo:   "HANDLER-TEE-001",
		Title:       "핸들러 테스트 상품",
		PriceAmount: models.NewMoneyFromInt(25000),
		Inventory:   5,
		IsActive:    true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	body := fmt.Sprintf(`{
		"order_type": "direct",
		"items": [{"product_id": %d, "quantity": 1}],
		"shipping": {"recipient": "김철수", "phone": "010-1234-5678", "address": "서울시 강남구", "postal_code": "06000"},
		"payment": {"method": "bank_transfer", "depositor_name": "김철수"}
	}`, product.ID)
	w := performJSON(t, h.CreateOrder, http.MethodPost, "/api/v1/orders", body, map[string]string{
		"X-Social-Provider": "KAKAO",
		"X-Social-Id":       "3456789012",
	})
	code, data := decodeEnvelope(t, w)
	if code != 0 {
		t.Fatalf("status_code want 0 got %d body=%s", code, w.Body.String())
	}
	order, ok := data["order"].(map[string]interface{})
	if !ok {
		t.Fatalf("response missing order, data=%v", data)
	}
	orderNo, _ := order["customer_order_number"].(string)
	if !strings.HasPrefix(orderNo, "S") {
		t.Fatalf("order number should start with S, got %q", orderNo)
	}
	if orderType, _ := order["order_type"].(string); orderType != "direct:KAKAO:3456789012" {
		t.Fatalf("order_type want direct:KAKAO:3456789012 got %q", orderType)
	}
}

func TestCreateOrderRegisteredUser(t *testing.T) {
	h, db := setupOrderHandlerTest(t, "registered_create")
	user := &models.User{Email: "buyer@example.com", DisplayName: "구매자", Status: "active"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	product := &models.Product{
		ProductNo:   "HANDLER-TEE-002",
		Title:       "핸들러 테스트 상품 2",
		PriceAmount: models.NewMoneyFromInt(30000),
		Inventory:   5,
		IsActive:    true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	body := fmt.Sprintf(`{
		"order_type": "direct",
		"items": [{"product_id": %d, "quantity": 1}],
		"shipping": {"recipient": "김철수", "phone": "010-1234-5678", "address": "서울시 강남구", "postal_code": "06000"},
		"payment": {"method": "bank_transfer"}
	}`, product.ID)
	w := performJSON(t, h.CreateOrder, http.MethodPost, "/api/v1/orders", body, map[string]string{
		"X-User-Id": fmt.Sprintf("%d", user.ID),
	})
	code, data := decodeEnvelope(t, w)
	if code != 0 {
		t.Fatalf("status_code want 0 got %d body=%s", code, w.Body.String())
	}
	order, ok := data["order"].(map[string]interface{})
	if !ok {
		t.Fatalf("response missing order, data=%v", data)
	}
	if orderType, _ := order["order_type"].(string); orderType != "direct" {
		t.Fatalf("order_type want direct got %q", orderType)
	}
}

func TestCreateBulkPaymentRejectsSingleOrder(t *testing.T) {
	h, _ := setupOrderHandlerTest(t, "bulk_single")

	w := performJSON(t, h.CreateBulkPayment, http.MethodPost, "/api/v1/orders/bulk-payment", `{"order_ids": [1]}`, map[string]string{
		"X-Social-Provider": "KAKAO",
		"X-Social-Id":       "3456789012",
	})
	code, _ := decodeEnvelope(t, w)
	if code != 400 {
		t.Fatalf("status_code want 400 got %d", code)
	}
}

func TestCheckPendingOrders(t *testing.T) {
	h, db := setupOrderHandlerTest(t, "check_pending")
	product := &models.Product{
		ProductNo:   "HANDLER-TEE-003",
		Title:       "핸들러 테스트 상품 3",
		PriceAmount: models.NewMoneyFromInt(20000),
		Inventory:   5,
		IsActive:    true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	headers := map[string]string{
		"X-Social-Provider": "KAKAO",
		"X-Social-Id":       "7000000001",
	}

	w := performJSON(t, h.CheckPendingOrders, http.MethodGet, "/api/v1/orders/check-pending", "", headers)
	code, data := decodeEnvelope(t, w)
	if code != 0 {
		t.Fatalf("status_code want 0 got %d", code)
	}
	if hasPending, _ := data["has_pending"].(bool); hasPending {
		t.Fatal("fresh identity should have no pending orders")
	}

	body := fmt.Sprintf(`{
		"order_type": "direct",
		"items": [{"product_id": %d, "quantity": 1}],
		"shipping": {"recipient": "김철수", "phone": "010-1234-5678", "address": "서울시 강남구", "postal_code": "06000"},
		"payment": {"method": "bank_transfer"}
	}`, product.ID)
	w = performJSON(t, h.CreateOrder, http.MethodPost, "/api/v1/orders", body, headers)
	code, data = decodeEnvelope(t, w)
	if code != 0 {
		t.Fatalf("create status_code want 0 got %d body=%s", code, w.Body.String())
	}
	order := data["order"].(map[string]interface{})
	orderID := uint(order["id"].(float64))

	w = performJSON(t, h.CheckPendingOrders, http.MethodGet, "/api/v1/orders/check-pending", "", headers)
	code, data = decodeEnvelope(t, w)
	if code != 0 {
		t.Fatalf("status_code want 0 got %d", code)
	}
	if hasPending, _ := data["has_pending"].(bool); !hasPending {
		t.Fatal("pending order should be reported")
	}

	path := fmt.Sprintf("/api/v1/orders/check-pending?exclude_ids=%d", orderID)
	w = performJSON(t, h.CheckPendingOrders, http.MethodGet, path, "", headers)
	code, data = decodeEnvelope(t, w)
	if code != 0 {
		t.Fatalf("status_code want 0 got %d", code)
	}
	if hasPending, _ := data["has_pending"].(bool); hasPending {
		t.Fatal("excluded order should not count as pending")
	}

	w = performJSON(t, h.CheckPendingOrders, http.MethodGet, "/api/v1/orders/check-pending?exclude_ids=abc", "", headers)
	code, _ = decodeEnvelope(t, w)
	if code != 400 {
		t.Fatalf("status_code want 400 got %d", code)
	}
}

func TestListOrdersExcludesCancelledByDefault(t *testing.T) {
	h, db := setupOrderHandlerTest(t, "list_default")
	product := &models.Product{
		ProductNo:   "HANDLER-TEE-004",
		Title:       "핸들러 테스트 상품 4",
		PriceAmount: models.NewMoneyFromInt(15000),
		Inventory:   10,
		IsActive:    true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	identity := repository.AnonymousIdentity("KAKAO", "5500000001")
	newInput := func() service.CreateOrderInput {
		return service.CreateOrderInput{
			Identity:  identity,
			OrderType: constants.OrderTypeDirect,
			Items:     []service.CreateOrderItem{{ProductID: product.ID, Quantity: 1}},
			Shipping: service.ShippingInput{
				Recipient:  "김철수",
				Phone:      "010-1234-5678",
				Address:    "서울시 강남구",
				PostalCode: "06000",
			},
			Payment: service.PaymentInput{Method: constants.PaymentMethodBankTransfer, Depositor: "김철수"},
		}
	}
	kept, err := h.OrderService.CreateOrder(newInput())
	if err != nil {
		t.Fatalf("create kept order failed: %v", err)
	}
	toCancel, err := h.OrderService.CreateOrder(newInput())
	if err != nil {
		t.Fatalf("create cancel target failed: %v", err)
	}
	if _, err := h.OrderService.CancelOrder(toCancel.Order.ID, identity); err != nil {
		t.Fatalf("cancel order failed: %v", err)
	}
	headers := map[string]string{
		"X-Social-Provider": "KAKAO",
		"X-Social-Id":       "5500000001",
	}

	w := performJSON(t, h.ListOrders, http.MethodGet, "/api/v1/orders", "", headers)
	code, data := decodeEnvelope(t, w)
	if code != 0 {
		t.Fatalf("status_code want 0 got %d body=%s", code, w.Body.String())
	}
	orders, _ := data["orders"].([]interface{})
	if len(orders) != 1 {
		t.Fatalf("default list want 1 order got %d", len(orders))
	}
	first := orders[0].(map[string]interface{})
	if uint(first["id"].(float64)) != kept.Order.ID {
		t.Fatalf("default list should keep the active order, got %v", first["id"])
	}

	w = performJSON(t, h.ListOrders, http.MethodGet, "/api/v1/orders?include_cancelled=true", "", headers)
	code, data = decodeEnvelope(t, w)
	if code != 0 {
		t.Fatalf("status_code want 0 got %d", code)
	}
	if orders, _ := data["orders"].([]interface{}); len(orders) != 2 {
		t.Fatalf("include_cancelled list want 2 orders got %d", len(orders))
	}

	w = performJSON(t, h.ListOrders, http.MethodGet, "/api/v1/orders?status=cancelled", "", headers)
	code, data = decodeEnvelope(t, w)
	if code != 0 {
		t.Fatalf("status_code want 0 got %d", code)
	}
	orders, _ = data["orders"].([]interface{})
	if len(orders) != 1 {
		t.Fatalf("cancelled filter want 1 order got %d", len(orders))
	}
	if status, _ := orders[0].(map[string]interface{})["status"].(string); status != "cancelled" {
		t.Fatalf("cancelled filter status want cancelled got %q", status)
	}
}
