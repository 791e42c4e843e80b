package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/Theloho/live-commerce-sub002/internal/cache"
	"github.com/Theloho/live-commerce-sub002/internal/constants"
	"github.com/Theloho/live-commerce-sub002/internal/logger"
	"github.com/Theloho/live-commerce-sub002/internal/models"
	"github.com/Theloho/live-commerce-sub002/internal/queue"
	"github.com/Theloho/live-commerce-sub002/internal/repository"
	"github.com/Theloho/live-commerce-sub002/internal/shipping"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService 订单服务
type OrderService struct {
	orderRepo       repository.OrderRepository
	productRepo     repository.ProductRepository
	variantRepo     repository.ProductVariantRepository
	shippingRepo    repository.ShippingSnapshotRepository
	paymentRepo     repository.PaymentSnapshotRepository
	couponService   *CouponService
	shippingCalc    shipping.Calculator
	queueClient     *queue.Client
	baseShippingFee int64
	mergeLockTTL    time.Duration
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, variantRepo repository.ProductVariantRepository, shippingRepo repository.ShippingSnapshotRepository, paymentRepo repository.PaymentSnapshotRepository, couponService *CouponService, shippingCalc shipping.Calculator, queueClient *queue.Client, baseShippingFee int64, mergeLockTTLSeconds int) *OrderService {
	ttl := time.Duration(mergeLockTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &OrderService{
		orderRepo:       orderRepo,
		productRepo:     productRepo,
		variantRepo:     variantRepo,
		shippingRepo:    shippingRepo,
		paymentRepo:     paymentRepo,
		couponService:   couponService,
		shippingCalc:    shippingCalc,
		queueClient:     queueClient,
		baseShippingFee: baseShippingFee,
		mergeLockTTL:    ttl,
	}
}

// CreateOrderItem 创建订单项输入
type CreateOrderItem struct {
	ProductID uint
	VariantID uint
	Quantity  int
}

// ShippingInput 配送信息输入
type ShippingInput struct {
	Recipient  string
	Phone      string
	Address    string
	PostalCode string
}

// PaymentInput 支付信息输入
type PaymentInput struct {
	Method    string
	Depositor string
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	Identity   repository.OrderIdentity
	OrderType  string
	Items      []CreateOrderItem
	Shipping   ShippingInput
	Payment    PaymentInput
	CouponCode string
}

// CreateOrderResult 创建订单结果
type CreateOrderResult struct {
	Order  *models.Order `json:"order"`
	Merged bool          `json:"merged"`
}

// orderPlan 订单项定价计划
type orderPlan struct {
	Items    []models.OrderItem
	Subtotal decimal.Decimal
}

// CreateOrder 创建订单。
// direct 类型始终新建；cart 类型优先并入该身份已有的待支付购物车订单，
// 合并在按身份维度的 Redis 锁内执行，支付快照金额由全部订单项整体重算。
// 库存在订单落库之后扣减，扣减失败保留订单并返回 ErrInventoryInsufficient。
func (s *OrderService) CreateOrder(input CreateOrderInput) (*CreateOrderResult, error) {
	identity := input.Identity
	if identity.IsZero() {
		return nil, ErrOrderIdentityRequired
	}
	orderType := strings.TrimSpace(input.OrderType)
	if orderType == "" {
		orderType = constants.OrderTypeDirect
	}
	if orderType != constants.OrderTypeDirect && orderType != constants.OrderTypeCart {
		return nil, ErrOrderItemInvalid
	}
	if err := validateShippingInput(input.Shipping); err != nil {
		return nil, err
	}
	if err := validatePaymentInput(input.Payment); err != nil {
		return nil, err
	}

	mergedItems, err := mergeCreateOrderItems(input.Items)
	if err != nil {
		return nil, err
	}

	plan, err := s.buildOrderPlan(mergedItems)
	if err != nil {
		return nil, err
	}

	if orderType == constants.OrderTypeCart {
		return s.createOrMergeCartOrder(identity, plan, input)
	}
	order, err := s.createNewOrder(identity, orderType, plan, input)
	if err != nil {
		return nil, err
	}
	return &CreateOrderResult{Order: order}, nil
}

// createOrMergeCartOrder 购物车下单：锁内查找既有待支付购物车订单并合并，否则新建
func (s *OrderService) createOrMergeCartOrder(identity repository.OrderIdentity, plan *orderPlan, input CreateOrderInput) (*CreateOrderResult, error) {
	ctx := context.Background()
	token, acquired, err := cache.AcquireMergeLock(ctx, identity.Key(), s.mergeLockTTL)
	if err != nil {
		logger.Warnw("order_merge_lock_acquire_failed",
			"identity", identity.Key(),
			"error", err,
		)
	} else if !acquired {
		return nil, ErrOrderMergeBusy
	}
	if token != "" {
		defer func() {
			if releaseErr := cache.ReleaseMergeLock(ctx, identity.Key(), token); releaseErr != nil {
				logger.Warnw("order_merge_lock_release_failed",
					"identity", identity.Key(),
					"error", releaseErr,
				)
			}
		}()
	}

	existing, err := s.orderRepo.FindPendingCart(identity)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if existing != nil {
		order, err := s.mergeIntoCartOrder(existing, plan)
		if err != nil {
			return nil, err
		}
		return &CreateOrderResult{Order: order, Merged: true}, nil
	}

	order, err := s.createNewOrder(identity, constants.OrderTypeCart, plan, input)
	if err != nil {
		return nil, err
	}
	return &CreateOrderResult{Order: order}, nil
}

// createNewOrder 新建订单：订单、订单项、配送与支付快照在同一事务内落库
func (s *OrderService) createNewOrder(identity repository.OrderIdentity, orderType string, plan *orderPlan, input CreateOrderInput) (*models.Order, error) {
	now := time.Now()

	inFlight, err := s.orderRepo.CountInFlight(identity, nil)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	isFreeShipping := s.resolveFreeShipping(inFlight)

	shippingFee := decimal.Zero
	var quote shipping.Quote
	if !isFreeShipping {
		quote = s.shippingCalc.ComputeShipping(s.baseShippingFee, input.Shipping.PostalCode)
		shippingFee = decimal.NewFromInt(quote.TotalShipping)
	}

	discount := decimal.Zero
	var appliedCoupon *models.Coupon
	if strings.TrimSpace(input.CouponCode) != "" && s.couponService != nil {
		couponDiscount, coupon, couponErr := s.couponService.ApplyCoupon(models.NewMoneyFromDecimal(plan.Subtotal), input.CouponCode, identity.UserID)
		if couponErr != nil {
			return nil, couponErr
		}
		discount = couponDiscount.Decimal
		appliedCoupon = coupon
	}

	total := plan.Subtotal.Add(shippingFee).Sub(discount)
	total = normalizeOrderAmount(total)

	order := &models.Order{
		OrderNo:        generateOrderNo(now),
		UserID:         identity.UserID,
		OrderType:      repository.EncodeOrderType(orderType, identity),
		Status:         constants.OrderStatusPending,
		Currency:       constants.SiteCurrencyDefault,
		TotalAmount:    models.NewMoneyFromDecimal(total),
		DiscountAmount: models.NewMoneyFromDecimal(discount),
		IsFreeShipping: isFreeShipping,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if appliedCoupon != nil {
		couponID := appliedCoupon.ID
		order.CouponID = &couponID
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		if err := orderRepo.Create(order, plan.Items); err != nil {
			return err
		}

		shippingRepo := s.shippingRepo.WithTx(tx)
		snapshot := &models.ShippingSnapshot{
			OrderID:     order.ID,
			Recipient:   strings.TrimSpace(input.Shipping.Recipient),
			Phone:       strings.TrimSpace(input.Shipping.Phone),
			Address:     strings.TrimSpace(input.Shipping.Address),
			PostalCode:  strings.TrimSpace(input.Shipping.PostalCode),
			ShippingFee: models.NewMoneyFromDecimal(shippingFee),
			CreatedAt:   now,
		}
		if err := shippingRepo.Create(snapshot); err != nil {
			return err
		}

		paymentRepo := s.paymentRepo.WithTx(tx)
		payment := &models.PaymentSnapshot{
			OrderID:   order.ID,
			Method:    input.Payment.Method,
			Amount:    models.NewMoneyFromDecimal(total),
			Depositor: strings.TrimSpace(input.Payment.Depositor),
			CreatedAt: now,
		}
		if err := paymentRepo.Create(payment); err != nil {
			return err
		}

		if appliedCoupon != nil && s.couponService != nil {
			if _, err := s.couponService.ApplyUsageTx(tx, appliedCoupon.ID, identity.UserID, order.ID, models.NewMoneyFromDecimal(discount)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Errorw("order_create_failed",
			"order_no", order.OrderNo,
			"identity", identity.Key(),
			"error", err,
		)
		return nil, ErrOrderCreateFailed
	}

	if err := s.settleInventory(order, plan.Items); err != nil {
		return nil, err
	}

	full, err := s.orderRepo.GetByID(order.ID)
	if err == nil && full != nil {
		return full, nil
	}
	return order, nil
}

// mergeIntoCartOrder 将新订单项并入既有购物车订单，金额由全部订单项整体重算
func (s *OrderService) mergeIntoCartOrder(existing *models.Order, plan *orderPlan) (*models.Order, error) {
	now := time.Now()

	shippingSnapshot, err := s.shippingRepo.GetByOrderID(existing.ID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	shippingFee := decimal.Zero
	if shippingSnapshot != nil && !existing.IsFreeShipping {
		shippingFee = shippingSnapshot.ShippingFee.Decimal
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		if err := orderRepo.AppendItems(existing.ID, plan.Items); err != nil {
			return err
		}

		allItems, err := orderRepo.ListItems(existing.ID)
		if err != nil {
			return err
		}
		subtotal := decimal.Zero
		for _, item := range allItems {
			subtotal = subtotal.Add(item.TotalPrice.Decimal)
		}
		total := normalizeOrderAmount(subtotal.Add(shippingFee).Sub(existing.DiscountAmount.Decimal))

		if err := orderRepo.Update(existing.ID, map[string]interface{}{
			"total_amount": models.NewMoneyFromDecimal(total),
			"updated_at":   now,
		}); err != nil {
			return err
		}

		paymentRepo := s.paymentRepo.WithTx(tx)
		return paymentRepo.UpdateAmount(existing.ID, models.NewMoneyFromDecimal(total))
	})
	if err != nil {
		logger.Errorw("order_merge_failed",
			"order_id", existing.ID,
			"order_no", existing.OrderNo,
			"error", err,
		)
		return nil, ErrOrderUpdateFailed
	}

	if err := s.deductInventoryForItems(plan.Items); err != nil {
		return nil, err
	}

	full, fetchErr := s.orderRepo.GetByID(existing.ID)
	if fetchErr == nil && full != nil {
		return full, nil
	}
	return existing, nil
}

// settleInventory 新建订单路径的库存结算：队列可用时延后到 worker 执行
func (s *OrderService) settleInventory(order *models.Order, items []models.OrderItem) error {
	if s.queueClient.Enabled() {
		err := s.queueClient.EnqueueOrderInventoryDeduct(queue.OrderInventoryDeductPayload{OrderID: order.ID})
		if err == nil {
			return nil
		}
		logger.Warnw("order_enqueue_inventory_deduct_failed",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"error", err,
		)
	}
	return s.deductInventoryForItems(items)
}

// SettleInventoryForOrder 对订单全部订单项执行库存扣减（worker 延后扣减路径）。
// 任一项余量不足时回补本次已扣部分并取消订单，返回 ErrInventoryInsufficient。
func (s *OrderService) SettleInventoryForOrder(order *models.Order) error {
	if order == nil {
		return ErrOrderNotFound
	}
	items, err := s.orderRepo.ListItems(order.ID)
	if err != nil {
		return ErrOrderFetchFailed
	}
	deducted := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		affected, err := s.deductItemInventory(item)
		if err != nil {
			s.rollbackDeducted(deducted)
			return err
		}
		if affected == 0 {
			s.rollbackDeducted(deducted)
			now := time.Now()
			if updateErr := s.orderRepo.UpdateStatus(order.ID, constants.OrderStatusCancelled, map[string]interface{}{
				"cancelled_at": now,
				"updated_at":   now,
			}); updateErr != nil {
				logger.Errorw("order_inventory_cancel_failed",
					"order_id", order.ID,
					"order_no", order.OrderNo,
					"error", updateErr,
				)
			}
			return ErrInventoryInsufficient
		}
		deducted = append(deducted, item)
	}
	return nil
}

func (s *OrderService) rollbackDeducted(items []models.OrderItem) {
	for _, item := range items {
		if err := s.restoreItemInventory(nil, item); err != nil {
			logger.Errorw("order_inventory_rollback_failed",
				"order_id", item.OrderID,
				"product_id", item.ProductID,
				"error", err,
			)
		}
	}
}

// deductInventoryForItems 逐项扣减库存。
// 条件更新影响行数为 0 表示余量不足，订单保留原状并返回 ErrInventoryInsufficient。
func (s *OrderService) deductInventoryForItems(items []models.OrderItem) error {
	for _, item := range items {
		affected, err := s.deductItemInventory(item)
		if err != nil {
			return err
		}
		if affected == 0 {
			logger.Warnw("order_inventory_insufficient",
				"order_id", item.OrderID,
				"product_id", item.ProductID,
				"variant_id", item.VariantID,
				"quantity", item.Quantity,
			)
			return ErrInventoryInsufficient
		}
	}
	return nil
}

func (s *OrderService) deductItemInventory(item models.OrderItem) (int64, error) {
	if item.VariantID != nil && *item.VariantID != 0 {
		return s.variantRepo.DeductInventory(*item.VariantID, item.Quantity)
	}
	return s.productRepo.DeductInventory(item.ProductID, item.Quantity)
}

func (s *OrderService) restoreItemInventory(tx *gorm.DB, item models.OrderItem) error {
	if item.VariantID != nil && *item.VariantID != 0 {
		_, err := s.variantRepo.WithTx(tx).RestoreInventory(*item.VariantID, item.Quantity)
		return err
	}
	_, err := s.productRepo.WithTx(tx).RestoreInventory(item.ProductID, item.Quantity)
	return err
}

// CancelOrder 取消订单并回补库存。
// 仅允许 pending/verifying 状态；状态更新与全部库存回补在同一事务内完成，任一失败整体回滚。
func (s *OrderService) CancelOrder(orderID uint, identity repository.OrderIdentity) (*models.Order, error) {
	order, err := s.orderRepo.GetScoped(orderID, identity)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !isCancellable(order.Status) {
		return nil, ErrOrderCancelNotAllowed
	}

	if err := s.cancelOrderTx(order); err != nil {
		return nil, err
	}

	full, fetchErr := s.orderRepo.GetByID(order.ID)
	if fetchErr == nil && full != nil {
		return full, nil
	}
	return order, nil
}

// cancelOrderTx 单事务内回补库存并写入取消状态
func (s *OrderService) cancelOrderTx(order *models.Order) error {
	now := time.Now()
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		items, err := orderRepo.ListItems(order.ID)
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := s.restoreItemInventory(tx, item); err != nil {
				return err
			}
		}
		return orderRepo.UpdateStatus(order.ID, constants.OrderStatusCancelled, map[string]interface{}{
			"cancelled_at": now,
			"updated_at":   now,
		})
	})
	if err != nil {
		logger.Errorw("order_cancel_failed",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"error", err,
		)
		return ErrOrderUpdateFailed
	}

	if s.queueClient.Enabled() {
		if err := s.queueClient.EnqueueOrderStatusNotify(queue.OrderStatusNotifyPayload{
			OrderID: order.ID,
			Status:  constants.OrderStatusCancelled,
		}); err != nil {
			logger.Warnw("order_enqueue_status_notify_failed",
				"order_id", order.ID,
				"status", constants.OrderStatusCancelled,
				"error", err,
			)
		}
	}
	return nil
}

// CreateBulkPayment 将同一身份的多笔待支付订单归入同一合并支付分组
func (s *OrderService) CreateBulkPayment(identity repository.OrderIdentity, orderIDs []uint) (string, []models.Order, error) {
	if identity.IsZero() {
		return "", nil, ErrOrderIdentityRequired
	}
	if len(orderIDs) < 2 {
		return "", nil, ErrPaymentGroupInvalid
	}

	seen := make(map[uint]bool, len(orderIDs))
	for _, id := range orderIDs {
		if id == 0 || seen[id] {
			return "", nil, ErrPaymentGroupInvalid
		}
		seen[id] = true
		order, err := s.orderRepo.GetScoped(id, identity)
		if err != nil {
			return "", nil, ErrOrderFetchFailed
		}
		if order == nil {
			return "", nil, ErrOrderNotFound
		}
		if order.Status != constants.OrderStatusPending {
			return "", nil, ErrPaymentGroupInvalid
		}
		if order.PaymentGroupID != nil && *order.PaymentGroupID != "" {
			return "", nil, ErrPaymentGroupInvalid
		}
	}

	groupID := generatePaymentGroupID()
	groupType := repository.EncodeOrderType(constants.OrderTypeBulkPayment, identity)
	if err := s.orderRepo.AssignPaymentGroup(orderIDs, groupID, groupType); err != nil {
		logger.Errorw("order_assign_payment_group_failed",
			"group_id", groupID,
			"order_ids", orderIDs,
			"error", err,
		)
		return "", nil, ErrOrderUpdateFailed
	}

	members, err := s.orderRepo.ListByPaymentGroup(groupID)
	if err != nil {
		return "", nil, ErrOrderFetchFailed
	}
	return groupID, members, nil
}

// HasInFlightOrders 判断该身份是否存在在途（待支付/确认中）订单，可排除指定订单。
// 前端用它预判合并配送免运费资格。
func (s *OrderService) HasInFlightOrders(identity repository.OrderIdentity, excludeIDs []uint) (bool, error) {
	if identity.IsZero() {
		return false, ErrOrderIdentityRequired
	}
	count, err := s.orderRepo.CountInFlight(identity, excludeIDs)
	if err != nil {
		logger.Warnw("order_count_in_flight_failed", "identity", identity.Key(), "error", err)
		return false, ErrOrderFetchFailed
	}
	return count > 0, nil
}

// CheckPendingOrders 巡检超时未支付订单并推送提醒通知
func (s *OrderService) CheckPendingOrders(olderThan time.Duration) (int, error) {
	if olderThan <= 0 {
		olderThan = 30 * time.Minute
	}
	cutoff := time.Now().Add(-olderThan)
	orders, _, err := s.orderRepo.List(repository.OrderListFilter{
		Status:    constants.OrderStatusPending,
		CreatedTo: &cutoff,
	})
	if err != nil {
		return 0, ErrOrderFetchFailed
	}
	for _, order := range orders {
		logger.Warnw("order_pending_stale",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"created_at", order.CreatedAt,
		)
		if s.queueClient.Enabled() {
			if err := s.queueClient.EnqueueOrderStatusNotify(queue.OrderStatusNotifyPayload{
				OrderID: order.ID,
				Status:  order.Status,
			}); err != nil {
				logger.Warnw("order_enqueue_status_notify_failed",
					"order_id", order.ID,
					"status", order.Status,
					"error", err,
				)
			}
		}
	}
	return len(orders), nil
}

// buildOrderPlan 校验商品与规格并生成订单项快照
func (s *OrderService) buildOrderPlan(items []CreateOrderItem) (*orderPlan, error) {
	plan := &orderPlan{Subtotal: decimal.Zero}
	now := time.Now()
	for _, item := range items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			return nil, ErrOrderItemInvalid
		}
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, ErrOrderFetchFailed
		}
		if product == nil || !product.IsActive {
			return nil, ErrProductNotAvailable
		}

		unitPrice := product.PriceAmount.Decimal
		var variantID *uint
		var selectedOptions models.JSON
		if product.HasVariants {
			if item.VariantID == 0 {
				return nil, ErrVariantRequired
			}
			variant, err := s.variantRepo.GetByID(item.VariantID)
			if err != nil {
				return nil, ErrOrderFetchFailed
			}
			if variant == nil || variant.ProductID != product.ID || !variant.IsActive {
				return nil, ErrVariantNotFound
			}
			if variant.PriceAmount.Decimal.GreaterThan(decimal.Zero) {
				unitPrice = variant.PriceAmount.Decimal
			}
			vid := variant.ID
			variantID = &vid
			selectedOptions = variant.Options
		} else if item.VariantID != 0 {
			return nil, ErrVariantNotFound
		}

		unitPrice = unitPrice.Round(0)
		if unitPrice.LessThanOrEqual(decimal.Zero) {
			return nil, ErrProductPriceInvalid
		}
		total := unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(0)
		plan.Subtotal = plan.Subtotal.Add(total)

		plan.Items = append(plan.Items, models.OrderItem{
			ProductID:       product.ID,
			VariantID:       variantID,
			Title:           product.Title,
			ProductNo:       product.ProductNo,
			Thumbnail:       product.Thumbnail,
			SelectedOptions: selectedOptions,
			UnitPrice:       models.NewMoneyFromDecimal(unitPrice),
			Quantity:        item.Quantity,
			TotalPrice:      models.NewMoneyFromDecimal(total),
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}
	if len(plan.Items) == 0 {
		return nil, ErrOrderItemInvalid
	}
	return plan, nil
}

// resolveFreeShipping 免运费判定：已有在途订单即合并配送免运费，纯存在性检查。
// 结果一次性写入订单快照，此后在途订单变化不回溯修改。
func (s *OrderService) resolveFreeShipping(inFlight int64) bool {
	return inFlight > 0
}

func validateShippingInput(input ShippingInput) error {
	if strings.TrimSpace(input.Recipient) == "" ||
		strings.TrimSpace(input.Phone) == "" ||
		strings.TrimSpace(input.Address) == "" {
		return ErrShippingInfoRequired
	}
	return nil
}

func validatePaymentInput(input PaymentInput) error {
	switch input.Method {
	case constants.PaymentMethodBankTransfer, constants.PaymentMethodCard:
		return nil
	default:
		return ErrPaymentMethodInvalid
	}
}

// mergeCreateOrderItems 合并重复的订单项输入（同商品同规格数量累加）
func mergeCreateOrderItems(items []CreateOrderItem) ([]CreateOrderItem, error) {
	if len(items) == 0 {
		return nil, ErrOrderItemInvalid
	}
	merged := make([]CreateOrderItem, 0, len(items))
	index := make(map[string]int, len(items))
	for _, item := range items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			return nil, ErrOrderItemInvalid
		}
		key := fmt.Sprintf("%d:%d", item.ProductID, item.VariantID)
		if pos, ok := index[key]; ok {
			merged[pos].Quantity += item.Quantity
			continue
		}
		index[key] = len(merged)
		merged = append(merged, item)
	}
	return merged, nil
}

// generateOrderNo 生成订单编号：S + 下单日期(YYMMDD) + "-" + 4位随机大写字母数字
func generateOrderNo(now time.Time) string {
	return fmt.Sprintf("%s%s-%s", constants.OrderNoPrefix, now.Format("060102"), randAlnum(4))
}

// generatePaymentGroupID 生成合并支付分组ID（携带毫秒时间戳）
func generatePaymentGroupID() string {
	return fmt.Sprintf("PG-%d-%s", time.Now().UnixMilli(), randAlnum(4))
}

const alnumCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func randAlnum(n int) string {
	result := make([]byte, n)
	max := big.NewInt(int64(len(alnumCharset)))
	for i := range result {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			result[i] = alnumCharset[0]
			continue
		}
		result[i] = alnumCharset[idx.Int64()]
	}
	return string(result)
}

// normalizeOrderAmount 金额取整并钳制为非负
func normalizeOrderAmount(amount decimal.Decimal) decimal.Decimal {
	normalized := amount.Round(0)
	if normalized.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return normalized
}
