package constants

// 订单状态常量
const (
	OrderStatusPending   = "pending"
	OrderStatusVerifying = "verifying"
	OrderStatusPaid      = "paid"
	OrderStatusPreparing = "preparing"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// 订单类型常量
const (
	OrderTypeDirect      = "direct"
	OrderTypeCart        = "cart"
	OrderTypeBulkPayment = "bulk_payment"
)

// 第三方登录提供方常量
const (
	SocialProviderKakao = "KAKAO"
)

// 支付方式常量
const (
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodCard         = "card"
)

// 支付状态常量
const (
	PaymentStatusPending   = "pending"
	PaymentStatusVerifying = "verifying"
	PaymentStatusConfirmed = "confirmed"
	PaymentStatusCancelled = "cancelled"
)

// 优惠券类型常量
const (
	CouponTypeFixed   = "fixed_amount"
	CouponTypePercent = "percentage"
)

// 库存变动类型常量
const (
	StockMovementDeduct  = "deduct"
	StockMovementRestore = "restore"
)

// 队列常量
const (
	QueueDefault          = "default"
	TaskOrderInventory    = "order:inventory_deduct"
	TaskOrderPendingCheck = "order:pending_check"
	TaskOrderStatusNotify = "order:status_notify"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "lc"
)

// 订单编号前缀常量
const (
	OrderNoPrefix      = "S"
	GroupOrderNoPrefix = "G"
)

// 币种常量
const (
	SiteCurrencyDefault = "KRW"
)
