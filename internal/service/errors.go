package service

import "errors"

// 订单相关错误
var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderItemInvalid      = errors.New("invalid order item")
	ErrShippingInfoRequired  = errors.New("shipping info required")
	ErrPaymentMethodInvalid  = errors.New("invalid payment method")
	ErrOrderIdentityRequired = errors.New("order identity required")
	ErrOrderStatusInvalid    = errors.New("invalid order status transition")
	ErrOrderCancelNotAllowed = errors.New("order cancel not allowed")
	ErrOrderCreateFailed     = errors.New("order create failed")
	ErrOrderFetchFailed      = errors.New("order fetch failed")
	ErrOrderUpdateFailed     = errors.New("order update failed")
	ErrOrderMergeBusy        = errors.New("order merge in progress")
	ErrPaymentGroupInvalid   = errors.New("invalid payment group")
)

// 商品与库存相关错误
var (
	ErrProductNotAvailable   = errors.New("product not available")
	ErrProductPriceInvalid   = errors.New("invalid product price")
	ErrVariantNotFound       = errors.New("product variant not found")
	ErrVariantRequired       = errors.New("product variant required")
	ErrInventoryInsufficient = errors.New("inventory insufficient")
)

// 优惠券相关错误
var (
	ErrCouponNotFound     = errors.New("coupon not found")
	ErrCouponInvalid      = errors.New("coupon invalid")
	ErrCouponInactive     = errors.New("coupon inactive")
	ErrCouponNotStarted   = errors.New("coupon not started")
	ErrCouponExpired      = errors.New("coupon expired")
	ErrCouponUsageLimit   = errors.New("coupon usage limit reached")
	ErrCouponPerUserLimit = errors.New("coupon per user limit reached")
	ErrCouponMinAmount    = errors.New("coupon min amount not met")
)
