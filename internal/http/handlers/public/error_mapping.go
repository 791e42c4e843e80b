package public

import (
	"errors"

	handlershared "github.com/Theloho/live-commerce-sub002/internal/http/handlers/shared"
	"github.com/Theloho/live-commerce-sub002/internal/http/response"
	"github.com/Theloho/live-commerce-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var orderCreateErrorRules = []mappedHandlerError{
	{target: service.ErrOrderIdentityRequired, code: response.CodeUnauthorized, msg: "identity required"},
	{target: service.ErrOrderItemInvalid, code: response.CodeBadRequest, msg: "invalid order item"},
	{target: service.ErrShippingInfoRequired, code: response.CodeBadRequest, msg: "shipping info required"},
	{target: service.ErrPaymentMethodInvalid, code: response.CodeBadRequest, msg: "invalid payment method"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, msg: "product not available"},
	{target: service.ErrProductPriceInvalid, code: response.CodeBadRequest, msg: "invalid product price"},
	{target: service.ErrVariantRequired, code: response.CodeBadRequest, msg: "product variant required"},
	{target: service.ErrVariantNotFound, code: response.CodeBadRequest, msg: "product variant not found"},
	{target: service.ErrInventoryInsufficient, code: response.CodeConflict, msg: "inventory insufficient"},
	{target: service.ErrOrderMergeBusy, code: response.CodeTooManyRequests, msg: "order merge in progress"},
	{target: service.ErrCouponInvalid, code: response.CodeBadRequest, msg: "coupon invalid"},
	{target: service.ErrCouponNotFound, code: response.CodeBadRequest, msg: "coupon not found"},
	{target: service.ErrCouponInactive, code: response.CodeBadRequest, msg: "coupon inactive"},
	{target: service.ErrCouponNotStarted, code: response.CodeBadRequest, msg: "coupon not started"},
	{target: service.ErrCouponExpired, code: response.CodeBadRequest, msg: "coupon expired"},
	{target: service.ErrCouponUsageLimit, code: response.CodeBadRequest, msg: "coupon usage limit reached"},
	{target: service.ErrCouponPerUserLimit, code: response.CodeBadRequest, msg: "coupon per user limit reached"},
	{target: service.ErrCouponMinAmount, code: response.CodeBadRequest, msg: "coupon min amount not met"},
}

var orderFetchErrorRules = []mappedHandlerError{
	{target: service.ErrOrderIdentityRequired, code: response.CodeUnauthorized, msg: "identity required"},
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
}

var orderCancelErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
	{target: service.ErrOrderCancelNotAllowed, code: response.CodeBadRequest, msg: "order cancel not allowed"},
}

var bulkPaymentErrorRules = []mappedHandlerError{
	{target: service.ErrOrderIdentityRequired, code: response.CodeUnauthorized, msg: "identity required"},
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
	{target: service.ErrPaymentGroupInvalid, code: response.CodeBadRequest, msg: "invalid payment group"},
}
