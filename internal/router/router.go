package router

import (
	"fmt"
	"strings"

	"github.com/Theloho/live-commerce-sub002/internal/cache"
	"github.com/Theloho/live-commerce-sub002/internal/config"
	adminhandlers "github.com/Theloho/live-commerce-sub002/internal/http/handlers/admin"
	publichandlers "github.com/Theloho/live-commerce-sub002/internal/http/handlers/public"
	"github.com/Theloho/live-commerce-sub002/internal/logger"
	"github.com/Theloho/live-commerce-sub002/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/管理端分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "lc"
	}
	orderRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:order_create", redisPrefix),
		WindowSeconds: cfg.Security.OrderRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.OrderRateLimit.MaxRequests,
		Message:       "too many order requests",
	}
	redisClient := cache.Client()

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 商品接口
		apiV1.GET("/products", publicHandler.GetProducts)
		apiV1.GET("/products/:id", publicHandler.GetProduct)

		// 订单接口（身份由请求头解析）
		apiV1.POST("/orders", RateLimitMiddleware(redisClient, orderRule, KeyByIdentity), publicHandler.CreateOrder)
		apiV1.GET("/orders", publicHandler.ListOrders)
		apiV1.GET("/orders/check-pending", publicHandler.CheckPendingOrders)
		apiV1.GET("/orders/:id", publicHandler.GetOrder)
		apiV1.GET("/orders/by-order-no/:order_no", publicHandler.GetOrderByOrderNo)
		apiV1.POST("/orders/:id/cancel", publicHandler.CancelOrder)
		apiV1.POST("/orders/bulk-payment", publicHandler.CreateBulkPayment)

		// 管理端接口
		admin := apiV1.Group("/admin")
		{
			admin.GET("/orders", adminHandler.ListOrders)
			admin.PUT("/orders/:id/status", adminHandler.UpdateOrderStatus)
			admin.PUT("/orders/status", adminHandler.BulkUpdateOrderStatus)
			admin.PUT("/orders/groups/:group_id/status", adminHandler.UpdatePaymentGroupStatus)
			admin.GET("/products", adminHandler.ListProducts)
			admin.POST("/products", adminHandler.CreateProduct)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
