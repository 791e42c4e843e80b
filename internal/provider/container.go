package provider

import (
	"github.com/Theloho/live-commerce-sub002/internal/cache"
	"github.com/Theloho/live-commerce-sub002/internal/config"
	"github.com/Theloho/live-commerce-sub002/internal/logger"
	"github.com/Theloho/live-commerce-sub002/internal/models"
	"github.com/Theloho/live-commerce-sub002/internal/queue"
	"github.com/Theloho/live-commerce-sub002/internal/repository"
	"github.com/Theloho/live-commerce-sub002/internal/service"
	"github.com/Theloho/live-commerce-sub002/internal/shipping"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo     repository.UserRepository
	OrderRepo    repository.OrderRepository
	ProductRepo  repository.ProductRepository
	VariantRepo  repository.ProductVariantRepository
	ShippingRepo repository.ShippingSnapshotRepository
	PaymentRepo  repository.PaymentSnapshotRepository
	CouponRepo   repository.CouponRepository
	UsageRepo    repository.CouponUsageRepository

	// Services
	ShippingCalc   shipping.Calculator
	CouponService  *service.CouponService
	OrderService   *service.OrderService
	ProductService *service.ProductService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.VariantRepo = repository.NewProductVariantRepository(db)
	c.ShippingRepo = repository.NewShippingSnapshotRepository(db)
	c.PaymentRepo = repository.NewPaymentSnapshotRepository(db)
	c.CouponRepo = repository.NewCouponRepository(db)
	c.UsageRepo = repository.NewCouponUsageRepository(db)
}

func (c *Container) initServices() {
	c.ShippingCalc = shipping.NewRegionCalculatorFromConfig(&c.Config.Shipping)
	c.CouponService = service.NewCouponService(c.CouponRepo, c.UsageRepo)
	c.OrderService = service.NewOrderService(
		c.OrderRepo,
		c.ProductRepo,
		c.VariantRepo,
		c.ShippingRepo,
		c.PaymentRepo,
		c.CouponService,
		c.ShippingCalc,
		c.QueueClient,
		c.Config.Shipping.BaseFee,
		c.Config.Order.MergeLockTTLSeconds,
	)
	c.ProductService = service.NewProductService(c.ProductRepo, c.VariantRepo)
}
