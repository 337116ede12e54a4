package provider

import (
	"time"

	"github.com/alphadeveloper12/dosta-backend/internal/cache"
	"github.com/alphadeveloper12/dosta-backend/internal/config"
	"github.com/alphadeveloper12/dosta-backend/internal/logger"
	"github.com/alphadeveloper12/dosta-backend/internal/models"
	"github.com/alphadeveloper12/dosta-backend/internal/queue"
	"github.com/alphadeveloper12/dosta-backend/internal/repository"
	"github.com/alphadeveloper12/dosta-backend/internal/service"
	"github.com/alphadeveloper12/dosta-backend/internal/vending/gateway"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo         repository.UserRepository
	OrderRepo        repository.OrderRepository
	CartRepo         repository.CartRepository
	MenuItemRepo     repository.MenuItemRepository
	MasterItemRepo   repository.MasterItemRepository
	LocationRepo     repository.LocationRepository
	TimeSlotRepo     repository.TimeSlotRepository
	MachineStockRepo repository.MachineStockRepository

	// Services
	OrderService       *service.OrderService
	CartService        *service.CartService
	CatalogService     *service.CatalogService
	LocationService    *service.LocationService
	FulfillmentService *service.FulfillmentService
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

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.MenuItemRepo = repository.NewMenuItemRepository(db)
	c.MasterItemRepo = repository.NewMasterItemRepository(db)
	c.LocationRepo = repository.NewLocationRepository(db)
	c.TimeSlotRepo = repository.NewTimeSlotRepository(db)
	c.MachineStockRepo = repository.NewMachineStockRepository(db)
}

func (c *Container) initServices() {
	var vendingGateway service.VendingGateway
	gatewayClient, err := gateway.NewClient(gateway.Config{
		BaseURL:        c.Config.Vending.BaseURL,
		Username:       c.Config.Vending.Username,
		Password:       c.Config.Vending.Password,
		TimeoutSeconds: c.Config.Vending.TimeoutSeconds,
		Timezone:       c.Config.Vending.Timezone,
	})
	if err != nil {
		logger.Warnw("provider_init_vending_gateway_failed", "error", err)
	} else {
		vendingGateway = gatewayClient
	}

	lockTTL := time.Duration(c.Config.Vending.LockTTLSeconds) * time.Second
	machineLock := cache.NewMachineLock(lockTTL)

	c.FulfillmentService = service.NewFulfillmentService(
		c.OrderRepo,
		c.LocationRepo,
		c.MachineStockRepo,
		vendingGateway,
		machineLock,
	)
	c.OrderService = service.NewOrderService(
		c.OrderRepo,
		c.LocationRepo,
		c.TimeSlotRepo,
		c.MenuItemRepo,
		c.CartRepo,
		c.QueueClient,
		c.FulfillmentService,
		c.Config.Order,
	)
	c.CartService = service.NewCartService(c.CartRepo, c.MenuItemRepo)
	c.CatalogService = service.NewCatalogService(c.MasterItemRepo, c.MenuItemRepo)
	c.LocationService = service.NewLocationService(c.LocationRepo, c.TimeSlotRepo, c.MachineStockRepo)
}
