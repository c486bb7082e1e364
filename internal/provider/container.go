package provider

import (
	"context"
	"strings"
	"time"

	"github.com/dujiao-next/storefront/internal/authz"
	"github.com/dujiao-next/storefront/internal/cache"
	"github.com/dujiao-next/storefront/internal/config"
	"github.com/dujiao-next/storefront/internal/logger"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/payment/razorpay"
	"github.com/dujiao-next/storefront/internal/queue"
	"github.com/dujiao-next/storefront/internal/repository"
	"github.com/dujiao-next/storefront/internal/service"
	"github.com/dujiao-next/storefront/internal/shipping/shiprocket"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultMongoDatabase = "storefront"

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	Store       cache.Store
	RedisClient *redis.Client
	QueueClient *queue.Client
	MongoClient *mongo.Client

	// Gateways
	PaymentGateway  *razorpay.Client
	ShippingGateway *shiprocket.Client

	// Repositories
	AdminRepo     repository.AdminRepository
	UserRepo      repository.UserRepository
	ProductRepo   repository.ProductRepository
	CartRepo      repository.CartRepository
	CounterRepo   repository.CounterRepository
	OrderRepo     repository.OrderRepository
	WalletRepo    repository.WalletRepository
	ReviewRepo    repository.ReviewRepository
	WishlistRepo  repository.WishlistRepository
	BlogRepo      repository.BlogRepository
	ContactRepo   repository.ContactRepository
	DashboardRepo repository.DashboardRepository

	// Services
	AuthzService       *authz.Service
	AuthService        *service.AuthService
	UserAuthService    *service.UserAuthService
	UserAdminService   *service.UserAdminService
	CaptchaService     *service.CaptchaService
	ProductService     *service.ProductService
	CartService        *service.CartService
	OrderService       *service.OrderService
	PaymentService     *service.PaymentService
	WalletService      *service.WalletService
	ReviewService      *service.ReviewService
	WishlistService    *service.WishlistService
	BlogService        *service.BlogService
	ContactService     *service.ContactService
	ShippingService    *service.ShippingService
	ShipmentDispatcher *service.ShipmentDispatcher
	DashboardService   *service.DashboardService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	store, redisClient := cache.NewStore(&cfg.Redis)
	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnw("provider_redis_ping_failed", "error", err)
		}
		cancel()
	}

	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient = nil
	}

	c := &Container{
		Config:      cfg,
		Store:       store,
		RedisClient: redisClient,
		QueueClient: queueClient,
	}

	// 1. 初始化网关客户端
	c.initGateways()

	// 2. 初始化 Repositories
	c.initRepositories()

	// 3. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initGateways() {
	cfg := c.Config
	c.PaymentGateway = razorpay.NewClient(razorpay.Config{
		KeyID:         cfg.Razorpay.KeyID,
		KeySecret:     cfg.Razorpay.KeySecret,
		WebhookSecret: cfg.Razorpay.WebhookSecret,
		Currency:      cfg.Razorpay.Currency,
		APIBaseURL:    cfg.Razorpay.APIBaseURL,
		Timeout:       time.Duration(cfg.Razorpay.TimeoutSeconds) * time.Second,
	})
	if err := razorpay.ValidateConfig(razorpay.Config{KeyID: cfg.Razorpay.KeyID, KeySecret: cfg.Razorpay.KeySecret}); err != nil {
		logger.Warnw("provider_razorpay_config_incomplete", "error", err)
	}

	if cfg.Shiprocket.Enabled {
		c.ShippingGateway = shiprocket.NewClient(shiprocket.Config{
			Email:          cfg.Shiprocket.Email,
			Password:       cfg.Shiprocket.Password,
			APIBaseURL:     cfg.Shiprocket.APIBaseURL,
			PickupLocation: cfg.Shiprocket.PickupLocation,
			Timeout:        time.Duration(cfg.Shiprocket.TimeoutSeconds) * time.Second,
			TokenTTL:       cfg.Cache.ShiprocketTokenTTL(),
		}, c.Store)
	}
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.CounterRepo = repository.NewCounterRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.WalletRepo = repository.NewWalletRepository(db)
	c.ReviewRepo = repository.NewReviewRepository(db)
	c.WishlistRepo = repository.NewWishlistRepository(db)
	c.BlogRepo = repository.NewBlogRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
	c.ContactRepo = c.initContactRepository()
}

// initContactRepository 启用 Mongo 时留言写入 Mongo，连接失败退回关系库
func (c *Container) initContactRepository() repository.ContactRepository {
	cfg := c.Config.Mongo
	if !cfg.Enabled || strings.TrimSpace(cfg.URI) == "" {
		return repository.NewContactRepository(models.DB)
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err == nil {
		err = client.Ping(ctx, nil)
	}
	if err != nil {
		logger.Warnw("provider_mongo_connect_failed", "error", err)
		if client != nil {
			_ = client.Disconnect(context.Background())
		}
		return repository.NewContactRepository(models.DB)
	}
	c.MongoClient = client

	database := strings.TrimSpace(cfg.Database)
	if database == "" {
		database = defaultMongoDatabase
	}
	repo := repository.NewMongoContactRepository(client.Database(database), timeout)
	if err := repo.EnsureIndexes(context.Background()); err != nil {
		logger.Warnw("provider_mongo_ensure_indexes_failed", "error", err)
	}
	logger.Infow("provider_contact_store_mongo", "database", database)
	return repo
}

func (c *Container) initServices() {
	cfg := c.Config
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	defaultTTL := cfg.Cache.DefaultTTL()
	dashboardTTL := cfg.Cache.DashboardTTL()

	c.AuthService = service.NewAuthService(cfg, c.AdminRepo, c.Store)
	c.CaptchaService = service.NewCaptchaService(cfg.Captcha)
	c.WalletService = service.NewWalletService(c.WalletRepo, c.Store, defaultTTL)
	c.UserAuthService = service.NewUserAuthService(cfg, c.UserRepo, c.OrderRepo, c.WalletService, c.Store)
	c.UserAdminService = service.NewUserAdminService(c.UserRepo, c.Store, defaultTTL)
	c.ProductService = service.NewProductService(c.ProductRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo, c.Store, defaultTTL)

	// 未启用物流时必须传入无类型 nil，避免接口持有空指针
	var shippingGateway service.ShippingGateway
	if c.ShippingGateway != nil {
		shippingGateway = c.ShippingGateway
	}
	c.ShippingService = service.NewShippingService(c.OrderRepo, c.UserRepo, shippingGateway)
	c.ShipmentDispatcher = service.NewShipmentDispatcher(c.QueueClient, c.ShippingService)

	c.OrderService = service.NewOrderService(
		c.OrderRepo,
		c.CartRepo,
		c.UserRepo,
		c.CounterRepo,
		c.WalletService,
		c.PaymentGateway,
		c.ShipmentDispatcher,
		c.Store,
		service.OrderServiceOptions{
			DeliveryDays: cfg.Order.DeliveryDays,
			CounterStart: cfg.Order.CounterStart,
			Currency:     c.PaymentGateway.Currency(),
		},
	)
	c.PaymentService = service.NewPaymentService(c.OrderRepo, c.PaymentGateway, c.ShipmentDispatcher, c.Store)
	c.ReviewService = service.NewReviewService(c.ReviewRepo, c.ProductRepo, c.UserRepo)
	c.WishlistService = service.NewWishlistService(c.WishlistRepo, c.ProductRepo)
	c.BlogService = service.NewBlogService(c.BlogRepo, c.Store, defaultTTL)
	c.ContactService = service.NewContactService(c.ContactRepo)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo, c.OrderRepo, c.Store, dashboardTTL)
}

// Close 释放外部连接
func (c *Container) Close(ctx context.Context) {
	if c == nil {
		return
	}
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_failed", "error", err)
		}
	}
	if c.MongoClient != nil {
		if err := c.MongoClient.Disconnect(ctx); err != nil {
			logger.Warnw("provider_close_mongo_failed", "error", err)
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.Warnw("provider_close_redis_failed", "error", err)
		}
	}
}
