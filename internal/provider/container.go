package provider

import (
	"time"

	"github.com/built-mlm/internal/authz"
	"github.com/built-mlm/internal/cache"
	"github.com/built-mlm/internal/config"
	"github.com/built-mlm/internal/logger"
	"github.com/built-mlm/internal/models"
	"github.com/built-mlm/internal/queue"
	"github.com/built-mlm/internal/repository"
	"github.com/built-mlm/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo         repository.AdminRepository
	UserRepo          repository.UserRepository
	UserMetaRepo      repository.UserMetaRepository
	GroupRepo         repository.GroupRepository
	OrderRepo         repository.OrderRepository
	OrderItemMetaRepo repository.OrderItemMetaRepository
	SettingRepo       repository.SettingRepository

	// Services
	AuthzService      *authz.Service
	AuthService       *service.AuthService
	UserAuthService   *service.UserAuthService
	CaptchaService    *service.CaptchaService
	SettingService    *service.SettingService
	GroupService      *service.GroupService
	CommissionService *service.CommissionService
	VendorService     *service.VendorService
	ReportService     *service.ReportService
	OrderService      *service.OrderService
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
	c.initRepositories(models.DB)
	c.initServices()
	c.initAuthz(models.DB)
	return c
}

// NewContainerWithDB 使用指定数据库构建容器（测试与工具命令使用，不连接 Redis）
func NewContainerWithDB(cfg *config.Config, db *gorm.DB) *Container {
	c := &Container{Config: cfg}
	c.initRepositories(db)
	c.initServices()
	c.initAuthz(db)
	return c
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.UserMetaRepo = repository.NewUserMetaRepository(db)
	c.GroupRepo = repository.NewGroupRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.OrderItemMetaRepo = repository.NewOrderItemMetaRepository(db)
	c.SettingRepo = repository.NewSettingRepository(db)
}

func (c *Container) initServices() {
	maxDepth := c.Config.MLM.MaxTreeDepth
	directory := service.NewRepositoryDirectory(c.GroupRepo, c.UserMetaRepo, maxDepth)

	c.SettingService = service.NewSettingService(c.SettingRepo, c.GroupRepo)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.CaptchaService = service.NewCaptchaService(c.Config.Security.Captcha)
	c.GroupService = service.NewGroupService(c.GroupRepo, c.UserRepo)
	c.CommissionService = service.NewCommissionService(c.SettingService, directory, c.OrderItemMetaRepo, maxDepth)
	c.VendorService = service.NewVendorService(c.CommissionService, c.SettingService, c.UserRepo, c.UserMetaRepo, c.GroupRepo, maxDepth)
	c.ReportService = service.NewReportService(
		c.VendorService,
		c.UserRepo,
		c.OrderItemMetaRepo,
		time.Duration(c.Config.MLM.ReportCacheTTLSeconds)*time.Second,
	)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.CommissionService, c.QueueClient, c.Config.Order.Currency, c.Config.Order.MaxItemsPerOrder)
}

func (c *Container) initAuthz(db *gorm.DB) {
	authzService, err := authz.NewService(db)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
}
