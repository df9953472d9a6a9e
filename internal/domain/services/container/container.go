package container

import (
	"sync"

	"gorm.io/gorm"

	"vms-http-service/internal/domain/services"
	"vms-http-service/internal/infrastructure/config"
	"vms-http-service/internal/infrastructure/email"
	"vms-http-service/pkg/logger"
)

// ServiceContainer 管理所有服务的依赖注入
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config

	// 基础服务
	jwtService services.InterfaceJWTService

	// 数据存储服务
	redisService services.InterfaceRedisService

	// 邮件通知
	mailer email.Mailer

	// 业务服务
	qrService        services.InterfaceQRService
	visitorService   services.InterfaceVisitorService
	visitService     services.InterfaceVisitService
	documentService  services.InterfaceDocumentService
	dashboardService services.InterfaceDashboardService

	mu sync.RWMutex
}

// NewServiceContainer 创建新的服务容器
func NewServiceContainer(db *gorm.DB, cfg *config.Config) *ServiceContainer {
	if db == nil {
		panic("数据库连接为空")
	}

	if cfg == nil {
		panic("配置为空")
	}

	container := &ServiceContainer{
		db:     db,
		config: cfg,
	}
	container.initializeServices()
	return container
}

// initializeServices 初始化所有服务
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 初始化基础服务
	c.jwtService = services.NewJWTService(c.config, c.db)

	// 初始化Redis服务，连接不可用时降级为无缓存
	redisService := services.NewRedisService(c.config)
	if err := redisService.Ping(); err != nil {
		logger.Warning("Redis连接测试失败: %v，将不使用Redis缓存", err)
		redisService = nil
	}
	c.redisService = redisService

	// 初始化邮件通知
	c.mailer = email.NewMailer(c.config)

	// 初始化业务服务
	c.qrService = services.NewQRService(c.config)
	c.visitorService = services.NewVisitorService(c.db, c.config)
	c.visitService = services.NewVisitService(c.db, c.config, c.qrService, c.mailer)
	c.documentService = services.NewDocumentService(c.db, c.config)
	c.dashboardService = services.NewDashboardService(c.db, c.config, c.redisService)
}

// GetService 获取指定名称的服务
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "jwt":
		return c.jwtService
	case "redis":
		return c.redisService
	case "mailer":
		return c.mailer
	case "qr":
		return c.qrService
	case "visitor":
		return c.visitorService
	case "visit":
		return c.visitService
	case "document":
		return c.documentService
	case "dashboard":
		return c.dashboardService
	default:
		return nil
	}
}

// GetDB 获取数据库连接
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}
