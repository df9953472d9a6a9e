package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "vms-http-service/docs"
	"vms-http-service/internal/app/controllers"
	"vms-http-service/internal/app/middleware"
	"vms-http-service/internal/domain/services/container"
	"vms-http-service/internal/infrastructure/config"
)

// SetupRouter 初始化并返回配置好的路由
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// 初始化 Gin
	r := gin.Default()

	// 添加 CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", cfg.BaseURL)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})
	// 创建服务容器
	serviceContainer := container.NewServiceContainer(db, cfg)
	// 初始化中间件
	middleware.InitAuthMiddleware(cfg, db)
	// 添加 Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 注册路由
	registerRoutes(r, serviceContainer)
	return r
}

// registerRoutes 配置所有API路由
func registerRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
) {
	// API 路由根路径
	api := r.Group("/api")
	// 注册公共路由
	registerPublicRoutes(api, container)
	// 注册需要认证的路由
	registerAuthenticatedRoutes(api, container)
}

// registerPublicRoutes 注册公共路由
func registerPublicRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 添加IP限流中间件 - 每秒允许10个请求，最多突发20个请求
	api.Use(middleware.IPRateLimiter(10, 20))

	// 健康检查路由
	api.GET("/ping", controllers.HandleHealthFunc(container, "ping"))
	api.GET("/health", controllers.HandleHealthFunc(container, "ping")) // 兼容Docker健康检查的路由
	api.GET("/health/status", controllers.HandleHealthFunc(container, "status"))

	// 认证路由
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.PathRateLimiter(5, 10)) // 每秒5个请求，最多突发10个
	authGroup.POST("/login", controllers.HandleJWTFunc(container, "login"))
	authGroup.POST("/register", controllers.HandleJWTFunc(container, "register"))
	authGroup.POST("/refresh", controllers.HandleJWTFunc(container, "refresh"))
	authGroup.POST("/logout", controllers.HandleJWTFunc(container, "logout"))

	// 扫码校验路由 - 门禁设备调用，不要求登录
	api.POST("/visits/validate-qr", middleware.CombinedRateLimiter(10, 20),
		controllers.HandleVisitFunc(container, "validateQR"))
}

// registerAuthenticatedRoutes 注册需要认证的路由
func registerAuthenticatedRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 任何已登录角色可访问的路由：文档阅读与签署
	user := api.Group("/")
	user.Use(middleware.AuthenticateUser())
	user.Use(middleware.IPRateLimiter(30, 50))

	// 文档列表短期缓存，内容很少变化
	user.GET("/documents", middleware.Cache(middleware.CacheConfig{Expiration: 30 * time.Second}),
		controllers.HandleDocumentFunc(container, "getDocuments"))
	user.GET("/documents/:id", controllers.HandleDocumentFunc(container, "getDocument"))
	user.GET("/documents/:id/download", controllers.HandleDocumentFunc(container, "downloadDocument"))
	user.POST("/documents/:id/sign", controllers.HandleDocumentFunc(container, "signDocument"))
	user.POST("/visits/:id/documents/:documentId/sign", controllers.HandleVisitFunc(container, "signDocument"))

	// 接待人员及以上的路由：访客目录与访问生命周期操作
	agent := api.Group("/")
	agent.Use(middleware.AuthenticateAgent())
	agent.Use(middleware.IPRateLimiter(30, 50))

	agent.GET("/visitors", controllers.HandleVisitorFunc(container, "getVisitors"))
	agent.GET("/visitors/:id", controllers.HandleVisitorFunc(container, "getVisitor"))
	agent.GET("/visitors/:id/history", controllers.HandleVisitFunc(container, "getVisitorHistory"))
	agent.POST("/visitors", controllers.HandleVisitorFunc(container, "createVisitor"))
	agent.PUT("/visitors/:id", controllers.HandleVisitorFunc(container, "updateVisitor"))

	agent.GET("/visits", controllers.HandleVisitFunc(container, "getVisits"))
	agent.GET("/visits/history", controllers.HandleVisitFunc(container, "getHistory"))
	agent.GET("/visits/visitor/:id/history", controllers.HandleVisitFunc(container, "getVisitorHistory"))
	agent.GET("/visits/:id", controllers.HandleVisitFunc(container, "getVisit"))
	agent.POST("/visits", controllers.HandleVisitFunc(container, "createVisit"))
	agent.PUT("/visits/:id/exit", controllers.HandleVisitFunc(container, "recordExit"))

	// 管理员专属路由
	admin := api.Group("/")
	admin.Use(middleware.AuthenticateAdmin())
	admin.Use(middleware.IPRateLimiter(30, 50))

	admin.DELETE("/visitors/:id", controllers.HandleVisitorFunc(container, "deleteVisitor"))
	admin.POST("/documents", controllers.HandleDocumentFunc(container, "createDocument"))
	admin.GET("/dashboard/overview", controllers.HandleDashboardFunc(container, "getOverview"))
	admin.GET("/dashboard/stats", controllers.HandleDashboardFunc(container, "getStats"))
	admin.GET("/dashboard/export", controllers.HandleDashboardFunc(container, "export"))
}
