package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"vms-http-service/internal/app/middleware"
	"vms-http-service/internal/domain/services"
	"vms-http-service/internal/domain/services/container"
	"vms-http-service/internal/error/code"
	"vms-http-service/internal/error/response"
)

// HealthController 健康检查控制器
type HealthController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewHealthController 创建健康检查控制器实例
func NewHealthController(ctx *gin.Context, container *container.ServiceContainer) *HealthController {
	return &HealthController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleHealthFunc 返回一个处理健康检查请求的Gin处理函数
func HandleHealthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewHealthController(ctx, container)

		switch method {
		case "ping":
			controller.Ping()
		case "status":
			controller.Status()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// Ping 健康检查端点
func (c *HealthController) Ping() {
	response.Success(c.Ctx, gin.H{
		"status":  "healthy",
		"message": "pong",
	})
}

// Status 返回各依赖组件的健康状态
func (c *HealthController) Status() {
	status := gin.H{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	}

	// 数据库状态与连接池统计
	dbStatus := "up"
	if sqlDB, err := c.Container.GetDB().DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "down"
		status["status"] = "degraded"
	} else {
		stats := sqlDB.Stats()
		status["db_pool"] = gin.H{
			"open_connections": stats.OpenConnections,
			"in_use":           stats.InUse,
			"idle":             stats.Idle,
		}
	}
	status["database"] = dbStatus

	// Redis状态，未启用时标记为disabled
	redisStatus := "disabled"
	if redisService, ok := c.Container.GetService("redis").(services.InterfaceRedisService); ok && redisService != nil {
		redisStatus = "up"
		if err := redisService.Ping(); err != nil {
			redisStatus = "down"
		}
	}
	status["redis"] = redisStatus

	// 响应缓存统计
	status["cache"] = middleware.CacheStats()

	response.Success(c.Ctx, status)
}
