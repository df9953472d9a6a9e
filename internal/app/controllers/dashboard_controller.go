package controllers

import (
	"github.com/gin-gonic/gin"

	"vms-http-service/internal/domain/services"
	"vms-http-service/internal/domain/services/container"
	"vms-http-service/internal/error/code"
	"vms-http-service/internal/error/response"
)

// InterfaceDashboardController 定义仪表盘控制器接口
type InterfaceDashboardController interface {
	GetOverview()
	GetStats()
	Export()
}

// DashboardController 处理仪表盘相关的请求
type DashboardController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewDashboardController 创建一个新的仪表盘控制器
func NewDashboardController(ctx *gin.Context, container *container.ServiceContainer) *DashboardController {
	return &DashboardController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleDashboardFunc 返回一个处理仪表盘请求的Gin处理函数
func HandleDashboardFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewDashboardController(ctx, container)

		switch method {
		case "getOverview":
			controller.GetOverview()
		case "getStats":
			controller.GetStats()
		case "export":
			controller.Export()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// GetOverview 获取仪表盘概览
// @Summary      仪表盘概览
// @Description  访问总量、今日访问、即将到访与最近访问列表
// @Tags         Dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /dashboard/overview [get]
func (c *DashboardController) GetOverview() {
	dashboardService := c.Container.GetService("dashboard").(services.InterfaceDashboardService)
	overview, err := dashboardService.GetOverview()
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "获取仪表盘概览失败", nil)
		return
	}

	response.Success(c.Ctx, overview)
}

// GetStats 获取仪表盘统计
// @Summary      仪表盘统计
// @Description  按目的分组、按月分组与文档签署合规统计
// @Tags         Dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /dashboard/stats [get]
func (c *DashboardController) GetStats() {
	dashboardService := c.Container.GetService("dashboard").(services.InterfaceDashboardService)
	stats, err := dashboardService.GetStats()
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "获取仪表盘统计失败", nil)
		return
	}

	response.Success(c.Ctx, stats)
}

// Export 受理导出请求
// @Summary      导出访问数据
// @Description  受理导出请求并返回确认信息
// @Tags         Dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /dashboard/export [get]
func (c *DashboardController) Export() {
	dashboardService := c.Container.GetService("dashboard").(services.InterfaceDashboardService)
	result, err := dashboardService.Export()
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "受理导出请求失败", nil)
		return
	}

	response.Success(c.Ctx, result)
}
