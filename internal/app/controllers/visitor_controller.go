package controllers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"vms-http-service/internal/domain/models"
	"vms-http-service/internal/domain/services"
	"vms-http-service/internal/domain/services/container"
	"vms-http-service/internal/error/code"
	"vms-http-service/internal/error/response"
)

// InterfaceVisitorController 定义访客控制器接口
type InterfaceVisitorController interface {
	GetVisitors()
	GetVisitor()
	CreateVisitor()
	UpdateVisitor()
	DeleteVisitor()
}

// VisitorController 处理访客目录相关的请求
type VisitorController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewVisitorController 创建一个新的访客控制器
func NewVisitorController(ctx *gin.Context, container *container.ServiceContainer) *VisitorController {
	return &VisitorController{
		Ctx:       ctx,
		Container: container,
	}
}

// VisitorRequest 表示访客登记请求
type VisitorRequest struct {
	Name    string `json:"name" binding:"required" example:"张三"`
	Email   string `json:"email" binding:"required,email" example:"zhangsan@example.com"`
	Phone   string `json:"phone" binding:"required" example:"13812345678"`
	Company string `json:"company" example:"某某科技有限公司"`
}

// UpdateVisitorRequest 表示更新访客请求，零值字段不更新
type UpdateVisitorRequest struct {
	Name    string `json:"name" example:"李四"`
	Email   string `json:"email" binding:"omitempty,email" example:"lisi@example.com"`
	Phone   string `json:"phone" example:"13987654321"`
	Company string `json:"company" example:"另一家公司"`
}

// HandleVisitorFunc 返回一个处理访客请求的Gin处理函数
func HandleVisitorFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewVisitorController(ctx, container)

		switch method {
		case "getVisitors":
			controller.GetVisitors()
		case "getVisitor":
			controller.GetVisitor()
		case "createVisitor":
			controller.CreateVisitor()
		case "updateVisitor":
			controller.UpdateVisitor()
		case "deleteVisitor":
			controller.DeleteVisitor()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// parseIDParam 解析路径中的数字ID参数
func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		response.ParamError(ctx, "无效的ID")
		return 0, false
	}
	return uint(id), true
}

// GetVisitors 获取访客列表
// @Summary      获取访客列表
// @Description  获取所有访客，支持分页
// @Tags         Visitor
// @Produce      json
// @Param        page query int false "页码，默认为1"
// @Param        limit query int false "每页条数，默认为10"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  ErrorResponse
// @Router       /visitors [get]
func (c *VisitorController) GetVisitors() {
	var pq models.PaginationQuery
	pq.Page, _ = strconv.Atoi(c.Ctx.DefaultQuery("page", "1"))
	pq.Limit, _ = strconv.Atoi(c.Ctx.DefaultQuery("limit", "10"))
	pq.Normalize()

	visitorService := c.Container.GetService("visitor").(services.InterfaceVisitorService)
	visitors, total, err := visitorService.GetAllVisitors(pq.Page, pq.Limit)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "获取访客列表失败", nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"data":       visitors,
		"pagination": models.NewPaginationMeta(pq.Page, pq.Limit, total),
	})
}

// GetVisitor 获取单个访客
// @Summary      获取访客详情
// @Description  根据ID获取访客的详细信息
// @Tags         Visitor
// @Produce      json
// @Param        id path int true "访客ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /visitors/{id} [get]
func (c *VisitorController) GetVisitor() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	visitorService := c.Container.GetService("visitor").(services.InterfaceVisitorService)
	visitor, err := visitorService.GetVisitorByID(id)
	if err != nil {
		if errors.Is(err, services.ErrVisitorNotFound) {
			response.Fail(c.Ctx, code.ErrVisitorNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "获取访客信息失败", nil)
		return
	}

	response.Success(c.Ctx, visitor)
}

// CreateVisitor 登记新访客
// @Summary      登记访客
// @Description  登记新访客，邮箱必须唯一
// @Tags         Visitor
// @Accept       json
// @Produce      json
// @Param        request body VisitorRequest true "访客信息"
// @Security     BearerAuth
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /visitors [post]
func (c *VisitorController) CreateVisitor() {
	var req VisitorRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "访客信息不完整: "+err.Error())
		return
	}

	visitor := models.Visitor{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
	}

	visitorService := c.Container.GetService("visitor").(services.InterfaceVisitorService)
	if err := visitorService.CreateVisitor(&visitor); err != nil {
		switch {
		case errors.Is(err, services.ErrVisitorEmailTaken):
			response.Fail(c.Ctx, code.ErrVisitorAlreadyExist, nil)
		case errors.Is(err, services.ErrVisitorEmailInvalid):
			response.ParamError(c.Ctx, err.Error())
		default:
			response.FailWithMessage(c.Ctx, code.ErrDatabase, "登记访客失败", nil)
		}
		return
	}

	response.Created(c.Ctx, visitor)
}

// UpdateVisitor 更新访客信息
// @Summary      更新访客
// @Description  更新访客信息，未提供的字段保持不变
// @Tags         Visitor
// @Accept       json
// @Produce      json
// @Param        id path int true "访客ID"
// @Param        request body UpdateVisitorRequest true "要更新的字段"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /visitors/{id} [put]
func (c *VisitorController) UpdateVisitor() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	var req UpdateVisitorRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.Company != "" {
		updates["company"] = req.Company
	}

	visitorService := c.Container.GetService("visitor").(services.InterfaceVisitorService)
	visitor, err := visitorService.UpdateVisitor(id, updates)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrVisitorNotFound):
			response.Fail(c.Ctx, code.ErrVisitorNotFound, nil)
		case errors.Is(err, services.ErrVisitorEmailTaken):
			response.Fail(c.Ctx, code.ErrVisitorAlreadyExist, nil)
		case errors.Is(err, services.ErrVisitorEmailInvalid):
			response.ParamError(c.Ctx, err.Error())
		default:
			response.FailWithMessage(c.Ctx, code.ErrDatabase, "更新访客失败", nil)
		}
		return
	}

	response.Success(c.Ctx, visitor)
}

// DeleteVisitor 删除访客
// @Summary      删除访客
// @Description  删除访客，历史访问记录保留
// @Tags         Visitor
// @Produce      json
// @Param        id path int true "访客ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /visitors/{id} [delete]
func (c *VisitorController) DeleteVisitor() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	visitorService := c.Container.GetService("visitor").(services.InterfaceVisitorService)
	if err := visitorService.DeleteVisitor(id); err != nil {
		if errors.Is(err, services.ErrVisitorNotFound) {
			response.Fail(c.Ctx, code.ErrVisitorNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "删除访客失败", nil)
		return
	}

	response.Success(c.Ctx, gin.H{"deleted": id})
}
