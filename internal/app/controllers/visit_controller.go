package controllers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"vms-http-service/internal/domain/models"
	"vms-http-service/internal/domain/services"
	"vms-http-service/internal/domain/services/container"
	"vms-http-service/internal/error/code"
	"vms-http-service/internal/error/response"
)

// InterfaceVisitController 定义访问控制器接口
type InterfaceVisitController interface {
	CreateVisit()
	GetVisits()
	GetVisit()
	ValidateQR()
	RecordExit()
	GetHistory()
	GetVisitorHistory()
	SignDocument()
}

// VisitController 处理访问生命周期相关的请求
type VisitController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewVisitController 创建一个新的访问控制器
func NewVisitController(ctx *gin.Context, container *container.ServiceContainer) *VisitController {
	return &VisitController{
		Ctx:       ctx,
		Container: container,
	}
}

// VisitRequest 表示创建访问请求
type VisitRequest struct {
	VisitorID uint   `json:"visitor_id" binding:"required" example:"1"`
	Purpose   string `json:"purpose" binding:"required" example:"商务洽谈"`
	Host      string `json:"host" binding:"required" example:"王经理"`
}

// ValidateQRRequest 表示扫码校验请求
type ValidateQRRequest struct {
	QRData string `json:"qr_data" binding:"required" example:"https://vms.example.com/visit-details/1"`
}

// SignVisitDocumentRequest 表示访问中签署文档的请求
type SignVisitDocumentRequest struct {
	Signature string `json:"signature" binding:"required" example:"data:image/png;base64,iVBOR..."`
}

// HandleVisitFunc 返回一个处理访问请求的Gin处理函数
func HandleVisitFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewVisitController(ctx, container)

		switch method {
		case "createVisit":
			controller.CreateVisit()
		case "getVisits":
			controller.GetVisits()
		case "getVisit":
			controller.GetVisit()
		case "validateQR":
			controller.ValidateQR()
		case "recordExit":
			controller.RecordExit()
		case "getHistory":
			controller.GetHistory()
		case "getVisitorHistory":
			controller.GetVisitorHistory()
		case "signDocument":
			controller.SignDocument()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// parseDateParam 解析日期查询参数。
// 接受纯日期（2006-01-02）和RFC3339两种格式；endOfDay为true时
// 纯日期取当天的最后一纳秒，保证endDate过滤包含当天的记录。
func parseDateParam(value string, endOfDay bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	return nil, errors.New("日期格式无效，应为 2006-01-02 或 RFC3339")
}

// CreateVisit 创建访问记录
// @Summary      创建访问
// @Description  为已登记的访客创建访问记录，生成入场二维码
// @Tags         Visit
// @Accept       json
// @Produce      json
// @Param        request body VisitRequest true "访问信息"
// @Security     BearerAuth
// @Success      201  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /visits [post]
func (c *VisitController) CreateVisit() {
	var req VisitRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "访问信息不完整: "+err.Error())
		return
	}

	visitService := c.Container.GetService("visit").(services.InterfaceVisitService)
	creation, err := visitService.CreateVisit(req.VisitorID, req.Purpose, req.Host)
	if err != nil {
		if errors.Is(err, services.ErrVisitorNotFound) {
			response.Fail(c.Ctx, code.ErrVisitorNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "创建访问失败", nil)
		return
	}

	response.Created(c.Ctx, creation)
}

// GetVisits 获取访问列表
// @Summary      获取访问列表
// @Description  获取所有访问记录，按入场时间倒序，支持分页
// @Tags         Visit
// @Produce      json
// @Param        page query int false "页码，默认为1"
// @Param        limit query int false "每页条数，默认为10"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /visits [get]
func (c *VisitController) GetVisits() {
	var pq models.PaginationQuery
	pq.Page, _ = strconv.Atoi(c.Ctx.DefaultQuery("page", "1"))
	pq.Limit, _ = strconv.Atoi(c.Ctx.DefaultQuery("limit", "10"))
	pq.Normalize()

	visitService := c.Container.GetService("visit").(services.InterfaceVisitService)
	visits, total, err := visitService.GetAllVisits(pq.Page, pq.Limit)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "获取访问列表失败", nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"data":       visits,
		"pagination": models.NewPaginationMeta(pq.Page, pq.Limit, total),
	})
}

// GetVisit 获取访问详情
// @Summary      获取访问详情
// @Description  根据ID获取访问详情，包含访客信息、已签署文档与访问时长
// @Tags         Visit
// @Produce      json
// @Param        id path int true "访问ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /visits/{id} [get]
func (c *VisitController) GetVisit() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	visitService := c.Container.GetService("visit").(services.InterfaceVisitService)
	visit, err := visitService.GetVisitByID(id)
	if err != nil {
		if errors.Is(err, services.ErrVisitNotFound) {
			response.Fail(c.Ctx, code.ErrVisitNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "获取访问详情失败", nil)
		return
	}

	response.Success(c.Ctx, visit)
}

// ValidateQR 校验入场二维码
// @Summary      校验二维码
// @Description  校验扫码数据，返回访问是否有效。只读操作，不改变访问状态。
// @Tags         Visit
// @Accept       json
// @Produce      json
// @Param        request body ValidateQRRequest true "扫码数据"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /visits/validate-qr [post]
func (c *VisitController) ValidateQR() {
	var req ValidateQRRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "缺少扫码数据")
		return
	}

	visitService := c.Container.GetService("visit").(services.InterfaceVisitService)
	result, err := visitService.ValidateQRCode(req.QRData)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrQRInvalidFormat):
			response.Fail(c.Ctx, code.ErrQRInvalidFormat, nil)
		case errors.Is(err, services.ErrVisitNotFound):
			response.Fail(c.Ctx, code.ErrVisitNotFound, nil)
		case errors.Is(err, services.ErrVisitNotActive):
			response.Fail(c.Ctx, code.ErrVisitInvalidState, result)
		case errors.Is(err, services.ErrQRExpired):
			response.Fail(c.Ctx, code.ErrVisitExpired, result)
		default:
			response.FailWithMessage(c.Ctx, code.ErrDatabase, "二维码校验失败", nil)
		}
		return
	}

	response.Success(c.Ctx, result)
}

// RecordExit 登记访客离场
// @Summary      登记离场
// @Description  记录离场时间并将访问标记为已完成。已完成的访问拒绝重复登记。
// @Tags         Visit
// @Produce      json
// @Param        id path int true "访问ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /visits/{id}/exit [put]
func (c *VisitController) RecordExit() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	visitService := c.Container.GetService("visit").(services.InterfaceVisitService)
	visit, err := visitService.RecordExit(id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrVisitNotFound):
			response.Fail(c.Ctx, code.ErrVisitNotFound, nil)
		case errors.Is(err, services.ErrVisitAlreadyCompleted):
			response.FailWithMessage(c.Ctx, code.ErrVisitInvalidState, err.Error(), nil)
		default:
			response.FailWithMessage(c.Ctx, code.ErrDatabase, "登记离场失败", nil)
		}
		return
	}

	response.Success(c.Ctx, visit.WithDuration())
}

// GetHistory 查询访问历史
// @Summary      访问历史
// @Description  过滤、排序、分页的访问历史查询，每条记录附带访问时长
// @Tags         Visit
// @Produce      json
// @Param        status query string false "状态过滤: pending/active/completed"
// @Param        visitorId query int false "访客ID过滤"
// @Param        host query string false "接待人模糊匹配，大小写不敏感"
// @Param        startDate query string false "入场时间下限，2006-01-02 或 RFC3339"
// @Param        endDate query string false "入场时间上限，纯日期含当天"
// @Param        sortBy query string false "排序字段: entryTime/exitTime/host/purpose"
// @Param        sortOrder query string false "排序方向: asc/desc，默认desc"
// @Param        page query int false "页码，默认为1"
// @Param        limit query int false "每页条数，默认为10"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /visits/history [get]
func (c *VisitController) GetHistory() {
	var pq models.PaginationQuery
	pq.Page, _ = strconv.Atoi(c.Ctx.DefaultQuery("page", "1"))
	pq.Limit, _ = strconv.Atoi(c.Ctx.DefaultQuery("limit", "10"))
	pq.Normalize()

	filter := services.VisitHistoryFilter{
		Status:    c.Ctx.Query("status"),
		Host:      c.Ctx.Query("host"),
		SortBy:    c.Ctx.Query("sortBy"),
		SortOrder: c.Ctx.Query("sortOrder"),
		Page:      pq.Page,
		Limit:     pq.Limit,
	}

	if raw := c.Ctx.Query("visitorId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			response.ParamError(c.Ctx, "无效的访客ID")
			return
		}
		filter.VisitorID = uint(id)
	}

	startDate, err := parseDateParam(c.Ctx.Query("startDate"), false)
	if err != nil {
		response.ParamError(c.Ctx, "startDate "+err.Error())
		return
	}
	filter.StartDate = startDate

	endDate, err := parseDateParam(c.Ctx.Query("endDate"), true)
	if err != nil {
		response.ParamError(c.Ctx, "endDate "+err.Error())
		return
	}
	filter.EndDate = endDate

	visitService := c.Container.GetService("visit").(services.InterfaceVisitService)
	visits, total, err := visitService.GetVisitHistory(filter)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSortField) {
			response.ParamError(c.Ctx, err.Error())
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询访问历史失败", nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"data":       visits,
		"pagination": models.NewPaginationMeta(pq.Page, pq.Limit, total),
	})
}

// GetVisitorHistory 查询单个访客的访问历史
// @Summary      访客历史
// @Description  查询指定访客的全部访问记录，按入场时间倒序
// @Tags         Visit
// @Produce      json
// @Param        id path int true "访客ID"
// @Param        page query int false "页码，默认为1"
// @Param        limit query int false "每页条数，默认为10"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /visitors/{id}/history [get]
func (c *VisitController) GetVisitorHistory() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	var pq models.PaginationQuery
	pq.Page, _ = strconv.Atoi(c.Ctx.DefaultQuery("page", "1"))
	pq.Limit, _ = strconv.Atoi(c.Ctx.DefaultQuery("limit", "10"))
	pq.Normalize()

	visitService := c.Container.GetService("visit").(services.InterfaceVisitService)
	visitor, visits, total, err := visitService.GetVisitorHistory(id, pq.Page, pq.Limit)
	if err != nil {
		if errors.Is(err, services.ErrVisitorNotFound) {
			response.Fail(c.Ctx, code.ErrVisitorNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询访客历史失败", nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"visitor":    visitor,
		"data":       visits,
		"pagination": models.NewPaginationMeta(pq.Page, pq.Limit, total),
	})
}

// SignDocument 访问过程中签署文档
// @Summary      访问签署文档
// @Description  访客在访问过程中签署指定文档，签署记录关联到访问
// @Tags         Visit
// @Accept       json
// @Produce      json
// @Param        id path int true "访问ID"
// @Param        documentId path int true "文档ID"
// @Param        request body SignVisitDocumentRequest true "签名内容"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /visits/{id}/documents/{documentId}/sign [post]
func (c *VisitController) SignDocument() {
	visitID, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}
	documentID, ok := parseIDParam(c.Ctx, "documentId")
	if !ok {
		return
	}

	var req SignVisitDocumentRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "缺少签名内容")
		return
	}

	visitService := c.Container.GetService("visit").(services.InterfaceVisitService)
	visit, err := visitService.SignVisitDocument(visitID, documentID, req.Signature)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrVisitNotFound):
			response.Fail(c.Ctx, code.ErrVisitNotFound, nil)
		case errors.Is(err, services.ErrDocumentNotFound):
			response.Fail(c.Ctx, code.ErrDocumentNotFound, nil)
		default:
			response.FailWithMessage(c.Ctx, code.ErrDatabase, "签署文档失败", nil)
		}
		return
	}

	response.Success(c.Ctx, visit)
}
