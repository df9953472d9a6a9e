package controllers

import (
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vms-http-service/internal/domain/models"
	"vms-http-service/internal/domain/services"
	"vms-http-service/internal/domain/services/container"
	"vms-http-service/internal/error/code"
	"vms-http-service/internal/error/response"
)

// InterfaceDocumentController 定义文档控制器接口
type InterfaceDocumentController interface {
	GetDocuments()
	GetDocument()
	CreateDocument()
	SignDocument()
	DownloadDocument()
}

// DocumentController 处理文档库相关的请求
type DocumentController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewDocumentController 创建一个新的文档控制器
func NewDocumentController(ctx *gin.Context, container *container.ServiceContainer) *DocumentController {
	return &DocumentController{
		Ctx:       ctx,
		Container: container,
	}
}

// DocumentRequest 表示创建文档请求
type DocumentRequest struct {
	Title   string `json:"title" binding:"required" example:"安全须知"`
	Content string `json:"content" binding:"required" example:"进入厂区必须佩戴安全帽..."`
	Type    string `json:"type" binding:"required" example:"safety"` // safety/policy/other
	Version string `json:"version" example:"1.0"`
}

// SignDocumentRequest 表示签署文档请求
type SignDocumentRequest struct {
	Signature string `json:"signature" binding:"required" example:"data:image/png;base64,iVBOR..."`
}

// HandleDocumentFunc 返回一个处理文档请求的Gin处理函数
func HandleDocumentFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewDocumentController(ctx, container)

		switch method {
		case "getDocuments":
			controller.GetDocuments()
		case "getDocument":
			controller.GetDocument()
		case "createDocument":
			controller.CreateDocument()
		case "signDocument":
			controller.SignDocument()
		case "downloadDocument":
			controller.DownloadDocument()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// GetDocuments 获取文档列表
// @Summary      获取文档列表
// @Description  获取所有文档，附带创建者信息
// @Tags         Document
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /documents [get]
func (c *DocumentController) GetDocuments() {
	documentService := c.Container.GetService("document").(services.InterfaceDocumentService)
	documents, err := documentService.GetAllDocuments()
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "获取文档列表失败", nil)
		return
	}

	response.Success(c.Ctx, documents)
}

// GetDocument 获取文档详情
// @Summary      获取文档详情
// @Description  根据ID获取文档，包含签署记录
// @Tags         Document
// @Produce      json
// @Param        id path int true "文档ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /documents/{id} [get]
func (c *DocumentController) GetDocument() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	documentService := c.Container.GetService("document").(services.InterfaceDocumentService)
	document, err := documentService.GetDocumentByID(id)
	if err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			response.Fail(c.Ctx, code.ErrDocumentNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "获取文档失败", nil)
		return
	}

	response.Success(c.Ctx, document)
}

// CreateDocument 创建文档
// @Summary      创建文档
// @Description  创建新文档，类型必须是 safety、policy 或 other
// @Tags         Document
// @Accept       json
// @Produce      json
// @Param        request body DocumentRequest true "文档内容"
// @Security     BearerAuth
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /documents [post]
func (c *DocumentController) CreateDocument() {
	var req DocumentRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "文档信息不完整: "+err.Error())
		return
	}

	document := models.Document{
		Title:   req.Title,
		Content: req.Content,
		Type:    req.Type,
		Version: req.Version,
	}

	// 创建者来自认证中间件写入的上下文
	if userID, exists := c.Ctx.Get("userID"); exists {
		if id, ok := userID.(float64); ok {
			uid := uint(id)
			document.CreatedByID = &uid
		}
	}

	documentService := c.Container.GetService("document").(services.InterfaceDocumentService)
	if err := documentService.CreateDocument(&document); err != nil {
		if errors.Is(err, services.ErrDocumentInvalidType) {
			response.ParamError(c.Ctx, err.Error())
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "创建文档失败", nil)
		return
	}

	response.Created(c.Ctx, document)
}

// SignDocument 签署文档
// @Summary      签署文档
// @Description  为文档追加签署记录
// @Tags         Document
// @Accept       json
// @Produce      json
// @Param        id path int true "文档ID"
// @Param        request body SignDocumentRequest true "签名内容"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /documents/{id}/sign [post]
func (c *DocumentController) SignDocument() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	var req SignDocumentRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "缺少签名内容")
		return
	}

	documentService := c.Container.GetService("document").(services.InterfaceDocumentService)
	document, err := documentService.SignDocument(id, req.Signature)
	if err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			response.Fail(c.Ctx, code.ErrDocumentNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "签署文档失败", nil)
		return
	}

	response.Success(c.Ctx, document)
}

// DownloadDocument 下载文档
// @Summary      下载文档
// @Description  以指定格式下载文档内容，支持 txt、json、html，默认txt
// @Tags         Document
// @Produce      plain
// @Param        id path int true "文档ID"
// @Param        format query string false "导出格式: txt/json/html"
// @Security     BearerAuth
// @Success      200  {string}  string
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /documents/{id}/download [get]
func (c *DocumentController) DownloadDocument() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	documentService := c.Container.GetService("document").(services.InterfaceDocumentService)
	document, err := documentService.GetDocumentByID(id)
	if err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			response.Fail(c.Ctx, code.ErrDocumentNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "下载文档失败", nil)
		return
	}

	format := strings.ToLower(c.Ctx.DefaultQuery("format", "txt"))
	filename := fmt.Sprintf("document-%d.%s", document.ID, format)

	switch format {
	case "txt":
		c.Ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Ctx.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(document.Content))
	case "json":
		c.Ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Ctx.JSON(http.StatusOK, document)
	case "html":
		body := fmt.Sprintf(
			"<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>%s</title></head>\n<body>\n<h1>%s</h1>\n<p>版本: %s</p>\n<pre>%s</pre>\n</body>\n</html>\n",
			html.EscapeString(document.Title),
			html.EscapeString(document.Title),
			html.EscapeString(document.Version),
			html.EscapeString(document.Content),
		)
		c.Ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Ctx.Data(http.StatusOK, "text/html; charset=utf-8", []byte(body))
	default:
		response.Fail(c.Ctx, code.ErrDocumentFormatUnsupported, nil)
	}
}
