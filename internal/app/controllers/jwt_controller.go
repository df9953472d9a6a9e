package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vms-http-service/internal/domain/services"
	"vms-http-service/internal/domain/services/container"
	"vms-http-service/internal/error/code"
	"vms-http-service/internal/error/response"
)

// InterfaceJWTController 定义认证控制器接口
type InterfaceJWTController interface {
	Login()
	Register()
	Refresh()
	Logout()
}

// JWTController 处理身份验证请求
type JWTController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewJWTController 创建一个新的认证控制器
func NewJWTController(ctx *gin.Context, container *container.ServiceContainer) *JWTController {
	return &JWTController{
		Ctx:       ctx,
		Container: container,
	}
}

// LoginRequest 表示登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"admin@vms.local"`
	Password string `json:"password" binding:"required" example:"admin123"`
}

// RegisterRequest 表示注册请求
type RegisterRequest struct {
	Username   string `json:"username" binding:"required" example:"reception01"`
	Email      string `json:"email" binding:"required,email" example:"reception01@vms.local"`
	Password   string `json:"password" binding:"required,min=6" example:"secret123"`
	Role       string `json:"role" example:"agent"` // user/agent/admin，默认user
	Department string `json:"department" example:"前台"`
}

// RefreshRequest 表示刷新令牌请求，令牌也可以通过cookie传递
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ErrorResponse 表示错误响应
type ErrorResponse struct {
	Code    int         `json:"code" example:"401"`
	Message string      `json:"message" example:"Invalid email or password"`
	Data    interface{} `json:"data"`
}

// HandleJWTFunc 返回一个处理JWT认证请求的Gin处理函数
func HandleJWTFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewJWTController(ctx, container)

		switch method {
		case "login":
			controller.Login()
		case "register":
			controller.Register()
		case "refresh":
			controller.Refresh()
		case "logout":
			controller.Logout()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// 访问令牌cookie有效期1小时，刷新令牌7天，与令牌本身的有效期一致
const (
	accessCookieMaxAge  = 3600
	refreshCookieMaxAge = 7 * 24 * 3600
)

// setAuthCookies 下发httpOnly认证cookie，浏览器端靠cookie维持会话
func (c *JWTController) setAuthCookies(accessToken, refreshToken string) {
	c.Ctx.SetCookie("token", accessToken, accessCookieMaxAge, "/", "", false, true)
	if refreshToken != "" {
		c.Ctx.SetCookie("refresh_token", refreshToken, refreshCookieMaxAge, "/", "", false, true)
	}
}

// Login 处理用户登录
// @Summary      用户登录
// @Description  通过邮箱和密码登录，返回JWT访问令牌与刷新令牌，同时写入httpOnly cookie
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "登录凭证"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/login [post]
func (c *JWTController) Login() {
	var req LoginRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "邮箱和密码不能为空")
		return
	}

	jwtService := c.Container.GetService("jwt").(services.InterfaceJWTService)
	result, err := jwtService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			response.Fail(c.Ctx, code.ErrUserPasswordIncorrect, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "登录失败", nil)
		return
	}

	c.setAuthCookies(result.AccessToken, result.RefreshToken)
	response.Success(c.Ctx, result)
}

// Register 处理用户注册
// @Summary      用户注册
// @Description  注册新用户，角色默认为user
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "注册信息"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /auth/register [post]
func (c *JWTController) Register() {
	var req RegisterRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "注册信息不完整: "+err.Error())
		return
	}

	jwtService := c.Container.GetService("jwt").(services.InterfaceJWTService)
	user, err := jwtService.Register(req.Username, req.Email, req.Password, req.Role, req.Department)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserEmailTaken):
			response.Fail(c.Ctx, code.ErrUserAlreadyExist, nil)
		case errors.Is(err, services.ErrInvalidRole):
			response.ParamError(c.Ctx, err.Error())
		default:
			response.FailWithMessage(c.Ctx, code.ErrDatabase, "注册失败", nil)
		}
		return
	}

	response.Created(c.Ctx, user)
}

// Refresh 用刷新令牌换取新的访问令牌
// @Summary      刷新访问令牌
// @Description  通过请求体或refresh_token cookie提交刷新令牌，返回新的访问令牌
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshRequest false "刷新令牌"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/refresh [post]
func (c *JWTController) Refresh() {
	var req RefreshRequest
	_ = c.Ctx.ShouldBindJSON(&req)

	refreshToken := req.RefreshToken
	if refreshToken == "" {
		if cookie, err := c.Ctx.Cookie("refresh_token"); err == nil {
			refreshToken = cookie
		}
	}
	if refreshToken == "" {
		response.ParamError(c.Ctx, "缺少刷新令牌")
		return
	}

	jwtService := c.Container.GetService("jwt").(services.InterfaceJWTService)
	accessToken, err := jwtService.Refresh(refreshToken)
	if err != nil {
		response.Fail(c.Ctx, code.ErrRefreshTokenInvalid, nil)
		return
	}

	c.setAuthCookies(accessToken, "")
	response.Success(c.Ctx, gin.H{"access_token": accessToken})
}

// Logout 登出，清除认证cookie
// @Summary      用户登出
// @Description  清除认证cookie。JWT本身无状态，客户端应同时丢弃持有的令牌。
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /auth/logout [post]
func (c *JWTController) Logout() {
	c.Ctx.SetCookie("token", "", -1, "/", "", false, true)
	c.Ctx.SetCookie("refresh_token", "", -1, "/", "", false, true)
	c.Ctx.JSON(http.StatusOK, response.Response{
		Code:    code.ErrSuccess,
		Message: "已登出",
	})
}
