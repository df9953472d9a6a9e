package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"vms-http-service/internal/domain/services"
	"vms-http-service/internal/infrastructure/config"
)

var jwtService services.InterfaceJWTService

// InitAuthMiddleware 初始化认证中间件
func InitAuthMiddleware(cfg *config.Config, db *gorm.DB) {
	jwtService = services.NewJWTService(cfg, db)
}

// extractToken 从授权头中提取token
func extractToken(authHeader string) string {
	// 检查并移除 "Bearer " 前缀
	if len(authHeader) > 7 && strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	return authHeader
}

// tokenFromRequest 从请求中取出访问令牌。
// 优先读Authorization头，其次读httpOnly的token cookie（浏览器端登录方式）。
func tokenFromRequest(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		return extractToken(authHeader)
	}
	if cookie, err := c.Cookie("token"); err == nil {
		return cookie
	}
	return ""
}

// authenticateRole 验证令牌并检查角色是否在允许列表中
func authenticateRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "Authorization header is required",
				"data":    nil,
			})
			c.Abort()
			return
		}

		token, err := jwtService.ValidateToken(tokenString)
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "Invalid or expired token",
				"data":    nil,
			})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "Invalid token claims",
				"data":    nil,
			})
			c.Abort()
			return
		}

		// 检查角色
		role, exists := claims["role"].(string)
		allowed := false
		for _, r := range allowedRoles {
			if exists && role == r {
				allowed = true
				break
			}
		}
		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{
				"code":    403,
				"message": "Insufficient permissions",
				"data":    nil,
			})
			c.Abort()
			return
		}

		// 存储claims到上下文
		c.Set("userID", claims["user_id"])
		c.Set("role", role)
		if dept, exists := claims["department"]; exists && dept != nil {
			c.Set("department", dept)
		}
		c.Set("claims", claims)
		c.Next()
	}
}

// AuthenticateAdmin 验证管理员权限
func AuthenticateAdmin() gin.HandlerFunc {
	return authenticateRole("admin")
}

// AuthenticateAgent 验证接待人员权限（管理员也可以访问接待人员的接口）
func AuthenticateAgent() gin.HandlerFunc {
	return authenticateRole("agent", "admin")
}

// AuthenticateUser 验证普通用户权限，任何有效角色都可以访问
func AuthenticateUser() gin.HandlerFunc {
	return authenticateRole("user", "agent", "admin")
}
