package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"vms-http-service/internal/domain/services"
	"vms-http-service/internal/infrastructure/config"
)

func TestTokenBucket(t *testing.T) {
	tb := NewTokenBucket(1, 3)

	// 突发容量内的请求全部放行
	for i := 0; i < 3; i++ {
		assert.True(t, tb.Allow())
	}
	// 桶空后拒绝
	assert.False(t, tb.Allow())
}

func setupAuthTest(t *testing.T) *config.Config {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	cfg := &config.Config{
		JWTSecretKey:        "test-secret",
		JWTRefreshSecretKey: "test-refresh-secret",
	}
	InitAuthMiddleware(cfg, db)
	return cfg
}

func authTestRouter() *gin.Engine {
	r := gin.New()
	ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) }
	r.GET("/admin", AuthenticateAdmin(), ok)
	r.GET("/agent", AuthenticateAgent(), ok)
	r.GET("/user", AuthenticateUser(), ok)
	return r
}

func TestAuthenticateRoles(t *testing.T) {
	cfg := setupAuthTest(t)
	r := authTestRouter()

	jwtService := services.NewJWTService(cfg, nil)
	adminToken, err := jwtService.GenerateToken(1, "admin", "")
	require.NoError(t, err)
	agentToken, err := jwtService.GenerateToken(2, "agent", "前台")
	require.NoError(t, err)
	userToken, err := jwtService.GenerateToken(3, "user", "")
	require.NoError(t, err)

	do := func(path, token string, useCookie bool) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			if useCookie {
				req.AddCookie(&http.Cookie{Name: "token", Value: token})
			} else {
				req.Header.Set("Authorization", "Bearer "+token)
			}
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	t.Run("缺少令牌返回401", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do("/user", "", false))
	})

	t.Run("伪造令牌返回401", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do("/user", "bogus", false))
	})

	t.Run("角色不足返回403", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, do("/admin", userToken, false))
		assert.Equal(t, http.StatusForbidden, do("/agent", userToken, false))
	})

	t.Run("管理员可以访问接待人员接口", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, do("/agent", adminToken, false))
	})

	t.Run("各角色访问自己的接口", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, do("/admin", adminToken, false))
		assert.Equal(t, http.StatusOK, do("/agent", agentToken, false))
		assert.Equal(t, http.StatusOK, do("/user", userToken, false))
	})

	t.Run("cookie中的令牌同样有效", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, do("/user", userToken, true))
	})
}
