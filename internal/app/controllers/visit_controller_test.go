package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"vms-http-service/internal/domain/models"
	"vms-http-service/internal/domain/services/container"
	"vms-http-service/internal/error/code"
	"vms-http-service/internal/infrastructure/config"
)

// newTestRouter 构建直连控制器的测试路由，认证中间件不在测试范围内
func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Visitor{},
		&models.Visit{},
		&models.VisitDocumentRecord{},
		&models.Document{},
		&models.DocumentSignature{},
	))

	cfg := &config.Config{
		BaseURL:       "http://localhost:8080",
		QRExpiryHours: 24,
		RedisHost:     "localhost",
		RedisPort:     "6379",
	}
	c := container.NewServiceContainer(db, cfg)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/visitors", HandleVisitorFunc(c, "createVisitor"))
	api.GET("/visitors/:id/history", HandleVisitFunc(c, "getVisitorHistory"))
	api.POST("/visits", HandleVisitFunc(c, "createVisit"))
	api.GET("/visits/:id", HandleVisitFunc(c, "getVisit"))
	api.GET("/visits/history", HandleVisitFunc(c, "getHistory"))
	api.POST("/visits/validate-qr", HandleVisitFunc(c, "validateQR"))
	api.PUT("/visits/:id/exit", HandleVisitFunc(c, "recordExit"))
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestVisitLifecycleOverHTTP(t *testing.T) {
	r, _ := newTestRouter(t)

	// 登记访客
	w := doJSON(t, r, http.MethodPost, "/api/visitors", gin.H{
		"name":  "Jane Doe",
		"email": "jane@example.com",
		"phone": "13800000000",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	visitorID := decodeResponse(t, w)["data"].(map[string]interface{})["id"].(float64)

	// 创建访问
	w = doJSON(t, r, http.MethodPost, "/api/visits", gin.H{
		"visitor_id": visitorID,
		"purpose":    "商务洽谈",
		"host":       "王经理",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	data := decodeResponse(t, w)["data"].(map[string]interface{})
	qrURL := data["qr_url"].(string)
	visitID := data["visit"].(map[string]interface{})["id"].(float64)
	assert.Contains(t, qrURL, fmt.Sprintf("/visit-details/%d", int(visitID)))

	// 扫码校验
	w = doJSON(t, r, http.MethodPost, "/api/visits/validate-qr", gin.H{"qr_data": qrURL})
	require.Equal(t, http.StatusOK, w.Code)
	result := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, true, result["valid"])

	// 访问详情带时长
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/visits/%d", int(visitID)), nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Ongoing", detail["duration"])

	// 登记离场
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/visits/%d/exit", int(visitID)), nil)
	require.Equal(t, http.StatusOK, w.Code)
	exited := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "completed", exited["status"])

	// 重复离场返回状态错误
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/visits/%d/exit", int(visitID)), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, float64(code.ErrVisitInvalidState), resp["code"])

	// 已结束的二维码校验失败
	w = doJSON(t, r, http.MethodPost, "/api/visits/validate-qr", gin.H{"qr_data": qrURL})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 访客历史包含该访问
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/visitors/%d/history", int(visitorID)), nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(1), history["pagination"].(map[string]interface{})["total"])
}

func TestValidateQRErrors(t *testing.T) {
	r, _ := newTestRouter(t)

	t.Run("格式无效", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/visits/validate-qr", gin.H{"qr_data": "garbage"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, float64(code.ErrQRInvalidFormat), decodeResponse(t, w)["code"])
	})

	t.Run("访问不存在", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/visits/validate-qr",
			gin.H{"qr_data": "http://localhost:8080/visit-details/9999"})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, float64(code.ErrVisitNotFound), decodeResponse(t, w)["code"])
	})

	t.Run("缺少扫码数据", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/visits/validate-qr", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHistoryParamValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	t.Run("无效日期返回400", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/visits/history?startDate=not-a-date", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("无效排序字段返回400", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/visits/history?sortBy=password", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("合法查询返回分页结构", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/visits/history?status=active&sortBy=entryTime&sortOrder=asc", nil)
		require.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w)["data"].(map[string]interface{})
		assert.Contains(t, data, "pagination")
	})
}
