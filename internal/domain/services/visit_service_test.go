package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"vms-http-service/internal/domain/models"
	"vms-http-service/internal/infrastructure/config"
	"vms-http-service/internal/infrastructure/email"
)

// newTestDB 创建内存数据库并迁移所有模型
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
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
	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		BaseURL:       "http://localhost:8080",
		QRExpiryHours: 24,
	}
}

func newTestVisitService(t *testing.T) (InterfaceVisitService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	cfg := newTestConfig()
	return NewVisitService(db, cfg, NewQRService(cfg), email.NoopMailer{}), db
}

func seedVisitor(t *testing.T, db *gorm.DB, name, mail string) *models.Visitor {
	t.Helper()
	visitor := models.Visitor{Name: name, Email: mail, Phone: "13800000000", Company: "测试公司"}
	require.NoError(t, db.Create(&visitor).Error)
	return &visitor
}

func TestCreateVisit(t *testing.T) {
	svc, db := newTestVisitService(t)
	visitor := seedVisitor(t, db, "张三", "zhangsan@example.com")

	t.Run("创建访问并生成二维码", func(t *testing.T) {
		creation, err := svc.CreateVisit(visitor.ID, "商务洽谈", "王经理")
		require.NoError(t, err)

		assert.Equal(t, models.VisitStatusActive, creation.Visit.Status)
		assert.Equal(t, fmt.Sprintf("http://localhost:8080/visit-details/%d", creation.Visit.ID), creation.QRURL)
		assert.Equal(t, creation.QRURL, creation.Visit.QRCode)
		assert.Contains(t, creation.QRImage, "data:image/png;base64,")
		assert.Contains(t, creation.Visit.QRToken, "visit-")
		assert.Equal(t, "张三", creation.Visit.Visitor.Name)
	})

	t.Run("二维码令牌全局唯一", func(t *testing.T) {
		first, err := svc.CreateVisit(visitor.ID, "面试", "李总")
		require.NoError(t, err)
		second, err := svc.CreateVisit(visitor.ID, "面试", "李总")
		require.NoError(t, err)
		assert.NotEqual(t, first.Visit.QRToken, second.Visit.QRToken)
	})

	t.Run("访客不存在", func(t *testing.T) {
		_, err := svc.CreateVisit(9999, "商务洽谈", "王经理")
		assert.ErrorIs(t, err, ErrVisitorNotFound)
	})
}

func TestValidateQRCode(t *testing.T) {
	svc, db := newTestVisitService(t)
	visitor := seedVisitor(t, db, "李四", "lisi@example.com")

	creation, err := svc.CreateVisit(visitor.ID, "参观", "赵工")
	require.NoError(t, err)
	visitID := creation.Visit.ID

	t.Run("URL形式的有效二维码", func(t *testing.T) {
		result, err := svc.ValidateQRCode(creation.QRURL)
		require.NoError(t, err)
		assert.True(t, result.Valid)
		assert.Equal(t, models.VisitStatusActive, result.Status)
		assert.Equal(t, visitID, result.Visit.ID)
		assert.Equal(t, "李四", result.Visit.Visitor.Name)
	})

	t.Run("旧版JSON形式", func(t *testing.T) {
		result, err := svc.ValidateQRCode(fmt.Sprintf(`{"visitId": %d}`, visitID))
		require.NoError(t, err)
		assert.True(t, result.Valid)
	})

	t.Run("格式无效", func(t *testing.T) {
		_, err := svc.ValidateQRCode("not-a-qr-payload")
		assert.ErrorIs(t, err, ErrQRInvalidFormat)
	})

	t.Run("访问记录不存在", func(t *testing.T) {
		_, err := svc.ValidateQRCode("http://localhost:8080/visit-details/9999")
		assert.ErrorIs(t, err, ErrVisitNotFound)
	})

	t.Run("超过有效期的二维码", func(t *testing.T) {
		stale := time.Now().Add(-25 * time.Hour)
		require.NoError(t, db.Model(&models.Visit{}).Where("id = ?", visitID).
			Update("entry_time", stale).Error)

		result, err := svc.ValidateQRCode(creation.QRURL)
		assert.ErrorIs(t, err, ErrQRExpired)
		assert.False(t, result.Valid)
	})

	t.Run("已完成的访问优先返回状态错误", func(t *testing.T) {
		// 既已完成又超期，状态检查先于有效期检查
		require.NoError(t, db.Model(&models.Visit{}).Where("id = ?", visitID).
			Update("status", models.VisitStatusCompleted).Error)

		result, err := svc.ValidateQRCode(creation.QRURL)
		assert.ErrorIs(t, err, ErrVisitNotActive)
		assert.False(t, result.Valid)
		assert.Equal(t, models.VisitStatusCompleted, result.Status)
	})
}

func TestRecordExit(t *testing.T) {
	svc, db := newTestVisitService(t)
	visitor := seedVisitor(t, db, "王五", "wangwu@example.com")

	creation, err := svc.CreateVisit(visitor.ID, "设备维修", "孙主管")
	require.NoError(t, err)

	t.Run("正常登记离场", func(t *testing.T) {
		visit, err := svc.RecordExit(creation.Visit.ID)
		require.NoError(t, err)
		assert.Equal(t, models.VisitStatusCompleted, visit.Status)
		assert.NotNil(t, visit.ExitTime)
	})

	t.Run("重复登记离场被拒绝", func(t *testing.T) {
		_, err := svc.RecordExit(creation.Visit.ID)
		assert.ErrorIs(t, err, ErrVisitAlreadyCompleted)
	})

	t.Run("访问记录不存在", func(t *testing.T) {
		_, err := svc.RecordExit(9999)
		assert.ErrorIs(t, err, ErrVisitNotFound)
	})
}

// seedHistory 植入15条访问记录：5条completed（接待人Alice），10条active（接待人Bob）
func seedHistory(t *testing.T, db *gorm.DB, visitorID uint) {
	t.Helper()
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		visit := models.Visit{
			VisitorID: visitorID,
			Purpose:   "例行检查",
			Host:      "Bob Chen",
			EntryTime: base.Add(time.Duration(i) * 24 * time.Hour),
			QRToken:   fmt.Sprintf("visit-token-%d", i),
			Status:    models.VisitStatusActive,
		}
		if i < 5 {
			visit.Host = "Alice Wang"
			visit.Status = models.VisitStatusCompleted
			exit := visit.EntryTime.Add(2*time.Hour + 30*time.Minute)
			visit.ExitTime = &exit
		}
		require.NoError(t, db.Create(&visit).Error)
	}
}

func TestGetVisitHistory(t *testing.T) {
	svc, db := newTestVisitService(t)
	visitor := seedVisitor(t, db, "赵六", "zhaoliu@example.com")
	seedHistory(t, db, visitor.ID)

	t.Run("默认分页按入场时间倒序", func(t *testing.T) {
		visits, total, err := svc.GetVisitHistory(VisitHistoryFilter{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(15), total)
		assert.Len(t, visits, 10)
		assert.True(t, visits[0].EntryTime.After(visits[1].EntryTime))
	})

	t.Run("第二页剩余5条", func(t *testing.T) {
		visits, total, err := svc.GetVisitHistory(VisitHistoryFilter{Page: 2, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(15), total)
		assert.Len(t, visits, 5)
	})

	t.Run("状态过滤", func(t *testing.T) {
		visits, total, err := svc.GetVisitHistory(VisitHistoryFilter{
			Status: models.VisitStatusCompleted, Page: 1, Limit: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		for _, v := range visits {
			assert.Equal(t, models.VisitStatusCompleted, v.Status)
			assert.Equal(t, "2h 30m", v.Duration)
		}
	})

	t.Run("进行中的访问时长为Ongoing", func(t *testing.T) {
		visits, _, err := svc.GetVisitHistory(VisitHistoryFilter{
			Status: models.VisitStatusActive, Page: 1, Limit: 10,
		})
		require.NoError(t, err)
		require.NotEmpty(t, visits)
		assert.Equal(t, "Ongoing", visits[0].Duration)
		assert.Nil(t, visits[0].DurationMinutes)
	})

	t.Run("接待人大小写不敏感模糊匹配", func(t *testing.T) {
		_, total, err := svc.GetVisitHistory(VisitHistoryFilter{
			Host: "alice", Page: 1, Limit: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
	})

	t.Run("日期范围过滤", func(t *testing.T) {
		start := time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC)
		end := time.Date(2026, 5, 7, 23, 59, 59, 0, time.UTC)
		_, total, err := svc.GetVisitHistory(VisitHistoryFilter{
			StartDate: &start, EndDate: &end, Page: 1, Limit: 20,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
	})

	t.Run("多条件AND组合", func(t *testing.T) {
		start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
		_, total, err := svc.GetVisitHistory(VisitHistoryFilter{
			Status:    models.VisitStatusCompleted,
			Host:      "WANG",
			StartDate: &start,
			VisitorID: visitor.ID,
			Page:      1, Limit: 20,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
	})

	t.Run("升序排序", func(t *testing.T) {
		visits, _, err := svc.GetVisitHistory(VisitHistoryFilter{
			SortBy: "entryTime", SortOrder: "asc", Page: 1, Limit: 5,
		})
		require.NoError(t, err)
		require.Len(t, visits, 5)
		assert.True(t, visits[0].EntryTime.Before(visits[4].EntryTime))
	})

	t.Run("不支持的排序字段被拒绝", func(t *testing.T) {
		_, _, err := svc.GetVisitHistory(VisitHistoryFilter{
			SortBy: "password", Page: 1, Limit: 10,
		})
		assert.ErrorIs(t, err, ErrInvalidSortField)
	})
}

func TestGetVisitorHistory(t *testing.T) {
	svc, db := newTestVisitService(t)
	visitor := seedVisitor(t, db, "孙七", "sunqi@example.com")
	seedHistory(t, db, visitor.ID)

	t.Run("返回访客及其访问记录", func(t *testing.T) {
		got, visits, total, err := svc.GetVisitorHistory(visitor.ID, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, "孙七", got.Name)
		assert.Equal(t, int64(15), total)
		assert.Len(t, visits, 10)
	})

	t.Run("访客不存在", func(t *testing.T) {
		_, _, _, err := svc.GetVisitorHistory(9999, 1, 10)
		assert.ErrorIs(t, err, ErrVisitorNotFound)
	})
}

func TestSignVisitDocument(t *testing.T) {
	svc, db := newTestVisitService(t)
	visitor := seedVisitor(t, db, "周八", "zhouba@example.com")

	creation, err := svc.CreateVisit(visitor.ID, "安全培训", "钱老师")
	require.NoError(t, err)

	document := models.Document{Title: "安全须知", Content: "进入厂区必须佩戴安全帽", Type: models.DocumentTypeSafety, Version: "1.0"}
	require.NoError(t, db.Create(&document).Error)

	t.Run("签署文档", func(t *testing.T) {
		visit, err := svc.SignVisitDocument(creation.Visit.ID, document.ID, "data:image/png;base64,abc")
		require.NoError(t, err)
		require.Len(t, visit.DocumentsSigned, 1)
		assert.Equal(t, document.ID, visit.DocumentsSigned[0].DocumentID)
	})

	t.Run("文档不存在", func(t *testing.T) {
		_, err := svc.SignVisitDocument(creation.Visit.ID, 9999, "sig")
		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})

	t.Run("访问不存在", func(t *testing.T) {
		_, err := svc.SignVisitDocument(9999, document.ID, "sig")
		assert.ErrorIs(t, err, ErrVisitNotFound)
	})
}

func TestGetVisitByID(t *testing.T) {
	svc, db := newTestVisitService(t)
	visitor := seedVisitor(t, db, "吴九", "wujiu@example.com")

	creation, err := svc.CreateVisit(visitor.ID, "洽谈", "吴总")
	require.NoError(t, err)

	visit, err := svc.GetVisitByID(creation.Visit.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ongoing", visit.Duration)
	assert.Equal(t, "吴九", visit.Visitor.Name)

	_, err = svc.GetVisitByID(9999)
	assert.ErrorIs(t, err, ErrVisitNotFound)
}
