package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vms-http-service/internal/domain/models"
	"gorm.io/gorm"
)

func seedDashboardData(t *testing.T, db *gorm.DB) {
	t.Helper()
	visitor := models.Visitor{Name: "访客", Email: "dash@example.com"}
	require.NoError(t, db.Create(&visitor).Error)

	now := time.Now()
	entries := []struct {
		entry   time.Time
		purpose string
		status  string
	}{
		{now.Add(-48 * time.Hour), "面试", models.VisitStatusCompleted},
		{now.Add(-24 * time.Hour), "面试", models.VisitStatusCompleted},
		{now.Add(-1 * time.Hour), "参观", models.VisitStatusActive}, // 今日
		{now.Add(2 * time.Hour), "参观", models.VisitStatusPending}, // 今日+即将到访
		{now.Add(48 * time.Hour), "维修", models.VisitStatusPending},
	}
	for i, e := range entries {
		visit := models.Visit{
			VisitorID: visitor.ID,
			Purpose:   e.purpose,
			Host:      "主管",
			EntryTime: e.entry,
			Status:    e.status,
			QRToken:   fmt.Sprintf("dash-token-%d", i),
		}
		require.NoError(t, db.Create(&visit).Error)
	}

	// 给第一条访问挂一条签署记录，用于合规统计
	var first models.Visit
	require.NoError(t, db.First(&first).Error)
	require.NoError(t, db.Create(&models.VisitDocumentRecord{
		VisitID: first.ID, DocumentID: 1, Signature: "sig", SignedAt: now,
	}).Error)
}

func TestDashboardOverview(t *testing.T) {
	db := newTestDB(t)
	seedDashboardData(t, db)

	// Redis为nil时直接走数据库
	svc := NewDashboardService(db, newTestConfig(), nil)

	overview, err := svc.GetOverview()
	require.NoError(t, err)

	assert.Equal(t, int64(5), overview.TotalVisits)
	assert.Equal(t, int64(2), overview.UpcomingVisits)
	assert.Equal(t, int64(2), overview.CompletedVisits)
	assert.Len(t, overview.NextVisits, 2)
	assert.Len(t, overview.PastVisits, 3)
}

func TestDashboardStats(t *testing.T) {
	db := newTestDB(t)
	seedDashboardData(t, db)

	svc := NewDashboardService(db, newTestConfig(), nil)

	stats, err := svc.GetStats()
	require.NoError(t, err)

	byPurpose := make(map[string]int64)
	for _, pc := range stats.ByPurpose {
		byPurpose[pc.Purpose] = pc.Count
	}
	assert.Equal(t, int64(2), byPurpose["面试"])
	assert.Equal(t, int64(2), byPurpose["参观"])
	assert.Equal(t, int64(1), byPurpose["维修"])

	assert.Equal(t, int64(1), stats.Compliance.SignedVisits)
	assert.Equal(t, int64(4), stats.Compliance.UnsignedVisits)
	assert.NotEmpty(t, stats.ByMonth)
}

func TestDashboardExport(t *testing.T) {
	db := newTestDB(t)
	seedDashboardData(t, db)

	svc := NewDashboardService(db, newTestConfig(), nil)

	result, err := svc.Export()
	require.NoError(t, err)
	assert.Equal(t, int64(5), result.TotalVisits)
	assert.NotEmpty(t, result.Message)
	assert.False(t, result.RequestedAt.IsZero())
}
