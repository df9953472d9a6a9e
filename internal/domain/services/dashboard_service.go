package services

import (
	"time"

	"gorm.io/gorm"

	"vms-http-service/internal/domain/models"
	"vms-http-service/internal/infrastructure/config"
	"vms-http-service/pkg/logger"
)

// DashboardOverview 仪表盘概览数据
type DashboardOverview struct {
	TotalVisits     int64          `json:"total_visits"`
	TodayVisits     int64          `json:"today_visits"`
	UpcomingVisits  int64          `json:"upcoming_visits"`
	CompletedVisits int64          `json:"completed_visits"`
	NextVisits      []models.Visit `json:"next_visits"`
	PastVisits      []models.Visit `json:"past_visits"`
}

// PurposeCount 按访问目的统计
type PurposeCount struct {
	Purpose string `json:"purpose" gorm:"column:purpose"`
	Count   int64  `json:"count" gorm:"column:count"`
}

// MonthCount 按月统计
type MonthCount struct {
	Month string `json:"month" gorm:"column:month"`
	Count int64  `json:"count" gorm:"column:count"`
}

// ComplianceStats 文档签署合规统计
type ComplianceStats struct {
	SignedVisits   int64 `json:"signed_visits"`
	UnsignedVisits int64 `json:"unsigned_visits"`
}

// DashboardStats 仪表盘统计数据
type DashboardStats struct {
	ByPurpose  []PurposeCount  `json:"by_purpose"`
	Compliance ComplianceStats `json:"compliance"`
	ByMonth    []MonthCount    `json:"by_month"`
}

// ExportResult 导出请求的受理结果
type ExportResult struct {
	Message     string    `json:"message"`
	TotalVisits int64     `json:"total_visits"`
	RequestedAt time.Time `json:"requested_at"`
}

// InterfaceDashboardService defines the dashboard aggregation service interface
type InterfaceDashboardService interface {
	GetOverview() (*DashboardOverview, error)
	GetStats() (*DashboardStats, error)
	Export() (*ExportResult, error)
}

// DashboardService 提供只读的仪表盘聚合查询，结果通过Redis短期缓存
type DashboardService struct {
	DB     *gorm.DB
	Config *config.Config
	Redis  InterfaceRedisService
}

// NewDashboardService 创建一个新的仪表盘服务
func NewDashboardService(db *gorm.DB, cfg *config.Config, redisService InterfaceRedisService) InterfaceDashboardService {
	return &DashboardService{
		DB:     db,
		Config: cfg,
		Redis:  redisService,
	}
}

const overviewCacheKey = "dashboard:overview"

// 1 GetOverview 获取仪表盘概览
func (s *DashboardService) GetOverview() (*DashboardOverview, error) {
	// 先查缓存，缓存不可用时直接走数据库
	if s.Redis != nil {
		var cached DashboardOverview
		if err := s.Redis.Get(overviewCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24 * time.Hour)

	var overview DashboardOverview

	if err := s.DB.Model(&models.Visit{}).Count(&overview.TotalVisits).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Visit{}).
		Where("entry_time >= ? AND entry_time < ?", todayStart, todayEnd).
		Count(&overview.TodayVisits).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Visit{}).
		Where("entry_time >= ?", now).
		Count(&overview.UpcomingVisits).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Visit{}).
		Where("status = ?", models.VisitStatusCompleted).
		Count(&overview.CompletedVisits).Error; err != nil {
		return nil, err
	}

	// 最近5个即将开始的访问
	if err := s.DB.Preload("Visitor").
		Where("entry_time >= ?", now).
		Order("entry_time ASC").Limit(5).
		Find(&overview.NextVisits).Error; err != nil {
		return nil, err
	}

	// 最近5个已发生的访问
	if err := s.DB.Preload("Visitor").
		Where("entry_time < ?", now).
		Order("entry_time DESC").Limit(5).
		Find(&overview.PastVisits).Error; err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if err := s.Redis.Set(overviewCacheKey, &overview, 30*time.Second); err != nil {
			logger.Warning("缓存仪表盘概览失败: %v", err)
		}
	}

	return &overview, nil
}

// 2 GetStats 获取仪表盘统计
func (s *DashboardService) GetStats() (*DashboardStats, error) {
	var stats DashboardStats

	// 按访问目的分组统计
	if err := s.DB.Model(&models.Visit{}).
		Select("purpose, COUNT(*) as count").
		Group("purpose").
		Scan(&stats.ByPurpose).Error; err != nil {
		return nil, err
	}

	// 文档签署合规：有签署记录的访问 vs 无签署记录的访问
	if err := s.DB.Model(&models.Visit{}).
		Where("id IN (?)", s.DB.Model(&models.VisitDocumentRecord{}).Select("visit_id")).
		Count(&stats.Compliance.SignedVisits).Error; err != nil {
		return nil, err
	}
	var total int64
	if err := s.DB.Model(&models.Visit{}).Count(&total).Error; err != nil {
		return nil, err
	}
	stats.Compliance.UnsignedVisits = total - stats.Compliance.SignedVisits

	// 按月统计（YYYY-MM）
	if err := s.DB.Model(&models.Visit{}).
		Select("SUBSTR(CAST(entry_time AS CHAR), 1, 7) as month, COUNT(*) as count").
		Group("month").
		Order("month ASC").
		Scan(&stats.ByMonth).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}

// 3 Export 受理导出请求。目前只做受理确认，不生成文件
func (s *DashboardService) Export() (*ExportResult, error) {
	var total int64
	if err := s.DB.Model(&models.Visit{}).Count(&total).Error; err != nil {
		return nil, err
	}

	return &ExportResult{
		Message:     "导出请求已受理",
		TotalVisits: total,
		RequestedAt: time.Now(),
	}, nil
}
