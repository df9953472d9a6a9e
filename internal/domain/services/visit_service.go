package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vms-http-service/internal/domain/models"
	"vms-http-service/internal/infrastructure/config"
	"vms-http-service/internal/infrastructure/email"
	"vms-http-service/pkg/logger"
)

// 访问生命周期相关错误
var (
	ErrVisitNotFound         = errors.New("访问记录不存在")
	ErrVisitAlreadyCompleted = errors.New("访问已结束，无法重复登记离场")
	ErrVisitNotActive        = errors.New("访问状态不是进行中")
	ErrQRExpired             = errors.New("二维码已过期")
	ErrInvalidSortField      = errors.New("不支持的排序字段")
)

// VisitCreation 创建访问后返回的完整结果，包含二维码
type VisitCreation struct {
	Visit   models.Visit `json:"visit"`
	QRURL   string       `json:"qr_url"`
	QRImage string       `json:"qr_image"` // base64 PNG
}

// QRValidation 扫码校验结果
type QRValidation struct {
	Valid  bool          `json:"valid"`
	Status string        `json:"status,omitempty"`
	Visit  *models.Visit `json:"visit,omitempty"`
}

// VisitHistoryFilter 历史查询的过滤、排序与分页参数
type VisitHistoryFilter struct {
	Status    string
	VisitorID uint
	Host      string
	StartDate *time.Time
	EndDate   *time.Time
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// InterfaceVisitService defines the visit lifecycle service interface
type InterfaceVisitService interface {
	CreateVisit(visitorID uint, purpose, host string) (*VisitCreation, error)
	GetVisitByID(id uint) (*models.VisitWithDuration, error)
	GetAllVisits(page, limit int) ([]models.Visit, int64, error)
	ValidateQRCode(payload string) (*QRValidation, error)
	RecordExit(id uint) (*models.Visit, error)
	GetVisitHistory(filter VisitHistoryFilter) ([]models.VisitWithDuration, int64, error)
	GetVisitorHistory(visitorID uint, page, limit int) (*models.Visitor, []models.VisitWithDuration, int64, error)
	SignVisitDocument(visitID, documentID uint, signature string) (*models.Visit, error)
}

// VisitService 提供访问生命周期管理：创建、扫码校验、离场登记与历史查询
type VisitService struct {
	DB     *gorm.DB
	Config *config.Config
	QR     InterfaceQRService
	Mailer email.Mailer
}

// NewVisitService 创建一个新的访问服务
func NewVisitService(db *gorm.DB, cfg *config.Config, qr InterfaceQRService, mailer email.Mailer) InterfaceVisitService {
	return &VisitService{
		DB:     db,
		Config: cfg,
		QR:     qr,
		Mailer: mailer,
	}
}

// 历史查询允许的排序字段，请求参数名 → 数据库列名
var visitSortColumns = map[string]string{
	"entryTime": "entry_time",
	"exitTime":  "exit_time",
	"host":      "host",
	"purpose":   "purpose",
}

// 1 CreateVisit 创建访问记录并生成入场二维码
func (s *VisitService) CreateVisit(visitorID uint, purpose, host string) (*VisitCreation, error) {
	// 验证访客是否存在
	var visitor models.Visitor
	if err := s.DB.First(&visitor, visitorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisitorNotFound
		}
		return nil, err
	}

	now := time.Now()
	visit := models.Visit{
		VisitorID: visitorID,
		Purpose:   purpose,
		Host:      host,
		EntryTime: now,
		Status:    models.VisitStatusActive,
		// 二维码令牌只在创建时生成一次，全局唯一
		QRToken: fmt.Sprintf("visit-%s-%d", uuid.NewString(), now.Unix()),
	}

	if err := s.DB.Create(&visit).Error; err != nil {
		return nil, err
	}

	// 二维码载荷是访问详情URL，校验时反查ID即可
	qrURL := s.QR.BuildVisitURL(visit.ID)
	visit.QRCode = qrURL
	if err := s.DB.Model(&visit).Update("qr_code", qrURL).Error; err != nil {
		return nil, err
	}

	qrImage, err := s.QR.GenerateImage(qrURL)
	if err != nil {
		return nil, err
	}

	visit.Visitor = &visitor

	// 通知接待人，失败只记录日志，不影响访问创建
	if err := s.Mailer.SendVisitCreated(host, visitor.Name, purpose, now); err != nil {
		logger.Warning("发送访问通知邮件失败: %v", err)
	}

	return &VisitCreation{
		Visit:   visit,
		QRURL:   qrURL,
		QRImage: qrImage,
	}, nil
}

// 2 GetVisitByID 根据ID获取访问详情（含时长）
func (s *VisitService) GetVisitByID(id uint) (*models.VisitWithDuration, error) {
	var visit models.Visit
	if err := s.DB.Preload("Visitor").Preload("DocumentsSigned").First(&visit, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisitNotFound
		}
		return nil, err
	}
	result := visit.WithDuration()
	return &result, nil
}

// 3 GetAllVisits 获取所有访问记录，支持分页
func (s *VisitService) GetAllVisits(page, limit int) ([]models.Visit, int64, error) {
	var visits []models.Visit
	var total int64

	if err := s.DB.Model(&models.Visit{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := s.DB.Preload("Visitor").
		Order("entry_time DESC").
		Limit(limit).Offset(offset).
		Find(&visits).Error; err != nil {
		return nil, 0, err
	}

	return visits, total, nil
}

// 4 ValidateQRCode 校验扫码数据。纯读操作，不改变访问状态；
// 先检查状态再检查有效期，已结束的访问返回状态错误比返回过期更有意义。
func (s *VisitService) ValidateQRCode(payload string) (*QRValidation, error) {
	visitID, err := s.QR.ParsePayload(payload)
	if err != nil {
		return nil, err
	}

	var visit models.Visit
	if err := s.DB.Preload("Visitor").First(&visit, visitID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisitNotFound
		}
		return nil, err
	}

	// 状态检查
	if visit.Status != models.VisitStatusActive {
		return &QRValidation{Valid: false, Status: visit.Status}, ErrVisitNotActive
	}

	// 有效期检查
	expiry := time.Duration(s.Config.QRExpiryHours) * time.Hour
	if time.Since(visit.EntryTime) > expiry {
		return &QRValidation{Valid: false, Status: visit.Status}, ErrQRExpired
	}

	return &QRValidation{Valid: true, Status: visit.Status, Visit: &visit}, nil
}

// 5 RecordExit 登记离场。已结束的访问拒绝重复登记。
func (s *VisitService) RecordExit(id uint) (*models.Visit, error) {
	var visit models.Visit
	if err := s.DB.Preload("Visitor").First(&visit, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisitNotFound
		}
		return nil, err
	}

	if visit.Status == models.VisitStatusCompleted {
		return nil, ErrVisitAlreadyCompleted
	}

	now := time.Now()
	visit.ExitTime = &now
	visit.Status = models.VisitStatusCompleted
	if err := s.DB.Model(&visit).Updates(map[string]interface{}{
		"exit_time": now,
		"status":    models.VisitStatusCompleted,
	}).Error; err != nil {
		return nil, err
	}

	return &visit, nil
}

// 6 GetVisitHistory 过滤、排序、分页的访问历史查询
func (s *VisitService) GetVisitHistory(filter VisitHistoryFilter) ([]models.VisitWithDuration, int64, error) {
	query := s.DB.Model(&models.Visit{})

	// 过滤条件全部按AND组合
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.VisitorID > 0 {
		query = query.Where("visitor_id = ?", filter.VisitorID)
	}
	if filter.Host != "" {
		// 大小写不敏感的子串匹配
		query = query.Where("LOWER(host) LIKE ?", "%"+strings.ToLower(filter.Host)+"%")
	}
	if filter.StartDate != nil {
		query = query.Where("entry_time >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("entry_time <= ?", *filter.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 排序，默认按入场时间倒序
	column, ok := visitSortColumns[filter.SortBy]
	if filter.SortBy == "" {
		column = "entry_time"
	} else if !ok {
		return nil, 0, ErrInvalidSortField
	}
	direction := "DESC"
	if filter.SortOrder == "asc" {
		direction = "ASC"
	}

	var visits []models.Visit
	offset := (filter.Page - 1) * filter.Limit
	if err := query.Preload("Visitor").
		Order(column + " " + direction).
		Limit(filter.Limit).Offset(offset).
		Find(&visits).Error; err != nil {
		return nil, 0, err
	}

	results := make([]models.VisitWithDuration, 0, len(visits))
	for _, v := range visits {
		results = append(results, v.WithDuration())
	}

	return results, total, nil
}

// 7 GetVisitorHistory 查询单个访客的访问历史
func (s *VisitService) GetVisitorHistory(visitorID uint, page, limit int) (*models.Visitor, []models.VisitWithDuration, int64, error) {
	var visitor models.Visitor
	if err := s.DB.First(&visitor, visitorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, 0, ErrVisitorNotFound
		}
		return nil, nil, 0, err
	}

	var total int64
	if err := s.DB.Model(&models.Visit{}).Where("visitor_id = ?", visitorID).Count(&total).Error; err != nil {
		return nil, nil, 0, err
	}

	var visits []models.Visit
	offset := (page - 1) * limit
	if err := s.DB.Where("visitor_id = ?", visitorID).
		Order("entry_time DESC").
		Limit(limit).Offset(offset).
		Find(&visits).Error; err != nil {
		return nil, nil, 0, err
	}

	results := make([]models.VisitWithDuration, 0, len(visits))
	for _, v := range visits {
		results = append(results, v.WithDuration())
	}

	return &visitor, results, total, nil
}

// 8 SignVisitDocument 在访问过程中签署文档，签署记录归属访问记录
func (s *VisitService) SignVisitDocument(visitID, documentID uint, signature string) (*models.Visit, error) {
	var visit models.Visit
	if err := s.DB.First(&visit, visitID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisitNotFound
		}
		return nil, err
	}

	var document models.Document
	if err := s.DB.First(&document, documentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}

	record := models.VisitDocumentRecord{
		VisitID:    visitID,
		DocumentID: documentID,
		Signature:  signature,
		SignedAt:   time.Now(),
	}
	if err := s.DB.Create(&record).Error; err != nil {
		return nil, err
	}

	if err := s.DB.Preload("Visitor").Preload("DocumentsSigned").First(&visit, visitID).Error; err != nil {
		return nil, err
	}
	return &visit, nil
}
