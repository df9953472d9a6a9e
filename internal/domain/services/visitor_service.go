package services

import (
	"errors"
	"regexp"

	"gorm.io/gorm"

	"vms-http-service/internal/domain/models"
	"vms-http-service/internal/infrastructure/config"
)

// 访客相关错误
var (
	ErrVisitorNotFound     = errors.New("访客不存在")
	ErrVisitorEmailTaken   = errors.New("访客邮箱已被注册")
	ErrVisitorEmailInvalid = errors.New("访客邮箱格式无效")
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// InterfaceVisitorService defines the visitor directory service interface
type InterfaceVisitorService interface {
	GetAllVisitors(page, limit int) ([]models.Visitor, int64, error)
	GetVisitorByID(id uint) (*models.Visitor, error)
	CreateVisitor(visitor *models.Visitor) error
	UpdateVisitor(id uint, updates map[string]interface{}) (*models.Visitor, error)
	DeleteVisitor(id uint) error
}

// VisitorService 提供访客目录相关的服务
type VisitorService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewVisitorService 创建一个新的访客服务
func NewVisitorService(db *gorm.DB, cfg *config.Config) InterfaceVisitorService {
	return &VisitorService{
		DB:     db,
		Config: cfg,
	}
}

// 1 GetAllVisitors 获取所有访客，支持分页
func (s *VisitorService) GetAllVisitors(page, limit int) ([]models.Visitor, int64, error) {
	var visitors []models.Visitor
	var total int64
	if err := s.DB.Model(&models.Visitor{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := s.DB.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&visitors).Error; err != nil {
		return nil, 0, err
	}
	return visitors, total, nil
}

// 2 GetVisitorByID 根据ID获取访客
func (s *VisitorService) GetVisitorByID(id uint) (*models.Visitor, error) {
	var visitor models.Visitor
	if err := s.DB.First(&visitor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisitorNotFound
		}
		return nil, err
	}
	return &visitor, nil
}

// 3 CreateVisitor 登记新访客
func (s *VisitorService) CreateVisitor(visitor *models.Visitor) error {
	if !emailPattern.MatchString(visitor.Email) {
		return ErrVisitorEmailInvalid
	}

	// 验证邮箱唯一性
	var count int64
	if err := s.DB.Model(&models.Visitor{}).Where("email = ?", visitor.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrVisitorEmailTaken
	}

	return s.DB.Create(visitor).Error
}

// 4 UpdateVisitor 更新访客信息
func (s *VisitorService) UpdateVisitor(id uint, updates map[string]interface{}) (*models.Visitor, error) {
	visitor, err := s.GetVisitorByID(id)
	if err != nil {
		return nil, err
	}

	// 如果更新邮箱，需要检查格式与唯一性
	if mail, ok := updates["email"].(string); ok && mail != visitor.Email {
		if !emailPattern.MatchString(mail) {
			return nil, ErrVisitorEmailInvalid
		}
		var count int64
		if err := s.DB.Model(&models.Visitor{}).Where("email = ? AND id != ?", mail, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrVisitorEmailTaken
		}
	}

	if err := s.DB.Model(visitor).Updates(updates).Error; err != nil {
		return nil, err
	}

	// 重新获取更新后的访客信息
	return s.GetVisitorByID(id)
}

// 5 DeleteVisitor 删除访客。历史访问记录保留，仅残留ID引用。
func (s *VisitorService) DeleteVisitor(id uint) error {
	visitor, err := s.GetVisitorByID(id)
	if err != nil {
		return err
	}
	return s.DB.Delete(visitor).Error
}
