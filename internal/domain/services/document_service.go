package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"vms-http-service/internal/domain/models"
	"vms-http-service/internal/infrastructure/config"
)

// 文档相关错误
var (
	ErrDocumentNotFound    = errors.New("文档不存在")
	ErrDocumentInvalidType = errors.New("文档类型必须是 safety、policy 或 other")
)

// InterfaceDocumentService defines the document library service interface
type InterfaceDocumentService interface {
	GetAllDocuments() ([]models.Document, error)
	GetDocumentByID(id uint) (*models.Document, error)
	CreateDocument(document *models.Document) error
	SignDocument(documentID uint, signature string) (*models.Document, error)
}

// DocumentService 提供文档库相关的服务
type DocumentService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewDocumentService 创建一个新的文档服务
func NewDocumentService(db *gorm.DB, cfg *config.Config) InterfaceDocumentService {
	return &DocumentService{
		DB:     db,
		Config: cfg,
	}
}

// 1 GetAllDocuments 获取所有文档，附带创建者信息
func (s *DocumentService) GetAllDocuments() ([]models.Document, error) {
	var documents []models.Document
	if err := s.DB.Preload("CreatedBy").Order("created_at DESC").Find(&documents).Error; err != nil {
		return nil, err
	}
	return documents, nil
}

// 2 GetDocumentByID 根据ID获取文档
func (s *DocumentService) GetDocumentByID(id uint) (*models.Document, error) {
	var document models.Document
	if err := s.DB.Preload("CreatedBy").Preload("Signatures").First(&document, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return &document, nil
}

// 3 CreateDocument 创建新文档
func (s *DocumentService) CreateDocument(document *models.Document) error {
	if !models.IsValidDocumentType(document.Type) {
		return ErrDocumentInvalidType
	}
	if document.Version == "" {
		document.Version = "1.0"
	}
	return s.DB.Create(document).Error
}

// 4 SignDocument 追加文档签名。签名内容按原样保存，不做格式校验。
func (s *DocumentService) SignDocument(documentID uint, signature string) (*models.Document, error) {
	_, err := s.GetDocumentByID(documentID)
	if err != nil {
		return nil, err
	}

	record := models.DocumentSignature{
		DocumentID: documentID,
		Signature:  signature,
		SignedAt:   time.Now(),
	}
	if err := s.DB.Create(&record).Error; err != nil {
		return nil, err
	}

	return s.GetDocumentByID(documentID)
}
