package models

import "time"

// 文档类型
const (
	DocumentTypeSafety = "safety"
	DocumentTypePolicy = "policy"
	DocumentTypeOther  = "other"
)

// Document represents a signable policy/safety document
type Document struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"type:varchar(200);not null" json:"title"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	Type        string    `gorm:"type:varchar(20);not null" json:"type"`
	Version     string    `gorm:"type:varchar(20);not null;default:1.0" json:"version"`
	CreatedByID *uint     `json:"created_by_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	CreatedBy  *User               `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	Signatures []DocumentSignature `gorm:"foreignKey:DocumentID" json:"signatures,omitempty"`
}

// DocumentSignature 文档级签名记录，签名内容不做格式校验
type DocumentSignature struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	DocumentID uint      `gorm:"not null;index" json:"document_id"`
	Signature  string    `gorm:"type:text;not null" json:"signature"`
	SignedAt   time.Time `gorm:"not null" json:"signed_at"`
}

// IsValidDocumentType 检查文档类型是否合法
func IsValidDocumentType(t string) bool {
	return t == DocumentTypeSafety || t == DocumentTypePolicy || t == DocumentTypeOther
}
