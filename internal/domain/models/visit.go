package models

import (
	"fmt"
	"time"
)

// 访问状态机: pending → active → completed
const (
	VisitStatusPending   = "pending"
	VisitStatusActive    = "active"
	VisitStatusCompleted = "completed"
)

// Visit represents one visitor engagement with entry/exit timestamps
type Visit struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	VisitorID uint       `gorm:"not null;index" json:"visitor_id"`
	Purpose   string     `gorm:"type:varchar(200);not null" json:"purpose"`
	Host      string     `gorm:"type:varchar(100);not null" json:"host"`
	EntryTime time.Time  `gorm:"not null;index" json:"entry_time"`
	ExitTime  *time.Time `json:"exit_time,omitempty"`
	QRToken   string     `gorm:"type:varchar(100);uniqueIndex" json:"qr_token"`
	QRCode    string     `gorm:"type:varchar(255)" json:"qr_code"` // 二维码内容，即访问详情URL
	Status    string     `gorm:"type:varchar(20);not null;default:active;index" json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Relations
	Visitor         *Visitor               `gorm:"foreignKey:VisitorID" json:"visitor,omitempty"`
	DocumentsSigned []VisitDocumentRecord  `gorm:"foreignKey:VisitID;constraint:OnDelete:CASCADE" json:"documents_signed,omitempty"`
}

// VisitDocumentRecord 访问过程中签署的文档记录，随访问记录创建和销毁
type VisitDocumentRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	VisitID    uint      `gorm:"not null;index" json:"visit_id"`
	DocumentID uint      `gorm:"not null" json:"document_id"`
	Signature  string    `gorm:"type:text;not null" json:"signature"`
	SignedAt   time.Time `gorm:"not null" json:"signed_at"`

	Document *Document `gorm:"foreignKey:DocumentID" json:"document,omitempty"`
}

// DurationMinutes 计算访问时长（分钟）；未离场时返回nil
func (v *Visit) DurationMinutes() *int {
	if v.ExitTime == nil {
		return nil
	}
	minutes := int(v.ExitTime.Sub(v.EntryTime).Minutes())
	return &minutes
}

// FormatDuration 返回人类可读的访问时长，如 "2h 30m"；未离场时返回 "Ongoing"
func (v *Visit) FormatDuration() string {
	minutes := v.DurationMinutes()
	if minutes == nil {
		return "Ongoing"
	}
	return fmt.Sprintf("%dh %dm", *minutes/60, *minutes%60)
}

// VisitWithDuration 附加了派生时长字段的访问记录视图
type VisitWithDuration struct {
	Visit
	DurationMinutes *int   `json:"duration_minutes"`
	Duration        string `json:"duration"`
}

// WithDuration 将访问记录转换为带时长的视图
func (v Visit) WithDuration() VisitWithDuration {
	return VisitWithDuration{
		Visit:           v,
		DurationMinutes: v.DurationMinutes(),
		Duration:        v.FormatDuration(),
	}
}
