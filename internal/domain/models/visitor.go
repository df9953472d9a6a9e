package models

import "time"

// Visitor represents a registered visitor contact record
type Visitor struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Email     string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Phone     string    `gorm:"type:varchar(20);not null" json:"phone"`
	Company   string    `gorm:"type:varchar(100)" json:"company,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	// 访问记录不随访客删除而级联删除，历史记录保留
	Visits []Visit `gorm:"foreignKey:VisitorID" json:"visits,omitempty"`
}
