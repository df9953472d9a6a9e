package models

import (
	"time"

	"gorm.io/gorm"
)

// 用户角色
const (
	RoleUser  = "user"
	RoleAgent = "agent"
	RoleAdmin = "admin"
)

// User represents a staff account of the reception system
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Username   string    `gorm:"type:varchar(50);not null" json:"username"`
	Email      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Password   string    `gorm:"type:varchar(100);not null" json:"-"` // 不在JSON中暴露密码
	Role       string    `gorm:"type:varchar(20);not null;default:user" json:"role"`
	Department string    `gorm:"type:varchar(100)" json:"department,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relations
	Documents []Document `gorm:"foreignKey:CreatedByID" json:"documents,omitempty"`
}

// IsValidRole 检查角色是否合法
func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAgent || role == RoleAdmin
}

// BeforeSave 是一个GORM钩子，在保存记录前运行。
// bcrypt哈希固定60字符，短于60的视为明文需要哈希。
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.Password != "" && len(u.Password) < 60 {
		hashedPassword, err := HashPassword(u.Password)
		if err != nil {
			return err
		}
		u.Password = hashedPassword
	}
	return nil
}
