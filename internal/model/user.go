package model

import (
	"time"
)

// 角色常量
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User 用户模型
type User struct {
	ID           int          `json:"id" gorm:"primaryKey"`
	Username     string       `json:"username" gorm:"unique;not null"`
	Email        string       `json:"email" gorm:"unique;not null"`
	PasswordHash string       `json:"-" gorm:"not null"`
	BirthDate    time.Time    `json:"birthDate" gorm:"not null"`
	AvatarURL    string       `json:"avatar"`
	Role         string       `json:"role"`
	CreatedAt    time.Time    `json:"created_at"`
	Collections  []Collection `json:"collections,omitempty" gorm:"foreignKey:UserID"`
}

// IsAdmin 是否管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
