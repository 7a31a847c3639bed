package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Role роль пользователя
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// ParseRole разбирает роль без учета регистра (ADMIN, Manager, staff)
func ParseRole(value string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleManager:
		return RoleManager, true
	case RoleStaff:
		return RoleStaff, true
	}
	return "", false
}

// CanManageCatalog сообщает, может ли роль изменять каталог
func (r Role) CanManageCatalog() bool {
	return r == RoleAdmin || r == RoleManager
}

// User представляет модель пользователя в системе
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"not null;size:150;uniqueIndex"`
	Email        string    `json:"email" gorm:"size:255;default:''"`
	PasswordHash string    `json:"-" gorm:"not null"` // Скрываем хэш пароля в JSON
	Role         Role      `json:"role" gorm:"size:16;not null;default:staff"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate хук для установки времени создания
func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
	if u.Role == "" {
		u.Role = RoleStaff
	}
	return nil
}

// BeforeUpdate хук для обновления времени изменения
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}
