package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

type User struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:120;not null"`
	Name         string     `json:"name" gorm:"size:120"`
	PasswordHash string     `json:"-" gorm:"not null"`            // bcrypt hash
	Role         string     `json:"role" gorm:"size:20;not null"` // admin | manager | employee
	ManagerID    *uuid.UUID `json:"manager_id" gorm:"type:uuid;index"`
	Department   string     `json:"department" gorm:"size:80"`
	Position     string     `json:"position" gorm:"size:80"`
	Active       bool       `json:"active" gorm:"not null;default:true"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}
