// internal/models/driver.go
package models

import (
	"time"

	"gorm.io/gorm"
)

type Driver struct {
	ID            string `gorm:"primaryKey;size:255" json:"id"` // UUID
	Name          string `json:"name" binding:"required"`
	PhoneNumber   string `gorm:"size:20" json:"phone_number" binding:"required"`
	Email         string `json:"email"`
	LicenseNumber string `gorm:"size:100" json:"license_number"`
	IsActive      bool   `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
