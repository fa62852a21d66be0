package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           string `gorm:"primaryKey;size:255" json:"id"`
	FirstName    string `json:"first_name" binding:"required"`
	LastName     string `json:"last_name"`
	MobileNumber string `gorm:"size:20" json:"mobile_number"`
	Email        string `gorm:"unique" json:"email" binding:"required,email"`
	Password     string `json:"-"`
	Provider     string `gorm:"size:100" json:"provider,omitempty"`
	ProviderID   string `gorm:"size:255;index" json:"provider_id,omitempty"`
	Role         string `gorm:"default:USER" json:"role"` // "ADMIN" or "USER"
	CanAccessCMS bool   `gorm:"default:false" json:"can_access_cms"`

	IsEmailVerified         bool       `gorm:"default:false" json:"is_email_verified"`
	EmailVerifiedAt         *time.Time `json:"email_verified_at,omitempty"`
	VerificationToken       string     `gorm:"size:255;index" json:"-"`
	VerificationTokenExpiry *time.Time `json:"-"`

	Services []Service `gorm:"many2many:user_services;" json:"services,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
