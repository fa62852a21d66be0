package models

import (
	"gorm.io/gorm"
)

// Service is a delivery capability a user signs up for
// (e.g. "Personal Delivery", "Business Deliveries (Food)").
type Service struct {
	gorm.Model
	Name string `json:"name" binding:"required"`
}

// UserService is the join row between users and services.
type UserService struct {
	UserID    string `gorm:"primaryKey;size:255" json:"user_id"`
	ServiceID uint   `gorm:"primaryKey" json:"service_id"`
}
