package models

import (
	"gorm.io/gorm"
)

// PushToken is an FCM device registration for a user. A user can hold
// several (one per installed device); the same device token registers at
// most once per user, enforced by the composite unique index.
type PushToken struct {
	gorm.Model
	UserID string `gorm:"size:255;not null;uniqueIndex:idx_user_device_token" json:"user_id"`
	Token  string `gorm:"size:512;not null;uniqueIndex:idx_user_device_token" json:"token" binding:"required"`
}

func (PushToken) TableName() string {
	return "user_fcm_tokens"
}
