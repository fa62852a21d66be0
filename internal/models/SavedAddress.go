// internal/models/saved_address.go
package models

import (
	"gorm.io/gorm"
)

// SavedAddress is a reusable address-book entry owned by a user.
// Bookings reference it by id but always copy its fields into the
// transaction row, so editing an entry never rewrites history.
type SavedAddress struct {
	gorm.Model
	UserID         string `gorm:"size:255;index;not null" json:"user_id"`
	Label          string `json:"label"`
	Address        string `json:"address" binding:"required"`
	UnitStreet     string `json:"unit_street"`
	PinnedLocation string `json:"pinned_location"` // "lat,lng"
	ContactName    string `json:"contact_name" binding:"required"`
	ContactNumber  string `json:"contact_number" binding:"required"`
	ContactEmail   string `json:"contact_email"`
	Type           string `gorm:"index" json:"type"` // "sender" or "receiver"
}
