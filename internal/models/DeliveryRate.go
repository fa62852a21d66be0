package models

import (
	"gorm.io/gorm"
)

// DeliveryRate is one band of the legacy persisted rate table, keyed by
// delivery type and package size over a distance range in meters.
// MaxDistance is nil on the open-ended last band.
type DeliveryRate struct {
	gorm.Model
	DeliveryType string  `gorm:"index" json:"delivery_type"` // "same-day" | "standard"
	PackageSize  string  `gorm:"index" json:"package_size"`  // "small" | "large"
	MinDistance  int     `json:"min_distance"`
	MaxDistance  *int    `json:"max_distance,omitempty"`
	Price        float64 `json:"price"`
}
