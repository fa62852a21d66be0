package models

import (
	"time"
)

// TransactionReceiver is one drop-off leg of a transaction, individually
// priced and individually cancellable. Cancellation is logical: the row is
// never deleted once the parent transaction exists, only flagged.
type TransactionReceiver struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	TransactionID string `gorm:"size:100;index;not null" json:"transaction_id"`

	// Receiver snapshot
	ReceiverAddressID *uint  `json:"receiver_address_id,omitempty"`
	Address           string `json:"address"`
	UnitStreet        string `json:"unit_street"`
	PinnedLocation    string `json:"pinned_location"`
	ContactName       string `json:"contact_name"`
	ContactNumber     string `json:"contact_number"`
	ContactEmail      string `json:"contact_email"`

	DeliveryType string `json:"delivery_type"` // "instant" or "scheduled"
	VehicleType  string `json:"vehicle_type"`  // "bike", "e-bike", "e-car"
	PackageSize  string `json:"package_size"`  // legacy rate-table pricing key
	PackageType  string `json:"package_type"`

	Distance   float64 `json:"distance"` // meters
	Fee        float64 `json:"fee"`
	Weight     float64 `json:"weight"` // kg
	CO2        float64 `gorm:"column:co2" json:"co2"`
	ETASeconds int     `gorm:"column:eta_seconds" json:"eta_seconds"`

	BringPouch     bool   `json:"bring_pouch"`
	COD            bool   `gorm:"column:cod" json:"cod"`
	ItemProtection bool   `json:"item_protection"`
	DeliveryNotes  string `json:"delivery_notes"`

	StatusCanceled bool `gorm:"default:false" json:"status_canceled"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
