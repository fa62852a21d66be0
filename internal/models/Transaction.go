package models

import (
	"time"

	"gorm.io/gorm"
)

// Transaction statuses. Delivered, failed-attempts and returned are
// terminal: receivers on such a transaction can no longer be cancelled.
const (
	StatusBooked         = "Booked"
	StatusAccepted       = "accepted"
	StatusOnTheWay       = "on-the-way"
	StatusDelivered      = "Delivered"
	StatusFailedAttempts = "multiple delivery attempts failed"
	StatusReturned       = "Returned to Sender"
	StatusCancelled      = "Cancelled"
)

const (
	PaymentPending = "pending"
	PaymentSuccess = "success"
	PaymentFailed  = "failed"
)

// TerminalStatuses are the "done" states of a transaction.
var TerminalStatuses = []string{StatusDelivered, StatusFailedAttempts, StatusReturned}

func IsTerminalStatus(status string) bool {
	for _, s := range TerminalStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Transaction is one delivery booking, fanning out to one or more receivers.
// The id is the user-facing "eco<N>" code, generated by the transaction service.
// Sender contact/location fields are a point-in-time snapshot, never a live
// reference to the saved address.
type Transaction struct {
	ID     string `gorm:"primaryKey;size:100" json:"id"`
	UserID string `gorm:"size:255;index;not null" json:"user_id"`
	User   *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`

	// Sender snapshot
	SenderAddressID *uint  `json:"sender_address_id,omitempty"`
	Address         string `json:"address"`
	UnitStreet      string `json:"unit_street"`
	PinnedLocation  string `json:"pinned_location"`
	ContactName     string `json:"contact_name"`
	ContactNumber   string `json:"contact_number"`
	ContactEmail    string `json:"contact_email"`

	PickupType    string    `json:"pickup_type"` // "now" or "scheduled"
	PickupDate    time.Time `json:"pickup_date"`
	DeliveryNotes string    `json:"delivery_notes"`

	// Rolled up over non-cancelled receivers; never client-settable.
	TotalFee      float64 `json:"total_fee"`
	TotalDistance float64 `json:"total_distance"` // meters

	OrderID       string `gorm:"column:orderid;size:100;index" json:"orderid"`
	TranID        string `gorm:"size:100" json:"tran_id"`
	PaymentStatus string `gorm:"default:pending" json:"payment_status"`
	ModeOfPayment string `json:"mode_of_payment"`
	Status        string `gorm:"default:Booked" json:"status"`

	DriverID *string `gorm:"size:255" json:"driver_id,omitempty"`
	Driver   *Driver `gorm:"foreignKey:DriverID" json:"driver,omitempty"`

	Receivers []TransactionReceiver `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE;" json:"receivers,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
