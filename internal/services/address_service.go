package services

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/twpayne/go-geom"
	"gorm.io/gorm"

	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/apperr"
	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/models"
)

// Address roles.
const (
	RoleSender   = "sender"
	RoleReceiver = "receiver"
)

// PinnedLocation accepts either a raw "lat,lng" string or a structured
// {"x": ..., "y": ...} pair from the client and always serializes to the
// "x,y" string form the store keeps. Both forms are parsed into a geometry
// point and bounds-checked before they are accepted.
type PinnedLocation struct {
	value string
}

// latLngBounds is the valid coordinate envelope (x is latitude, y is
// longitude, matching the stored "lat,lng" order).
var latLngBounds = geom.NewBounds(geom.XY).Set(-90, -180, 90, 180)

func (p PinnedLocation) String() string { return p.value }
func (p PinnedLocation) IsZero() bool   { return p.value == "" }

func (p PinnedLocation) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.value)
}

func (p *PinnedLocation) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			p.value = ""
			return nil
		}
		parts := strings.SplitN(s, ",", 2)
		if len(parts) != 2 {
			return apperr.New(apperr.Validation, `pinned_location must be "lat,lng"`)
		}
		lat, latErr := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		lng, lngErr := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if latErr != nil || lngErr != nil {
			return apperr.New(apperr.Validation, `pinned_location must be "lat,lng"`)
		}
		return p.setPoint(lat, lng)
	}
	var pair struct {
		X *float64 `json:"x"`
		Y *float64 `json:"y"`
	}
	if err := json.Unmarshal(data, &pair); err != nil || pair.X == nil || pair.Y == nil {
		return apperr.New(apperr.Validation, "pinned_location must be a string or an {x, y} pair")
	}
	return p.setPoint(*pair.X, *pair.Y)
}

// setPoint builds the geometry point and rejects coordinates outside the
// lat/lng envelope before committing the canonical string form.
func (p *PinnedLocation) setPoint(lat, lng float64) error {
	pt := geom.NewPointFlat(geom.XY, []float64{lat, lng})
	if !latLngBounds.OverlapsPoint(geom.XY, pt.Coords()) {
		return apperr.Newf(apperr.Validation, "pinned_location %g,%g is out of range", lat, lng)
	}
	p.value = formatCoord(pt.X()) + "," + formatCoord(pt.Y())
	return nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// AddressPayload is the sender/receiver address block of a booking request.
// Exactly one of the two sourcing modes applies: a saved-address reference
// (SavedAddress + AddressID), or inline fields, optionally persisted as a
// new saved address when AddAddress is set.
type AddressPayload struct {
	SavedAddress bool  `json:"saved_address"`
	AddressID    *uint `json:"address_id"`
	AddAddress   bool  `json:"add_address"`

	Label          string         `json:"label"`
	Address        string         `json:"address"`
	UnitStreet     string         `json:"unit_street"`
	PinnedLocation PinnedLocation `json:"pinned_location"`
	ContactName    string         `json:"contact_name"`
	ContactNumber  string         `json:"contact_number"`
	ContactEmail   string         `json:"contact_email"`
}

// AddressSnapshot is the denormalized copy written into transaction rows.
type AddressSnapshot struct {
	Label          string
	Address        string
	UnitStreet     string
	PinnedLocation string
	ContactName    string
	ContactNumber  string
	ContactEmail   string
}

// AddressResolver turns an AddressPayload into a snapshot, fetching saved
// addresses and persisting new ones on demand. It operates on whatever
// gorm handle it is given, so a booking can run it inside its own
// transaction.
type AddressResolver struct {
	db *gorm.DB
}

func NewAddressResolver(db *gorm.DB) *AddressResolver {
	return &AddressResolver{db: db}
}

// Resolve returns the address snapshot for a payload and, when a new saved
// address was persisted (or a duplicate reused), its id. role is "sender"
// or "receiver"; senders must carry a pinned location.
func (r *AddressResolver) Resolve(userID, role string, in AddressPayload) (AddressSnapshot, *uint, error) {
	if in.SavedAddress {
		if in.AddressID == nil {
			return AddressSnapshot{}, nil, apperr.New(apperr.Validation, "address_id is required when saved_address is set")
		}
		var saved models.SavedAddress
		if err := r.db.First(&saved, *in.AddressID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return AddressSnapshot{}, nil, apperr.Newf(apperr.NotFound, "saved address %d not found", *in.AddressID)
			}
			return AddressSnapshot{}, nil, err
		}
		id := saved.ID
		return AddressSnapshot{
			Label:          saved.Label,
			Address:        saved.Address,
			UnitStreet:     saved.UnitStreet,
			PinnedLocation: saved.PinnedLocation,
			ContactName:    saved.ContactName,
			ContactNumber:  saved.ContactNumber,
			ContactEmail:   saved.ContactEmail,
		}, &id, nil
	}

	if in.Address == "" || in.ContactName == "" || in.ContactNumber == "" {
		return AddressSnapshot{}, nil, apperr.Newf(apperr.Validation, "%s address, contact_name and contact_number are required", role)
	}
	if role == RoleSender && in.PinnedLocation.IsZero() {
		return AddressSnapshot{}, nil, apperr.New(apperr.Validation, "sender pinned_location is required")
	}

	snap := AddressSnapshot{
		Label:          in.Label,
		Address:        in.Address,
		UnitStreet:     in.UnitStreet,
		PinnedLocation: in.PinnedLocation.String(),
		ContactName:    in.ContactName,
		ContactNumber:  in.ContactNumber,
		ContactEmail:   in.ContactEmail,
	}

	if !in.AddAddress {
		return snap, nil, nil
	}

	// Reuse an identical entry instead of piling up duplicates.
	var existing models.SavedAddress
	err := r.db.Where(
		"user_id = ? AND pinned_location = ? AND contact_name = ? AND contact_number = ? AND type = ?",
		userID, snap.PinnedLocation, snap.ContactName, snap.ContactNumber, role,
	).First(&existing).Error
	if err == nil {
		id := existing.ID
		return snap, &id, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return AddressSnapshot{}, nil, err
	}

	saved := models.SavedAddress{
		UserID:         userID,
		Label:          snap.Label,
		Address:        snap.Address,
		UnitStreet:     snap.UnitStreet,
		PinnedLocation: snap.PinnedLocation,
		ContactName:    snap.ContactName,
		ContactNumber:  snap.ContactNumber,
		ContactEmail:   snap.ContactEmail,
		Type:           role,
	}
	if err := r.db.Create(&saved).Error; err != nil {
		return AddressSnapshot{}, nil, err
	}
	id := saved.ID
	return snap, &id, nil
}
