package services

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/apperr"
	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/models"
	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/rates"
)

// Notifier is the push-notification collaborator. Implementations report
// per-token success/failure counts and are always called best-effort.
type Notifier interface {
	Send(ctx context.Context, tokens []string, title, body string, data map[string]string) (success, failure int, err error)
}

// Pickup types.
const (
	PickupNow       = "now"
	PickupScheduled = "scheduled"
)

const idPrefix = "eco"

// maxIDRetries bounds the retry loop when two concurrent bookings race for
// the same eco<N> id; the store's primary-key constraint rejects the loser.
const maxIDRetries = 3

var idPattern = regexp.MustCompile(`^eco(\d+)$`)

// IsTransactionID reports whether s is a well-formed eco<digits> id.
func IsTransactionID(s string) bool {
	return idPattern.MatchString(s)
}

// ReceiverPayload is one drop-off leg of a booking request.
type ReceiverPayload struct {
	AddressPayload

	DeliveryType string `json:"delivery_type"`
	VehicleType  string `json:"vehicle_type"`
	PackageSize  string `json:"package_size"`
	PackageType  string `json:"package_type"`

	Distance   float64  `json:"distance"`
	Fee        *float64 `json:"fee"` // client pre-computed; engine used when absent
	Weight     float64  `json:"weight"`
	CO2        *float64 `json:"co2"`
	ETASeconds *int     `json:"eta_seconds"`

	BringPouch     bool   `json:"bring_pouch"`
	COD            bool   `json:"cod"`
	ItemProtection bool   `json:"item_protection"`
	DeliveryNotes  string `json:"delivery_notes"`
}

// CreateTransactionPayload is the booking request body.
type CreateTransactionPayload struct {
	Sender        AddressPayload    `json:"sender"`
	PickupType    string            `json:"pickup_type"`
	PickupDate    *time.Time        `json:"pickup_date"`
	DeliveryNotes string            `json:"delivery_notes"`
	Receivers     []ReceiverPayload `json:"receivers" binding:"required,min=1"`
}

// UpdateTransactionPayload carries the always-updatable header fields plus
// an optional wholesale receiver replacement. Nil pointers leave a field
// untouched.
type UpdateTransactionPayload struct {
	PaymentStatus *string            `json:"payment_status"`
	Status        *string            `json:"status"`
	DriverID      *string            `json:"driver_id"`
	DeliveryNotes *string            `json:"delivery_notes"`
	Receivers     *[]ReceiverPayload `json:"receivers"`
}

// TransactionService builds and mutates bookings: resolves addresses,
// prices legs through the rate engine, rolls up totals, and dispatches
// best-effort push notifications after commits.
type TransactionService struct {
	db       *gorm.DB
	notifier Notifier
}

func NewTransactionService(db *gorm.DB, notifier Notifier) *TransactionService {
	return &TransactionService{db: db, notifier: notifier}
}

// manilaTime returns the current time in the booking reference time zone.
func manilaTime() time.Time {
	loc, err := time.LoadLocation("Asia/Manila")
	if err != nil {
		loc = time.FixedZone("PHT", 8*3600)
	}
	return time.Now().In(loc)
}

// nextID scans existing eco<N> ids and emits eco<max+1>. Callers must be
// prepared for a duplicate-key rejection under concurrent creates.
func nextID(tx *gorm.DB) (string, error) {
	var ids []string
	if err := tx.Model(&models.Transaction{}).Unscoped().
		Where("id LIKE ?", idPrefix+"%").Pluck("id", &ids).Error; err != nil {
		return "", err
	}
	max := 0
	for _, id := range ids {
		m := idPattern.FindStringSubmatch(id)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > max {
			max = n
		}
	}
	return idPrefix + strconv.Itoa(max+1), nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pq.Error
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// buildReceiver resolves the leg's address and prices it.
func (s *TransactionService) buildReceiver(tx *gorm.DB, userID, trxID string, in ReceiverPayload) (models.TransactionReceiver, error) {
	resolver := NewAddressResolver(tx)
	snap, addrID, err := resolver.Resolve(userID, RoleReceiver, in.AddressPayload)
	if err != nil {
		return models.TransactionReceiver{}, err
	}

	fee := 0.0
	switch {
	case in.Fee != nil:
		fee = *in.Fee
	case rates.UsesTableRates(in.VehicleType, in.PackageSize):
		var bands []models.DeliveryRate
		if err := tx.Find(&bands).Error; err != nil {
			return models.TransactionReceiver{}, err
		}
		fee, err = rates.TableFee(bands, in.DeliveryType, in.PackageSize, in.Distance)
		if err != nil {
			return models.TransactionReceiver{}, err
		}
	default:
		fee, err = rates.ComputeFee(in.DeliveryType, in.VehicleType, in.Distance, in.ItemProtection)
		if err != nil {
			return models.TransactionReceiver{}, err
		}
	}

	eta := rates.EstimateETASeconds(in.VehicleType, in.Distance)
	if in.ETASeconds != nil {
		eta = *in.ETASeconds
	}
	co2 := rates.EstimateCO2(in.VehicleType, in.Distance)
	if in.CO2 != nil {
		co2 = *in.CO2
	}

	return models.TransactionReceiver{
		TransactionID:     trxID,
		ReceiverAddressID: addrID,
		Address:           snap.Address,
		UnitStreet:        snap.UnitStreet,
		PinnedLocation:    snap.PinnedLocation,
		ContactName:       snap.ContactName,
		ContactNumber:     snap.ContactNumber,
		ContactEmail:      snap.ContactEmail,
		DeliveryType:      in.DeliveryType,
		VehicleType:       in.VehicleType,
		PackageSize:       in.PackageSize,
		PackageType:       in.PackageType,
		Distance:          in.Distance,
		Fee:               fee,
		Weight:            in.Weight,
		CO2:               co2,
		ETASeconds:        eta,
		BringPouch:        in.BringPouch,
		COD:               in.COD,
		ItemProtection:    in.ItemProtection,
		DeliveryNotes:     in.DeliveryNotes,
	}, nil
}

// modeOfPayment derives from the union of the receivers' payment choices.
func modeOfPayment(receivers []models.TransactionReceiver) string {
	cod, online := 0, 0
	for _, r := range receivers {
		if r.COD {
			cod++
		} else {
			online++
		}
	}
	switch {
	case cod > 0 && online > 0:
		return "mixed"
	case cod > 0:
		return "cod"
	default:
		return "online"
	}
}

// Create books a transaction with its receivers. The whole write is
// all-or-nothing; the "booked" push notification is dispatched after the
// commit and never affects the result.
func (s *TransactionService) Create(userID string, in CreateTransactionPayload) (*models.Transaction, error) {
	if len(in.Receivers) == 0 {
		return nil, apperr.New(apperr.Validation, "at least one receiver is required")
	}

	pickupDate := time.Time{}
	switch in.PickupType {
	case PickupNow, "":
		now := manilaTime()
		pickupDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case PickupScheduled:
		if in.PickupDate == nil {
			return nil, apperr.New(apperr.Validation, "pickup_date is required for scheduled pickup")
		}
		pickupDate = *in.PickupDate
	default:
		return nil, apperr.Newf(apperr.Validation, "unknown pickup_type %q", in.PickupType)
	}

	var created *models.Transaction
	var lastErr error
	for attempt := 0; attempt < maxIDRetries; attempt++ {
		created, lastErr = s.createOnce(userID, in, pickupDate)
		if lastErr == nil {
			break
		}
		if !isDuplicateKey(lastErr) {
			return nil, lastErr
		}
		logrus.WithField("attempt", attempt+1).Warn("transaction id collision, retrying")
	}
	if lastErr != nil {
		return nil, apperr.Wrap(apperr.Conflict, "could not allocate transaction id", lastErr)
	}

	s.notifyOwner(userID, "Delivery booked",
		"Your delivery "+created.ID+" has been booked.",
		map[string]string{"transaction_id": created.ID, "event": "booked"})

	return created, nil
}

func (s *TransactionService) createOnce(userID string, in CreateTransactionPayload, pickupDate time.Time) (*models.Transaction, error) {
	var out models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		resolver := NewAddressResolver(tx)
		snap, senderAddrID, err := resolver.Resolve(userID, RoleSender, in.Sender)
		if err != nil {
			return err
		}

		id, err := nextID(tx)
		if err != nil {
			return err
		}

		pickupType := in.PickupType
		if pickupType == "" {
			pickupType = PickupNow
		}

		trx := models.Transaction{
			ID:              id,
			UserID:          userID,
			SenderAddressID: senderAddrID,
			Address:         snap.Address,
			UnitStreet:      snap.UnitStreet,
			PinnedLocation:  snap.PinnedLocation,
			ContactName:     snap.ContactName,
			ContactNumber:   snap.ContactNumber,
			ContactEmail:    snap.ContactEmail,
			PickupType:      pickupType,
			PickupDate:      pickupDate,
			DeliveryNotes:   in.DeliveryNotes,
			PaymentStatus:   models.PaymentPending,
			Status:          models.StatusBooked,
		}
		if err := tx.Create(&trx).Error; err != nil {
			return err
		}

		totalFee, totalDistance := 0.0, 0.0
		receivers := make([]models.TransactionReceiver, 0, len(in.Receivers))
		for _, rin := range in.Receivers {
			rec, err := s.buildReceiver(tx, userID, trx.ID, rin)
			if err != nil {
				return err
			}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
			totalFee += rec.Fee
			totalDistance += rec.Distance
			receivers = append(receivers, rec)
		}

		// Totals must reflect the true post-insert sum, not the
		// pre-insert placeholder.
		updates := map[string]interface{}{
			"total_fee":       totalFee,
			"total_distance":  totalDistance,
			"mode_of_payment": modeOfPayment(receivers),
		}
		if err := tx.Model(&models.Transaction{}).Where("id = ?", trx.ID).Updates(updates).Error; err != nil {
			return err
		}

		return tx.Preload("Receivers").First(&out, "id = ?", trx.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Update applies header changes and, when a receiver set is supplied,
// replaces it wholesale inside the same transaction boundary. Partial
// receiver updates are not supported.
func (s *TransactionService) Update(id string, in UpdateTransactionPayload) (*models.Transaction, error) {
	var out models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var trx models.Transaction
		if err := tx.First(&trx, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Newf(apperr.NotFound, "transaction %s not found", id)
			}
			return err
		}

		updates := map[string]interface{}{}
		if in.PaymentStatus != nil {
			updates["payment_status"] = *in.PaymentStatus
		}
		if in.Status != nil {
			updates["status"] = *in.Status
		}
		if in.DriverID != nil {
			var driver models.Driver
			if err := tx.First(&driver, "id = ?", *in.DriverID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.Newf(apperr.NotFound, "driver %s not found", *in.DriverID)
				}
				return err
			}
			updates["driver_id"] = *in.DriverID
		}
		if in.DeliveryNotes != nil {
			updates["delivery_notes"] = *in.DeliveryNotes
		}

		if in.Receivers != nil {
			if err := tx.Where("transaction_id = ?", trx.ID).Delete(&models.TransactionReceiver{}).Error; err != nil {
				return err
			}
			totalFee, totalDistance := 0.0, 0.0
			receivers := make([]models.TransactionReceiver, 0, len(*in.Receivers))
			for _, rin := range *in.Receivers {
				rec, err := s.buildReceiver(tx, trx.UserID, trx.ID, rin)
				if err != nil {
					return err
				}
				if err := tx.Create(&rec).Error; err != nil {
					return err
				}
				totalFee += rec.Fee
				totalDistance += rec.Distance
				receivers = append(receivers, rec)
			}
			updates["total_fee"] = totalFee
			updates["total_distance"] = totalDistance
			updates["mode_of_payment"] = modeOfPayment(receivers)
		}

		if len(updates) > 0 {
			if err := tx.Model(&models.Transaction{}).Where("id = ?", trx.ID).Updates(updates).Error; err != nil {
				return err
			}
		}

		return tx.Preload("Receivers").First(&out, "id = ?", trx.ID).Error
	})
	if err != nil {
		return nil, err
	}

	s.notifyOwner(out.UserID, "Delivery updated",
		"Your delivery "+out.ID+" status is now "+out.Status+".",
		map[string]string{"transaction_id": out.ID, "event": "status_changed", "status": out.Status})

	return &out, nil
}

// CancelReceiver voids one drop-off leg. The row stays; only the cancel
// flag is set. Idempotent, and refused once the parent transaction has
// reached a terminal state. Totals are intentionally left untouched.
func (s *TransactionService) CancelReceiver(transactionID string, receiverID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var rec models.TransactionReceiver
		if err := tx.Where("id = ? AND transaction_id = ?", receiverID, transactionID).First(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Newf(apperr.NotFound, "transaction receiver %d not found", receiverID)
			}
			return err
		}

		var trx models.Transaction
		if err := tx.First(&trx, "id = ?", transactionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Newf(apperr.NotFound, "transaction %s not found", transactionID)
			}
			return err
		}

		if models.IsTerminalStatus(trx.Status) {
			return apperr.Newf(apperr.Conflict, "transaction %s is %s; receivers can no longer be cancelled", trx.ID, trx.Status)
		}

		if rec.StatusCanceled {
			return nil
		}

		return tx.Model(&rec).Update("status_canceled", true).Error
	})
}

// GetReceiverByID loads one drop-off leg by its row id.
func (s *TransactionService) GetReceiverByID(id uint) (*models.TransactionReceiver, error) {
	var rec models.TransactionReceiver
	if err := s.db.First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Newf(apperr.NotFound, "transaction receiver %d not found", id)
		}
		return nil, err
	}
	return &rec, nil
}

// Delete soft-deletes a booking by flipping it to Cancelled; the row is
// never removed.
func (s *TransactionService) Delete(id string) error {
	res := s.db.Model(&models.Transaction{}).Where("id = ?", id).Update("status", models.StatusCancelled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.Newf(apperr.NotFound, "transaction %s not found", id)
	}
	return nil
}

// notifyOwner dispatches a push to every device the owner registered.
// Strictly fire-and-forget: failures are logged and swallowed.
func (s *TransactionService) notifyOwner(userID, title, body string, data map[string]string) {
	if s.notifier == nil {
		return
	}
	var tokens []string
	if err := s.db.Model(&models.PushToken{}).Where("user_id = ?", userID).Pluck("token", &tokens).Error; err != nil {
		logrus.WithError(err).Warn("could not load push tokens")
		return
	}
	if len(tokens) == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		success, failure, err := s.notifier.Send(ctx, tokens, title, body, data)
		if err != nil {
			logrus.WithError(err).Warn("push notification dispatch failed")
			return
		}
		logrus.WithFields(logrus.Fields{"success": success, "failure": failure}).Debug("push notification dispatched")
	}()
}
