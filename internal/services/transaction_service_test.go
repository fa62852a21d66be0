package services

import (
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/apperr"
	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/models"
)

func bookingPayload(receivers ...ReceiverPayload) CreateTransactionPayload {
	return CreateTransactionPayload{
		Sender:     inlineAddress("Sender"),
		PickupType: PickupNow,
		Receivers:  receivers,
	}
}

func bikeLeg(name string, meters float64) ReceiverPayload {
	return ReceiverPayload{
		AddressPayload: inlineAddress(name),
		DeliveryType:   "scheduled",
		VehicleType:    "bike",
		Distance:       meters,
	}
}

func TestCreateTransactionTotals(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "u1", "USER")
	svc := NewTransactionService(db, nil)

	trx, err := svc.Create("u1", bookingPayload(
		bikeLeg("Alice", 2000),
		bikeLeg("Bob", 6000),
	))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if trx.ID != "eco1" {
		t.Errorf("id = %q, want eco1", trx.ID)
	}
	if len(trx.Receivers) != 2 {
		t.Fatalf("receivers = %d, want 2", len(trx.Receivers))
	}
	// 2000m is inside the 3km base (40); 6000m adds 3 km at 10/km (70).
	if trx.Receivers[0].Fee != 40 || trx.Receivers[1].Fee != 70 {
		t.Errorf("fees = %v/%v, want 40/70", trx.Receivers[0].Fee, trx.Receivers[1].Fee)
	}
	if trx.TotalFee != 110 {
		t.Errorf("total fee = %v, want 110", trx.TotalFee)
	}
	if trx.TotalDistance != 8000 {
		t.Errorf("total distance = %v, want 8000", trx.TotalDistance)
	}
	if trx.Status != models.StatusBooked {
		t.Errorf("status = %q, want %q", trx.Status, models.StatusBooked)
	}
	if trx.PaymentStatus != models.PaymentPending {
		t.Errorf("payment status = %q, want %q", trx.PaymentStatus, models.PaymentPending)
	}
	if trx.ModeOfPayment != "online" {
		t.Errorf("mode of payment = %q, want online", trx.ModeOfPayment)
	}
}

func TestCreateTransactionIDSequence(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "u1", "USER")
	svc := NewTransactionService(db, nil)

	existing := models.Transaction{ID: "eco42", UserID: "u1", PickupType: PickupNow}
	if err := db.Create(&existing).Error; err != nil {
		t.Fatalf("seed transaction: %v", err)
	}

	trx, err := svc.Create("u1", bookingPayload(bikeLeg("Alice", 1000)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if trx.ID != "eco43" {
		t.Errorf("id = %q, want eco43", trx.ID)
	}
}

// stealNextID makes concurrent bookings race for the same eco<N> id: just
// before the service inserts its transaction row, the callback slips in a
// competing row with the identical id on the same connection, so the
// service's insert hits the primary-key constraint. repeat controls how
// many attempts lose the race.
func stealNextID(t *testing.T, db *gorm.DB, repeat int) {
	t.Helper()
	stealing := false
	err := db.Callback().Create().Before("gorm:create").Register("steal_next_id", func(tx *gorm.DB) {
		if stealing || repeat == 0 || tx.Statement.Schema == nil || tx.Statement.Schema.Table != "transactions" {
			return
		}
		trx, ok := tx.Statement.Dest.(*models.Transaction)
		if !ok {
			return
		}
		repeat--
		stealing = true
		defer func() { stealing = false }()
		rival := models.Transaction{ID: trx.ID, UserID: trx.UserID, PickupType: PickupNow}
		if err := tx.Session(&gorm.Session{NewDB: true}).Create(&rival).Error; err != nil {
			t.Errorf("could not insert rival transaction: %v", err)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}
}

func TestCreateTransactionRetriesOnIDCollision(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "u1", "USER")
	svc := NewTransactionService(db, nil)

	// Lose the race once; the retry must land on the same id after the
	// rival's transaction rolled back with ours.
	stealNextID(t, db, 1)

	trx, err := svc.Create("u1", bookingPayload(bikeLeg("Alice", 2000)))
	if err != nil {
		t.Fatalf("Create after collision: %v", err)
	}
	if trx.ID != "eco1" {
		t.Errorf("id = %q, want eco1", trx.ID)
	}

	var count int64
	db.Model(&models.Transaction{}).Count(&count)
	if count != 1 {
		t.Errorf("transactions = %d, want 1", count)
	}
	var receivers int64
	db.Model(&models.TransactionReceiver{}).Count(&receivers)
	if receivers != 1 {
		t.Errorf("receivers = %d, want 1", receivers)
	}
}

func TestCreateTransactionGivesUpAfterRepeatedCollisions(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "u1", "USER")
	svc := NewTransactionService(db, nil)

	stealNextID(t, db, maxIDRetries)

	_, err := svc.Create("u1", bookingPayload(bikeLeg("Alice", 2000)))
	if apperr.KindOf(err) != apperr.Conflict {
		t.Fatalf("kind = %v, want Conflict", apperr.KindOf(err))
	}

	// Every attempt rolled back; nothing may remain.
	var count int64
	db.Model(&models.Transaction{}).Count(&count)
	if count != 0 {
		t.Errorf("transactions after exhausted retries = %d, want 0", count)
	}
}

func TestIsDuplicateKey(t *testing.T) {
	if !isDuplicateKey(gorm.ErrDuplicatedKey) {
		t.Error("gorm.ErrDuplicatedKey not recognized")
	}
	if !isDuplicateKey(&pq.Error{Code: "23505"}) {
		t.Error("postgres unique violation not recognized")
	}
	if isDuplicateKey(errors.New("some other failure")) {
		t.Error("unrelated error treated as duplicate")
	}
	if isDuplicateKey(nil) {
		t.Error("nil treated as duplicate")
	}
}

func TestCreateTransactionExplicitFeeAndOverrides(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "u1", "USER")
	svc := NewTransactionService(db, nil)

	eta := 900
	leg := bikeLeg("Alice", 4000)
	leg.Fee = floatPtr(123.45)
	leg.CO2 = floatPtr(0.2)
	leg.ETASeconds = &eta

	trx, err := svc.Create("u1", bookingPayload(leg))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	rec := trx.Receivers[0]
	if rec.Fee != 123.45 {
		t.Errorf("fee = %v, want explicit 123.45", rec.Fee)
	}
	if rec.CO2 != 0.2 {
		t.Errorf("co2 = %v, want override 0.2", rec.CO2)
	}
	if rec.ETASeconds != 900 {
		t.Errorf("eta = %d, want override 900", rec.ETASeconds)
	}
	if trx.TotalFee != 123.45 {
		t.Errorf("total fee = %v, want 123.45", trx.TotalFee)
	}
}

func TestCreateTransactionModeOfPayment(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "u1", "USER")
	svc := NewTransactionService(db, nil)

	cod := bikeLeg("Alice", 1000)
	cod.COD = true

	trx, err := svc.Create("u1", bookingPayload(cod, bikeLeg("Bob", 1000)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if trx.ModeOfPayment != "mixed" {
		t.Errorf("mode of payment = %q, want mixed", trx.ModeOfPayment)
	}

	trx, err = svc.Create("u1", bookingPayload(cod))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if trx.ModeOfPayment != "cod" {
		t.Errorf("mode of payment = %q, want cod", trx.ModeOfPayment)
	}
}

func TestCreateTransactionScheduledRequiresDate(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "u1", "USER")
	svc := NewTransactionService(db, nil)

	in := bookingPayload(bikeLeg("Alice", 1000))
	in.PickupType = PickupScheduled
	if _, err := svc.Create("u1", in); apperr.KindOf(err) != apperr.Validation {
		t.Errorf("missing pickup_date: kind = %v, want Validation", apperr.KindOf(err))
	}

	when := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	in.PickupDate = &when
	trx, err := svc.Create("u1", in)
	if err != nil {
		t.Fatalf("Create scheduled: %v", err)
	}
	if !trx.PickupDate.Equal(when) {
		t.Errorf("pickup date = %v, want %v", trx.PickupDate, when)
	}
}

func TestCreateTransactionRejectsBadLeg(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "u1", "USER")
	svc := NewTransactionService(db, nil)

	bad := bikeLeg("Alice", 1000)
	bad.VehicleType = "rocket"
	if _, err := svc.Create("u1", bookingPayload(bad)); apperr.KindOf(err) != apperr.Validation {
		t.Fatalf("unknown vehicle: kind = %v, want Validation", apperr.KindOf(err))
	}

	// A rejected booking must leave nothing behind.
	var count int64
	db.Model(&models.Transaction{}).Count(&count)
	if count != 0 {
		t.Errorf("transactions after failed create = %d, want 0", count)
	}
}

func TestUpdateTransactionReplacesReceivers(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "u1", "USER")
	svc := NewTransactionService(db, nil)

	trx, err := svc.Create("u1", bookingPayload(bikeLeg("Alice", 2000), bikeLeg("Bob", 6000)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	replacement := []ReceiverPayload{bikeLeg("Carol", 5000)}
	updated, err := svc.Update(trx.ID, UpdateTransactionPayload{Receivers: &replacement})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if len(updated.Receivers) != 1 {
		t.Fatalf("receivers after replace = %d, want 1", len(updated.Receivers))
	}
	if updated.Receivers[0].ContactName != "Carol" {
		t.Errorf("receiver = %q, want Carol", updated.Receivers[0].ContactName)
	}
	// 5000m bike/scheduled: 40 + 2*10.
	if updated.TotalFee != 60 || updated.TotalDistance != 5000 {
		t.Errorf("totals = %v/%v, want 60/5000", updated.TotalFee, updated.TotalDistance)
	}

	var rows int64
	db.Model(&models.TransactionReceiver{}).Where("transaction_id = ?", trx.ID).Count(&rows)
	if rows != 1 {
		t.Errorf("receiver rows = %d, want 1", rows)
	}
}

func TestUpdateTransactionHeaderFields(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "u1", "USER")
	svc := NewTransactionService(db, nil)

	driver := models.Driver{ID: "d1", Name: "Dina", PhoneNumber: "0918"}
	if err := db.Create(&driver).Error; err != nil {
		t.Fatalf("seed driver: %v", err)
	}

	trx, err := svc.Create("u1", bookingPayload(bikeLeg("Alice", 1000)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := svc.Update(trx.ID, UpdateTransactionPayload{
		Status:   strPtr(models.StatusOnTheWay),
		DriverID: strPtr("d1"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != models.StatusOnTheWay {
		t.Errorf("status = %q, want %q", updated.Status, models.StatusOnTheWay)
	}
	if updated.DriverID == nil || *updated.DriverID != "d1" {
		t.Errorf("driver id = %v, want d1", updated.DriverID)
	}

	_, err = svc.Update(trx.ID, UpdateTransactionPayload{DriverID: strPtr("ghost")})
	if apperr.KindOf(err) != apperr.NotFound {
		t.Errorf("unknown driver: kind = %v, want NotFound", apperr.KindOf(err))
	}
}

func TestUpdateTransactionNotFound(t *testing.T) {
	db := openTestDB(t)
	svc := NewTransactionService(db, nil)

	_, err := svc.Update("eco999", UpdateTransactionPayload{Status: strPtr(models.StatusAccepted)})
	if apperr.KindOf(err) != apperr.NotFound {
		t.Errorf("kind = %v, want NotFound", apperr.KindOf(err))
	}
}

func TestCancelReceiver(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "u1", "USER")
	svc := NewTransactionService(db, nil)

	trx, err := svc.Create("u1", bookingPayload(bikeLeg("Alice", 2000), bikeLeg("Bob", 6000)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	target := trx.Receivers[0]

	if err := svc.CancelReceiver(trx.ID, target.ID); err != nil {
		t.Fatalf("CancelReceiver: %v", err)
	}
	// Cancelling again is a no-op, not an error.
	if err := svc.CancelReceiver(trx.ID, target.ID); err != nil {
		t.Fatalf("CancelReceiver repeat: %v", err)
	}

	rec, err := svc.GetReceiverByID(target.ID)
	if err != nil {
		t.Fatalf("GetReceiverByID: %v", err)
	}
	if !rec.StatusCanceled {
		t.Error("receiver not flagged canceled")
	}

	// Totals stay as booked.
	after, err := svc.GetByID(trx.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if after.TotalFee != 110 {
		t.Errorf("total fee after cancel = %v, want 110", after.TotalFee)
	}
	// Derived rollups skip the cancelled leg.
	if after.TotalCO2 != 0 {
		t.Errorf("total co2 = %v, want 0 for bikes", after.TotalCO2)
	}
	wantETA := trx.Receivers[1].ETASeconds
	if after.TotalETASeconds != wantETA {
		t.Errorf("total eta = %d, want %d (live leg only)", after.TotalETASeconds, wantETA)
	}
}

func TestCancelReceiverTerminalTransaction(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "u1", "USER")
	svc := NewTransactionService(db, nil)

	trx, err := svc.Create("u1", bookingPayload(bikeLeg("Alice", 2000)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := db.Model(&models.Transaction{}).Where("id = ?", trx.ID).
		Update("status", models.StatusDelivered).Error; err != nil {
		t.Fatalf("mark delivered: %v", err)
	}

	err = svc.CancelReceiver(trx.ID, trx.Receivers[0].ID)
	if apperr.KindOf(err) != apperr.Conflict {
		t.Fatalf("kind = %v, want Conflict", apperr.KindOf(err))
	}

	rec, _ := svc.GetReceiverByID(trx.Receivers[0].ID)
	if rec.StatusCanceled {
		t.Error("receiver flagged canceled despite terminal transaction")
	}
}

func TestCancelReceiverWrongTransaction(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "u1", "USER")
	svc := NewTransactionService(db, nil)

	a, err := svc.Create("u1", bookingPayload(bikeLeg("Alice", 1000)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b, err := svc.Create("u1", bookingPayload(bikeLeg("Bob", 1000)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	err = svc.CancelReceiver(a.ID, b.Receivers[0].ID)
	if apperr.KindOf(err) != apperr.NotFound {
		t.Errorf("kind = %v, want NotFound", apperr.KindOf(err))
	}
}

func TestDeleteTransactionIsSoft(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "u1", "USER")
	svc := NewTransactionService(db, nil)

	trx, err := svc.Create("u1", bookingPayload(bikeLeg("Alice", 1000)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(trx.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	after, err := svc.GetByID(trx.ID)
	if err != nil {
		t.Fatalf("GetByID after delete: %v", err)
	}
	if after.Status != models.StatusCancelled {
		t.Errorf("status = %q, want %q", after.Status, models.StatusCancelled)
	}

	if err := svc.Delete("eco999"); apperr.KindOf(err) != apperr.NotFound {
		t.Errorf("missing id: kind = %v, want NotFound", apperr.KindOf(err))
	}
}

func TestCreateTransactionNotifiesOwner(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "u1", "USER")
	if err := db.Create(&models.PushToken{UserID: "u1", Token: "tok-1"}).Error; err != nil {
		t.Fatalf("seed token: %v", err)
	}
	fn := newFakeNotifier()
	svc := NewTransactionService(db, fn)

	trx, err := svc.Create("u1", bookingPayload(bikeLeg("Alice", 1000)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	select {
	case <-fn.done:
	case <-time.After(2 * time.Second):
		t.Fatal("notification never dispatched")
	}

	calls := fn.Calls()
	if len(calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(calls))
	}
	if calls[0].Tokens[0] != "tok-1" {
		t.Errorf("token = %q, want tok-1", calls[0].Tokens[0])
	}
	if calls[0].Data["transaction_id"] != trx.ID {
		t.Errorf("data transaction_id = %q, want %q", calls[0].Data["transaction_id"], trx.ID)
	}
}

func TestTableRatesUsedWhenPackageSizeSet(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "u1", "USER")
	svc := NewTransactionService(db, nil)

	max := 5000
	bands := []models.DeliveryRate{
		{DeliveryType: "same-day", PackageSize: "small", MinDistance: 0, MaxDistance: &max, Price: 99},
		{DeliveryType: "same-day", PackageSize: "small", MinDistance: 5001, Price: 150},
	}
	if err := db.Create(&bands).Error; err != nil {
		t.Fatalf("seed rates: %v", err)
	}

	leg := ReceiverPayload{
		AddressPayload: inlineAddress("Alice"),
		DeliveryType:   "same-day",
		PackageSize:    "small",
		Distance:       3000,
	}
	trx, err := svc.Create("u1", bookingPayload(leg))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if trx.Receivers[0].Fee != 99 {
		t.Errorf("fee = %v, want 99 from rate table", trx.Receivers[0].Fee)
	}
}

func TestPushTokenUniquePerUserDevice(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "u1", "USER")
	seedUser(t, db, "u2", "USER")

	if err := db.Create(&models.PushToken{UserID: "u1", Token: "tok-1"}).Error; err != nil {
		t.Fatalf("first registration: %v", err)
	}

	// Racing re-registration of the same device lands on the unique index,
	// not on a second row.
	err := db.Create(&models.PushToken{UserID: "u1", Token: "tok-1"}).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("duplicate registration: got %v, want gorm.ErrDuplicatedKey", err)
	}

	// The same device token may belong to another user's account.
	if err := db.Create(&models.PushToken{UserID: "u2", Token: "tok-1"}).Error; err != nil {
		t.Fatalf("other user, same token: %v", err)
	}

	var count int64
	db.Model(&models.PushToken{}).Where("token = ?", "tok-1").Count(&count)
	if count != 2 {
		t.Errorf("rows for token = %d, want 2", count)
	}
}

func TestIsTransactionID(t *testing.T) {
	cases := []struct {
		id   string
		want bool
	}{
		{"eco1", true},
		{"eco42", true},
		{"eco", false},
		{"eco1x", false},
		{"ECO1", false},
		{"xeco1", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsTransactionID(tc.id); got != tc.want {
			t.Errorf("IsTransactionID(%q) = %v, want %v", tc.id, got, tc.want)
		}
	}
}
