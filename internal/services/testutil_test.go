package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/models"
)

var testDBSeq int64

// openTestDB hands out an isolated in-memory database with the full schema
// migrated. The shared-cache DSN keeps the database alive across the pooled
// connections gorm opens.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Service{},
		&models.UserService{},
		&models.SavedAddress{},
		&models.Transaction{},
		&models.TransactionReceiver{},
		&models.DeliveryRate{},
		&models.Driver{},
		&models.PushToken{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, id, role string) models.User {
	t.Helper()
	u := models.User{
		ID:        id,
		FirstName: "Test",
		Email:     id + "@example.com",
		Role:      role,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user %s: %v", id, err)
	}
	return u
}

type notifierCall struct {
	Tokens []string
	Title  string
	Body   string
	Data   map[string]string
}

// fakeNotifier records dispatches and signals each one on a channel so
// tests can wait for the fire-and-forget goroutine.
type fakeNotifier struct {
	mu    sync.Mutex
	calls []notifierCall
	done  chan struct{}
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{done: make(chan struct{}, 16)}
}

func (f *fakeNotifier) Send(_ context.Context, tokens []string, title, body string, data map[string]string) (int, int, error) {
	f.mu.Lock()
	f.calls = append(f.calls, notifierCall{Tokens: tokens, Title: title, Body: body, Data: data})
	f.mu.Unlock()
	f.done <- struct{}{}
	return len(tokens), 0, nil
}

func (f *fakeNotifier) Calls() []notifierCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]notifierCall, len(f.calls))
	copy(out, f.calls)
	return out
}

// inlineAddress builds a minimal valid inline address payload.
func inlineAddress(name string) AddressPayload {
	var pin PinnedLocation
	pin.value = "14.5995,120.9842"
	return AddressPayload{
		Address:        "123 " + name + " St, Manila",
		PinnedLocation: pin,
		ContactName:    name,
		ContactNumber:  "0917000" + name,
	}
}

func floatPtr(v float64) *float64 { return &v }
func strPtr(s string) *string     { return &s }
