package services

import (
	"testing"
	"time"

	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/models"
)

func TestBuildTransactionReport(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "u1", "USER")
	driver := models.Driver{ID: "d1", Name: "Dina", PhoneNumber: "0918"}
	if err := db.Create(&driver).Error; err != nil {
		t.Fatalf("seed driver: %v", err)
	}
	d1 := driver.ID
	trxs := []models.Transaction{
		{ID: "eco1", UserID: "u1", TotalFee: 110, TotalDistance: 8000,
			Status: models.StatusDelivered, PaymentStatus: models.PaymentSuccess,
			ModeOfPayment: "online", DriverID: &d1},
		{ID: "eco2", UserID: "u1", TotalFee: 40, TotalDistance: 1000,
			Status: models.StatusBooked, PaymentStatus: models.PaymentPending},
	}
	if err := db.Create(&trxs).Error; err != nil {
		t.Fatalf("seed transactions: %v", err)
	}

	svc := NewExcelService(db)
	file, err := svc.BuildTransactionReport(nil, nil)
	if err != nil {
		t.Fatalf("BuildTransactionReport: %v", err)
	}

	if len(file.Sheets) != 1 || file.Sheets[0].Name != "Transactions" {
		t.Fatalf("sheets = %d, want one named Transactions", len(file.Sheets))
	}
	sheet := file.Sheets[0]
	if len(sheet.Rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(sheet.Rows))
	}
	if got := sheet.Rows[0].Cells[0].String(); got != "ID" {
		t.Errorf("header cell = %q, want ID", got)
	}
	if got := sheet.Rows[1].Cells[0].String(); got != "eco1" {
		t.Errorf("first data id = %q, want eco1", got)
	}
	if got := sheet.Rows[1].Cells[2].String(); got != "Dina" {
		t.Errorf("driver cell = %q, want Dina", got)
	}
	if got := sheet.Rows[2].Cells[2].String(); got != "" {
		t.Errorf("unassigned driver cell = %q, want empty", got)
	}
}

func TestBuildTransactionReportDateRange(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "u1", "USER")

	old := models.Transaction{ID: "eco1", UserID: "u1"}
	recent := models.Transaction{ID: "eco2", UserID: "u1"}
	if err := db.Create(&old).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := db.Create(&recent).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	past := time.Now().AddDate(0, -2, 0)
	if err := db.Model(&models.Transaction{}).Where("id = ?", "eco1").
		Update("created_at", past).Error; err != nil {
		t.Fatalf("backdate: %v", err)
	}

	start := time.Now().AddDate(0, -1, 0)
	svc := NewExcelService(db)
	file, err := svc.BuildTransactionReport(&start, nil)
	if err != nil {
		t.Fatalf("BuildTransactionReport: %v", err)
	}
	sheet := file.Sheets[0]
	if len(sheet.Rows) != 2 {
		t.Fatalf("rows = %d, want header + 1 in range", len(sheet.Rows))
	}
	if got := sheet.Rows[1].Cells[0].String(); got != "eco2" {
		t.Errorf("in-range id = %q, want eco2", got)
	}
}
