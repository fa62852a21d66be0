package services

import (
	"time"

	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/models"
)

// ExcelService renders the transaction history as a spreadsheet for the
// CMS export.
type ExcelService struct {
	db *gorm.DB
}

func NewExcelService(db *gorm.DB) *ExcelService {
	return &ExcelService{db: db}
}

// BuildTransactionReport builds an xlsx workbook of transactions, optionally
// restricted to a creation-date range.
func (s *ExcelService) BuildTransactionReport(start, end *time.Time) (*xlsx.File, error) {
	q := s.db.Model(&models.Transaction{}).Preload("Driver")
	if start != nil {
		q = q.Where("created_at >= ?", *start)
	}
	if end != nil {
		q = q.Where("created_at <= ?", *end)
	}

	var rows []models.Transaction
	if err := q.Order("created_at").Find(&rows).Error; err != nil {
		return nil, err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Transactions")
	if err != nil {
		return nil, err
	}

	headers := []string{
		"ID", "User ID", "Driver", "Status", "Payment Status",
		"Mode of Payment", "Total Fee", "Total Distance (m)", "Created At",
	}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		headerRow.AddCell().SetValue(h)
	}

	for _, trx := range rows {
		row := sheet.AddRow()
		row.AddCell().SetValue(trx.ID)
		row.AddCell().SetValue(trx.UserID)
		driverName := ""
		if trx.Driver != nil {
			driverName = trx.Driver.Name
		}
		row.AddCell().SetValue(driverName)
		row.AddCell().SetValue(trx.Status)
		row.AddCell().SetValue(trx.PaymentStatus)
		row.AddCell().SetValue(trx.ModeOfPayment)
		row.AddCell().SetValue(trx.TotalFee)
		row.AddCell().SetValue(trx.TotalDistance)
		row.AddCell().SetValue(trx.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	return file, nil
}
