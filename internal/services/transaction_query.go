package services

import (
	"errors"
	"sort"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/apperr"
	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/models"
	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/rates"
)

// Actor identifies the requesting user for visibility checks.
type Actor struct {
	ID   string
	Role string
}

func (a Actor) IsAdmin() bool { return a.Role == "ADMIN" }

// ListOptions filters and paginates the transaction listing.
// Page=0 with Limit=0 is the documented "return everything" sentinel used
// by the history export.
type ListOptions struct {
	Page          int
	Limit         int
	PaymentStatus string
	DeliveryType  string
	UserID        string
	Actor         Actor
}

// TransactionView is a listing row: the transaction plus the derived
// fields computed from its live receiver legs.
type TransactionView struct {
	models.Transaction
	TotalETASeconds int     `json:"total_eta_seconds"`
	TotalETA        string  `json:"total_eta"`
	TotalCO2        float64 `json:"total_co2"`
}

// ListResult is a page of transactions plus paging metadata.
type ListResult struct {
	Data  []TransactionView `json:"data"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
	Total int64             `json:"total"`
}

func toView(trx models.Transaction) TransactionView {
	etaSeconds := 0
	co2 := 0.0
	for _, r := range trx.Receivers {
		if r.StatusCanceled {
			continue
		}
		etaSeconds += r.ETASeconds
		co2 += r.CO2
	}
	if trx.User != nil {
		trx.User.Password = ""
	}
	return TransactionView{
		Transaction:     trx,
		TotalETASeconds: etaSeconds,
		TotalETA:        rates.FormatETA(etaSeconds),
		TotalCO2:        co2,
	}
}

// terminalLastOrder sorts done transactions after active ones, keeping
// creation order within each group.
const terminalLastOrder = "CASE WHEN status IN ('Delivered', 'multiple delivery attempts failed', 'Returned to Sender') THEN 1 ELSE 0 END, created_at"

// List returns transactions visible to the actor. Non-admins only ever see
// their own rows regardless of the UserID filter.
func (s *TransactionService) List(opts ListOptions) (*ListResult, error) {
	q := s.db.Model(&models.Transaction{}).
		Preload("Receivers").
		Preload("Driver").
		Preload("User")

	if !opts.Actor.IsAdmin() {
		opts.UserID = opts.Actor.ID
	}
	if opts.UserID != "" {
		q = q.Where("user_id = ?", opts.UserID)
	}
	if opts.PaymentStatus != "" {
		q = q.Where("payment_status = ?", opts.PaymentStatus)
	}
	if opts.DeliveryType != "" {
		q = q.Where("id IN (?)", s.db.Model(&models.TransactionReceiver{}).
			Select("transaction_id").Where("delivery_type = ?", opts.DeliveryType))
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	q = q.Order(terminalLastOrder)

	unpaginated := opts.Page == 0 && opts.Limit == 0
	if !unpaginated {
		if opts.Page < 1 {
			opts.Page = 1
		}
		if opts.Limit < 1 {
			opts.Limit = 10
		}
		q = q.Offset((opts.Page - 1) * opts.Limit).Limit(opts.Limit)
	}

	var rows []models.Transaction
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	views := make([]TransactionView, 0, len(rows))
	for _, trx := range rows {
		views = append(views, toView(trx))
	}

	return &ListResult{Data: views, Page: opts.Page, Limit: opts.Limit, Total: total}, nil
}

// GetByID loads one transaction with receivers, driver and sanitized user.
func (s *TransactionService) GetByID(id string) (*TransactionView, error) {
	var trx models.Transaction
	err := s.db.Preload("Receivers").Preload("Driver").Preload("User").
		First(&trx, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Newf(apperr.NotFound, "transaction %s not found", id)
		}
		return nil, err
	}
	v := toView(trx)
	return &v, nil
}

// TimeBucket is one dashboard breakdown row.
type TimeBucket struct {
	Label      string  `json:"label"`
	Deliveries int     `json:"deliveries"`
	Revenue    float64 `json:"revenue"`
}

// DashboardData aggregates over Delivered transactions only.
type DashboardData struct {
	TotalDeliveries int          `json:"total_deliveries"`
	TotalUsers      int          `json:"total_users"`
	TotalRevenue    float64      `json:"total_revenue"`
	ByYear          []TimeBucket `json:"by_year"`
	ByMonth         []TimeBucket `json:"by_month"`
	ByDay           []TimeBucket `json:"by_day"`
}

// Dashboard computes the admin overview: counts, revenue, and the three
// time-bucketed breakdowns (calendar year, month of the current year, day
// of the last seven days). Bucketing happens in Go so the aggregation is
// identical on every store.
func (s *TransactionService) Dashboard() (*DashboardData, error) {
	var delivered []models.Transaction
	if err := s.db.Where("status = ?", models.StatusDelivered).Find(&delivered).Error; err != nil {
		return nil, err
	}

	now := manilaTime()
	data := &DashboardData{}

	users := map[string]struct{}{}
	byYear := map[int]*TimeBucket{}
	byMonth := map[time.Month]*TimeBucket{}
	byDay := map[string]*TimeBucket{}

	// Seed the rolling 7-day and 12-month buckets so empty ones still show.
	for m := time.January; m <= time.December; m++ {
		byMonth[m] = &TimeBucket{Label: m.String()}
	}
	var dayOrder []string
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format("2006-01-02")
		byDay[day] = &TimeBucket{Label: day}
		dayOrder = append(dayOrder, day)
	}

	for _, trx := range delivered {
		data.TotalDeliveries++
		data.TotalRevenue += trx.TotalFee
		users[trx.UserID] = struct{}{}

		created := trx.CreatedAt.In(now.Location())

		y := created.Year()
		if _, ok := byYear[y]; !ok {
			byYear[y] = &TimeBucket{Label: strconv.Itoa(y)}
		}
		byYear[y].Deliveries++
		byYear[y].Revenue += trx.TotalFee

		if y == now.Year() {
			byMonth[created.Month()].Deliveries++
			byMonth[created.Month()].Revenue += trx.TotalFee
		}

		if b, ok := byDay[created.Format("2006-01-02")]; ok {
			b.Deliveries++
			b.Revenue += trx.TotalFee
		}
	}
	data.TotalUsers = len(users)

	var years []int
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)
	for _, y := range years {
		data.ByYear = append(data.ByYear, *byYear[y])
	}
	for m := time.January; m <= time.December; m++ {
		data.ByMonth = append(data.ByMonth, *byMonth[m])
	}
	for _, day := range dayOrder {
		data.ByDay = append(data.ByDay, *byDay[day])
	}

	return data, nil
}
