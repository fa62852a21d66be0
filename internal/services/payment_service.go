package services

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/apperr"
	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/models"
)

// FiuuConfig holds the gateway credentials, loaded from the environment at
// startup.
type FiuuConfig struct {
	MerchantID string
	VerifyKey  string // vcode secret
	SecretKey  string // skey secret
	BaseURL    string
}

// PaymentService drives the hosted-payment flow against the FIUU gateway:
// it builds the outbound redirect parameters and verifies the inbound
// notify callback.
type PaymentService struct {
	db  *gorm.DB
	cfg FiuuConfig
}

func NewPaymentService(db *gorm.DB, cfg FiuuConfig) *PaymentService {
	return &PaymentService{db: db, cfg: cfg}
}

func md5hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// GenerateVCode signs an outbound payment request:
// md5(amount ‖ merchantID ‖ orderid ‖ verifyKey).
func GenerateVCode(amount, orderid, merchantID, verifyKey string) string {
	return md5hex(amount + merchantID + orderid + verifyKey)
}

// PaymentNotify is the gateway callback body.
type PaymentNotify struct {
	TranID   string `form:"tranID" json:"tranID"`
	OrderID  string `form:"orderid" json:"orderid"`
	Status   string `form:"status" json:"status"` // "00" = paid
	Domain   string `form:"domain" json:"domain"`
	Amount   string `form:"amount" json:"amount"`
	Currency string `form:"currency" json:"currency"`
	PayDate  string `form:"paydate" json:"paydate"`
	AppCode  string `form:"appcode" json:"appcode"`
	SKey     string `form:"skey" json:"skey"`
}

// VerifySKey recomputes the gateway's two-stage signature chain and
// compares it to the provided skey.
func VerifySKey(n PaymentNotify, secretKey string) bool {
	key0 := md5hex(n.TranID + n.OrderID + n.Status + n.Domain + n.Amount + n.Currency)
	key1 := md5hex(n.PayDate + n.Domain + key0 + n.AppCode + secretKey)
	return n.SKey == key1
}

// PaymentRequest is what the client needs to redirect to the hosted page.
type PaymentRequest struct {
	URL    string            `json:"url"`
	Params map[string]string `json:"params"`
}

// Create allocates an order id for the transaction, stores it, and returns
// the signed redirect parameters.
func (s *PaymentService) Create(transactionID string) (*PaymentRequest, error) {
	var trx models.Transaction
	if err := s.db.First(&trx, "id = ?", transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Newf(apperr.NotFound, "transaction %s not found", transactionID)
		}
		return nil, err
	}

	orderid := "ORD_" + strconv.FormatInt(time.Now().UnixMilli(), 10)
	amount := fmt.Sprintf("%.2f", trx.TotalFee)
	vcode := GenerateVCode(amount, orderid, s.cfg.MerchantID, s.cfg.VerifyKey)

	if err := s.db.Model(&models.Transaction{}).Where("id = ?", trx.ID).
		Update("orderid", orderid).Error; err != nil {
		return nil, err
	}

	return &PaymentRequest{
		URL: s.cfg.BaseURL + "/" + s.cfg.MerchantID + "/",
		Params: map[string]string{
			"amount":      amount,
			"orderid":     orderid,
			"bill_name":   trx.ContactName,
			"bill_email":  trx.ContactEmail,
			"bill_mobile": trx.ContactNumber,
			"bill_desc":   "Delivery Payment",
			"country":     "PH",
			"currency":    "PHP",
			"vcode":       vcode,
		},
	}, nil
}

// Notify handles the gateway callback: verifies the skey chain, maps the
// gateway status ("00" → success, anything else → failed) and updates the
// matching transaction by order id.
func (s *PaymentService) Notify(n PaymentNotify) (string, error) {
	if !VerifySKey(n, s.cfg.SecretKey) {
		return "", apperr.New(apperr.Validation, "invalid skey")
	}

	status := models.PaymentFailed
	if n.Status == "00" {
		status = models.PaymentSuccess
	}

	res := s.db.Model(&models.Transaction{}).Where("orderid = ?", n.OrderID).
		Updates(map[string]interface{}{
			"payment_status": status,
			"tran_id":        n.TranID,
		})
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		return "", apperr.Newf(apperr.NotFound, "no transaction for order %s", n.OrderID)
	}
	return status, nil
}
