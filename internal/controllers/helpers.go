package controllers

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/apperr"
	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/config"
	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/notify"
	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/services"
)

func trxService() *services.TransactionService {
	return services.NewTransactionService(config.DB, notify.Default())
}

func paymentService() *services.PaymentService {
	return services.NewPaymentService(config.DB, services.FiuuConfig{
		MerchantID: os.Getenv("FIUU_MERCHANT_ID"),
		VerifyKey:  os.Getenv("FIUU_VKEY"),
		SecretKey:  os.Getenv("FIUU_SKEY"),
		BaseURL:    os.Getenv("FIUU_BASE_URL"),
	})
}

func emailService() *services.EmailService {
	return services.NewEmailService(services.EmailConfig{
		APIKey:  os.Getenv("ELASTIC_API_KEY"),
		BaseURL: os.Getenv("BASE_URL"),
	})
}

func actorFromContext(c *gin.Context) services.Actor {
	return services.Actor{
		ID:   c.GetString("user_id"),
		Role: c.GetString("role"),
	}
}

// respondError translates a service error into the API envelope. Unknown
// errors log with their cause and surface as a generic 500.
func respondError(c *gin.Context, err error) {
	status := apperr.Status(err)
	if status >= 500 {
		logrus.WithError(err).Error("request failed")
	}
	c.JSON(status, gin.H{"status": status, "message": apperr.Message(err)})
}
