package config

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/models"
)

var defaultServices = []string{
	"Business Deliveries (Non-food)",
	"Business Deliveries (Food)",
	"Personal and Business",
	"Personal Delivery",
}

// Seed populates the service catalog and the CMS admin account on first
// boot. Re-running is a no-op.
func Seed() {
	var count int64
	DB.Model(&models.Service{}).Count(&count)
	if count == 0 {
		for _, name := range defaultServices {
			if err := DB.Create(&models.Service{Name: name}).Error; err != nil {
				logrus.WithError(err).Error("could not seed service")
			}
		}
	}

	adminEmail := getEnv("ADMIN_EMAIL", "admin@ecomove.com")
	var existing models.User
	if err := DB.Where("email = ?", adminEmail).First(&existing).Error; err == nil {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(getEnv("ADMIN_PASSWORD", "admin123")), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("could not hash admin password")
		return
	}
	now := time.Now()
	admin := models.User{
		ID:              uuid.NewString(),
		FirstName:       "Admin",
		LastName:        "User",
		Email:           adminEmail,
		Password:        string(hashed),
		Role:            "ADMIN",
		CanAccessCMS:    true,
		IsEmailVerified: true,
		EmailVerifiedAt: &now,
	}
	if err := DB.Create(&admin).Error; err != nil {
		logrus.WithError(err).Error("could not seed admin user")
	}
}
