package controllers

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"

	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/config"
	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/middleware"
	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/models"
)

type registerInput struct {
	FirstName    string `json:"first_name" binding:"required"`
	LastName     string `json:"last_name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required"`
	MobileNumber string `json:"mobile_number"`
	ServiceID    uint   `json:"service_id" binding:"required"`
}

// Register creates a USER account, links the chosen service and sends the
// verification email (best-effort).
func Register(c *gin.Context) {
	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": 400, "message": err.Error()})
		return
	}

	var service models.Service
	if err := config.DB.First(&service, input.ServiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"status": 400, "message": "Invalid service_id."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "database error"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "could not hash password"})
		return
	}

	verifyToken := uuid.NewString()
	tokenExpiry := time.Now().Add(24 * time.Hour)

	user := models.User{
		ID:                      uuid.NewString(),
		FirstName:               input.FirstName,
		LastName:                input.LastName,
		Email:                   input.Email,
		MobileNumber:            input.MobileNumber,
		Password:                string(hashed),
		Role:                    "USER",
		VerificationToken:       verifyToken,
		VerificationTokenExpiry: &tokenExpiry,
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "could not start transaction"})
		return
	}
	if err := tx.Create(&user).Error; err != nil {
		tx.Rollback()
		if pgErr, ok := err.(*pq.Error); (ok && pgErr.Code == "23505") || errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"status": 409, "message": "Email already registered."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "could not create user"})
		return
	}
	if err := tx.Create(&models.UserService{UserID: user.ID, ServiceID: service.ID}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "could not link service"})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "could not commit transaction"})
		return
	}

	// Verification mail is best-effort; the account is created either way.
	go func(to, token string) {
		if err := emailService().SendVerificationEmail(to, token); err != nil {
			logrus.WithError(err).Warn("could not send verification email")
		}
	}(user.Email, verifyToken)

	token, err := middleware.GenerateToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "could not generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  201,
		"message": "Registration successful",
		"results": gin.H{"token": token, "user": user},
	})
}

type loginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func findUserByCredentials(c *gin.Context) (*models.User, bool) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": 400, "message": "Email and password are required."})
		return nil, false
	}

	var user models.User
	if err := config.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": 401, "message": "Invalid credentials."})
		return nil, false
	}
	if user.Password == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": 401, "message": "Invalid credentials."})
		return nil, false
	}
	return &user, true
}

// Login authenticates a USER-role account.
func Login(c *gin.Context) {
	user, ok := findUserByCredentials(c)
	if !ok {
		return
	}
	if user.Role != "USER" {
		c.JSON(http.StatusForbidden, gin.H{"status": 403, "message": "Not allowed for non-user role."})
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "could not generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": 200, "message": "Login successful", "results": gin.H{"token": token, "user": user}})
}

// CMSLogin authenticates accounts flagged for CMS access.
func CMSLogin(c *gin.Context) {
	user, ok := findUserByCredentials(c)
	if !ok {
		return
	}
	if !user.CanAccessCMS {
		c.JSON(http.StatusForbidden, gin.H{"status": 403, "message": "Access denied."})
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "could not generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": 200, "message": "Login successful", "results": gin.H{"token": token, "user": user}})
}

type oauthInput struct {
	Provider string `json:"provider" binding:"required"`
	IDToken  string `json:"id_token" binding:"required"`
}

// OAuthLogin validates a Google id_token and signs the matching account
// in, creating it on first login.
func OAuthLogin(c *gin.Context) {
	var input oauthInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": 400, "message": err.Error()})
		return
	}
	if input.Provider != "google" {
		c.JSON(http.StatusBadRequest, gin.H{"status": 400, "message": "Unsupported provider."})
		return
	}

	payload, err := idtoken.Validate(context.Background(), input.IDToken, os.Getenv("GOOGLE_CLIENT_ID"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": 401, "message": "Invalid Google token."})
		return
	}

	sub, _ := payload.Claims["sub"].(string)
	email, _ := payload.Claims["email"].(string)
	givenName, _ := payload.Claims["given_name"].(string)
	familyName, _ := payload.Claims["family_name"].(string)

	var user models.User
	err = config.DB.Where("provider_id = ?", sub).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		now := time.Now()
		user = models.User{
			ID:              uuid.NewString(),
			FirstName:       givenName,
			LastName:        familyName,
			Email:           email,
			Provider:        "google",
			ProviderID:      sub,
			Role:            "USER",
			IsEmailVerified: true,
			EmailVerifiedAt: &now,
		}
		if err := config.DB.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "could not create user"})
			return
		}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "database error"})
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "could not generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": 200, "message": "OAuth login successful", "results": gin.H{"token": token, "user": user}})
}

// VerifyEmail consumes an emailed verification token.
func VerifyEmail(c *gin.Context) {
	token := c.Param("token")

	var user models.User
	if err := config.DB.Where("verification_token = ?", token).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": 404, "message": "Invalid verification token."})
		return
	}
	if user.VerificationTokenExpiry == nil || user.VerificationTokenExpiry.Before(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"status": 400, "message": "Verification token expired."})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"is_email_verified":         true,
		"email_verified_at":         &now,
		"verification_token":        "",
		"verification_token_expiry": nil,
	}
	if err := config.DB.Model(&user).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "could not verify email"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": 200, "message": "Email verified successfully"})
}

// Profile returns the authenticated user's sanitized account data.
func Profile(c *gin.Context) {
	userID := c.GetString("user_id")

	var user models.User
	if err := config.DB.Preload("Services").Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": 404, "message": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": 200, "message": "Profile fetched successfully", "results": user})
}
