package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/config"
	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/models"
)

// RegisterPushToken stores an FCM device token for the authenticated user.
// Re-registering the same token is a no-op; the (user, token) unique index
// is the authority, so concurrent registrations of the same device cannot
// produce duplicate rows.
func RegisterPushToken(c *gin.Context) {
	var input struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": 400, "message": "token is required"})
		return
	}

	row := models.PushToken{UserID: c.GetString("user_id"), Token: input.Token}
	if err := config.DB.Create(&row).Error; err != nil {
		var pgErr *pq.Error
		if errors.Is(err, gorm.ErrDuplicatedKey) || (errors.As(err, &pgErr) && pgErr.Code == "23505") {
			c.JSON(http.StatusOK, gin.H{"status": 200, "message": "Token already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "could not register token"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": 201, "message": "Token registered"})
}

// ListPushTokens returns the authenticated user's registered device tokens.
func ListPushTokens(c *gin.Context) {
	var tokens []models.PushToken
	if err := config.DB.Where("user_id = ?", c.GetString("user_id")).Find(&tokens).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "could not list tokens"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": 200, "message": "Success", "results": tokens})
}
