package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/config"
	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/models"
	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/services"
)

// ListSavedAddresses returns every address-book entry (admin listing).
func ListSavedAddresses(c *gin.Context) {
	var result []models.SavedAddress
	if err := config.DB.Find(&result).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "Failed to fetch addresses"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": 200, "message": "Success", "results": result})
}

// ListSavedAddressesByUser returns the acting user's entries; admins may
// look up any user.
func ListSavedAddressesByUser(c *gin.Context) {
	userID := c.Param("userId")
	actor := actorFromContext(c)
	if !actor.IsAdmin() && userID != actor.ID {
		c.JSON(http.StatusForbidden, gin.H{"status": 403, "message": "Forbidden"})
		return
	}

	var result []models.SavedAddress
	if err := config.DB.Where("user_id = ?", userID).Find(&result).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "Failed to fetch addresses for user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": 200, "message": "Success", "results": result})
}

func findOwnedAddress(c *gin.Context) (*models.SavedAddress, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": 400, "message": "Invalid address id"})
		return nil, false
	}

	var address models.SavedAddress
	if err := config.DB.First(&address, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": 404, "message": "Address not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "Failed to fetch address"})
		}
		return nil, false
	}

	actor := actorFromContext(c)
	if !actor.IsAdmin() && address.UserID != actor.ID {
		c.JSON(http.StatusForbidden, gin.H{"status": 403, "message": "Forbidden"})
		return nil, false
	}
	return &address, true
}

func GetSavedAddress(c *gin.Context) {
	address, ok := findOwnedAddress(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": 200, "message": "Success", "results": address})
}

type createAddressInput struct {
	Label          string                  `json:"label"`
	Address        string                  `json:"address" binding:"required"`
	UnitStreet     string                  `json:"unit_street"`
	PinnedLocation services.PinnedLocation `json:"pinned_location"`
	ContactName    string                  `json:"contact_name" binding:"required"`
	ContactNumber  string                  `json:"contact_number" binding:"required"`
	ContactEmail   string                  `json:"contact_email"`
	Type           string                  `json:"type" binding:"required,oneof=sender receiver"`
}

func CreateSavedAddress(c *gin.Context) {
	var input createAddressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": 400, "message": err.Error()})
		return
	}

	address := models.SavedAddress{
		UserID:         c.GetString("user_id"),
		Label:          input.Label,
		Address:        input.Address,
		UnitStreet:     input.UnitStreet,
		PinnedLocation: input.PinnedLocation.String(),
		ContactName:    input.ContactName,
		ContactNumber:  input.ContactNumber,
		ContactEmail:   input.ContactEmail,
		Type:           input.Type,
	}
	if err := config.DB.Create(&address).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": 400, "message": "Failed to create address"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": 201, "message": "Success", "results": address})
}

// UpdateSavedAddress can only change the label; the address itself is a
// snapshot source and stays immutable after creation.
func UpdateSavedAddress(c *gin.Context) {
	address, ok := findOwnedAddress(c)
	if !ok {
		return
	}

	var input struct {
		Label string `json:"label" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": 400, "message": "label is required"})
		return
	}

	if err := config.DB.Model(address).Update("label", input.Label).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "Failed to update address"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": 200, "message": "Success", "results": address})
}

func DeleteSavedAddress(c *gin.Context) {
	address, ok := findOwnedAddress(c)
	if !ok {
		return
	}
	if err := config.DB.Delete(address).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": 400, "message": "Failed to delete address"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": 200, "message": "Address deleted successfully"})
}
