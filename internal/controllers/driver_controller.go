package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/config"
	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/models"
)

func ListDrivers(c *gin.Context) {
	var drivers []models.Driver
	if err := config.DB.Find(&drivers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "Error listing drivers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": 200, "message": "Success", "data": drivers})
}

func GetDriver(c *gin.Context) {
	var driver models.Driver
	if err := config.DB.First(&driver, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": 404, "message": "Driver not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "database error"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": 200, "message": "Success", "data": driver})
}

type driverInput struct {
	Name          string `json:"name" binding:"required"`
	PhoneNumber   string `json:"phone_number" binding:"required"`
	Email         string `json:"email"`
	LicenseNumber string `json:"license_number"`
	IsActive      *bool  `json:"is_active"`
}

func CreateDriver(c *gin.Context) {
	var input driverInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": 400, "message": err.Error()})
		return
	}

	driver := models.Driver{
		ID:            uuid.NewString(),
		Name:          input.Name,
		PhoneNumber:   input.PhoneNumber,
		Email:         input.Email,
		LicenseNumber: input.LicenseNumber,
		IsActive:      true,
	}
	if input.IsActive != nil {
		driver.IsActive = *input.IsActive
	}
	if err := config.DB.Create(&driver).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "could not create driver"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": 201, "message": "Success", "data": driver})
}

func UpdateDriver(c *gin.Context) {
	var driver models.Driver
	if err := config.DB.First(&driver, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": 404, "message": "Driver not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "database error"})
		}
		return
	}

	var input struct {
		Name          *string `json:"name"`
		PhoneNumber   *string `json:"phone_number"`
		Email         *string `json:"email"`
		LicenseNumber *string `json:"license_number"`
		IsActive      *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": 400, "message": err.Error()})
		return
	}

	if input.Name != nil {
		driver.Name = *input.Name
	}
	if input.PhoneNumber != nil {
		driver.PhoneNumber = *input.PhoneNumber
	}
	if input.Email != nil {
		driver.Email = *input.Email
	}
	if input.LicenseNumber != nil {
		driver.LicenseNumber = *input.LicenseNumber
	}
	if input.IsActive != nil {
		driver.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&driver).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "could not update driver"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": 200, "message": "Success", "data": driver})
}

func DeleteDriver(c *gin.Context) {
	res := config.DB.Delete(&models.Driver{}, "id = ?", c.Param("id"))
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "could not delete driver"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"status": 404, "message": "Driver not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": 200, "message": "Driver deleted successfully"})
}
