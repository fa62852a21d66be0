package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/services"
)

// CreatePayment builds the signed hosted-payment redirect for a booking.
func CreatePayment(c *gin.Context) {
	var input struct {
		TransactionID string `json:"transaction_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": 400, "message": err.Error()})
		return
	}

	result, err := paymentService().Create(input.TransactionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": 200, "message": "Success", "results": result})
}

// NotifyPayment handles the gateway's server-to-server callback. The
// gateway posts form fields, so this binds form first and falls back to
// JSON.
func NotifyPayment(c *gin.Context) {
	var data services.PaymentNotify
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": 400, "message": "Notify failed"})
		return
	}

	status, err := paymentService().Notify(data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": 200, "message": "OK", "results": gin.H{"orderid": data.OrderID, "status": status}})
}
