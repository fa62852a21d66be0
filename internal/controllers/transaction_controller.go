package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/services"
)

// Dashboard returns the admin aggregation over Delivered transactions.
func Dashboard(c *gin.Context) {
	data, err := trxService().Dashboard()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": 200, "data": data})
}

// CreateTransaction books a delivery for the authenticated user.
func CreateTransaction(c *gin.Context) {
	var payload services.CreateTransactionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": 400, "message": err.Error()})
		return
	}

	svc := trxService()
	trx, err := svc.Create(c.GetString("user_id"), payload)
	if err != nil {
		respondError(c, err)
		return
	}

	full, err := svc.GetByID(trx.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": 201, "data": full})
}

// ListTransactions returns the filtered, paginated listing. page=0&limit=0
// returns every matching row (history export).
func ListTransactions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	result, err := trxService().List(services.ListOptions{
		Page:          page,
		Limit:         limit,
		PaymentStatus: c.Query("paymentStatus"),
		DeliveryType:  c.Query("deliveryType"),
		UserID:        c.Query("userId"),
		Actor:         actorFromContext(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": 200, "message": "Success",
		"data": result.Data, "page": result.Page, "limit": result.Limit, "total": result.Total,
	})
}

// loadOwnedTransaction validates the id format, loads the row and enforces
// the owner/admin visibility rule.
func loadOwnedTransaction(c *gin.Context) (*services.TransactionView, bool) {
	id := c.Param("id")
	if !services.IsTransactionID(id) {
		c.JSON(http.StatusNotFound, gin.H{"status": 404, "message": "Transaction not found"})
		return nil, false
	}

	trx, err := trxService().GetByID(id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}

	actor := actorFromContext(c)
	if !actor.IsAdmin() && trx.UserID != actor.ID {
		c.JSON(http.StatusForbidden, gin.H{"status": 403, "message": "Forbidden"})
		return nil, false
	}
	return trx, true
}

func GetTransaction(c *gin.Context) {
	trx, ok := loadOwnedTransaction(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": 200, "data": trx})
}

// UpdateTransaction applies header changes and an optional wholesale
// receiver replacement.
func UpdateTransaction(c *gin.Context) {
	trx, ok := loadOwnedTransaction(c)
	if !ok {
		return
	}

	var payload services.UpdateTransactionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": 400, "message": err.Error()})
		return
	}

	updated, err := trxService().Update(trx.ID, payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": 200, "message": "Transaction updated", "data": updated})
}

// DeleteTransaction soft-deletes a booking (status flips to Cancelled).
// Only the owner may do this.
func DeleteTransaction(c *gin.Context) {
	id := c.Param("id")
	if !services.IsTransactionID(id) {
		c.JSON(http.StatusNotFound, gin.H{"status": 404, "message": "Transaction not found"})
		return
	}

	svc := trxService()
	trx, err := svc.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if trx.UserID != c.GetString("user_id") {
		c.JSON(http.StatusForbidden, gin.H{"status": 403, "message": "Forbidden"})
		return
	}

	if err := svc.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": 200, "message": "Transaction deleted"})
}

// CancelTransactionReceiver voids a single drop-off leg.
func CancelTransactionReceiver(c *gin.Context) {
	receiverID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": 400, "message": "Invalid receiver id"})
		return
	}

	svc := trxService()
	receiver, err := svc.GetReceiverByID(uint(receiverID))
	if err != nil {
		respondError(c, err)
		return
	}

	trx, err := svc.GetByID(receiver.TransactionID)
	if err != nil {
		respondError(c, err)
		return
	}

	actor := actorFromContext(c)
	if !actor.IsAdmin() && trx.UserID != actor.ID {
		c.JSON(http.StatusForbidden, gin.H{"status": 403, "message": "Forbidden"})
		return
	}

	if err := svc.CancelReceiver(trx.ID, uint(receiverID)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": 200, "message": "Transaction receiver canceled successfully"})
}
