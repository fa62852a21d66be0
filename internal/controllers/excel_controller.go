package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/config"
	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/services"
)

// ExportTransactionsExcel streams the transaction history as an .xlsx
// download, optionally bounded by startDate/endDate (YYYY-MM-DD).
func ExportTransactionsExcel(c *gin.Context) {
	var start, end *time.Time
	if s := c.Query("startDate"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": 400, "message": "invalid startDate"})
			return
		}
		start = &t
	}
	if s := c.Query("endDate"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": 400, "message": "invalid endDate"})
			return
		}
		// inclusive end of day
		t = t.Add(24*time.Hour - time.Second)
		end = &t
	}

	file, err := services.NewExcelService(config.DB).BuildTransactionReport(start, end)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=transactions.xlsx")
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := file.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "Failed to write Excel file"})
		return
	}
}
