package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/controllers"
	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/middleware"
)

func TransactionRoutes(r *gin.Engine) {
	trx := r.Group("/api/transactions")
	trx.Use(middleware.RequireAuth())
	{
		trx.GET("/dashboard", middleware.RequireAdmin(), controllers.Dashboard)
		trx.POST("/", controllers.CreateTransaction)
		trx.GET("/", controllers.ListTransactions)
		trx.GET("/:id", controllers.GetTransaction)
		trx.PUT("/:id", controllers.UpdateTransaction)
		trx.DELETE("/:id", controllers.DeleteTransaction)
		trx.POST("/receivers/:id/cancel", controllers.CancelTransactionReceiver)
	}
}
