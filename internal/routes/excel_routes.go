package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/controllers"
	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/middleware"
)

func ExcelRoutes(r *gin.Engine) {
	excel := r.Group("/api/excel")
	excel.Use(middleware.RequireAdmin())
	{
		excel.GET("/transactions", controllers.ExportTransactionsExcel)
	}
}
