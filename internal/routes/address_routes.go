package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/controllers"
	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/middleware"
)

func AddressRoutes(r *gin.Engine) {
	addresses := r.Group("/api/addresses")
	addresses.Use(middleware.RequireAuth())
	{
		addresses.GET("/", middleware.RequireAdmin(), controllers.ListSavedAddresses)
		addresses.GET("/user/:userId", controllers.ListSavedAddressesByUser)
		addresses.GET("/:id", controllers.GetSavedAddress)
		addresses.POST("/", controllers.CreateSavedAddress)
		addresses.PUT("/:id", controllers.UpdateSavedAddress)
		addresses.DELETE("/:id", controllers.DeleteSavedAddress)
	}
}
