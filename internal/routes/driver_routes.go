package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/controllers"
	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/middleware"
)

func DriverRoutes(r *gin.Engine) {
	drivers := r.Group("/api/drivers")
	drivers.Use(middleware.RequireAuth())
	{
		drivers.GET("/", controllers.ListDrivers)
		drivers.GET("/:id", controllers.GetDriver)
		drivers.POST("/", middleware.RequireAdmin(), controllers.CreateDriver)
		drivers.PUT("/:id", middleware.RequireAdmin(), controllers.UpdateDriver)
		drivers.DELETE("/:id", middleware.RequireAdmin(), controllers.DeleteDriver)
	}
}
