package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/controllers"
	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/middleware"
)

func NotificationRoutes(r *gin.Engine) {
	notifications := r.Group("/api/notifications")
	notifications.Use(middleware.RequireAuth())
	{
		notifications.POST("/token", controllers.RegisterPushToken)
		notifications.GET("/token", controllers.ListPushTokens)
	}
}
