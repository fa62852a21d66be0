package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/controllers"
	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/middleware"
)

func PaymentRoutes(r *gin.Engine) {
	payments := r.Group("/api/payments")
	{
		payments.POST("/", middleware.RequireAuth(), controllers.CreatePayment)
		// Gateway server-to-server callback, authenticated by its skey.
		payments.POST("/notify", controllers.NotifyPayment)
	}
}
