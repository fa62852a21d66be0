package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/controllers"
	"github.com/rafyfakhrizal299/ecomove-be-dev/internal/middleware"
)

func AuthRoutes(r *gin.Engine) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/cms-login", controllers.CMSLogin)
		auth.POST("/oauth", controllers.OAuthLogin)
		auth.GET("/verify/:token", controllers.VerifyEmail)
		auth.GET("/profile", middleware.RequireAuth(), controllers.Profile)
	}
}
