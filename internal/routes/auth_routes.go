package routes

import (
	"bai-backend/internal/handlers"
	"bai-backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers the public authentication routes.
func RegisterAuthRoutes(r *gin.Engine) {
	r.POST("/auth/login", handlers.LoginHandler)

	// Session-scoped auth actions.
	session := r.Group("/auth")
	session.Use(middleware.AuthMiddleware())
	{
		session.GET("/logout", handlers.LogoutHandler)
		session.PUT("/password", handlers.ChangePasswordHandler)
		// Accounts are provisioned by the audit committee.
		session.POST("/register", middleware.AdminOnly(), handlers.RegisterHandler)
	}
}
