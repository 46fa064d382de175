package routes

import (
	"bai-backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires every route of the application.
func SetupRoutes(r *gin.Engine) {
	// Public routes: login only. Everything else requires a session.
	RegisterAuthRoutes(r)

	authRequired := r.Group("/")
	authRequired.Use(middleware.AuthMiddleware())
	{
		RegisterAPIRoutes(authRequired)
	}
}
