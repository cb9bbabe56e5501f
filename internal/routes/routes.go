package routes

import (
	"github.com/gin-gonic/gin"

	"travel_backend/internal/handlers"
	"travel_backend/internal/middleware"
)

// RegisterRoutes registers all HTTP routes. The URL layout mirrors the
// frontend contract: everything lives under /api/users.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers) {
	users := ginRouter.Group("/api/users")
	{
		users.POST("/register", appHandlers.AuthHandler.Register)
		users.POST("/login", appHandlers.AuthHandler.Login)
		users.POST("/forgot-password", appHandlers.AuthHandler.ForgotPassword)
		users.POST("/reset-password-token/:token", appHandlers.AuthHandler.ResetPassword)
	}

	authed := ginRouter.Group("/api/users")
	authed.Use(middleware.AuthMiddleware())
	{
		authed.GET("/me", appHandlers.UserHandler.Me)

		// Administrative surface. The role check happens inside the
		// services, before any store access.
		authed.POST("", appHandlers.UserHandler.Create)
		authed.GET("", appHandlers.UserHandler.List)
		authed.POST("/create-admin", appHandlers.UserHandler.CreateAdmin)
		authed.PUT("/:id", appHandlers.UserHandler.Update)
		authed.DELETE("/:id", appHandlers.UserHandler.Delete)
		authed.POST("/:id/reset-password", appHandlers.UserHandler.TriggerReset)
	}
}
