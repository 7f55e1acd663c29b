package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"velora/pkg/logger"
	"velora/pkg/metrics"
)

// SetupRoutes настраивает маршруты сервиса аутентификации
func SetupRoutes(
	authHandler *AuthHandler,
	userHandler *UserHandler,
	roleHandler *RoleHandler,
	authMiddleware *AuthMiddleware,
) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware("auth-service"))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "auth-service",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := router.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)
		auth.POST("/validate", authHandler.ValidateToken)

		protected := auth.Group("")
		protected.Use(authMiddleware.Authenticate())
		{
			protected.GET("/me", authHandler.GetMe)
			protected.POST("/logout", authHandler.Logout)
			protected.PUT("/password", userHandler.UpdatePassword)
		}
	}

	// Управление пользователями, ролями и разрешениями доступно только администратору
	admin := router.Group("/admin")
	admin.Use(authMiddleware.Authenticate())
	admin.Use(authMiddleware.RequireRole("admin"))
	{
		admin.GET("/users", userHandler.ListUsers)
		admin.GET("/users/:id", userHandler.GetUser)
		admin.PUT("/users/:id", userHandler.UpdateUser)
		admin.DELETE("/users/:id", userHandler.DeleteUser)

		admin.GET("/roles", roleHandler.ListRoles)
		admin.POST("/roles", roleHandler.CreateRole)
		admin.GET("/roles/:id", roleHandler.GetRole)
		admin.PUT("/roles/:id", roleHandler.UpdateRole)
		admin.DELETE("/roles/:id", roleHandler.DeleteRole)
		admin.GET("/roles/:id/permissions", roleHandler.GetRolePermissions)
		admin.POST("/roles/:id/permissions", roleHandler.AssignPermissions)
		admin.DELETE("/roles/:id/permissions", roleHandler.RemovePermissions)

		admin.GET("/permissions", roleHandler.ListPermissions)
		admin.POST("/permissions", roleHandler.CreatePermission)
		admin.DELETE("/permissions/:id", roleHandler.DeletePermission)
	}

	return router
}
