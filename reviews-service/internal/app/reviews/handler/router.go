package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"velora/pkg/logger"
	"velora/pkg/metrics"
)

// SetupRoutes настраивает маршруты Reviews Service
// Чтение отзывов и статистики публичное, запись требует аутентификации
func SetupRoutes(reviewHandler *ReviewHandler, authMiddleware *AuthMiddleware) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())

	router.Use(logger.GinLoggerMiddleware())

	router.Use(metrics.GinPrometheusMiddleware("reviews-service"))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "reviews-service",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	reviews := router.Group("/reviews")
	{
		// Публичные эндпоинты витрины
		reviews.GET("/product/:product_id", reviewHandler.GetReviewsByProduct)
		reviews.GET("/product/:product_id/statistics", reviewHandler.GetProductStatistics)

		// Защищенные эндпоинты (требуют аутентификации)
		protected := reviews.Group("")
		protected.Use(authMiddleware.Authenticate())
		{
			protected.POST("/product/:product_id", reviewHandler.SubmitReview)
			protected.GET("/me", reviewHandler.GetUserReviews)
			protected.DELETE("/:review_id", reviewHandler.DeleteReview)
		}
	}

	return router
}
