package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"velora/pkg/logger"
	"velora/pkg/metrics"
)

// SetupRoutes настраивает маршруты Catalog Service
// Чтение каталога публичное для витрины, запись только для seller и admin
func SetupRoutes(catalogHandler *CatalogHandler, authMiddleware *AuthMiddleware) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())

	router.Use(logger.GinLoggerMiddleware())

	router.Use(metrics.GinPrometheusMiddleware("catalog-service"))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "catalog-service",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	categories := router.Group("/categories")
	{
		// Публичные эндпоинты витрины (кеш Redis)
		categories.GET("", catalogHandler.GetAllCategories)
		categories.GET("/:id", catalogHandler.GetCategory)

		// Запись только для admin
		protected := categories.Group("")
		protected.Use(authMiddleware.Authenticate(), authMiddleware.RequireRole("admin"))
		{
			protected.POST("", catalogHandler.CreateCategory)
			protected.PUT("/:id", catalogHandler.UpdateCategory)
			protected.DELETE("/:id", catalogHandler.DeleteCategory)
		}
	}

	products := router.Group("/products")
	{
		// Публичные эндпоинты витрины
		products.GET("", catalogHandler.GetAllProducts)
		products.GET("/:id", catalogHandler.GetProduct)
		products.GET("/:id/variants", catalogHandler.GetProductVariants)

		// Dashboard продавца: запись только для seller и admin
		protected := products.Group("")
		protected.Use(authMiddleware.Authenticate(), authMiddleware.RequireRole("seller", "admin"))
		{
			protected.GET("/store", catalogHandler.GetStoreProducts)
			protected.POST("", catalogHandler.CreateProduct)
			protected.PUT("/:id", catalogHandler.UpdateProduct)
			protected.DELETE("/:id", catalogHandler.DeleteProduct)
			protected.POST("/:id/variants", catalogHandler.SaveVariant)
			protected.PUT("/:id/variants/:variant_id", catalogHandler.SaveVariant)
			protected.DELETE("/:id/variants/:variant_id", catalogHandler.DeleteVariant)
		}
	}

	return router
}
