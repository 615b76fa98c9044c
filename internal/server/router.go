package server

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/scrapstack/hardware-prices-backend/internal/handlers"
	"github.com/scrapstack/hardware-prices-backend/internal/middleware"
)

type RouterConfig struct {
	ProductHandler   *handlers.ProductHandler
	AnalyticsHandler *handlers.AnalyticsHandler
	TracingEnabled   bool
	ServiceName      string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(middleware.RequestID())
	if cfg.TracingEnabled {
		router.Use(otelgin.Middleware(cfg.ServiceName))
	}

	router.GET("/", handlers.Welcome)
	router.GET("/healthcheck", handlers.HealthCheck)

	products := router.Group("/products")
	{
		products.GET("/", cfg.ProductHandler.ListProducts)
		products.GET("/count", cfg.ProductHandler.CountProducts)
		products.GET("/search", cfg.ProductHandler.SearchProducts)
		products.GET("/stats", cfg.AnalyticsHandler.GlobalStats)
		products.GET("/:product_id/history", cfg.AnalyticsHandler.ProductHistory)
		products.GET("/:product_id/compare", cfg.AnalyticsHandler.ProductComparison)
	}

	return router
}
