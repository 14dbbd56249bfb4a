// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/invopt/internal/api/handlers"
	"github.com/andresuchdata/invopt/internal/api/middleware"
	"github.com/andresuchdata/invopt/internal/service"
)

type Services struct {
	Inventory    *service.InventoryService
	Optimization *service.OptimizationService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(gin.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.Inventory != nil {
			inventoryHandler := handlers.NewInventoryHandler(services.Inventory)
			apiGroup.GET("/components", inventoryHandler.GetComponents)
			apiGroup.GET("/components/:id", inventoryHandler.GetComponent)
			apiGroup.GET("/suppliers", inventoryHandler.GetSuppliers)

			portfolioGroup := apiGroup.Group("/portfolio")
			{
				portfolioGroup.GET("/summary", inventoryHandler.GetPortfolioSummary)
				portfolioGroup.GET("/reorder-queue", inventoryHandler.GetReorderQueue)
			}

			scenarioHandler := handlers.NewScenarioHandler(services.Inventory)
			scenarioGroup := apiGroup.Group("/scenario")
			{
				scenarioGroup.POST("/evaluate", scenarioHandler.EvaluatePortfolio)
				scenarioGroup.POST("/components/:id", scenarioHandler.EvaluateComponent)
			}
		}

		if services.Optimization != nil {
			optimizationHandler := handlers.NewOptimizationHandler(services.Optimization)
			optimizerGroup := apiGroup.Group("/optimizer")
			{
				optimizerGroup.POST("/run", optimizationHandler.RunOptimization)
				optimizerGroup.GET("/runs", optimizationHandler.ListRuns)
				optimizerGroup.GET("/runs/:id", optimizationHandler.GetRun)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
