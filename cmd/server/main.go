// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/invopt/internal/api"
	"github.com/andresuchdata/invopt/internal/cache"
	"github.com/andresuchdata/invopt/internal/config"
	"github.com/andresuchdata/invopt/internal/engine"
	"github.com/andresuchdata/invopt/internal/repository/postgres"
	"github.com/andresuchdata/invopt/internal/service"
	"github.com/andresuchdata/invopt/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.Setup(cfg.Log.Level, cfg.Log.Pretty)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.EnsureSchema(context.Background()); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to apply schema")
	}

	// Initialize cache
	portfolioCache, err := cache.NewPortfolioCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Cache unavailable, continuing without it")
		portfolioCache = cache.NewNoopPortfolioCache()
	}

	// Initialize services
	calc := engine.NewCalculator(engine.CostParams{
		OrderingCost: cfg.Engine.OrderingCost,
		HoldingRate:  cfg.Engine.HoldingRate,
	})
	componentRepo := postgres.NewComponentRepository(db)
	runRepo := postgres.NewRunRepository(db)

	services := &api.Services{
		Inventory:    service.NewInventoryService(componentRepo, portfolioCache, calc),
		Optimization: service.NewOptimizationService(componentRepo, runRepo, engine.NewOptimizer(calc)),
	}

	// Initialize HTTP server
	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
