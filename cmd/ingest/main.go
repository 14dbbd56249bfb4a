// cmd/ingest/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/andresuchdata/invopt/internal/cache"
	"github.com/andresuchdata/invopt/internal/config"
	"github.com/andresuchdata/invopt/internal/drive"
	"github.com/andresuchdata/invopt/internal/ingest"
	"github.com/andresuchdata/invopt/internal/repository/postgres"
	"github.com/andresuchdata/invopt/pkg/logger"
)

func main() {
	cfg := config.Load()
	logger.Setup(cfg.Log.Level, cfg.Log.Pretty)

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.EnsureSchema(context.Background()); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to apply schema")
	}

	// Cache invalidations reach the API through the shared redis instance.
	portfolioCache, err := cache.NewPortfolioCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Cache unavailable, continuing without it")
		portfolioCache = cache.NewNoopPortfolioCache()
	}

	// Initialize the Drive source when configured
	var (
		driveService *drive.Service
		downloader   *drive.Downloader
	)
	if cfg.Drive.Enabled && cfg.Drive.CredentialsFile != "" {
		creds, err := os.ReadFile(cfg.Drive.CredentialsFile)
		if err != nil {
			logger.Log.Fatal().Err(err).Str("file", cfg.Drive.CredentialsFile).Msg("Failed to read drive credentials")
		}
		driveService, err = drive.NewService(context.Background(), creds)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to initialize drive service")
		}
		downloader = drive.NewDownloader(driveService)
		logger.Log.Info().Msg("Drive source configured")
	} else {
		logger.Log.Info().Msg("Drive source disabled, upload endpoint only")
	}

	componentRepo := postgres.NewComponentRepository(db)
	ingestService := ingest.NewService(componentRepo, portfolioCache, downloader)

	// Register routes
	r := mux.NewRouter()
	handler := ingest.NewHandler(ingestService, driveService, cfg.App.DataDir)
	handler.RegisterRoutes(r)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	// Poll the Drive folder in the background when configured
	pollCtx, stopPolling := context.WithCancel(context.Background())
	defer stopPolling()
	if downloader != nil && cfg.Drive.FolderID != "" && cfg.Drive.PollSeconds > 0 {
		go ingestService.PollDrive(pollCtx, time.Duration(cfg.Drive.PollSeconds)*time.Second, drive.DownloadOptions{
			FolderID:  cfg.Drive.FolderID,
			TargetDir: cfg.App.DataDir,
		})
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting ingest service")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start ingest service")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down ingest service...")
	stopPolling()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Ingest service forced to shutdown")
	}

	logger.Log.Info().Msg("Ingest service exiting")
}
