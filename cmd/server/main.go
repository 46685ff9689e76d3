package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/snaptab/snaptab/internal/api"
	"github.com/snaptab/snaptab/internal/blob"
	"github.com/snaptab/snaptab/internal/config"
	"github.com/snaptab/snaptab/internal/service"
	"github.com/snaptab/snaptab/internal/storage/sqlite"
	"github.com/snaptab/snaptab/internal/vision"
	"github.com/snaptab/snaptab/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.New("info").Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log.Level)

	store, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err, "db_path", cfg.DB.Path)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("storage initialized", "database", cfg.DB.Path)

	blobs := blob.NewLocalStore(cfg.Blob.Dir, cfg.Blob.BaseURL)
	logger.Info("serving receipt images", "dir", cfg.Blob.Dir)

	if cfg.Vision.APIKey == "" {
		logger.Warn("OPENAI_API_KEY is not set, receipt parsing will fail")
	}
	extractor := vision.NewOpenAIClient(cfg.Vision.BaseURL, cfg.Vision.APIKey, cfg.Vision.Model, cfg.Vision.Timeout)

	router := api.NewRouter(
		service.NewBillService(store, blobs, extractor, logger),
		service.NewParticipantService(store, logger),
		blobs.Dir(),
		logger,
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		logger.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown error", "error", err)
		}
	}()

	logger.Info("server starting", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
