package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/onestoptutor/tutor-server/internal/api"
	"github.com/onestoptutor/tutor-server/internal/assistant"
	"github.com/onestoptutor/tutor-server/internal/config"
	"github.com/onestoptutor/tutor-server/internal/observability"
	"github.com/onestoptutor/tutor-server/internal/repository"
	"github.com/onestoptutor/tutor-server/internal/service"
	"github.com/onestoptutor/tutor-server/internal/utils"
	"github.com/onestoptutor/tutor-server/internal/youtube"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := utils.NewLogger(cfg.Log.Level, cfg.Log.Path)
	defer func() { _ = logger.Sync() }()

	gin.SetMode(cfg.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing := observability.InitTracing(ctx, cfg.Telemetry, logger)

	// Create repository
	var repo repository.Repository
	switch cfg.Database.Storage {
	case config.StorageMemory:
		logger.Warn("Using in-memory storage; data is lost on restart")
		repo = repository.NewMemoryRepository()
	default:
		db, err := config.SetupDatabase(cfg, logger)
		if err != nil {
			logger.Fatal("Failed to set up database", zap.Error(err))
		}
		defer db.Close()
		repo = repository.NewPostgresRepository(db)
	}

	if cfg.AI.APIKey == "" {
		logger.Warn("CLAUDE_API_KEY is not set; assistant answers will explain the missing key")
	}
	claude := assistant.NewClaudeClient(assistant.ClaudeConfig{
		BaseURL: cfg.AI.BaseURL,
		APIKey:  cfg.AI.APIKey,
		Model:   cfg.AI.Model,
		Timeout: cfg.AI.Timeout,
	}, logger)

	// Create service
	svc := service.NewDefaultService(repo, service.Options{
		JWTSecret:     cfg.Auth.JWTSecret,
		TokenDuration: cfg.Auth.TokenDuration,
		Metadata:      youtube.NewOEmbedClient(cfg.YouTube.MetadataTimeout, logger),
		Assistant:     assistant.New(claude, logger),
		Logger:        logger,
	})

	// Create API handler and router
	handler := api.NewHandler(svc, cfg.Auth.JWTSecret, logger)
	router := api.NewRouter(handler, api.RouterOptions{
		ServiceName: cfg.Telemetry.ServiceName,
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting server",
			zap.String("addr", server.Addr),
			zap.String("storage", cfg.Database.Storage))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown failed", zap.Error(err))
		}
		return shutdownTracing(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server exited with error", zap.Error(err))
	}
}
