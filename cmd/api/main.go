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

	"github.com/fergdesign/backend/internal/config"
	"github.com/fergdesign/backend/internal/handlers"
	"github.com/fergdesign/backend/internal/models"
	"github.com/fergdesign/backend/internal/services"
	"github.com/fergdesign/backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.New()

	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func newObjectStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (services.ObjectStore, error) {
	switch cfg.StorageDriver {
	case "minio":
		return services.NewMinioService(cfg)
	case "s3":
		return services.NewS3Service(ctx, cfg, log)
	}
	return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
}

func run(cfg *config.Config, log *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	db, err := models.InitDB(cfg, log)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if err := models.Migrate(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	redisClient := models.InitRedis(cfg, log)
	if redisClient != nil {
		defer redisClient.Close()
	}
	cache := services.NewCacheService(redisClient, cfg.ListCacheTTL, log.Named("cache"))
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
	if err := cache.Ping(pingCtx); err != nil {
		log.Warn("redis unreachable, listings will not be cached until it recovers", zap.Error(err))
	}
	cancelPing()

	store, err := newObjectStore(context.Background(), cfg, log)
	if err != nil {
		return err
	}
	resolver := services.NewYaDiskService(cfg.YaDiskAPIURL, cfg.YaDiskTimeout, log.Named("yadisk"))

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router, err := handlers.NewRouter(cfg, log, handlers.Services{
		DB:         db,
		Photos:     services.NewPhotoService(db, store, cache, cfg, log),
		Categories: services.NewCategoryService(db, cache, log),
		Videos:     services.NewVideoService(db, store, resolver, cfg, log),
		Playback:   services.NewPlaybackService(db, store, resolver, cfg, log),
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Minute, // large video uploads
		WriteTimeout:      10 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("port", cfg.Port), zap.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case sig := <-quit:
		log.Info("shutting down server", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server exited")
	return nil
}
