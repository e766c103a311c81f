package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/toteworks/mockup-renderer/internal/assets"
	"github.com/toteworks/mockup-renderer/internal/config"
	"github.com/toteworks/mockup-renderer/internal/handlers"
	"github.com/toteworks/mockup-renderer/internal/mockup"
	"github.com/toteworks/mockup-renderer/internal/storage"
	"github.com/toteworks/mockup-renderer/internal/texture"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Asset store: validates the manifest up front so a broken deployment
	// fails at startup rather than on the first request.
	store, err := assets.NewStore(cfg.Assets.Path)
	if err != nil {
		logger.Fatal("Failed to open asset store", zap.Error(err), zap.String("path", cfg.Assets.Path))
	}

	// Texture cache: Redis when configured so replicas share entries,
	// otherwise a bounded in-memory LRU.
	var textures texture.Cache
	var redisTextures *texture.RedisCache
	if cfg.Redis.Addr != "" {
		logger.Info("Using Redis texture cache", zap.String("redis_addr", cfg.Redis.Addr))
		redisTextures = texture.NewRedisCache(&cfg.Redis, time.Duration(cfg.Render.TextureTTL)*time.Second)
		textures = redisTextures
	} else {
		memCache, err := texture.NewMemoryCache(cfg.Render.TextureCacheSize)
		if err != nil {
			logger.Fatal("Failed to create texture cache", zap.Error(err))
		}
		textures = memCache
	}

	// Upload adapter
	var uploader storage.Uploader
	if cfg.Storage.Endpoint != "" {
		s3, err := storage.NewS3Client(&cfg.Storage, logger)
		if err != nil {
			logger.Fatal("Failed to create object store client", zap.Error(err))
		}
		uploader = s3
	} else {
		logger.Warn("Object storage not configured; finalize requests will fail")
		uploader = storage.Disabled{}
	}

	// Compositing pipeline
	compositor := mockup.NewCompositor(store, textures, cfg.Render.FabricTexture, logger)
	pool := mockup.NewWorkerPool(cfg.Render.Workers, compositor, logger)
	pool.Start()

	service := mockup.NewService(pool, uploader, logger)

	// HTTP server
	mux := http.NewServeMux()
	renderHandler := handlers.NewRenderHandler(service, logger)
	renderHandler.RegisterRoutes(mux)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      mux,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.Int("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", zap.Error(err))
		}
	}()

	logger.Info("Server started",
		zap.Int("port", cfg.Server.Port),
		zap.String("assets_path", cfg.Assets.Path),
		zap.Int("render_workers", cfg.Render.Workers))

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Give outstanding requests a deadline for completion
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}

	pool.Stop()

	if redisTextures != nil {
		if err := redisTextures.Close(); err != nil {
			logger.Error("Failed to close Redis texture cache", zap.Error(err))
		}
	}

	logger.Info("Server shutdown complete")
}
