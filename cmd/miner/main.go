package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PhantomMist/TwitchDropsMiner/internal/common/cache"
	"github.com/PhantomMist/TwitchDropsMiner/internal/common/config"
	"github.com/PhantomMist/TwitchDropsMiner/internal/common/logger"
	"github.com/PhantomMist/TwitchDropsMiner/internal/common/middleware"
	inventoryhttp "github.com/PhantomMist/TwitchDropsMiner/internal/features/inventory/delivery/http"
	inventoryservice "github.com/PhantomMist/TwitchDropsMiner/internal/features/inventory/service"
	redisplatform "github.com/PhantomMist/TwitchDropsMiner/internal/platform/redis"
	"github.com/PhantomMist/TwitchDropsMiner/internal/platform/twitch"
	"github.com/PhantomMist/TwitchDropsMiner/internal/workers"
)

func main() {
	// Cancellable root context for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger.Init("drops-miner", cfg.Debug)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// Redis is optional: without it the miner just refetches the snapshot
	// every refresh instead of reusing the cached one.
	var cacheService *cache.CacheService
	rdb, err := redisplatform.Open(ctx, cfg)
	if err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable, snapshot caching disabled")
	} else {
		defer rdb.Close()
		cacheService = cache.NewCacheService(rdb)
	}

	twitchClient := twitch.NewClient(cfg)
	inventorySvc := inventoryservice.NewInventoryService(twitchClient, cacheService, cfg)

	if err := inventorySvc.Refresh(ctx, false); err != nil {
		logger.Fatal().Err(err).Msg("Initial inventory refresh failed")
	}

	worker := workers.NewMinerWorker(inventorySvc, cfg)
	if err := worker.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start miner worker")
	}

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logger(), middleware.ErrorHandler())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.Server.Origin},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "X-Request-ID"},
		MaxAge:       12 * time.Hour,
	}))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	inventoryhttp.NewInventoryHandler(inventorySvc).RegisterRoutes(api)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info().Msg("Shutting down")

	if err := worker.Stop(); err != nil {
		logger.Error().Err(err).Msg("Worker shutdown failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown failed")
	}
	logger.Info().Msg("Server stopped")
}
