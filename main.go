package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elliekim312/youtube-dashboard/domain/dto"
	"github.com/elliekim312/youtube-dashboard/infrastructure/cache"
	youtubeclient "github.com/elliekim312/youtube-dashboard/infrastructure/clients/youtube"
	"github.com/elliekim312/youtube-dashboard/infrastructure/configuration"
	"github.com/elliekim312/youtube-dashboard/infrastructure/logger"
	httpHandler "github.com/elliekim312/youtube-dashboard/interfaces/http"
	"github.com/elliekim312/youtube-dashboard/server"
	"github.com/elliekim312/youtube-dashboard/usecase"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load env from files (non-destructive; OS env still has precedence)
	loaded := configuration.LoadEnvFromFile("config.env", ".env")
	logger.GetLogger().WithField("files", loaded).Info("Loaded env files")

	config := configuration.Load()
	app := config.App

	logger.GetLogger().WithFields(map[string]interface{}{
		"hasAPIKey":   config.YouTube.HasAPIKey(),
		"baseURLSet":  config.YouTube.BaseURL != "",
		"rateLimit":   config.YouTube.RequestsPerSecond,
		"redisConfig": config.RedisClient.Enabled(),
	}).Info("Loaded YouTube configuration state")
	if !config.YouTube.HasAPIKey() {
		logger.GetLogger().Warn("YOUTUBE_API_KEY is not set - every catalog call will be rejected")
	}

	catalog, err := youtubeclient.NewClient(ctx, &youtubeclient.Config{
		// placeholder keys fall back to the unauthenticated client
		APIKey:            config.YouTube.EffectiveAPIKey(),
		BaseURL:           config.YouTube.BaseURL,
		Timeout:           config.YouTube.Timeout,
		RequestsPerSecond: config.YouTube.RequestsPerSecond,
		Burst:             config.YouTube.Burst,
		MaxRetries:        config.YouTube.MaxRetries,
	})
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to initialize YouTube client")
		os.Exit(1)
	}

	var redisClient *redis.Client
	if config.RedisClient.Enabled() {
		redisClient, err = cache.NewCache(
			ctx,
			config.RedisClient.Addr(),
			config.RedisClient.Username,
			config.RedisClient.Password,
			config.RedisClient.DB,
		)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Redis not available - continuing with in-memory search cache")
			redisClient = nil
		} else {
			logger.GetLogger().Info("Redis client initialized successfully.")
			defer redisClient.Close()
		}
	}

	searchUseCase := usecase.NewSearchUseCase(
		catalog,
		usecase.WithCache(cache.NewSearchCache(redisClient), config.Search.CacheTTL),
		usecase.WithConcurrency(config.Search.Concurrency),
	)
	searchHandler := httpHandler.NewSearchHandler(searchUseCase, dto.SearchDefaults{
		MaxResults:     config.Search.Defaults.MaxResults,
		MinSubscribers: config.Search.Defaults.MinSubscribers,
		MaxSubscribers: config.Search.Defaults.MaxSubscribers,
		MinViews:       config.Search.Defaults.MinViews,
	})

	router := server.InitiateRouter(server.RouterConfig{
		AllowedOrigins: app.AllowedOrigins,
		RequestTimeout: app.RequestTimeout,
	}, searchHandler)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	logger.GetLogger().WithField("port", app.Port).Info("Starting application")
	g.Go(func() error {
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.GetLogger().Info("Application shutdown requested")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
	logger.GetLogger().Info("Application stopped")
}
