package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"sareeapi/config"
	"sareeapi/controllers"
	"sareeapi/pkg/logger"
	"sareeapi/services"
	"sareeapi/session"
	"sareeapi/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", err)
	}
	logger.Initialize(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if cfg.JWT.Secret == "" {
		logger.Fatal("JWT_SECRET environment variable is not set!", nil)
	}

	err = sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Sentry.DSN,
		Environment:      cfg.Server.Environment,
		Release:          cfg.Sentry.Release,
		Debug:            false,
		TracesSampleRate: 1.0,
	})
	if err != nil {
		logger.Fatal("sentry.Init failed", err)
	}
	defer sentry.Flush(2 * time.Second)

	clients, err := services.NewClientCache(services.GenAIClientFactory)
	if err != nil {
		logger.Fatal("Failed to initialize provider client cache", err)
	}
	gateway := services.NewGoogleGateway(
		clients,
		services.NewProviderLimiter(cfg.Provider.RequestsPerMinute, cfg.Provider.Burst),
		services.GatewayOptions{ImageModel: cfg.Provider.ImageModel, TextModel: cfg.Provider.TextModel},
	)

	directory, err := session.NewDirectory(cfg.Session.DefaultPassword)
	if err != nil {
		logger.Fatal("Failed to seed user directory", err)
	}
	hub := controllers.NewProgressHub()
	sessions := session.NewStore(session.StoreOptions{
		Gateway:       gateway,
		Events:        hub,
		DefaultAPIKey: cfg.Provider.APIKey,
		IdleTTL:       cfg.Session.IdleTTL,
	})
	if err := sessions.StartSweeper(cfg.Session.SweepSchedule); err != nil {
		logger.Fatal("Failed to start session sweeper", err)
	}
	defer sessions.Stop()

	opts := controllers.ServerOptions{
		Directory: directory,
		Sessions:  sessions,
		Hub:       hub,
		Bucket:    cfg.R2.Bucket,
		JWTSecret: cfg.JWT.Secret,
		JWTExpiry: cfg.JWT.Expiry,
	}
	if cfg.R2.Enabled() {
		awsService, err := services.NewAWSService(context.Background(), cfg.R2)
		if err != nil {
			logger.Fatal("Failed to initialize AWS provider: S3", err)
		}
		urlCache, err := services.NewURLCacheService(awsService, cfg.R2.Bucket)
		if err != nil {
			logger.Fatal("Failed to initialize URL cache service", err)
		}
		opts.AWSService = awsService
		opts.URLCache = urlCache
	} else {
		logger.Warn("R2 is not configured, publishing is disabled")
	}
	if cfg.Queue.BrokerAddress != "" {
		asynqClient := tasks.NewClient(cfg.Queue.BrokerAddress)
		defer asynqClient.Close()
		opts.Queue = asynqClient
	}

	e := controllers.SetupServer(opts)
	e.Debug = cfg.Server.Environment == "local"
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.Server.RateLimit))))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))

	go func() {
		logger.Info("Server starting", logger.Fields{"port": cfg.Server.Port})
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
}
