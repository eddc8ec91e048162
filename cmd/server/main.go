package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bobby-s-dev/weather-dashboard/internal/api"
	"github.com/bobby-s-dev/weather-dashboard/internal/config"
	"github.com/bobby-s-dev/weather-dashboard/internal/scheduler"
	"github.com/bobby-s-dev/weather-dashboard/internal/services"
	"github.com/bobby-s-dev/weather-dashboard/pkg/client"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Initialize logger; the level is adjusted once config is loaded
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = level
	logger, err := zapCfg.Build()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	zap.ReplaceGlobals(logger)
	logger.Info("Starting Weather Dashboard Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	if err := level.UnmarshalText([]byte(cfg.Server.LogLevel)); err != nil {
		logger.Warn("Invalid log level, keeping info", zap.String("log_level", cfg.Server.LogLevel))
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("Invalid display timezone",
			zap.String("timezone", cfg.Dashboard.DisplayTimezone),
			zap.Error(err))
	}

	// Pick the data source
	var (
		fetcher services.Fetcher
		cache   *services.BundleCache
	)
	if cfg.MockMode() {
		logger.Warn("OPENWEATHER_API_KEY not set, serving mock data",
			zap.Duration("mock_delay", cfg.Dashboard.MockDelay))
		fetcher = services.NewMockFetcher(cfg.Dashboard.MockDelay)
	} else {
		owClient := client.NewOpenWeatherClient(
			cfg.WeatherAPI.OpenWeatherAPIKey,
			cfg.WeatherAPI.OpenWeatherURL,
			client.ClientConfig{
				Timeout:        10 * time.Second,
				MaxRetries:     cfg.Retry.MaxRetries,
				RetryDelay:     cfg.Retry.Delay,
				Multiplier:     cfg.Retry.Multiplier,
				Threshold:      cfg.CircuitBreaker.Threshold,
				BreakerTimeout: cfg.CircuitBreaker.Timeout,
				RatePerSecond:  cfg.RateLimit.RPS,
				RateBurst:      cfg.RateLimit.Burst,
			},
			logger,
		)
		cache = services.NewBundleCache(cfg.Cache.Duration, cfg.Cache.MaxSize, logger)
		fetcher = services.NewCachedFetcher(services.NewLiveFetcher(owClient, logger), cache, logger)
	}

	controller := services.NewController(fetcher, logger)

	// Initialize scheduler
	refreshScheduler, err := scheduler.NewScheduler(controller, cfg.Dashboard.RefreshSchedule, logger)
	if err != nil {
		logger.Fatal("Failed to initialize scheduler", zap.Error(err))
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		JSONEncoder:  json.Marshal,
		ErrorHandler: api.ErrorHandler,
	})

	// Setup handlers and routes
	handler := api.NewHandler(controller, refreshScheduler, cache, loc, logger)
	api.SetupRoutes(app, handler)

	// Initial load of the default city
	if _, err := controller.Submit(cfg.Dashboard.DefaultCity); err != nil {
		logger.Warn("Initial search not started",
			zap.String("city", cfg.Dashboard.DefaultCity),
			zap.Error(err))
	}

	refreshScheduler.Start()

	// Start server in goroutine
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Info("Starting server", zap.String("address", addr))

		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	refreshScheduler.Stop()
	controller.Close()
	if cache != nil {
		cache.Stop()
	}

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}

	logger.Info("Server stopped")
}
