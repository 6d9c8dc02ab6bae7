package config

import (
	"context"
	"time"

	"github.com/buildrs/buildrs-api/config/router"
	"github.com/buildrs/buildrs-api/internal/log"
	"github.com/buildrs/buildrs-api/internal/models"
	"github.com/buildrs/buildrs-api/pkg/constants"
	"github.com/buildrs/buildrs-api/pkg/utils"
	"gorm.io/gorm"
)

type ApplicationConfig struct {
	DB              *gorm.DB
	RouterService   *router.RouterService
	Logger          *log.Logger
	Cache           Cache
	Config          *AppConfig
	TracingShutdown func(context.Context) error
}

type AppConfig struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	SignupStream    string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		RequestTimeout:  durationFromEnv("REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		ShutdownTimeout: durationFromEnv("SHUTDOWN_TIMEOUT", constants.DefaultShutdownTimeout),
		SignupStream:    utils.GetEnvTrimmedOrDefault("WAITLIST_EVENTS_STREAM", constants.DefaultSignupStream),
	}
}

// durationFromEnv accepts time.ParseDuration syntax ("15s", "2m"); anything
// unparsable or non-positive keeps def.
func durationFromEnv(key string, def time.Duration) time.Duration {
	raw := utils.GetEnvTrimmed(key)
	if raw == "" {
		return def
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return def
	}

	return parsed
}

// Cleanup releases resources in reverse order of acquisition; the tracer
// provider is flushed last.
func (ac *ApplicationConfig) Cleanup() {
	if ac.RouterService != nil {
		ac.RouterService.Cleanup()
	}

	if ac.Cache != nil {
		_ = CloseCache(ac.Cache, ac.Logger)
	}

	if ac.DB != nil {
		CloseDatabase(ac.DB, ac.Logger)
	}

	shutdownTracing(ac.TracingShutdown, ac.Logger)

	ac.Logger.Info("Application cleanup completed")
}

var setupTracing = SetupTracing

func shutdownTracing(shutdown func(context.Context) error, logger *log.Logger) {
	if shutdown == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown tracer provider", "error", err)
	}
}

func LoadApplicationConfiguration(logger *log.Logger, autoMigrate bool) (*ApplicationConfig, error) {
	InitializeEnvFile(logger)

	if autoMigrate {
		appEnv := GetAppEnv()
		if err := ValidateAutoMigrateAllowed(appEnv); err != nil {
			return nil, err
		}
		if appEnv == "" {
			logger.Warn("APP_ENV not set; allowing --auto-migrate as development")
		}
	}

	tracingShutdown, err := setupTracing(logger)
	if err != nil {
		return nil, err
	}

	db, err := NewDatabase(logger, &DBConfig{})
	if err != nil {
		shutdownTracing(tracingShutdown, logger)
		return nil, err
	}

	if autoMigrate {
		if err := AutoMigrate(logger, db, models.ModelRegistry...); err != nil {
			CloseDatabase(db, logger)
			shutdownTracing(tracingShutdown, logger)
			return nil, err
		}
	}

	appConfig := NewAppConfig()
	cache := NewCacheConfig().NewCacheOrNil(logger)

	routerService := router.CreateRouterService(logger, &router.RouterConfig{
		RequestTimeout: appConfig.RequestTimeout,
	})

	logger.Info("Application configuration loaded successfully",
		"request_timeout", appConfig.RequestTimeout.String(),
		"shutdown_timeout", appConfig.ShutdownTimeout.String(),
		"cache_configured", cache != nil,
	)

	return &ApplicationConfig{
		DB:              db,
		RouterService:   routerService,
		Logger:          logger,
		Cache:           cache,
		Config:          appConfig,
		TracingShutdown: tracingShutdown,
	}, nil
}
