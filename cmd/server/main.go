package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/buildrs/buildrs-api/config"
	"github.com/buildrs/buildrs-api/domain"
	"github.com/buildrs/buildrs-api/internal/log"
	"github.com/buildrs/buildrs-api/pkg/utils"
)

func main() {
	logger := log.NewLoggerWithJSONOutput()
	os.Exit(run(logger, os.Args[1:]))
}

func run(logger *log.Logger, args []string) int {
	logger.Info("Buildrs API starting", "service", utils.OTelServiceName())

	appConfig, err := config.LoadApplicationConfiguration(logger, hasAutoMigrateFlag(args))
	if err != nil {
		logger.Error("Failed to load application configuration", "error", err.Error())
		return 1
	}
	defer appConfig.Cleanup()

	domain.SetupCoreDomain(appConfig)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server...")
		serverErr <- appConfig.RouterService.RunHTTPServer()
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server error", "error", err)
			return 1
		}
		return 0
	case <-ctx.Done():
		logger.Info("Shutdown signal received, shutting down gracefully...", "timeout", appConfig.Config.ShutdownTimeout.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), appConfig.Config.ShutdownTimeout)
	defer cancel()

	if err := appConfig.RouterService.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
		return 1
	}

	logger.Info("Graceful shutdown completed")
	return 0
}

// hasAutoMigrateFlag reports whether --auto-migrate or -m was passed.
func hasAutoMigrateFlag(args []string) bool {
	for _, arg := range args {
		switch strings.ToLower(arg) {
		case "--auto-migrate", "-m":
			return true
		}
	}
	return false
}
