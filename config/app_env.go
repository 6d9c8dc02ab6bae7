package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/buildrs/buildrs-api/internal/log"
	"github.com/buildrs/buildrs-api/pkg/utils"
	"github.com/joho/godotenv"
)

const (
	AppEnvKey  = "APP_ENV"
	EnvFileKey = "ENV_FILE"
)

// InitializeEnvFile loads ENV_FILE (comma-separated, default ".env") unless
// SKIP_DOTENV=true. Variables already present in the process win.
func InitializeEnvFile(logger *log.Logger) {
	if os.Getenv("SKIP_DOTENV") == "true" {
		logger.Info("Skipping .env file load (SKIP_DOTENV=true)")
		return
	}

	files := utils.SplitCSV(os.Getenv(EnvFileKey))
	explicit := len(files) > 0
	if !explicit {
		files = []string{".env"}
	}

	if err := godotenv.Load(files...); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			logger.Info("No .env file found; using process environment")
			return
		}
		logger.Warn("Failed to load env file", "files", files, "error", err.Error())
		return
	}

	logger.Info("Environment variables loaded", "files", files)
}

func GetValueFromEnvironmentVariable(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultValue
}

func GetAppEnv() string {
	return strings.ToLower(strings.TrimSpace(os.Getenv(AppEnvKey)))
}

func IsProductionEnv(appEnv string) bool {
	switch strings.ToLower(strings.TrimSpace(appEnv)) {
	case "prod", "production":
		return true
	default:
		return false
	}
}

func ValidateAutoMigrateAllowed(appEnv string) error {
	env := strings.ToLower(strings.TrimSpace(appEnv))

	switch env {
	case "", "dev", "development", "local", "test", "testing":
		return nil
	default:
		return fmt.Errorf("--auto-migrate is not allowed when %s=%q (allowed: \"\", dev, development, local, test, testing)", AppEnvKey, env)
	}
}
