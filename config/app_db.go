package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/buildrs/buildrs-api/internal/log"
	"github.com/buildrs/buildrs-api/pkg/constants"
	"github.com/buildrs/buildrs-api/pkg/retry"
	"github.com/buildrs/buildrs-api/pkg/utils"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

type DBConfig struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	SSLMode         string // Default: "require" for prod safety
	ConnectAttempts int
}

// DatabaseTarget is the resolved connection target.
type DatabaseTarget struct {
	Dialect string
	DSN     string
}

func defaultDBConfig() *DBConfig {
	return &DBConfig{
		MaxIdleConns:    10,
		MaxOpenConns:    100,
		ConnMaxLifetime: time.Minute,
		SSLMode:         "require",
		ConnectAttempts: 3,
	}
}

func (cfg *DBConfig) withDefaults() *DBConfig {
	d := defaultDBConfig()
	if cfg == nil {
		return d
	}

	out := *cfg
	if out.MaxIdleConns <= 0 {
		out.MaxIdleConns = d.MaxIdleConns
	}
	if out.MaxOpenConns <= 0 {
		out.MaxOpenConns = d.MaxOpenConns
	}
	if out.ConnMaxLifetime <= 0 {
		out.ConnMaxLifetime = d.ConnMaxLifetime
	}
	if out.SSLMode == "" {
		out.SSLMode = d.SSLMode
	}
	if out.ConnectAttempts <= 0 {
		out.ConnectAttempts = utils.GetEnvIntOrDefault("DB_CONNECT_ATTEMPTS", d.ConnectAttempts)
	}

	return &out
}

func NewDatabase(logger *log.Logger, cfg *DBConfig) (*gorm.DB, error) {
	cfg = cfg.withDefaults()

	target, err := ResolveDatabaseTarget(logger, cfg)
	if err != nil {
		return nil, err
	}

	gormCfg := &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}

	var dialector gorm.Dialector
	switch target.Dialect {
	case DialectSQLite:
		dialector = sqlite.Open(target.DSN)
	default:
		dialector = postgres.Open(target.DSN)
	}

	gdb, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		logger.Error("Failed to get database instance", "error", err)
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if target.Dialect == DialectSQLite {
		// SQLite serializes writers; one connection avoids "database is locked".
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	backoff := retry.NewExponentialBackoff(&retry.Config{
		MaxAttempts: cfg.ConnectAttempts,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    5 * time.Second,
		Multiplier:  2,
		OnRetry: func(attempt int, delay time.Duration, err error) {
			logger.Warn("Database ping failed, retrying", "attempt", attempt, "delay", delay.String(), "error", err)
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := backoff.ExecuteContext(ctx, sqlDB.PingContext); err != nil {
		logger.Error("Database ping failed", "error", err)
		_ = sqlDB.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	logger.Info("Database connection established successfully", "dialect", target.Dialect)
	return gdb, nil
}

// ResolveDatabaseTarget picks, in order: DATABASE_URL, APP_DATABASE_URL, the POSTGRES_*
// parts, and finally the local sqlite file (never in production).
func ResolveDatabaseTarget(logger *log.Logger, cfg *DBConfig) (*DatabaseTarget, error) {
	cfg = cfg.withDefaults()

	for _, key := range []string{"DATABASE_URL", "APP_DATABASE_URL"} {
		if raw := sanitizeEnv(GetValueFromEnvironmentVariable(key, "")); raw != "" {
			logger.Info("Using database URL from environment", "variable", key)
			return parseDatabaseURL(raw), nil
		}
	}

	if sanitizeEnv(GetValueFromEnvironmentVariable("POSTGRES_HOST", "")) != "" {
		dsn, err := buildDSNFromEnv(logger, cfg)
		if err != nil {
			return nil, err
		}
		return &DatabaseTarget{Dialect: DialectPostgres, DSN: dsn}, nil
	}

	if IsProductionEnv(GetAppEnv()) {
		logger.Error("No database configured in production")
		return nil, fmt.Errorf("no database configured: set DATABASE_URL or POSTGRES_HOST when %s=%s", AppEnvKey, GetAppEnv())
	}

	logger.Warn("No database configured; falling back to local sqlite", "url", constants.DefaultSQLiteDatabaseURL)
	return parseDatabaseURL(constants.DefaultSQLiteDatabaseURL), nil
}

func parseDatabaseURL(raw string) *DatabaseTarget {
	if strings.HasPrefix(raw, "sqlite:") {
		path := strings.TrimPrefix(raw, "sqlite:")
		path = strings.TrimPrefix(path, "//")
		// sqlite:///rel.db -> rel.db, sqlite:////abs.db -> /abs.db
		path = strings.TrimPrefix(path, "/")
		if path == "" {
			path = ":memory:"
		}
		return &DatabaseTarget{Dialect: DialectSQLite, DSN: path}
	}

	// Some hosting providers still hand out the legacy postgres:// scheme.
	if strings.HasPrefix(raw, "postgres://") {
		raw = "postgresql://" + strings.TrimPrefix(raw, "postgres://")
	}

	return &DatabaseTarget{Dialect: DialectPostgres, DSN: raw}
}

func buildDSNFromEnv(logger *log.Logger, cfg *DBConfig) (string, error) {
	host, portStr, user, pass, dbName, ssl := getDatabaseEnvParams()
	if ssl == "" {
		ssl = cfg.SSLMode
	}

	missing := []string{}

	if host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}

	if portStr == "" {
		missing = append(missing, "POSTGRES_PORT")
	}

	if user == "" {
		missing = append(missing, "POSTGRES_USER")
	}

	if dbName == "" {
		missing = append(missing, "POSTGRES_DB_NAME")
	}

	if len(missing) > 0 {
		logger.Error("Missing required database environment variables", "missing_vars", strings.Join(missing, ", "))

		return "", fmt.Errorf("missing required database env vars: %s", strings.Join(missing, ", "))
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		logger.Error("Invalid POSTGRES_PORT", "error", err)
		return "", fmt.Errorf("invalid POSTGRES_PORT %q: %w", portStr, err)
	}

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, pass, dbName, ssl,
	)

	logger.Info("Connecting to database",
		"host", host,
		"port", port,
		"user", user,
		"dbname", dbName,
		"sslmode", ssl,
	)
	return dsn, nil
}

func getDatabaseEnvParams() (host, port, user, pass, dbName, ssl string) {
	host = sanitizeEnv(GetValueFromEnvironmentVariable("POSTGRES_HOST", ""))
	port = sanitizeEnv(GetValueFromEnvironmentVariable("POSTGRES_PORT", "5432"))
	user = sanitizeEnv(GetValueFromEnvironmentVariable("POSTGRES_USER", ""))
	pass = sanitizeEnv(GetValueFromEnvironmentVariable("POSTGRES_PASSWORD", ""))
	dbName = sanitizeEnv(GetValueFromEnvironmentVariable("POSTGRES_DB_NAME", ""))
	ssl = sanitizeEnv(GetValueFromEnvironmentVariable("POSTGRES_SSLMODE", ""))

	return host, port, user, pass, dbName, ssl
}

func sanitizeEnv(v string) string {
	s := strings.TrimSpace(v)

	if len(s) >= 2 && ((s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'')) {
		s = s[1 : len(s)-1]
	}

	return s
}

// DialectOf reports which of DialectPostgres / DialectSQLite backs db.
func DialectOf(db *gorm.DB) string {
	if db != nil && db.Dialector != nil && db.Dialector.Name() == "sqlite" {
		return DialectSQLite
	}
	return DialectPostgres
}

func AutoMigrate(logger *log.Logger, db *gorm.DB, models ...interface{}) error {
	if db == nil {
		logger.Error("Cannot migrate: db is empty")
		return fmt.Errorf("cannot migrate: db is empty")
	}

	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Database migration failed", "error", err)
		return fmt.Errorf("auto-migrate failed: %w", err)
	}

	logger.Info("Database migration completed successfully")

	return nil
}

func CloseDatabase(db *gorm.DB, logger *log.Logger) {
	if db == nil {
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Failed to get SQL DB instance", "error", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error("Failed to close database", "error", err)
	} else {
		logger.Info("Database closed successfully")
	}
}
