package migrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"

	defaultDir   = "migrations"
	defaultTable = "schema_migrations"
)

type migrator interface {
	Up() error
	Version() (version uint, dirty bool, err error)
	Close() (sourceErr error, databaseErr error)
}

var driverFactory = func(db *sql.DB, cfg Config) (database.Driver, error) {
	switch cfg.Dialect {
	case DialectSQLite:
		return sqlite3.WithInstance(db, &sqlite3.Config{MigrationsTable: cfg.MigrationsTable})
	default:
		return postgres.WithInstance(db, &postgres.Config{MigrationsTable: cfg.MigrationsTable})
	}
}

var migratorFactory = func(sourceURL, dialect string, driver database.Driver) (migrator, error) {
	return migrate.NewWithDatabaseInstance(sourceURL, dialect, driver)
}

type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

type Config struct {
	// Dir holds one subdirectory per dialect (migrations/postgres, migrations/sqlite).
	// When the dialect subdirectory is missing, Dir itself is used.
	Dir             string
	Dialect         string
	MigrationsTable string
	Logger          Logger
}

func (cfg Config) withDefaults() (Config, error) {
	if strings.TrimSpace(cfg.Dir) == "" {
		cfg.Dir = defaultDir
	}
	if strings.TrimSpace(cfg.MigrationsTable) == "" {
		cfg.MigrationsTable = defaultTable
	}
	if cfg.Logger == nil {
		cfg.Logger = nopLogger{}
	}

	switch cfg.Dialect {
	case "":
		cfg.Dialect = DialectPostgres
	case DialectPostgres, DialectSQLite:
	default:
		return cfg, fmt.Errorf("migrations: unsupported dialect %q", cfg.Dialect)
	}

	return cfg, nil
}

// Status is the schema version recorded in the migrations table.
type Status struct {
	Version uint
	Dirty   bool
	// Pristine is true when no migration has ever been applied.
	Pristine bool
}

// DialectDir maps a dialect to its migrations subdirectory name.
func DialectDir(dialect string) string {
	if dialect == DialectSQLite {
		return "sqlite"
	}
	return "postgres"
}

// session is an open migrator whose Close is safe to call more than once.
type session struct {
	m         migrator
	closeOnce sync.Once
	logger    Logger
	dir       string
}

func (s *session) close() {
	s.closeOnce.Do(func() {
		srcErr, dbErr := s.m.Close()
		if srcErr != nil {
			s.logger.Warn("Migrations source close error", "error", srcErr)
		}
		if dbErr != nil {
			s.logger.Warn("Migrations db close error", "error", dbErr)
		}
	})
}

// open takes ownership of db: closing the session closes db as well.
func open(ctx context.Context, db *sql.DB, cfg Config) (*session, Config, error) {
	if db == nil {
		return nil, cfg, fmt.Errorf("migrations: db is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, cfg, err
	}

	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, cfg, err
	}

	dir, err := resolveDir(cfg.Dir, cfg.Dialect)
	if err != nil {
		return nil, cfg, fmt.Errorf("migrations: resolve dir: %w", err)
	}

	sourceURL := (&url.URL{Scheme: "file", Path: filepath.ToSlash(dir)}).String()

	driver, err := driverFactory(db, cfg)
	if err != nil {
		return nil, cfg, fmt.Errorf("migrations: %s driver: %w", cfg.Dialect, err)
	}

	m, err := migratorFactory(sourceURL, cfg.Dialect, driver)
	if err != nil {
		return nil, cfg, fmt.Errorf("migrations: init: %w", err)
	}

	return &session{m: m, logger: cfg.Logger, dir: dir}, cfg, nil
}

// Up applies every pending migration. Already being current is not an error.
func Up(ctx context.Context, db *sql.DB, cfg Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	s, cfg, err := open(ctx, db, cfg)
	if err != nil {
		return err
	}
	defer s.close()

	cfg.Logger.Info("Running SQL migrations", "dir", s.dir, "dialect", cfg.Dialect, "table", cfg.MigrationsTable)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.m.Up()
	}()

	select {
	case <-ctx.Done():
		// migrate has no context support; closing is the only way to interrupt it.
		s.close()
		return ctx.Err()
	case err := <-errCh:
		switch {
		case errors.Is(err, migrate.ErrNoChange):
			cfg.Logger.Info("No migrations to apply")
			return nil
		case err != nil:
			cfg.Logger.Error("Migrations failed", "error", err)
			return fmt.Errorf("migrations: up: %w", err)
		}
	}

	cfg.Logger.Info("Migrations applied successfully")
	return nil
}

// Version reports the applied schema version without changing anything.
func Version(ctx context.Context, db *sql.DB, cfg Config) (Status, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	s, _, err := open(ctx, db, cfg)
	if err != nil {
		return Status{}, err
	}
	defer s.close()

	version, dirty, err := s.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return Status{Pristine: true}, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("migrations: version: %w", err)
	}

	return Status{Version: version, Dirty: dirty}, nil
}

func resolveDir(dir, dialect string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	candidate := filepath.Join(absDir, DialectDir(dialect))
	if isDir(candidate) {
		return candidate, nil
	}

	return absDir, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
