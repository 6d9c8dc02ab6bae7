package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/buildrs/buildrs-api/config"
	"github.com/buildrs/buildrs-api/domain/waitlist"
	"github.com/buildrs/buildrs-api/internal/log"
	"github.com/buildrs/buildrs-api/pkg/migrations"
	"github.com/buildrs/buildrs-api/pkg/utils"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func main() {
	logger := log.NewLoggerWithJSONOutput()

	config.InitializeEnvFile(logger) // Load envs early for CLI consistency

	args := os.Args[1:]
	if len(args) == 0 {
		printUsage(os.Stdout)
		os.Exit(1)
	}

	switch args[0] {
	case "migrate":
		if err := runMigrate(logger); err != nil {
			logger.Error("Database migration failed", "error", err.Error())
			os.Exit(1)
		}
		logger.Info("Database migrations completed")

	case "migrate-status":
		if err := runMigrateStatus(logger, os.Stdout); err != nil {
			logger.Error("Failed to read schema version", "error", err.Error())
			os.Exit(1)
		}

	case "count":
		if err := runCount(logger, os.Stdout); err != nil {
			logger.Error("Failed to count waitlist entries", "error", err.Error())
			os.Exit(1)
		}

	case "help", "-h", "--help":
		printUsage(os.Stdout)

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage(os.Stderr)
		os.Exit(1)
	}
}

// openMigrationTarget returns a dedicated handle for golang-migrate, which
// closes the handle it is given.
func openMigrationTarget(logger *log.Logger) (*sql.DB, migrations.Config, error) {
	db, err := config.NewDatabase(logger, &config.DBConfig{})
	if err != nil {
		return nil, migrations.Config{}, fmt.Errorf("connect: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, migrations.Config{}, fmt.Errorf("sql handle: %w", err)
	}

	dialect := migrations.DialectPostgres
	if config.DialectOf(db) == config.DialectSQLite {
		dialect = migrations.DialectSQLite
	}

	return sqlDB, migrations.Config{
		Dir:     utils.GetEnvTrimmedOrDefault("MIGRATIONS_DIR", "migrations"),
		Dialect: dialect,
		Logger:  logger,
	}, nil
}

func runMigrate(logger *log.Logger) error {
	sqlDB, cfg, err := openMigrationTarget(logger)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	return migrations.Up(ctx, sqlDB, cfg)
}

func runMigrateStatus(logger *log.Logger, out io.Writer) error {
	sqlDB, cfg, err := openMigrationTarget(logger)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	status, err := migrations.Version(ctx, sqlDB, cfg)
	if err != nil {
		return err
	}

	switch {
	case status.Pristine:
		_, err = fmt.Fprintln(out, "Schema version: none (run `cli migrate`)")
	case status.Dirty:
		_, err = fmt.Fprintf(out, "Schema version: %d (dirty, fix manually)\n", status.Version)
	default:
		_, err = fmt.Fprintf(out, "Schema version: %d\n", status.Version)
	}
	return err
}

func runCount(logger *log.Logger, out io.Writer) error {
	db, err := config.NewDatabase(logger, &config.DBConfig{})
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer config.CloseDatabase(db, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := waitlist.NewWaitlistRepository(db).Count(ctx)
	if err != nil {
		return err
	}

	p := message.NewPrinter(language.English)
	_, err = p.Fprintf(out, "Waitlist signups: %d\n", count)
	return err
}

func printUsage(out io.Writer) {
	fmt.Fprintln(out, "Usage: cli <command>")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  migrate         Apply SQL migrations from MIGRATIONS_DIR (default ./migrations) and exit")
	fmt.Fprintln(out, "  migrate-status  Print the applied schema version")
	fmt.Fprintln(out, "  count           Print the number of waitlist signups")
	fmt.Fprintln(out, "  help            Show this message")
}
