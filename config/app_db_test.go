package config

import (
	"testing"

	"github.com/buildrs/buildrs-api/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func clearDatabaseEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DATABASE_URL", "APP_DATABASE_URL", "POSTGRES_HOST", "POSTGRES_PORT",
		"POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB_NAME", "POSTGRES_SSLMODE",
		AppEnvKey,
	} {
		t.Setenv(key, "")
	}
}

func TestParseDatabaseURL(t *testing.T) {
	cases := []struct {
		raw     string
		dialect string
		dsn     string
	}{
		{"sqlite:///./buildrs.db", DialectSQLite, "./buildrs.db"},
		{"sqlite:////var/lib/buildrs.db", DialectSQLite, "/var/lib/buildrs.db"},
		{"sqlite:///:memory:", DialectSQLite, ":memory:"},
		{"sqlite://", DialectSQLite, ":memory:"},
		{"postgres://u:p@db:5432/app", DialectPostgres, "postgresql://u:p@db:5432/app"},
		{"postgresql://u:p@db:5432/app", DialectPostgres, "postgresql://u:p@db:5432/app"},
		{"host=db user=u dbname=app", DialectPostgres, "host=db user=u dbname=app"},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got := parseDatabaseURL(tc.raw)
			assert.Equal(t, tc.dialect, got.Dialect)
			assert.Equal(t, tc.dsn, got.DSN)
		})
	}
}

func TestResolveDatabaseTarget_PrefersDatabaseURL(t *testing.T) {
	clearDatabaseEnv(t)
	t.Setenv("DATABASE_URL", `"postgres://u:p@db/app"`)
	t.Setenv("APP_DATABASE_URL", "sqlite:///ignored.db")

	target, err := ResolveDatabaseTarget(log.NewLoggerWithJSONOutput(), nil)
	require.NoError(t, err)
	assert.Equal(t, DialectPostgres, target.Dialect)
	assert.Equal(t, "postgresql://u:p@db/app", target.DSN)
}

func TestResolveDatabaseTarget_BuildsPostgresDSNFromParts(t *testing.T) {
	clearDatabaseEnv(t)
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_PORT", "5433")
	t.Setenv("POSTGRES_USER", "buildrs")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB_NAME", "waitlist")

	target, err := ResolveDatabaseTarget(log.NewLoggerWithJSONOutput(), &DBConfig{SSLMode: "disable"})
	require.NoError(t, err)
	assert.Equal(t, DialectPostgres, target.Dialect)
	assert.Equal(t, "host=db port=5433 user=buildrs password=secret dbname=waitlist sslmode=disable", target.DSN)
}

func TestResolveDatabaseTarget_ReportsMissingParts(t *testing.T) {
	clearDatabaseEnv(t)
	t.Setenv("POSTGRES_HOST", "db")

	_, err := ResolveDatabaseTarget(log.NewLoggerWithJSONOutput(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_USER")
	assert.Contains(t, err.Error(), "POSTGRES_DB_NAME")
}

func TestResolveDatabaseTarget_RejectsBadPort(t *testing.T) {
	clearDatabaseEnv(t)
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_PORT", "not-a-port")
	t.Setenv("POSTGRES_USER", "u")
	t.Setenv("POSTGRES_DB_NAME", "d")

	_, err := ResolveDatabaseTarget(log.NewLoggerWithJSONOutput(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid POSTGRES_PORT")
}

func TestResolveDatabaseTarget_FallsBackToSQLite(t *testing.T) {
	clearDatabaseEnv(t)

	target, err := ResolveDatabaseTarget(log.NewLoggerWithJSONOutput(), nil)
	require.NoError(t, err)
	assert.Equal(t, DialectSQLite, target.Dialect)
	assert.Equal(t, "./buildrs.db", target.DSN)
}

func TestResolveDatabaseTarget_NoSQLiteFallbackInProduction(t *testing.T) {
	clearDatabaseEnv(t)
	t.Setenv(AppEnvKey, "production")

	target, err := ResolveDatabaseTarget(log.NewLoggerWithJSONOutput(), nil)
	assert.Error(t, err)
	assert.Nil(t, target)
}

func TestNewDatabase_OpensSQLiteFromURL(t *testing.T) {
	clearDatabaseEnv(t)
	t.Setenv("DATABASE_URL", "sqlite:///"+t.TempDir()+"/test.db")

	db, err := NewDatabase(log.NewLoggerWithJSONOutput(), nil)
	require.NoError(t, err)
	defer CloseDatabase(db, log.NewLoggerWithJSONOutput())

	assert.Equal(t, DialectSQLite, DialectOf(db))
}

func TestDialectOf(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	assert.Equal(t, DialectSQLite, DialectOf(db))
	assert.Equal(t, DialectPostgres, DialectOf(nil))
}

func TestSanitizeEnv(t *testing.T) {
	assert.Equal(t, "value", sanitizeEnv(`  "value" `))
	assert.Equal(t, "value", sanitizeEnv(`'value'`))
	assert.Equal(t, `"value`, sanitizeEnv(`"value`))
}
