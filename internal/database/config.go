package database

import (
	"fmt"
	"time"

	appconfig "auto-intel/pipeline/internal/config"
)

const (
	defaultMaxIdleConns    = 4
	defaultMaxOpenConns    = 8
	defaultConnMaxLifetime = time.Hour
	defaultPingTimeout     = 5 * time.Second
)

// Config holds database connection settings
type Config struct {
	// Driver is the database/sql driver name, "postgres" in production.
	// Tests use "sqlite3" with an in-memory DSN.
	Driver string
	DSN    string

	// Optional pool settings (defaults applied if unset)
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// NewConfig builds a Postgres connection config from the application
// configuration (host, database, user and password from the environment).
func NewConfig(cfg *appconfig.Config) *Config {
	dsn := fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresDB,
		cfg.PostgresUser, cfg.PostgresPassword, cfg.SSLMode)

	return &Config{
		Driver:          "postgres",
		DSN:             dsn,
		ConnMaxLifetime: defaultConnMaxLifetime,
	}
}

// NewSQLiteConfig returns a config for a SQLite database at the given path.
// ":memory:" gives a throwaway database, which is what the test suites use.
func NewSQLiteConfig(path string) *Config {
	return &Config{
		Driver:          "sqlite3",
		DSN:             path,
		MaxIdleConns:    1,
		MaxOpenConns:    1,
		ConnMaxLifetime: defaultConnMaxLifetime,
	}
}
