package config

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Config holds all configuration for the application
type Config struct {
	// Database connection (storage host, name and credentials come from the
	// process environment, matching the deployment contract)
	PostgresHost     string
	PostgresPort     int
	PostgresDB       string
	PostgresUser     string
	PostgresPassword string
	SSLMode          string

	// Server settings
	ServerHost string
	ServerPort int
	APIKey     string

	// Crawl settings
	Spider    string
	UserAgent string
	Interval  time.Duration

	// Export settings
	ExportDir string

	// Analysis settings
	AnalysisTTL time.Duration

	// Log settings
	LogLevel zerolog.Level
}

// DefaultConfig returns an initial configuration seeded from the environment
// with hardcoded fallbacks.
func DefaultConfig() *Config {
	logLevel, _ := zerolog.ParseLevel(DefaultLogLevel)

	return &Config{
		PostgresHost:     GetEnvString("POSTGRES_HOST", DefaultPostgresHost),
		PostgresPort:     GetEnvInt("POSTGRES_PORT", DefaultPostgresPort),
		PostgresDB:       GetEnvString("POSTGRES_DB", DefaultPostgresDB),
		PostgresUser:     GetEnvString("POSTGRES_USER", DefaultPostgresUser),
		PostgresPassword: GetEnvString("POSTGRES_PASSWORD", ""),
		SSLMode:          GetEnvString("POSTGRES_SSLMODE", DefaultSSLMode),
		ServerHost:       DefaultServerHost,
		ServerPort:       DefaultServerPort,
		APIKey:           GetEnvString("AUTOINTEL_API_KEY", ""),
		Spider:           DefaultSpider,
		UserAgent:        GetEnvString("AUTOINTEL_USER_AGENT", DefaultUserAgent),
		Interval:         time.Duration(DefaultInterval) * time.Minute,
		ExportDir:        DefaultExportDir,
		AnalysisTTL:      time.Duration(DefaultAnalysisTTL) * time.Minute,
		LogLevel:         logLevel,
	}
}

// ListenAddr returns the formatted listen address for the HTTP server.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}
