package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestGetEnvString(t *testing.T) {
	t.Setenv("AUTOINTEL_TEST_STR", "set")

	assert.Equal(t, "set", GetEnvString("AUTOINTEL_TEST_STR", "fallback"))
	assert.Equal(t, "fallback", GetEnvString("AUTOINTEL_TEST_MISSING", "fallback"))
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("AUTOINTEL_TEST_INT", "42")
	t.Setenv("AUTOINTEL_TEST_BAD_INT", "nope")

	assert.Equal(t, 42, GetEnvInt("AUTOINTEL_TEST_INT", 7))
	assert.Equal(t, 7, GetEnvInt("AUTOINTEL_TEST_BAD_INT", 7))
	assert.Equal(t, 7, GetEnvInt("AUTOINTEL_TEST_MISSING", 7))
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("AUTOINTEL_TEST_DUR", "90s")
	t.Setenv("AUTOINTEL_TEST_DUR_BARE", "5")
	t.Setenv("AUTOINTEL_TEST_DUR_BAD", "soon")

	assert.Equal(t, 90*time.Second, GetEnvDuration("AUTOINTEL_TEST_DUR", time.Minute))
	assert.Equal(t, 5*time.Minute, GetEnvDuration("AUTOINTEL_TEST_DUR_BARE", time.Minute))
	assert.Equal(t, time.Minute, GetEnvDuration("AUTOINTEL_TEST_DUR_BAD", time.Minute))
	assert.Equal(t, time.Minute, GetEnvDuration("AUTOINTEL_TEST_MISSING", time.Minute))
}

func TestGetEnvLogLevel(t *testing.T) {
	t.Setenv("AUTOINTEL_TEST_LEVEL", "warn")
	t.Setenv("AUTOINTEL_TEST_LEVEL_BAD", "loud")

	assert.Equal(t, zerolog.WarnLevel, GetEnvLogLevel("AUTOINTEL_TEST_LEVEL", zerolog.InfoLevel))
	assert.Equal(t, zerolog.InfoLevel, GetEnvLogLevel("AUTOINTEL_TEST_LEVEL_BAD", zerolog.InfoLevel))
}

func TestDefaultConfigReadsEnvironment(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("POSTGRES_PORT", "5433")
	t.Setenv("POSTGRES_DB", "intel")
	t.Setenv("POSTGRES_USER", "crawler")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("AUTOINTEL_API_KEY", "k123")

	cfg := DefaultConfig()

	assert.Equal(t, "db.internal", cfg.PostgresHost)
	assert.Equal(t, 5433, cfg.PostgresPort)
	assert.Equal(t, "intel", cfg.PostgresDB)
	assert.Equal(t, "crawler", cfg.PostgresUser)
	assert.Equal(t, "secret", cfg.PostgresPassword)
	assert.Equal(t, "k123", cfg.APIKey)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
	assert.Equal(t, time.Duration(DefaultAnalysisTTL)*time.Minute, cfg.AnalysisTTL)
}

func TestListenAddr(t *testing.T) {
	cfg := &Config{ServerHost: "127.0.0.1", ServerPort: 9090}
	assert.Equal(t, "127.0.0.1:9090", cfg.ListenAddr())

	cfg = &Config{ServerPort: 8080}
	assert.Equal(t, ":8080", cfg.ListenAddr())
}
