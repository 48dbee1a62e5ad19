package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_DRIVER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, "USD", cfg.Rates.Base)
	assert.Equal(t, "credited", cfg.TransferDebitPolicy)
	assert.Equal(t, 3, cfg.TransferMaxConflictRetries)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenTTL)
	assert.NotEmpty(t, cfg.JWT.Secret)
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("RATES_BASE", "eur")
	t.Setenv("RATES_CACHE_TTL", "10m")
	t.Setenv("TRANSFER_DEBIT_POLICY", "Requested")
	t.Setenv("TRANSFER_MAX_CONFLICT_RETRIES", "7")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "EUR", cfg.Rates.Base)
	assert.Equal(t, 10*time.Minute, cfg.Rates.CacheTTL)
	assert.Equal(t, "requested", cfg.TransferDebitPolicy)
	assert.Equal(t, 7, cfg.TransferMaxConflictRetries)
}

func TestGetIntEnv_FallsBackOnGarbage(t *testing.T) {
	t.Setenv("SOME_INT", "abc")
	assert.Equal(t, 42, GetIntEnv("SOME_INT", 42))
}

func TestDBConfig_DSN(t *testing.T) {
	c := DBConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable", c.DSN())
}
