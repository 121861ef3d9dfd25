package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoreMongo, cfg.StoreDriver)
	assert.Equal(t, 10, cfg.Registration.BcryptCost)
	assert.Equal(t, "EMPLOYEE", cfg.Registration.DefaultRole)
	assert.Equal(t, 8, cfg.Registration.MinLength)
	assert.True(t, cfg.Registration.RequireUpper)
	assert.False(t, cfg.Registration.RequireSymbol)
	assert.Equal(t, 3, cfg.Registration.RateLimit)
	assert.Equal(t, time.Hour, cfg.Registration.RateWindow)
	assert.Equal(t, 4, cfg.Audit.Workers)
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"STORE_DRIVER":            "postgres",
		"POSTGRES_DSN":            "postgres://u:p@db:5432/x",
		"PASSWORD_REQUIRE_SYMBOL": "true",
		"REGISTER_RATE_LIMIT":     "0",
		"DEFAULT_ROLE":            "ISSUER",
	}))
	require.NoError(t, err)

	assert.Equal(t, StorePostgres, cfg.StoreDriver)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.Postgres.DSN)
	assert.True(t, cfg.Registration.RequireSymbol)
	assert.Equal(t, 0, cfg.Registration.RateLimit)
	assert.Equal(t, "ISSUER", cfg.Registration.DefaultRole)
}

func TestLoadWith_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"unknown store":       {"STORE_DRIVER": "sqlite"},
		"zero min length":     {"PASSWORD_MIN_LENGTH": "0"},
		"min length too big":  {"PASSWORD_MIN_LENGTH": "100"},
		"negative limit":      {"REGISTER_RATE_LIMIT": "-1"},
		"bad duration":        {"REGISTER_RATE_WINDOW": "soon"},
		"unknown role":        {"DEFAULT_ROLE": "SUPERUSER"},
		"bcrypt cost too low": {"BCRYPT_COST": "2"},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadWith(context.Background(), envconfig.MapLookuper(env))
			assert.Error(t, err)
		})
	}
}
