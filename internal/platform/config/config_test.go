package config_test

import (
	"testing"

	"github.com/SscSPs/budget_planner/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")

	cfg, err := config.LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, config.StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, "data/budget.db", cfg.SQLitePath)
	assert.Equal(t, "300-M", cfg.RateLimit)
	assert.Equal(t, "EUR", cfg.CurrencyCode)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoadConfig_InvalidDriverFallsBackToPostgres(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")
	t.Setenv("PGSQL_URL", "postgres://localhost/budget")

	cfg, err := config.LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, config.StoreDriverPostgres, cfg.StoreDriver)
}

func TestLoadConfig_PostgresRequiresURL(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("PGSQL_URL", "")

	_, err := config.LoadConfig()

	assert.Error(t, err)
}

func TestLoadConfig_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("IS_PRODUCTION", "true")
	t.Setenv("JWT_SECRET", "")

	_, err := config.LoadConfig()

	assert.Error(t, err)
}
