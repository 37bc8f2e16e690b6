package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "incorp-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 700*time.Millisecond, cfg.Draft.Debounce)
	assert.Equal(t, 5*time.Second, cfg.Draft.AutosaveInterval)
	assert.Equal(t, 15*time.Minute, cfg.Storage.PresignExpiry)
	assert.Equal(t, 720*time.Hour, cfg.JWT.TokenExpiration)
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("INCORP_DATABASE_HOST", "db.internal")
	t.Setenv("INCORP_APP_PORT", "9090")
	t.Setenv("INCORP_STORAGE_BUCKET", "custom-bucket")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "custom-bucket", cfg.Storage.Bucket)
}

func TestValidate_DraftTimings(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Draft.Debounce = 10 * time.Second
	cfg.Draft.AutosaveInterval = 5 * time.Second

	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "draft.debounce")
}

func TestValidate_Production(t *testing.T) {
	newProdConfig := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.App.Env = "production"
		cfg.JWT.Secret = strings.Repeat("s", 32)
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"
		return cfg
	}

	t.Run("valid production config passes", func(t *testing.T) {
		assert.NoError(t, newProdConfig().validate())
	})

	t.Run("short jwt secret rejected", func(t *testing.T) {
		cfg := newProdConfig()
		cfg.JWT.Secret = "short"
		assert.Error(t, cfg.validate())
	})

	t.Run("sslmode disable rejected", func(t *testing.T) {
		cfg := newProdConfig()
		cfg.Database.SSLMode = "disable"
		assert.Error(t, cfg.validate())
	})

	t.Run("wildcard cors rejected", func(t *testing.T) {
		cfg := newProdConfig()
		cfg.HTTP.CORSAllowOrigins = []string{"*"}
		assert.Error(t, cfg.validate())
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "p@ss/word",
		DBName:   "incorp",
		SSLMode:  "disable",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "p%40ss%2Fword")
	assert.Contains(t, dsn, "sslmode=disable")
}
