package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("DISCORD_TOKEN", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendFile, cfg.StorageBackend)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, int64(100), cfg.StartingBalance)
	assert.Equal(t, 30*time.Minute, cfg.TimerCleanupGrace)
	assert.Equal(t, 3, cfg.AutoMuteWarnings)
	assert.Equal(t, "Muted", cfg.MuteRoleName)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_DoesNotRequireToken(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("DATABASE_URL", "postgres://bot:pw@localhost:5432")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "postgres://bot:pw@localhost:5432")
	t.Setenv("DATABASE_NAME", "guildbot")
	t.Setenv("STARTING_BALANCE", "250")
	t.Setenv("TIMER_CLEANUP_GRACE", "10m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(250), cfg.StartingBalance)
	assert.Equal(t, 10*time.Minute, cfg.TimerCleanupGrace)

	url, err := cfg.GetDatabaseURL()
	require.NoError(t, err)
	assert.Equal(t, "postgres://bot:pw@localhost:5432/guildbot?sslmode=disable", url)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "test config is valid", mutate: func(c *Config) {}},
		{
			name:    "token required outside test",
			mutate:  func(c *Config) { c.Environment = "production" },
			wantErr: "DISCORD_TOKEN is required",
		},
		{
			name:    "postgres needs a url",
			mutate:  func(c *Config) { c.StorageBackend = BackendPostgres },
			wantErr: "DATABASE_URL is required",
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.StorageBackend = "redis" },
			wantErr: "unknown STORAGE_BACKEND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewTestConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestSetTestConfig(t *testing.T) {
	defer ResetConfig()

	cfg := NewTestConfig()
	cfg.StartingBalance = 7
	SetTestConfig(cfg)
	assert.Same(t, cfg, Get())

	ResetConfig()
	t.Setenv("ENVIRONMENT", "test")
	assert.Equal(t, "test", Get().Environment)
}
