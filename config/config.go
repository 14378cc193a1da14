package config

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"guildbot/database"

	"github.com/caarlos0/env/v11"
)

// Storage backends
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken string `env:"DISCORD_TOKEN"`
	MuteRoleName string `env:"MUTE_ROLE_NAME" envDefault:"Muted"`

	// Storage configuration
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"file"`
	DataDir        string `env:"DATA_DIR" envDefault:"data"`
	DatabaseURL    string `env:"DATABASE_URL"`
	DatabaseName   string `env:"DATABASE_NAME"`

	// Bot configuration
	StartingBalance   int64         `env:"STARTING_BALANCE" envDefault:"100"`
	TimerCleanupGrace time.Duration `env:"TIMER_CLEANUP_GRACE" envDefault:"30m"`
	AutoMuteWarnings  int           `env:"AUTO_MUTE_WARNINGS" envDefault:"3"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// Environment
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = Load()
		if err != nil {
			if os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// Load reads configuration from environment variables. Callers that start the bot
// run Validate; migrations only need the database settings.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks required settings for the selected environment and backend
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendFile:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when STORAGE_BACKEND is postgres")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	if c.Environment != "test" && c.DiscordToken == "" {
		return errors.New("DISCORD_TOKEN is required")
	}
	return nil
}

// GetDatabaseURL combines the base database URL with the database name
func (c *Config) GetDatabaseURL() (string, error) {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// SetTestConfig sets a test configuration instance
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:       "test",
		StorageBackend:    BackendFile,
		DataDir:           os.TempDir(),
		MuteRoleName:      "Muted",
		StartingBalance:   100,
		TimerCleanupGrace: 30 * time.Minute,
		AutoMuteWarnings:  3,
		LogLevel:          "debug",
		LogFormat:         "text",
	}
}
