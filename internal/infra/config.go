package infra

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds every application setting. Values are loaded from YAML first,
// then sensitive or deployment-specific fields are overridden from the
// environment.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Server struct {
		Port            int      `yaml:"port"`
		ReadTimeoutSec  int      `yaml:"read_timeout_sec"`
		WriteTimeoutSec int      `yaml:"write_timeout_sec"`
		IdleTimeoutSec  int      `yaml:"idle_timeout_sec"`
		AllowedOrigins  []string `yaml:"allowed_origins"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Market struct {
		TickIntervalMS int `yaml:"tick_interval_ms"`
		// Seed fixes the simulation's random source when non-zero.
		// Zero means a fresh source per process start.
		Seed int64 `yaml:"seed"`
	} `yaml:"market"`

	Logging struct {
		Level string `yaml:"level"`
		Dir   string `yaml:"dir"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file, applies environment
// overrides, and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port out of range: %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Market.TickIntervalMS <= 0 {
		return fmt.Errorf("tick interval must be positive")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin is required")
	}
	return nil
}

// overrideWithEnv replaces settings for which an environment variable exists.
func overrideWithEnv(cfg *Config) {
	if port := os.Getenv("TREASURY_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if path := os.Getenv("TREASURY_DB_PATH"); path != "" {
		cfg.Database.Path = path
	}
	if level := os.Getenv("TREASURY_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if seed := os.Getenv("TREASURY_MARKET_SEED"); seed != "" {
		if s, err := strconv.ParseInt(seed, 10, 64); err == nil {
			cfg.Market.Seed = s
		}
	}
}
