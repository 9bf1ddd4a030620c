package infra

import (
	"os"
	"path/filepath"
	"testing"
)

const testConfig = `
app:
  name: "Treasury Desk"
  version: "test"
server:
  port: 9090
  read_timeout_sec: 5
  write_timeout_sec: 5
  idle_timeout_sec: 30
  allowed_origins:
    - "http://localhost:4200"
database:
  path: "data/test.db"
market:
  tick_interval_ms: 500
  seed: 42
logging:
  level: "debug"
`

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeTestConfig(t, testConfig))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Market.TickIntervalMS != 500 {
		t.Errorf("expected tick interval 500, got %d", cfg.Market.TickIntervalMS)
	}
	if cfg.Market.Seed != 42 {
		t.Errorf("expected seed 42, got %d", cfg.Market.Seed)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected level debug, got %s", cfg.Logging.Level)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("TREASURY_PORT", "7070")
	t.Setenv("TREASURY_DB_PATH", "/tmp/override.db")
	t.Setenv("TREASURY_MARKET_SEED", "7")

	cfg, err := LoadConfig(writeTestConfig(t, testConfig))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("env port override not applied, got %d", cfg.Server.Port)
	}
	if cfg.Database.Path != "/tmp/override.db" {
		t.Errorf("env db path override not applied, got %s", cfg.Database.Path)
	}
	if cfg.Market.Seed != 7 {
		t.Errorf("env seed override not applied, got %d", cfg.Market.Seed)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"bad port", "server:\n  port: -1\n  allowed_origins: [\"http://x\"]\ndatabase:\n  path: \"x.db\"\nmarket:\n  tick_interval_ms: 100\n"},
		{"missing db path", "server:\n  port: 8080\n  allowed_origins: [\"http://x\"]\nmarket:\n  tick_interval_ms: 100\n"},
		{"zero tick interval", "server:\n  port: 8080\n  allowed_origins: [\"http://x\"]\ndatabase:\n  path: \"x.db\"\nmarket:\n  tick_interval_ms: 0\n"},
		{"no origins", "server:\n  port: 8080\ndatabase:\n  path: \"x.db\"\nmarket:\n  tick_interval_ms: 100\n"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := LoadConfig(writeTestConfig(t, c.yaml)); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
