package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomaskal/hermes/internal/core"
)

func TestLoad_FromFile(t *testing.T) {
	content := []byte(`
server:
  host: "127.0.0.1"
  port: 9090
  api_key: "supersecret"

providers:
  openai:
    api_key: "sk-test"
    model: "gpt-3.5-turbo"
  gemini:
    api_key: "g-test"

ratelimit:
  limit: 5
  timeframe: 30s

storage:
  driver: sqlite
  path: "/tmp/hermes/chat.db"
`)

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Providers.OpenAI.APIKey != "sk-test" {
		t.Errorf("expected openai key sk-test, got %s", cfg.Providers.OpenAI.APIKey)
	}
	if cfg.RateLimit.Limit != 5 {
		t.Errorf("expected limit 5, got %d", cfg.RateLimit.Limit)
	}
	if cfg.RateLimit.Timeframe != 30*time.Second {
		t.Errorf("expected timeframe 30s, got %s", cfg.RateLimit.Timeframe)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.RateLimit.Limit != 10 {
		t.Errorf("expected default limit 10, got %d", cfg.RateLimit.Limit)
	}
	if cfg.RateLimit.Timeframe != 60*time.Second {
		t.Errorf("expected default timeframe 60s, got %s", cfg.RateLimit.Timeframe)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := *Defaults()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"invalid port - zero", func(c *Config) { c.Server.Port = 0 }, true},
		{"invalid port - too high", func(c *Config) { c.Server.Port = 70000 }, true},
		{"zero limit", func(c *Config) { c.RateLimit.Limit = 0 }, true},
		{"zero timeframe", func(c *Config) { c.RateLimit.Timeframe = 0 }, true},
		{"sqlite without path", func(c *Config) { c.Storage.Path = "" }, true},
		{"unknown storage driver", func(c *Config) { c.Storage.Driver = "mongo" }, true},
		{"redis queue without addr", func(c *Config) { c.Queue.Driver = "redis" }, true},
		{"redis queue with addr", func(c *Config) {
			c.Queue.Driver = "redis"
			c.Queue.RedisAddr = "localhost:6379"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMissingProviderKeys(t *testing.T) {
	cfg := Defaults()
	cfg.Providers.OpenAI.APIKey = "sk-test"

	missing := cfg.MissingProviderKeys()
	if len(missing) != 2 {
		t.Fatalf("expected 2 missing providers, got %d", len(missing))
	}
	for _, name := range missing {
		if name == core.ProviderOpenAI {
			t.Error("OpenAI should not be reported missing")
		}
	}
}
