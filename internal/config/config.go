package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/tomaskal/hermes/internal/core"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Providers ProvidersConfig `mapstructure:"providers"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Queue     QueueConfig     `mapstructure:"queue"`
	Archive   ArchiveConfig   `mapstructure:"archive"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type ServerConfig struct {
	Host   string `mapstructure:"host"`
	Port   int    `mapstructure:"port"`
	APIKey string `mapstructure:"api_key"`
}

type ProvidersConfig struct {
	OpenAI OpenAIConfig `mapstructure:"openai"`
	Claude ClaudeConfig `mapstructure:"claude"`
	Gemini GeminiConfig `mapstructure:"gemini"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type ClaudeConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type GeminiConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	Endpoint string `mapstructure:"endpoint"`
}

// RateLimitConfig holds admission-control settings.
type RateLimitConfig struct {
	Limit     int           `mapstructure:"limit"`
	Timeframe time.Duration `mapstructure:"timeframe"`
}

// StorageConfig holds chat-history persistence settings.
type StorageConfig struct {
	Driver string `mapstructure:"driver"` // "sqlite" or "memory"
	Path   string `mapstructure:"path"`   // For sqlite
}

// QueueConfig holds deferred-job runner settings.
type QueueConfig struct {
	Driver    string        `mapstructure:"driver"` // "memory" or "redis"
	RedisAddr string        `mapstructure:"redis_addr"`
	Workers   int           `mapstructure:"workers"`
	Delay     time.Duration `mapstructure:"delay"` // Simulated post-processing time
}

// ArchiveConfig holds cold-export settings.
type ArchiveConfig struct {
	Type string   `mapstructure:"type"` // "localfs" or "s3"
	Path string   `mapstructure:"path"` // For localfs
	S3   S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:   "0.0.0.0",
			Port:   8080,
			APIKey: "mysecretapikey",
		},
		RateLimit: RateLimitConfig{
			Limit:     10,
			Timeframe: 60 * time.Second,
		},
		Storage: StorageConfig{
			Driver: "sqlite",
			Path:   "hermes.db",
		},
		Queue: QueueConfig{
			Driver:  "memory",
			Workers: 2,
			Delay:   2 * time.Second,
		},
		Archive: ArchiveConfig{
			Type: "localfs",
			Path: "archive",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port))
	}

	if c.RateLimit.Limit < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("ratelimit limit must be positive, got %d", c.RateLimit.Limit))
	}
	if c.RateLimit.Timeframe <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("ratelimit timeframe must be positive, got %s", c.RateLimit.Timeframe))
	}

	switch c.Storage.Driver {
	case "sqlite":
		if c.Storage.Path == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("storage path required when driver is sqlite"))
		}
	case "memory":
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown storage driver: %s", c.Storage.Driver))
	}

	switch c.Queue.Driver {
	case "redis":
		if c.Queue.RedisAddr == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("redis_addr required when queue driver is redis"))
		}
	case "memory":
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown queue driver: %s", c.Queue.Driver))
	}

	return nil
}

// MissingProviderKeys lists providers with no API key configured.
// Missing keys are a startup warning, not an error: requests routed to
// an unconfigured provider are answered with a degraded result.
func (c *Config) MissingProviderKeys() []core.ProviderName {
	var missing []core.ProviderName
	if c.Providers.OpenAI.APIKey == "" {
		missing = append(missing, core.ProviderOpenAI)
	}
	if c.Providers.Claude.APIKey == "" {
		missing = append(missing, core.ProviderAnthropic)
	}
	if c.Providers.Gemini.APIKey == "" {
		missing = append(missing, core.ProviderGoogle)
	}
	return missing
}
