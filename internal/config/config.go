package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kitbuilder587/bing-search/pkg/search/bing"
)

var (
	ErrMissingAPIKey  = errors.New("BING_API_KEY is required")
	ErrInvalidTimeout = errors.New("timeout must be positive")
	ErrInvalidCount   = errors.New("count must not be negative")
	ErrInvalidOffset  = errors.New("offset must not be negative")
	ErrInvalidConns   = errors.New("max conns must not be negative")
)

type Config struct {
	Bing BingConfig `yaml:"bing"`
	Log  LogConfig  `yaml:"log"`
}

type BingConfig struct {
	APIKey    string `yaml:"api_key"`
	Endpoint  string `yaml:"endpoint"`
	UserAgent string `yaml:"user_agent"`
	TimeoutMS int    `yaml:"timeout_ms"`
	Count     int    `yaml:"count"`
	Offset    int    `yaml:"offset"`
	MaxConns  int    `yaml:"max_conns"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func defaults() *Config {
	return &Config{
		Bing: BingConfig{
			Endpoint:  bing.DefaultEndpoint,
			UserAgent: bing.DefaultUserAgent,
			TimeoutMS: int(bing.DefaultTimeout / time.Millisecond),
			Count:     bing.DefaultCount,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads BING_CONFIG_FILE when set, then applies environment overrides.
func Load() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWithoutKey is Load for callers that never send a request, so an empty
// API key is accepted.
func LoadWithoutKey() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateSettings(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("BING_CONFIG_FILE"); path != "" {
		if err := readFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.Bing.APIKey = getEnvOrDefault("BING_API_KEY", cfg.Bing.APIKey)
	cfg.Bing.Endpoint = getEnvOrDefault("BING_ENDPOINT", cfg.Bing.Endpoint)
	cfg.Bing.UserAgent = getEnvOrDefault("BING_USER_AGENT", cfg.Bing.UserAgent)
	cfg.Bing.TimeoutMS = getEnvIntOrDefault("BING_TIMEOUT_MS", cfg.Bing.TimeoutMS)
	cfg.Bing.Count = getEnvIntOrDefault("BING_COUNT", cfg.Bing.Count)
	cfg.Bing.Offset = getEnvIntOrDefault("BING_OFFSET", cfg.Bing.Offset)
	cfg.Bing.MaxConns = getEnvIntOrDefault("BING_MAX_CONNS", cfg.Bing.MaxConns)
	cfg.Log.Level = getEnvOrDefault("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnvOrDefault("LOG_FORMAT", cfg.Log.Format)

	return cfg, nil
}

// LoadFile reads a YAML config without consulting the environment.
func LoadFile(path string) (*Config, error) {
	cfg := defaults()
	if err := readFile(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Bing.APIKey == "" {
		return ErrMissingAPIKey
	}
	return c.ValidateSettings()
}

// ValidateSettings checks everything Validate does except the API key.
func (c *Config) ValidateSettings() error {
	if c.Bing.TimeoutMS <= 0 {
		return ErrInvalidTimeout
	}
	if c.Bing.Count < 0 {
		return ErrInvalidCount
	}
	if c.Bing.Offset < 0 {
		return ErrInvalidOffset
	}
	if c.Bing.MaxConns < 0 {
		return ErrInvalidConns
	}
	return nil
}

func (c BingConfig) ClientConfig() bing.Config {
	return bing.Config{
		Endpoint:  c.Endpoint,
		APIKey:    c.APIKey,
		UserAgent: c.UserAgent,
		Timeout:   time.Duration(c.TimeoutMS) * time.Millisecond,
		Count:     c.Count,
		Offset:    c.Offset,
		MaxConns:  c.MaxConns,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
