package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for typoguard.
type Config struct {
	HTTPAddr       string        `yaml:"http_addr"`
	Redis          RedisConfig   `yaml:"redis"`
	CustomRules    bool          `yaml:"custom_rules"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
	WatchDebounce  time.Duration `yaml:"watch_debounce"`
}

// RedisConfig locates the custom rule store.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		HTTPAddr: ":8080",
		Redis: RedisConfig{
			Addr: "localhost:6379",
			Key:  "custom_rules",
		},
		MaxUploadBytes: 10 << 20,
		WatchDebounce:  100 * time.Millisecond,
	}
}

// Load loads configuration from path (or the default location when path is
// empty) and the environment. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = Path()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Path returns the config file path
func Path() string {
	if path := os.Getenv("TYPOGUARD_CONFIG"); path != "" {
		return path
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "typoguard", "config.yaml")
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "typoguard", "config.yaml")
	}

	return ""
}

func loadFromFile(cfg *Config, path string) error {
	// #nosec G304 - path comes from a flag, env var or the standard location
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

func loadFromEnv(cfg *Config) error {
	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		cfg.HTTPAddr = addr
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}

	if pw := os.Getenv("REDIS_PASSWORD"); pw != "" {
		cfg.Redis.Password = pw
	}

	if db := os.Getenv("REDIS_DB"); db != "" {
		n, err := strconv.Atoi(db)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB: %w", err)
		}
		cfg.Redis.DB = n
	}

	if custom := os.Getenv("TYPOGUARD_CUSTOM_RULES"); custom != "" {
		switch custom {
		case "true", "1", "yes":
			cfg.CustomRules = true
		case "false", "0", "no":
			cfg.CustomRules = false
		default:
			return fmt.Errorf("invalid TYPOGUARD_CUSTOM_RULES value: %q (use true/false)", custom)
		}
	}

	return nil
}

func validate(cfg *Config) error {
	if cfg.HTTPAddr == "" {
		return fmt.Errorf("http_addr must not be empty")
	}

	if cfg.Redis.DB < 0 {
		return fmt.Errorf("redis.db must be non-negative")
	}

	if cfg.Redis.Key == "" {
		return fmt.Errorf("redis.key must not be empty")
	}

	if cfg.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive")
	}

	if cfg.WatchDebounce < 0 {
		return fmt.Errorf("watch_debounce must be non-negative")
	}

	return nil
}
