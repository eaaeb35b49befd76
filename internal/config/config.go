// Package config loads pledge's settings from ~/.pledge/config.yaml, a .env
// file and PLEDGE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Config represents the pledge configuration.
type Config struct {
	UserID   string      `yaml:"user_id"`
	DBPath   string      `yaml:"db_path,omitempty"` // empty uses ~/.pledge/pledge.db
	Timezone string      `yaml:"timezone"`          // IANA name or "Local"
	Env      string      `yaml:"env"`               // production, development or quiet
	Cache    CacheConfig `yaml:"cache"`
}

// CacheConfig selects the read cache.
type CacheConfig struct {
	Backend   string        `yaml:"backend"`
	RedisAddr string        `yaml:"redis_addr,omitempty"`
	TTL       time.Duration `yaml:"ttl"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		UserID:   "local",
		Timezone: "Local",
		Env:      "production",
		Cache: CacheConfig{
			Backend:   CacheMemory,
			RedisAddr: "localhost:6379",
			TTL:       5 * time.Minute,
		},
	}
}

// DefaultPath returns ~/.pledge/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".pledge", "config.yaml"), nil
}

// ResolvePath returns path, or $PLEDGE_CONFIG, or the default path.
func ResolvePath(path string) (string, error) {
	if path == "" {
		path = os.Getenv("PLEDGE_CONFIG")
	}
	if path == "" {
		return DefaultPath()
	}
	return path, nil
}

// Load reads the configuration.
// Resolution order: path, then $PLEDGE_CONFIG, then ~/.pledge/config.yaml.
// A missing file yields the defaults. A .env file next to the config file or
// in the working directory is loaded first; PLEDGE_* variables win over
// both the .env file and the YAML file.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	path, err := ResolvePath(path)
	if err != nil {
		return nil, err
	}
	_ = godotenv.Load(filepath.Join(filepath.Dir(path), ".env"))

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.UserID = get("PLEDGE_USER", c.UserID)
	c.DBPath = get("PLEDGE_DB", c.DBPath)
	c.Timezone = get("PLEDGE_TZ", c.Timezone)
	c.Env = get("PLEDGE_ENV", c.Env)
	c.Cache.Backend = get("PLEDGE_CACHE", c.Cache.Backend)
	c.Cache.RedisAddr = get("PLEDGE_REDIS_ADDR", c.Cache.RedisAddr)
	if v := os.Getenv("PLEDGE_CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid PLEDGE_CACHE_TTL %q: %w", v, err)
		}
		c.Cache.TTL = ttl
	}
	return nil
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.UserID == "" {
		return errors.New("config: user_id must not be empty")
	}
	switch c.Cache.Backend {
	case CacheMemory, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New("config: cache.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("config: unknown cache backend %q (want memory, redis or none)", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New("config: cache.ttl must not be negative")
	}
	return nil
}

// Save writes the configuration as YAML to path, creating its directory.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// get returns the environment variable k, or def when it is empty.
func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
