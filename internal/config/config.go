// Package config loads server configuration from defaults, an optional YAML
// file and the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables read by Load
const (
	EnvConfigPath  = "CYBERSTORE_CONFIG"
	EnvStorageType = "STORAGE_TYPE"
	EnvRedisURL    = "REDIS_URL"
	EnvRedisPrefix = "REDIS_PREFIX"
	EnvBadgerPath  = "BADGER_PATH"
	EnvSQLitePath  = "SQLITE_PATH"
	EnvIDScheme    = "ID_SCHEME"
	EnvHTTPPort    = "HTTP_PORT"
	EnvLogLevel    = "LOG_LEVEL"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageBadger = "badger"
	StorageSQLite = "sqlite"
)

// Config is the complete server configuration
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Log     LogConfig     `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
	IDs     IDConfig      `yaml:"ids"`
}

// HTTPConfig configures the listener
type HTTPConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LogConfig configures the structured logger
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level"`
	// Format is json or text
	Format string `yaml:"format"`
}

// StorageConfig selects and configures the key/value backend
type StorageConfig struct {
	Type   string       `yaml:"type"`
	Redis  RedisConfig  `yaml:"redis"`
	Badger BadgerConfig `yaml:"badger"`
	SQLite SQLiteConfig `yaml:"sqlite"`
}

// RedisConfig configures the redis backend
type RedisConfig struct {
	URL      string `yaml:"url"`
	Prefix   string `yaml:"prefix"`
	PoolSize int    `yaml:"pool_size"`
}

// BadgerConfig configures the badger backend
type BadgerConfig struct {
	Path       string        `yaml:"path"`
	InMemory   bool          `yaml:"in_memory"`
	GCInterval time.Duration `yaml:"gc_interval"`
}

// SQLiteConfig configures the sqlite backend
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// IDConfig selects how record ids are generated
type IDConfig struct {
	// Scheme is timestamp or uuid
	Scheme string `yaml:"scheme"`
}

// Default returns the configuration used when nothing is overridden
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Storage: StorageConfig{
			Type: StorageMemory,
			Redis: RedisConfig{
				Prefix:   "cyberstore",
				PoolSize: 10,
			},
			Badger: BadgerConfig{
				Path:       "data/badger",
				GCInterval: 10 * time.Minute,
			},
			SQLite: SQLiteConfig{
				Path: "data/cyberstore.db",
			},
		},
		IDs: IDConfig{
			Scheme: "timestamp",
		},
	}
}

// Load builds the configuration from the process environment.
// The YAML file named by CYBERSTORE_CONFIG is read first when set.
func Load() (Config, error) {
	return LoadWith(os.Getenv(EnvConfigPath), os.Getenv)
}

// LoadWith builds the configuration from an optional YAML file and the given
// environment lookup
func LoadWith(path string, getenv func(string) string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}

	set(&c.Storage.Type, EnvStorageType)
	set(&c.Storage.Redis.URL, EnvRedisURL)
	set(&c.Storage.Redis.Prefix, EnvRedisPrefix)
	set(&c.Storage.Badger.Path, EnvBadgerPath)
	set(&c.Storage.SQLite.Path, EnvSQLitePath)
	set(&c.IDs.Scheme, EnvIDScheme)
	set(&c.Log.Level, EnvLogLevel)

	if v := strings.TrimSpace(getenv(EnvHTTPPort)); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %q is not a number", EnvHTTPPort, v)
		}
		c.HTTP.Port = port
	}

	c.Storage.Type = strings.ToLower(c.Storage.Type)
	c.IDs.Scheme = strings.ToLower(c.IDs.Scheme)
	c.Log.Level = strings.ToLower(c.Log.Level)
	return nil
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var errs []error

	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("http.port must be between 0 and 65535, got %d", c.HTTP.Port))
	}

	switch c.Storage.Type {
	case StorageMemory:
	case StorageRedis:
		if c.Storage.Redis.URL == "" {
			errs = append(errs, errors.New("storage.redis.url is required when storage type is redis"))
		}
	case StorageBadger:
		if c.Storage.Badger.Path == "" && !c.Storage.Badger.InMemory {
			errs = append(errs, errors.New("storage.badger.path is required when storage type is badger"))
		}
	case StorageSQLite:
		if c.Storage.SQLite.Path == "" {
			errs = append(errs, errors.New("storage.sqlite.path is required when storage type is sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.type must be memory, redis, badger or sqlite, got %q", c.Storage.Type))
	}

	switch c.IDs.Scheme {
	case "timestamp", "uuid":
	default:
		errs = append(errs, fmt.Errorf("ids.scheme must be timestamp or uuid, got %q", c.IDs.Scheme))
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or text, got %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// SlogLevel converts the configured level name
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level must be debug, info, warn or error, got %q", l.Level)
	}
	return level, nil
}
