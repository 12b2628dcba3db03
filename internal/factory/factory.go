package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/cyberstore/internal/config"
	"github.com/mcoot/cyberstore/internal/dependencies/clock"
	"github.com/mcoot/cyberstore/internal/dependencies/ids"
	"github.com/mcoot/cyberstore/internal/services/auth"
	"github.com/mcoot/cyberstore/internal/services/catalog"
	"github.com/mcoot/cyberstore/internal/services/export"
	"github.com/mcoot/cyberstore/internal/storage"
	badgerstorage "github.com/mcoot/cyberstore/internal/storage/badger"
	"github.com/mcoot/cyberstore/internal/storage/memory"
	redisstorage "github.com/mcoot/cyberstore/internal/storage/redis"
	sqlitestorage "github.com/mcoot/cyberstore/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeMemory = config.StorageMemory
	StorageTypeRedis  = config.StorageRedis
	StorageTypeBadger = config.StorageBadger
	StorageTypeSQLite = config.StorageSQLite
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock
	IDs   ids.Generator

	// Services
	CatalogService *catalog.Service
	AuthService    *auth.Service
	Exporter       *export.Exporter
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// BadgerConfig holds Badger settings (required if StorageType is "badger")
	BadgerConfig *badgerstorage.Config
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
	// IDScheme selects the record id generator ("timestamp" or "uuid")
	// If empty, defaults to "timestamp"
	IDScheme string
}

// ConfigFrom maps the loaded server configuration onto factory settings
func ConfigFrom(cfg config.Config, logger *slog.Logger) Config {
	out := Config{
		Logger:      logger,
		StorageType: cfg.Storage.Type,
		SQLitePath:  cfg.Storage.SQLite.Path,
		IDScheme:    cfg.IDs.Scheme,
	}

	switch cfg.Storage.Type {
	case StorageTypeRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.Storage.Redis.URL
		redisCfg.KeyPrefix = cfg.Storage.Redis.Prefix
		if cfg.Storage.Redis.PoolSize > 0 {
			redisCfg.PoolSize = cfg.Storage.Redis.PoolSize
		}
		out.RedisConfig = &redisCfg
	case StorageTypeBadger:
		badgerCfg := badgerstorage.DefaultConfig()
		badgerCfg.Path = cfg.Storage.Badger.Path
		badgerCfg.InMemory = cfg.Storage.Badger.InMemory
		if cfg.Storage.Badger.GCInterval > 0 {
			badgerCfg.GCInterval = cfg.Storage.Badger.GCInterval
		}
		out.BadgerConfig = &badgerCfg
	}
	return out
}

// New creates a new application with all dependencies wired.
// The caller owns the returned App and must Close it.
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := newStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	// Create external dependencies
	clk := clock.New()
	gen, err := newIDs(cfg.IDScheme, clk)
	if err != nil {
		_ = closeStorage(store)
		return nil, err
	}

	return newWithDependencies(store, clk, gen, logger), nil
}

func newStorage(cfg Config, logger *slog.Logger) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	case StorageTypeBadger:
		if cfg.BadgerConfig == nil {
			return nil, errors.New("BadgerConfig required when StorageType is badger")
		}
		return badgerstorage.New(*cfg.BadgerConfig, logger)
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		return sqlitestorage.New(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be memory, redis, badger or sqlite", storageType)
	}
}

func newIDs(scheme string, clk clock.Clock) (ids.Generator, error) {
	switch scheme {
	case "", ids.SchemeTimestamp:
		return ids.NewTimestamp(clk), nil
	case ids.SchemeUUID:
		return ids.NewUUID(), nil
	default:
		return nil, fmt.Errorf("invalid IDScheme %q: must be timestamp or uuid", scheme)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, gen ids.Generator, logger *slog.Logger) *App {
	catalogService := catalog.New(store, gen, clk, logger)
	authService := auth.New(store, gen, catalogService, logger)
	exporter := export.New(clk)

	return &App{
		Storage:        store,
		Clock:          clk,
		IDs:            gen,
		CatalogService: catalogService,
		AuthService:    authService,
		Exporter:       exporter,
	}
}

// Close releases the storage backend
func (a *App) Close() error {
	return closeStorage(a.Storage)
}

func closeStorage(store storage.Storage) error {
	if c, ok := store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

