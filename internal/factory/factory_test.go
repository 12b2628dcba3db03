package factory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/cyberstore/internal/config"
	badgerstorage "github.com/mcoot/cyberstore/internal/storage/badger"
	redisstorage "github.com/mcoot/cyberstore/internal/storage/redis"
	sqlitestorage "github.com/mcoot/cyberstore/internal/storage/sqlite"
	"github.com/mcoot/cyberstore/internal/testutil"
)

func initializeAndCount(t *testing.T, app *App) int {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, app.AuthService.Initialize(ctx))
	games, err := app.CatalogService.GetAll(ctx)
	require.NoError(t, err)
	return len(games)
}

func TestNewDefaultsToMemory(t *testing.T) {
	app, err := New(Config{})
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, 6, initializeAndCount(t, app))
}

func TestNewRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	redisCfg := redisstorage.DefaultConfig()
	redisCfg.URL = "redis://" + mr.Addr()

	app, err := New(Config{StorageType: StorageTypeRedis, RedisConfig: &redisCfg, Logger: testutil.NopLogger()})
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, 6, initializeAndCount(t, app))
	assert.True(t, mr.Exists("cyberstore:item:cyberstore_games"))
}

func TestNewRedisRequiresConfig(t *testing.T) {
	_, err := New(Config{StorageType: StorageTypeRedis})
	assert.ErrorContains(t, err, "RedisConfig required")
}

func TestNewBadger(t *testing.T) {
	badgerCfg := badgerstorage.InMemoryConfig()

	app, err := New(Config{StorageType: StorageTypeBadger, BadgerConfig: &badgerCfg, IDScheme: "uuid"})
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, 6, initializeAndCount(t, app))
}

func TestNewSQLite(t *testing.T) {
	app, err := New(Config{StorageType: StorageTypeSQLite, SQLitePath: sqlitestorage.MemoryPath})
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, 6, initializeAndCount(t, app))
}

func TestNewSQLiteFileSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")

	app, err := New(Config{StorageType: StorageTypeSQLite, SQLitePath: path})
	require.NoError(t, err)
	require.Equal(t, 6, initializeAndCount(t, app))
	require.NoError(t, app.CatalogService.Delete(context.Background(), "1"))
	require.NoError(t, app.Close())

	reopened, err := New(Config{StorageType: StorageTypeSQLite, SQLitePath: path})
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, 5, initializeAndCount(t, reopened))
}

func TestNewInvalidStorageType(t *testing.T) {
	_, err := New(Config{StorageType: "postgres"})
	assert.ErrorContains(t, err, "invalid StorageType")
}

func TestNewInvalidIDScheme(t *testing.T) {
	_, err := New(Config{IDScheme: "snowflake"})
	assert.ErrorContains(t, err, "invalid IDScheme")
}

func TestConfigFrom(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Type = config.StorageRedis
	cfg.Storage.Redis.URL = "redis://example:6379"
	cfg.Storage.Redis.Prefix = "shop"

	out := ConfigFrom(cfg, nil)
	require.NotNil(t, out.RedisConfig)
	assert.Equal(t, "redis://example:6379", out.RedisConfig.URL)
	assert.Equal(t, "shop", out.RedisConfig.KeyPrefix)
	assert.Nil(t, out.BadgerConfig)

	cfg.Storage.Type = config.StorageBadger
	out = ConfigFrom(cfg, nil)
	require.NotNil(t, out.BadgerConfig)
	assert.Equal(t, "data/badger", out.BadgerConfig.Path)
}
