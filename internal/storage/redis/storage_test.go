package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/cyberstore/internal/storage"
	"github.com/mcoot/cyberstore/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.ContractSuite
	mini  *miniredis.Miniredis
	redis *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.redis = NewWithClient(client, DefaultConfig())
	s.Storage = s.redis
	s.Ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) TestItemsArePrefixed() {
	_ = s.redis.SetItem(s.Ctx, storage.GamesKey, []byte("[]"))

	s.True(s.mini.Exists("cyberstore:item:cyberstore_games"))
	s.False(s.mini.Exists(storage.GamesKey))
}

func (s *StorageSuite) TestEmptyPrefixUsesBareKey() {
	client := redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
	cfg := DefaultConfig()
	cfg.KeyPrefix = ""
	bare := NewWithClient(client, cfg)
	defer func() { _ = bare.Close() }()

	_ = bare.SetItem(s.Ctx, storage.UsersKey, []byte("[]"))

	s.True(s.mini.Exists(storage.UsersKey))
}

func (s *StorageSuite) TestItemsHaveNoTTL() {
	_ = s.redis.SetItem(s.Ctx, storage.SessionKey, []byte("{}"))

	ttl := s.mini.TTL(itemKey(DefaultConfig().KeyPrefix, storage.SessionKey))
	s.Equal(time.Duration(0), ttl, "Items should not expire")
}

func (s *StorageSuite) TestGetItemSurfacesConnectionErrors() {
	s.mini.Close()

	_, err := s.redis.GetItem(s.Ctx, storage.GamesKey)
	s.Error(err)
	s.NotErrorIs(err, storage.ErrKeyNotFound)
}

func (s *StorageSuite) TestNewRejectsBadURL() {
	cfg := DefaultConfig()
	cfg.URL = "not a url"

	_, err := New(cfg)
	s.Error(err)
}

func (s *StorageSuite) TestNewConnects() {
	cfg := DefaultConfig()
	cfg.URL = "redis://" + s.mini.Addr()

	store, err := New(cfg)
	s.Require().NoError(err)
	defer func() { _ = store.Close() }()

	s.Require().NoError(store.SetItem(s.Ctx, storage.UsersKey, []byte("[]")))
	value, err := store.GetItem(s.Ctx, storage.UsersKey)
	s.Require().NoError(err)
	s.Equal("[]", string(value))
}
