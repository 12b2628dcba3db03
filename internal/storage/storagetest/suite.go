// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/cyberstore/internal/storage"
)

// ContractSuite runs the storage contract against the backend returned by NewStorage.
// Backend suites embed it and set NewStorage in their SetupTest.
type ContractSuite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
}

func (s *ContractSuite) TestGetMissingKey() {
	_, err := s.Storage.GetItem(s.Ctx, "missing")
	s.ErrorIs(err, storage.ErrKeyNotFound)
}

func (s *ContractSuite) TestSetAndGet() {
	err := s.Storage.SetItem(s.Ctx, storage.GamesKey, []byte(`[{"id":"1"}]`))
	s.Require().NoError(err)

	value, err := s.Storage.GetItem(s.Ctx, storage.GamesKey)
	s.Require().NoError(err)
	s.Equal(`[{"id":"1"}]`, string(value))
}

func (s *ContractSuite) TestSetOverwrites() {
	_ = s.Storage.SetItem(s.Ctx, storage.UsersKey, []byte("first"))
	_ = s.Storage.SetItem(s.Ctx, storage.UsersKey, []byte("second"))

	value, err := s.Storage.GetItem(s.Ctx, storage.UsersKey)
	s.Require().NoError(err)
	s.Equal("second", string(value))
}

func (s *ContractSuite) TestKeysAreIndependent() {
	_ = s.Storage.SetItem(s.Ctx, storage.UsersKey, []byte("users"))
	_ = s.Storage.SetItem(s.Ctx, storage.GamesKey, []byte("games"))

	users, err := s.Storage.GetItem(s.Ctx, storage.UsersKey)
	s.Require().NoError(err)
	games, err := s.Storage.GetItem(s.Ctx, storage.GamesKey)
	s.Require().NoError(err)

	s.Equal("users", string(users))
	s.Equal("games", string(games))
}

func (s *ContractSuite) TestEmptyValueIsStored() {
	err := s.Storage.SetItem(s.Ctx, storage.SessionKey, []byte{})
	s.Require().NoError(err)

	value, err := s.Storage.GetItem(s.Ctx, storage.SessionKey)
	s.Require().NoError(err)
	s.Empty(value)
}

func (s *ContractSuite) TestRemoveItem() {
	_ = s.Storage.SetItem(s.Ctx, storage.SessionKey, []byte(`{"id":"1"}`))

	err := s.Storage.RemoveItem(s.Ctx, storage.SessionKey)
	s.Require().NoError(err)

	_, err = s.Storage.GetItem(s.Ctx, storage.SessionKey)
	s.ErrorIs(err, storage.ErrKeyNotFound)
}

func (s *ContractSuite) TestRemoveMissingKeyIsNoop() {
	err := s.Storage.RemoveItem(s.Ctx, "missing")
	s.NoError(err)
}

func (s *ContractSuite) TestReturnedValueIsNotAliased() {
	_ = s.Storage.SetItem(s.Ctx, storage.GamesKey, []byte("abc"))

	value, err := s.Storage.GetItem(s.Ctx, storage.GamesKey)
	s.Require().NoError(err)
	value[0] = 'z'

	again, err := s.Storage.GetItem(s.Ctx, storage.GamesKey)
	s.Require().NoError(err)
	s.Equal("abc", string(again))
}
