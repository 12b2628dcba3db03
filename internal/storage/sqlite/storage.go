package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/mcoot/cyberstore/internal/storage"
)

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

// Item is one row of the key/value table
type Item struct {
	Key       string `gorm:"column:item_key;primaryKey"`
	Value     []byte
	UpdatedAt time.Time
}

// TableName pins the table name
func (Item) TableName() string {
	return "kv_items"
}

// Storage is a SQLite-backed implementation of the storage interface
type Storage struct {
	db *gorm.DB
}

// New opens (and migrates) the SQLite database at path
func New(path string) (*Storage, error) {
	dsn := path
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
		dsn = path + "?_journal_mode=WAL&_synchronous=NORMAL"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Discard,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if path == MemoryPath {
		// every pooled connection would otherwise see its own empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&Item{}); err != nil {
		return nil, fmt.Errorf("migrate sqlite database: %w", err)
	}

	return &Storage{db: db}, nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) GetItem(ctx context.Context, key string) ([]byte, error) {
	var item Item
	err := s.db.WithContext(ctx).Where("item_key = ?", key).Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	if item.Value == nil {
		return []byte{}, nil
	}
	return item.Value, nil
}

func (s *Storage) SetItem(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	item := Item{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&item).Error
}

func (s *Storage) RemoveItem(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("item_key = ?", key).Delete(&Item{}).Error
}

// Close closes the underlying connection pool
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
