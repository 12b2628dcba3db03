// Package records persists typed record collections as whole JSON arrays
// under a single storage key.
package records

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/goccy/go-json"

	"github.com/mcoot/cyberstore/internal/dependencies/ids"
	"github.com/mcoot/cyberstore/internal/storage"
)

// Record is the pointer side of a storable record type
type Record[T any] interface {
	*T
	GetID() string
	SetID(id string)
}

// Patch is a typed partial update of a record
type Patch[T any] interface {
	Apply(record *T)
}

// Collection is the CRUD view of one stored collection.
// Every write rewrites the whole collection.
type Collection[T any, P Record[T]] struct {
	storage  storage.Storage
	key      string
	ids      ids.Generator
	notFound error
	logger   *slog.Logger

	// serializes read-modify-write cycles within this process
	mu sync.Mutex
}

// New creates a Collection stored under key.
// notFound is returned by GetByID when no record matches.
func New[T any, P Record[T]](store storage.Storage, key string, gen ids.Generator, notFound error, logger *slog.Logger) *Collection[T, P] {
	return &Collection[T, P]{
		storage:  store,
		key:      key,
		ids:      gen,
		notFound: notFound,
		logger:   logger,
	}
}

// Key returns the storage key backing the collection
func (c *Collection[T, P]) Key() string {
	return c.key
}

// Exists reports whether anything is stored under the collection key,
// parseable or not
func (c *Collection[T, P]) Exists(ctx context.Context) (bool, error) {
	_, err := c.storage.GetItem(ctx, c.key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetAll returns the stored collection in stored order.
// A missing key or a blob that fails to parse yields an empty collection.
func (c *Collection[T, P]) GetAll(ctx context.Context) ([]T, error) {
	return c.load(ctx)
}

// GetByID returns the first record with the given id
func (c *Collection[T, P]) GetByID(ctx context.Context, id string) (T, error) {
	var zero T

	items, err := c.load(ctx)
	if err != nil {
		return zero, err
	}
	for i := range items {
		if P(&items[i]).GetID() == id {
			return items[i], nil
		}
	}
	return zero, c.notFound
}

// Add assigns a fresh id to record and stores it in front of all existing records
func (c *Collection[T, P]) Add(ctx context.Context, record T) (T, error) {
	return c.insert(ctx, record, true, nil)
}

// Append assigns a fresh id to record and stores it after all existing records
func (c *Collection[T, P]) Append(ctx context.Context, record T) (T, error) {
	return c.insert(ctx, record, false, nil)
}

// AppendUnless is Append guarded by reject, which sees the current collection
// under the collection lock. A non-nil error from reject is returned and
// nothing is written.
func (c *Collection[T, P]) AppendUnless(ctx context.Context, record T, reject func(items []T) error) (T, error) {
	return c.insert(ctx, record, false, reject)
}

func (c *Collection[T, P]) insert(ctx context.Context, record T, front bool, reject func(items []T) error) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	items, err := c.load(ctx)
	if err != nil {
		return zero, err
	}

	if reject != nil {
		if err := reject(items); err != nil {
			return zero, err
		}
	}

	P(&record).SetID(c.ids.NewID())

	if front {
		items = append([]T{record}, items...)
	} else {
		items = append(items, record)
	}

	if err := c.save(ctx, items); err != nil {
		return zero, err
	}
	return record, nil
}

// Update applies patch to the first record with the given id.
// An unknown id leaves the collection untouched and reports false.
func (c *Collection[T, P]) Update(ctx context.Context, id string, patch Patch[T]) (T, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	items, err := c.load(ctx)
	if err != nil {
		return zero, false, err
	}

	for i := range items {
		rec := P(&items[i])
		if rec.GetID() != id {
			continue
		}
		patch.Apply(&items[i])
		rec.SetID(id)

		if err := c.save(ctx, items); err != nil {
			return zero, false, err
		}
		return items[i], true, nil
	}
	return zero, false, nil
}

// Delete removes every record with the given id and stores the remainder.
// Deleting an unknown id rewrites the unchanged collection.
func (c *Collection[T, P]) Delete(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return false, err
	}

	kept := make([]T, 0, len(items))
	for i := range items {
		if P(&items[i]).GetID() != id {
			kept = append(kept, items[i])
		}
	}

	if err := c.save(ctx, kept); err != nil {
		return false, err
	}
	return len(kept) != len(items), nil
}

// Replace overwrites the whole collection
func (c *Collection[T, P]) Replace(ctx context.Context, items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if items == nil {
		items = []T{}
	}
	return c.save(ctx, items)
}

// Mutate loads the collection, lets fn edit it in place and stores the result,
// all under the collection lock
func (c *Collection[T, P]) Mutate(ctx context.Context, fn func(items []T) []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return err
	}
	items = fn(items)
	if items == nil {
		items = []T{}
	}
	return c.save(ctx, items)
}

func (c *Collection[T, P]) load(ctx context.Context) ([]T, error) {
	data, err := c.storage.GetItem(ctx, c.key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.key, err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		c.logger.Warn("discarding unreadable collection",
			slog.String("key", c.key),
			slog.String("error", err.Error()),
		)
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (c *Collection[T, P]) save(ctx context.Context, items []T) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	if err := c.storage.SetItem(ctx, c.key, data); err != nil {
		return fmt.Errorf("write %s: %w", c.key, err)
	}
	return nil
}
