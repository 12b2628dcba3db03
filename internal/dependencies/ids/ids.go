package ids

import (
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/mcoot/cyberstore/internal/dependencies/clock"
)

// Scheme names accepted in configuration
const (
	SchemeTimestamp = "timestamp"
	SchemeUUID      = "uuid"
)

// Generator produces record identifiers that can be mocked for testing
type Generator interface {
	NewID() string
}

// TimestampGenerator issues stringified Unix milliseconds.
// Readings that do not move past the last issued value are bumped by one,
// so two records created within the same millisecond still get distinct ids.
type TimestampGenerator struct {
	clock clock.Clock

	mu   sync.Mutex
	last int64
}

// NewTimestamp creates a TimestampGenerator reading from clk
func NewTimestamp(clk clock.Clock) *TimestampGenerator {
	return &TimestampGenerator{clock: clk}
}

// NewID returns the next millisecond id
func (g *TimestampGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	next := g.clock.Now().UnixMilli()
	if next <= g.last {
		next = g.last + 1
	}
	g.last = next
	return strconv.FormatInt(next, 10)
}

// UUIDGenerator issues random v4 UUIDs
type UUIDGenerator struct{}

// NewUUID creates a UUIDGenerator
func NewUUID() *UUIDGenerator {
	return &UUIDGenerator{}
}

// NewID returns a new random UUID string
func (g *UUIDGenerator) NewID() string {
	return uuid.NewString()
}
