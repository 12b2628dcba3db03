package mocks

import (
	"strconv"
	"sync"

	"github.com/mcoot/cyberstore/internal/dependencies/ids"
)

// MockIDs is a mock implementation of ids.Generator for testing
type MockIDs struct {
	mu sync.Mutex

	// Queue is returned in order; once drained, sequential numbers are issued
	Queue []string
	index int
	next  int
}

// Ensure MockIDs implements Generator
var _ ids.Generator = (*MockIDs)(nil)

// NewMockIDs creates a MockIDs issuing "100", "101", ... by default
func NewMockIDs() *MockIDs {
	return &MockIDs{next: 100}
}

// NewID returns the next queued id, or the next sequential number
func (m *MockIDs) NewID() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.index < len(m.Queue) {
		id := m.Queue[m.index]
		m.index++
		return id
	}
	id := strconv.Itoa(m.next)
	m.next++
	return id
}

// QueueIDs adds ids to the queue
func (m *MockIDs) QueueIDs(values ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Queue = append(m.Queue, values...)
}
