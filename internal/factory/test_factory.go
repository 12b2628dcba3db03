package factory

import (
	"time"

	"github.com/mcoot/cyberstore/internal/dependencies/mocks"
	"github.com/mcoot/cyberstore/internal/storage/memory"
	"github.com/mcoot/cyberstore/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	MockIDs   *mocks.MockIDs
	Memory    *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockIDs := mocks.NewMockIDs()

	app := newWithDependencies(store, mockClock, mockIDs, testutil.NopLogger())

	return &TestApp{
		App:       app,
		MockClock: mockClock,
		MockIDs:   mockIDs,
		Memory:    store,
	}
}
