package sheets

import (
	"context"
	"sync"

	"github.com/Veraticus/agency-pulse/internal/model"
)

// MockWriter is a mock implementation of ComparisonWriter for testing.
type MockWriter struct {
	WriteFunc      func(ctx context.Context, comparisons []model.ComparisonData, totals model.AgencyTotals) (string, error)
	WriteCalls     []WriteCall
	WriteCallCount int
	mu             sync.Mutex
}

// WriteCall represents a single call to WriteComparison.
type WriteCall struct {
	Error       error
	Comparisons []model.ComparisonData
	Totals      model.AgencyTotals
}

var _ ComparisonWriter = (*MockWriter)(nil)

// NewMockWriter creates a new mock writer.
func NewMockWriter() *MockWriter {
	return &MockWriter{
		WriteCalls: make([]WriteCall, 0),
	}
}

// WriteComparison records the call and returns "mock-sheet" unless WriteFunc
// says otherwise.
func (m *MockWriter) WriteComparison(ctx context.Context, comparisons []model.ComparisonData, totals model.AgencyTotals) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteCallCount++

	id, err := "mock-sheet", error(nil)
	if m.WriteFunc != nil {
		id, err = m.WriteFunc(ctx, comparisons, totals)
	}

	m.WriteCalls = append(m.WriteCalls, WriteCall{
		Comparisons: comparisons,
		Totals:      totals,
		Error:       err,
	})
	return id, err
}

// Reset clears all recorded calls.
func (m *MockWriter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteCalls = make([]WriteCall, 0)
	m.WriteCallCount = 0
}
