package journal

import "context"

// Store persists journal events.
type Store interface {
	// Append adds an event. Timestamp is filled in when zero.
	Append(ctx context.Context, e Event) error

	// GetByRunID returns the events of one run in the order they were appended.
	GetByRunID(ctx context.Context, runID string) ([]Event, error)

	// ListRuns returns the most recent runs first, at most limit of them.
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)

	// Close releases the underlying resources.
	Close() error
}

// Noop is a Store that records nothing.
type Noop struct{}

func (Noop) Append(context.Context, Event) error { return nil }
func (Noop) GetByRunID(context.Context, string) ([]Event, error) { return nil, nil }
func (Noop) ListRuns(context.Context, int) ([]RunSummary, error) { return nil, nil }
func (Noop) Close() error { return nil }
