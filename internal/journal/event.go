// Package journal keeps an append-only record of what each batch run did to
// the content and image trees.
package journal

import "time"

// EventType names a single decision taken during a run.
type EventType string

const (
	EventRunStarted       EventType = "run_started"
	EventRunFinished      EventType = "run_finished"
	EventRelocated        EventType = "relocated"
	EventAlreadyRelocated EventType = "already_relocated"
	EventSkipped          EventType = "skipped"
	EventCollision        EventType = "collision"
	EventDeleted          EventType = "deleted"
	EventMoved            EventType = "moved"
	EventAmbiguous        EventType = "ambiguous"
	EventReassigned       EventType = "reassigned"
	EventMissingAsset     EventType = "missing_asset"
	EventUpdated          EventType = "updated"
	EventRemoved          EventType = "removed"
	EventError            EventType = "error"
)

// Event is one journal entry.
type Event struct {
	ID        int64
	RunID     string
	Command   string
	Type      EventType
	Path      string
	Target    string
	Category  string
	Message   string
	Metadata  map[string]string
	Timestamp time.Time
}

// RunSummary aggregates the events of one run.
type RunSummary struct {
	RunID      string
	Command    string
	StartedAt  time.Time
	FinishedAt time.Time
	Events     int
	Errors     int
}
