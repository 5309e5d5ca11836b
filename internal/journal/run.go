package journal

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bogomolov-fly/portfolio/internal/logfields"
)

// Run records the events of one batch command under a fresh run id.
//
// Journal failures never abort a batch: they are logged and the run goes on.
type Run struct {
	store   Store
	id      string
	command string
	logger  *slog.Logger
}

// StartRun allocates a run id and records the run start.
func StartRun(ctx context.Context, store Store, command string, logger *slog.Logger) *Run {
	if store == nil {
		store = Noop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	r := &Run{store: store, id: uuid.NewString(), command: command, logger: logger}
	r.Record(ctx, Event{Type: EventRunStarted})
	return r
}

// ID returns the run id.
func (r *Run) ID() string { return r.id }

// Record appends e to the journal under this run.
func (r *Run) Record(ctx context.Context, e Event) {
	e.RunID = r.id
	e.Command = r.command
	if err := r.store.Append(ctx, e); err != nil {
		r.logger.Warn("Failed to record journal event",
			logfields.RunID(r.id),
			slog.String("event", string(e.Type)),
			logfields.Error(err))
	}
}

// Finish records the end of the run with summary counters as metadata.
func (r *Run) Finish(ctx context.Context, summary map[string]string) {
	r.Record(ctx, Event{Type: EventRunFinished, Metadata: summary})
}
