package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/bogomolov-fly/portfolio/internal/foundation/errors"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens (and creates if needed) a journal database.
// Use ":memory:" for an in-memory journal.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryJournal, "could not open journal database").
			WithContext("path", dbPath).
			Build()
	}
	// An in-memory database exists per connection.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, errors.WrapError(err, errors.CategoryJournal, "failed to initialize journal schema").
			WithContext("path", dbPath).
			Build()
	}

	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		command TEXT NOT NULL,
		event_type TEXT NOT NULL,
		path TEXT NOT NULL DEFAULT '',
		target TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		message TEXT NOT NULL DEFAULT '',
		metadata TEXT,
		timestamp INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_events_run_id ON events(run_id);
	CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append adds a new event to the journal.
func (s *SQLiteStore) Append(ctx context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var metadataJSON []byte
	if len(e.Metadata) > 0 {
		var err error
		metadataJSON, err = json.Marshal(e.Metadata)
		if err != nil {
			return errors.WrapError(err, errors.CategoryJournal, "failed to marshal event metadata").Build()
		}
	}

	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (run_id, command, event_type, path, target, category, message, metadata, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, e.Command, string(e.Type), e.Path, e.Target, e.Category, e.Message, metadataJSON, ts.UnixMilli(),
	)
	if err != nil {
		return errors.WrapError(err, errors.CategoryJournal, "failed to append event").
			WithContext("run_id", e.RunID).
			Build()
	}
	return nil
}

// GetByRunID retrieves all events of a run.
func (s *SQLiteStore) GetByRunID(ctx context.Context, runID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, command, event_type, path, target, category, message, metadata, timestamp
		 FROM events WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryJournal, "failed to query events").Build()
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e            Event
			eventType    string
			metadataJSON []byte
			tsMillis     int64
		)
		if err := rows.Scan(&e.ID, &e.RunID, &e.Command, &eventType, &e.Path, &e.Target, &e.Category, &e.Message, &metadataJSON, &tsMillis); err != nil {
			return nil, errors.WrapError(err, errors.CategoryJournal, "failed to scan event").Build()
		}
		e.Type = EventType(eventType)
		e.Timestamp = time.UnixMilli(tsMillis)
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &e.Metadata); err != nil {
				return nil, errors.WrapError(err, errors.CategoryJournal, "failed to unmarshal event metadata").Build()
			}
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapError(err, errors.CategoryJournal, "failed to iterate events").Build()
	}
	return events, nil
}

// ListRuns summarizes the most recent runs.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, command, MIN(timestamp), MAX(timestamp), COUNT(*),
		        SUM(CASE WHEN event_type = ? THEN 1 ELSE 0 END),
		        SUM(CASE WHEN event_type = ? THEN 1 ELSE 0 END)
		 FROM events GROUP BY run_id, command ORDER BY MIN(id) DESC LIMIT ?`,
		string(EventError), string(EventRunFinished), limit,
	)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryJournal, "failed to query runs").Build()
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var (
			r               RunSummary
			startMs, lastMs int64
			finished        int
		)
		if err := rows.Scan(&r.RunID, &r.Command, &startMs, &lastMs, &r.Events, &r.Errors, &finished); err != nil {
			return nil, errors.WrapError(err, errors.CategoryJournal, "failed to scan run").Build()
		}
		r.StartedAt = time.UnixMilli(startMs)
		if finished > 0 {
			r.FinishedAt = time.UnixMilli(lastMs)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapError(err, errors.CategoryJournal, "failed to iterate runs").Build()
	}
	return runs, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
