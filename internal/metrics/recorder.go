package metrics

import "time"

// ResultLabel enumerates per-item result categories for counters.
type ResultLabel string

const (
	ResultSuccess   ResultLabel = "success"
	ResultUnchanged ResultLabel = "unchanged"
	ResultSkipped   ResultLabel = "skipped"
	ResultWarning   ResultLabel = "warning"
	ResultFailed    ResultLabel = "failed"
)

// Recorder defines observability hooks for batch runs and portfolio loads.
type Recorder interface {
	ObserveRunDuration(command string, d time.Duration)
	IncDocumentResult(stage string, result ResultLabel)
	IncImageResult(stage string, result ResultLabel)
	SetCategoryImages(category string, n int)
	IncLoadFailure()
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRunDuration(string, time.Duration) {}
func (NoopRecorder) IncDocumentResult(string, ResultLabel)    {}
func (NoopRecorder) IncImageResult(string, ResultLabel)       {}
func (NoopRecorder) SetCategoryImages(string, int)            {}
func (NoopRecorder) IncLoadFailure()                          {}
