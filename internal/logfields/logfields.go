package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyTarget     = "target"
	KeyCategory   = "category"
	KeyImage      = "image"
	KeyCount      = "count"
	KeyMode       = "mode"
	KeyDryRun     = "dry_run"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr        { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func File(name string) slog.Attr       { return slog.String(KeyFile, name) }
func Target(p string) slog.Attr        { return slog.String(KeyTarget, p) }
func Category(c string) slog.Attr      { return slog.String(KeyCategory, c) }
func Image(ref string) slog.Attr       { return slog.String(KeyImage, ref) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Mode(m string) slog.Attr          { return slog.String(KeyMode, m) }
func DryRun(enabled bool) slog.Attr    { return slog.Bool(KeyDryRun, enabled) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
