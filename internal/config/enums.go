package config

import (
	"log/slog"

	"github.com/bogomolov-fly/portfolio/internal/foundation/normalization"
	"github.com/bogomolov-fly/portfolio/internal/frontmatter"
)

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevelNormalizer = normalization.NewNormalizer(map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
}, LogLevelInfo)

// Slog returns the slog level for l.
func (l LogLevel) Slog() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

var logFormatNormalizer = normalization.NewNormalizer(map[string]LogFormat{
	"json": LogFormatJSON,
	"text": LogFormatText,
}, LogFormatText)

// ParseMode selects how leniently metadata outside a `---` block is read.
type ParseMode string

const (
	ParseModeStrict     ParseMode = "strict"
	ParseModeStandard   ParseMode = "standard"
	ParseModePermissive ParseMode = "permissive"
)

var parseModeNormalizer = normalization.NewNormalizer(map[string]ParseMode{
	"strict":     ParseModeStrict,
	"standard":   ParseModeStandard,
	"permissive": ParseModePermissive,
	"lenient":    ParseModePermissive,
}, ParseModeStandard)

// Frontmatter returns the parser mode for m.
func (m ParseMode) Frontmatter() frontmatter.Mode {
	switch m {
	case ParseModeStrict:
		return frontmatter.ModeStrict
	case ParseModePermissive:
		return frontmatter.ModePermissive
	default:
		return frontmatter.ModeStandard
	}
}

// MissingCategoryPolicy decides what the loader does with documents that
// have no category.
type MissingCategoryPolicy string

const (
	// MissingCategoryDefault assigns Content.DefaultCategory.
	MissingCategoryDefault MissingCategoryPolicy = "default"
	// MissingCategorySkip leaves the document out of the load.
	MissingCategorySkip MissingCategoryPolicy = "skip"
)

var missingCategoryNormalizer = normalization.NewNormalizer(map[string]MissingCategoryPolicy{
	"default":       MissingCategoryDefault,
	"uncategorized": MissingCategoryDefault,
	"skip":          MissingCategorySkip,
}, MissingCategoryDefault)
