package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/bogomolov-fly/portfolio/internal/config"
	"github.com/bogomolov-fly/portfolio/internal/foundation/errors"
	"github.com/bogomolov-fly/portfolio/internal/git"
	"github.com/bogomolov-fly/portfolio/internal/journal"
	"github.com/bogomolov-fly/portfolio/internal/logfields"
	"github.com/bogomolov-fly/portfolio/internal/metrics"
	"github.com/bogomolov-fly/portfolio/internal/relocate"
)

// Global carries state shared by every subcommand.
type Global struct {
	// Stdout receives the human-readable run reports. Defaults to os.Stdout.
	Stdout io.Writer
}

func (g *Global) stdout() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

// CLI definition & global flags.
type CLI struct {
	Config      string           `short:"c" help:"Configuration file path" default:"portfolio.yaml"`
	Verbose     bool             `short:"v" help:"Enable verbose logging"`
	MetricsFile string           `name:"metrics-file" help:"Write Prometheus metrics to this textfile after the run"`
	Version     kong.VersionFlag `name:"version" help:"Show version and exit"`

	OrganizeContent OrganizeContentCmd `cmd:"" name:"organize-content" help:"Move flat content documents into category directories"`
	OrganizeImages  OrganizeImagesCmd  `cmd:"" name:"organize-images" help:"Move referenced images into category directories"`
	FixPaths        FixPathsCmd        `cmd:"" name:"fix-paths" help:"Rewrite image references of categorized documents"`
	CleanupImages   CleanupImagesCmd   `cmd:"" name:"cleanup-images" help:"Remove leftover images at the images root"`
	Export          ExportCmd          `cmd:"" help:"Write the portfolio entries and category catalog as JSON"`
	History         HistoryCmd         `cmd:"" help:"List recent runs or the events of one run"`
	Init            InitCmd            `cmd:"" help:"Initialize a new configuration file"`

	cfg    *config.Config `kong:"-"`
	cfgErr error          `kong:"-"`
}

// AfterApply runs after flag parsing; loads the configuration and sets up
// logging once.
// nolint:unparam // configuration errors are reported by the command that needs it.
func (c *CLI) AfterApply() error {
	c.cfg, c.cfgErr = config.LoadOrDefault(c.Config)

	level := slog.LevelInfo
	format := config.LogFormatText
	if c.cfg != nil {
		level = c.cfg.Logging.Level.Slog()
		format = c.cfg.Logging.Format
	}
	if c.Verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

// LoadedConfig returns the configuration read by AfterApply.
func (c *CLI) LoadedConfig() (*config.Config, error) {
	if c.cfgErr != nil {
		return nil, c.cfgErr
	}
	if c.cfg == nil {
		return config.LoadOrDefault(c.Config)
	}
	return c.cfg, nil
}

// batchResult is the common surface of the relocate run results.
type batchResult interface {
	Summary() string
	Counters() map[string]string
	HasErrors() bool
}

// session holds the collaborators opened for one batch command.
type session struct {
	cfg         *config.Config
	fs          billy.Filesystem
	mover       relocate.Mover
	store       journal.Store
	recorder    metrics.Recorder
	prom        *metrics.PrometheusRecorder
	metricsFile string
	logger      *slog.Logger
}

func (c *CLI) openSession() (*session, error) {
	cfg, err := c.LoadedConfig()
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, logger: slog.Default(), store: journal.Noop{}, recorder: metrics.NoopRecorder{}}

	if cfg.Git.Enabled {
		mover, fs, err := git.Open(cfg.Paths.ProjectRoot, s.logger)
		if err != nil {
			return nil, err
		}
		s.fs, s.mover = fs, mover
	} else {
		s.fs = osfs.New(cfg.Paths.ProjectRoot, osfs.WithBoundOS())
		s.mover = relocate.FSMover{FS: s.fs}
	}

	if cfg.Journal.Path != "" {
		store, err := openJournal(cfg)
		if err != nil {
			return nil, err
		}
		s.store = store
	}

	s.metricsFile = c.MetricsFile
	if s.metricsFile == "" {
		s.metricsFile = cfg.Metrics.Textfile
	}
	if s.metricsFile != "" {
		s.prom = metrics.NewPrometheusRecorder(nil)
		s.recorder = s.prom
	}
	return s, nil
}

// journalPath resolves the configured journal path against the project root.
func journalPath(cfg *config.Config) string {
	p := cfg.Journal.Path
	if p == ":memory:" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(cfg.Paths.ProjectRoot, p)
}

func openJournal(cfg *config.Config) (*journal.SQLiteStore, error) {
	p := journalPath(cfg)
	if p != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
			return nil, errors.WrapError(err, errors.CategoryJournal, "failed to create journal directory").
				WithContext("path", p).
				Build()
		}
	}
	return journal.NewSQLiteStore(p)
}

func (s *session) close() {
	if err := s.store.Close(); err != nil {
		s.logger.Warn("Failed to close journal", logfields.Error(err))
	}
	if s.prom != nil {
		if err := s.prom.WriteTextfile(s.metricsFile); err != nil {
			s.logger.Warn("Failed to write metrics", logfields.Path(s.metricsFile), logfields.Error(err))
		}
	}
}

func (s *session) layout() relocate.Layout {
	return relocate.LayoutFromConfig(s.cfg)
}

// run executes one batch tool under a fresh journal run and prints its
// report. Item-level failures stay in the report; only setup failures are
// returned.
func (s *session) run(ctx context.Context, g *Global, command string, fn func(context.Context, relocate.Env) (batchResult, error)) error {
	start := time.Now()
	jr := journal.StartRun(ctx, s.store, command, s.logger)
	logger := s.logger.With(logfields.RunID(jr.ID()), logfields.Stage(command))
	env := relocate.Env{
		FS:       s.fs,
		Mover:    s.mover,
		Journal:  jr,
		Recorder: s.recorder,
		Logger:   logger,
	}

	logger.Info("Starting run")
	res, err := fn(ctx, env)
	elapsed := time.Since(start)
	s.recorder.ObserveRunDuration(command, elapsed)

	if err != nil {
		jr.Record(ctx, journal.Event{Type: journal.EventError, Message: err.Error()})
		jr.Finish(ctx, map[string]string{"status": "failed"})
		return err
	}

	jr.Finish(ctx, res.Counters())
	if _, werr := fmt.Fprint(g.stdout(), res.Summary()); werr != nil {
		logger.Warn("Failed to write report", logfields.Error(werr))
	}

	if res.HasErrors() {
		logger.Warn("Run completed with errors", logfields.DurationMS(float64(elapsed.Milliseconds())))
	} else {
		logger.Info("Run completed", logfields.DurationMS(float64(elapsed.Milliseconds())))
	}
	return nil
}
