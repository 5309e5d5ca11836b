package commands

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bogomolov-fly/portfolio/internal/config"
	"github.com/bogomolov-fly/portfolio/internal/foundation/errors"
	"github.com/bogomolov-fly/portfolio/internal/logfields"
	"github.com/bogomolov-fly/portfolio/internal/metrics"
	"github.com/bogomolov-fly/portfolio/internal/portfolio"
)

// ExportCmd implements the 'export' command.
type ExportCmd struct {
	Output   string        `short:"o" help:"Output file ('-' for stdout)" default:"-"`
	Category string        `help:"Only export entries of this category ('all' for every category)" default:"all"`
	Watch    bool          `short:"w" help:"Re-export whenever the content tree changes"`
	Debounce time.Duration `help:"Quiet period before a re-export in watch mode" default:"500ms"`
}

// exportDocument is the JSON shape consumed by the presentation layer.
type exportDocument struct {
	GeneratedAt time.Time                `json:"generatedAt"`
	Categories  []portfolio.CatalogEntry `json:"categories"`
	Entries     []portfolio.Entry        `json:"entries"`
}

func (e *ExportCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	cfg, err := root.LoadedConfig()
	if err != nil {
		return err
	}

	metricsFile := root.MetricsFile
	if metricsFile == "" {
		metricsFile = cfg.Metrics.Textfile
	}
	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var prom *metrics.PrometheusRecorder
	if metricsFile != "" {
		prom = metrics.NewPrometheusRecorder(nil)
		recorder = prom
	}

	ex := &exporter{
		cfg:      cfg,
		category: e.Category,
		output:   e.Output,
		stdout:   g.stdout(),
		recorder: recorder,
		logger:   slog.Default(),
	}

	err = ex.export()
	if err == nil && e.Watch {
		err = e.watch(ctx, ex)
	}

	if prom != nil {
		if werr := prom.WriteTextfile(metricsFile); werr != nil {
			ex.logger.Warn("Failed to write metrics", logfields.Path(metricsFile), logfields.Error(werr))
		}
	}
	return err
}

func (e *ExportCmd) watch(ctx context.Context, ex *exporter) error {
	dir := ex.contentDir()
	if e.Output != "-" && within(dir, e.Output) {
		return errors.ValidationError("watch output must be outside the content root").
			WithContext("output", e.Output).
			WithContext("content_root", dir).
			Build()
	}

	w, err := portfolio.NewWatcher(dir, e.Debounce, func(context.Context) {
		if err := ex.export(); err != nil {
			ex.logger.Error("Re-export failed", logfields.Error(err))
		}
	}, ex.logger)
	if err != nil {
		return err
	}
	ex.logger.Info("Watching content for changes", logfields.Path(dir))
	return w.Run(ctx)
}

// exporter loads the portfolio and writes it as JSON.
type exporter struct {
	cfg      *config.Config
	category string
	output   string
	stdout   io.Writer
	recorder metrics.Recorder
	logger   *slog.Logger
}

func (x *exporter) contentDir() string {
	return filepath.Join(x.cfg.Paths.ProjectRoot, filepath.FromSlash(x.cfg.Paths.ContentRoot))
}

func (x *exporter) loader() *portfolio.Loader {
	c := x.cfg.Content
	return portfolio.NewLoader(os.DirFS(x.cfg.Paths.ProjectRoot), x.cfg.Paths.ContentRoot,
		portfolio.WithExtension(c.Extension),
		portfolio.WithMode(c.ParseMode.Frontmatter()),
		portfolio.WithSkipMissingCategory(c.MissingCategory == config.MissingCategorySkip),
		portfolio.WithDefaultCategory(c.DefaultCategory),
		portfolio.WithNormalizeImages(c.NormalizeImages),
		portfolio.WithExcerptLength(c.ExcerptLength),
		portfolio.WithLogger(x.logger),
		portfolio.WithRecorder(x.recorder),
	)
}

func (x *exporter) export() error {
	res, err := x.loader().LoadDetailed()
	if err != nil {
		return err
	}
	for _, f := range res.Failures {
		x.logger.Warn("Document left out of export", logfields.Path(f.Path), logfields.Error(f.Err))
	}

	known := make([]portfolio.Category, 0, len(x.cfg.Categories))
	for _, c := range x.cfg.Categories {
		known = append(known, portfolio.Category{ID: c.ID, Label: c.Label})
	}

	entries := portfolio.SortForDisplay(portfolio.FilterByCategory(res.Entries, x.category))
	doc := exportDocument{
		GeneratedAt: time.Now().UTC(),
		Categories:  portfolio.Catalog(res.Entries, known),
		Entries:     entries,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to encode portfolio").Build()
	}
	data = append(data, '\n')

	if x.output == "-" {
		_, err = x.stdout.Write(data)
	} else {
		err = writeFileAtomic(x.output, data)
	}
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write export").
			WithContext("path", x.output).
			Build()
	}

	x.logger.Info("Portfolio exported",
		logfields.Count(len(entries)),
		slog.Int("failures", len(res.Failures)),
		logfields.DurationMS(float64(res.Duration.Milliseconds())))
	return nil
}

// writeFileAtomic replaces path with data through a temporary file in the
// same directory.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	// #nosec G302 -- the export is served as a public asset
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// within reports whether p lies inside dir.
func within(dir, p string) bool {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	absP, err := filepath.Abs(p)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absP)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
