package portfolio

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/bogomolov-fly/portfolio/internal/docmodel"
	"github.com/bogomolov-fly/portfolio/internal/foundation/errors"
	"github.com/bogomolov-fly/portfolio/internal/frontmatter"
	"github.com/bogomolov-fly/portfolio/internal/logfields"
	"github.com/bogomolov-fly/portfolio/internal/markdown"
	"github.com/bogomolov-fly/portfolio/internal/metrics"
)

// DefaultCategory is assigned to documents without a category.
const DefaultCategory = "uncategorized"

type loaderOptions struct {
	extension       string
	mode            frontmatter.Mode
	skipMissing     bool
	defaultCategory string
	normalizeImages bool
	excerptLength   int
	markdown        markdown.Options
	logger          *slog.Logger
	recorder        metrics.Recorder
}

// Option configures a Loader.
type Option func(*loaderOptions)

// WithExtension sets the content document extension (default ".md").
func WithExtension(ext string) Option { return func(o *loaderOptions) { o.extension = ext } }

// WithMode sets the metadata parse mode.
func WithMode(m frontmatter.Mode) Option { return func(o *loaderOptions) { o.mode = m } }

// WithSkipMissingCategory leaves documents without a category out instead
// of assigning the default category.
func WithSkipMissingCategory(skip bool) Option {
	return func(o *loaderOptions) { o.skipMissing = skip }
}

// WithDefaultCategory sets the category of documents without one.
func WithDefaultCategory(c string) Option {
	return func(o *loaderOptions) {
		if c != "" {
			o.defaultCategory = c
		}
	}
}

// WithNormalizeImages rewrites image paths to their canonical form at load
// time.
func WithNormalizeImages(enabled bool) Option {
	return func(o *loaderOptions) { o.normalizeImages = enabled }
}

// WithExcerptLength sets the excerpt length in runes; zero disables
// excerpts.
func WithExcerptLength(n int) Option { return func(o *loaderOptions) { o.excerptLength = n } }

// WithMarkdown configures description rendering.
func WithMarkdown(m markdown.Options) Option { return func(o *loaderOptions) { o.markdown = m } }

// WithLogger sets the logger for per-document diagnostics.
func WithLogger(l *slog.Logger) Option { return func(o *loaderOptions) { o.logger = l } }

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option { return func(o *loaderOptions) { o.recorder = r } }

// Loader discovers and parses the content documents below a root.
type Loader struct {
	fsys fs.FS
	root string
	opts loaderOptions
}

// NewLoader creates a loader for the documents below root on fsys.
func NewLoader(fsys fs.FS, root string, opts ...Option) *Loader {
	o := loaderOptions{
		extension:       ".md",
		mode:            frontmatter.ModeStandard,
		defaultCategory: DefaultCategory,
		excerptLength:   160,
		logger:          slog.Default(),
		recorder:        metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if root == "" {
		root = "."
	}
	return &Loader{fsys: fsys, root: root, opts: o}
}

// Failure is a document left out of a load.
type Failure struct {
	Path string
	Err  error
}

// LoadResult is the outcome of LoadDetailed.
type LoadResult struct {
	Entries  []Entry
	Failures []Failure
	Skipped  []string
	Warnings []string
	Duration time.Duration
}

// Load returns the portfolio entries in discovery order. Failures are
// logged and the affected documents left out.
func (l *Loader) Load() []Entry {
	res, err := l.LoadDetailed()
	if err != nil {
		l.opts.logger.Error("Failed to load portfolio", logfields.Path(l.root), logfields.Error(err))
		return []Entry{}
	}
	return res.Entries
}

// LoadDetailed loads every document and reports the documents that were
// skipped or failed. The error is non-nil only when the root itself cannot
// be walked.
func (l *Loader) LoadDetailed() (*LoadResult, error) {
	start := time.Now()
	res := &LoadResult{Entries: []Entry{}}

	paths, err := l.discover()
	if err != nil {
		return nil, err
	}

	ids := make(map[string]int, len(paths))
	for _, p := range paths {
		entry, skipped, err := l.loadOne(p)
		switch {
		case err != nil:
			l.opts.logger.Warn("Skipping unreadable document", logfields.Path(p), logfields.Error(err))
			l.opts.recorder.IncLoadFailure()
			res.Failures = append(res.Failures, Failure{Path: p, Err: err})
			continue
		case skipped:
			l.opts.logger.Debug("Skipping document without category", logfields.Path(p))
			res.Skipped = append(res.Skipped, p)
			continue
		}

		if n := ids[entry.ID]; n > 0 {
			unique := uniqueID(entry.ID, ids)
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: duplicate id %q renamed to %q", p, entry.ID, unique))
			l.opts.logger.Warn("Duplicate portfolio id", logfields.Path(p), slog.String("id", entry.ID), slog.String("renamed", unique))
			entry.ID = unique
		}
		ids[entry.ID]++
		res.Entries = append(res.Entries, entry)
	}

	res.Duration = time.Since(start)
	return res, nil
}

// discover walks the root recursively and returns the document paths in
// lexical order.
func (l *Loader) discover() ([]string, error) {
	var paths []string
	err := fs.WalkDir(l.fsys, l.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != l.root && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && strings.EqualFold(path.Ext(p), l.opts.extension) {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to walk content root").
			WithContext("path", l.root).
			Build()
	}
	return paths, nil
}

// loadOne builds the entry of one document. A panic while handling a
// malformed document is turned into a failure for that document.
func (l *Loader) loadOne(p string) (entry Entry, skipped bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.InternalError(fmt.Sprintf("panic while loading document: %v", r)).
				WithContext("path", p).
				Build()
		}
	}()

	doc, err := docmodel.ReadFS(l.fsys, p, docmodel.Options{Mode: l.opts.mode, Markdown: l.opts.markdown})
	if err != nil {
		return Entry{}, false, err
	}

	category, ok := doc.Category()
	if !ok {
		if l.opts.skipMissing {
			return Entry{}, true, nil
		}
		category = l.opts.defaultCategory
	}

	entry, err = buildEntry(doc, doc.ID(), category, l.opts)
	if err != nil {
		return Entry{}, false, errors.WrapError(err, errors.CategoryParse, "failed to render description").
			WithContext("path", p).
			Build()
	}
	return entry, false, nil
}

func uniqueID(id string, taken map[string]int) string {
	for n := 2; ; n++ {
		candidate := id + "-" + strconv.Itoa(n)
		if taken[candidate] == 0 {
			return candidate
		}
	}
}
