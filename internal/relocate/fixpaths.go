package relocate

import (
	"context"
	"path"

	"github.com/bogomolov-fly/portfolio/internal/docmodel"
	"github.com/bogomolov-fly/portfolio/internal/foundation/errors"
	"github.com/bogomolov-fly/portfolio/internal/frontmatter"
	"github.com/bogomolov-fly/portfolio/internal/frontmatterops"
	"github.com/bogomolov-fly/portfolio/internal/imagepath"
	"github.com/bogomolov-fly/portfolio/internal/journal"
	"github.com/bogomolov-fly/portfolio/internal/logfields"
	"github.com/bogomolov-fly/portfolio/internal/markdown"
	"github.com/bogomolov-fly/portfolio/internal/metrics"
)

// FixOptions controls a path fixing run.
type FixOptions struct {
	DryRun   bool
	Mode     frontmatter.Mode
	Markdown markdown.Options
	// RewriteBody also normalizes image references in the document body.
	RewriteBody bool
}

// PathFixer rewrites the image references of categorized documents to the
// canonical form of their directory's category.
type PathFixer struct {
	env    Env
	layout Layout
	opts   FixOptions
}

// NewPathFixer creates a path fixer.
func NewPathFixer(env Env, layout Layout, opts FixOptions) *PathFixer {
	return &PathFixer{env: env.withDefaults(), layout: layout, opts: opts}
}

// Run fixes every document in the category directories of the content root.
func (f *PathFixer) Run(ctx context.Context) (*FixResult, error) {
	res := &FixResult{RunID: f.env.runID(), DryRun: f.opts.DryRun}
	root := f.layout.ContentRoot

	dirs, err := f.layout.categoryDirs(f.env.FS, root)
	if err != nil {
		return res, err
	}

	for _, category := range dirs {
		infos, err := readDir(f.env.FS, path.Join(root, category))
		if err != nil {
			f.fail(ctx, path.Join(root, category), err, res)
			continue
		}
		for _, fi := range infos {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			if fi.Mode().IsRegular() && f.layout.isDocument(fi.Name()) {
				f.fix(ctx, path.Join(root, category, fi.Name()), category, res)
			}
		}
	}
	return res, nil
}

func (f *PathFixer) fix(ctx context.Context, p, category string, res *FixResult) {
	log := f.env.Logger.With(logfields.Path(p), logfields.Stage(StageFix))
	res.Scanned++

	doc, err := docmodel.ReadFile(f.env.FS, p, docmodel.Options{Mode: f.opts.Mode, Markdown: f.opts.Markdown})
	if err != nil {
		f.fail(ctx, p, err, res)
		return
	}
	before, err := frontmatterops.Fingerprint(doc.Original(), f.opts.Mode)
	if err != nil {
		f.fail(ctx, p, errors.WrapError(err, errors.CategoryInternal, "failed to fingerprint document").
			WithContext("path", p).Build(), res)
		return
	}

	fields := doc.Fields()
	imagepath.NormalizeFields(fields, category)
	frontmatterops.ArrangeImages(fields)
	if f.opts.RewriteBody {
		if _, err := doc.RewriteBodyImages(func(ref string) string {
			return imagepath.Normalize(ref, category)
		}); err != nil {
			f.fail(ctx, p, err, res)
			return
		}
	}

	resolver := f.layout.resolver(f.env.FS)
	for _, ref := range documentImageRefs(doc, f.opts.RewriteBody) {
		if !resolver.Exists(ref) {
			log.Warn("Image not found", logfields.Image(ref))
			res.Missing = append(res.Missing, MissingAsset{Document: p, Image: ref})
			f.env.record(ctx, journal.Event{Type: journal.EventMissingAsset, Path: p, Target: ref, Category: category})
		}
	}

	after, err := doc.Fingerprint()
	if err != nil {
		f.fail(ctx, p, errors.WrapError(err, errors.CategoryInternal, "failed to fingerprint document").
			WithContext("path", p).Build(), res)
		return
	}
	if before == after {
		res.Unchanged = append(res.Unchanged, p)
		f.env.Recorder.IncDocumentResult(StageFix, metrics.ResultUnchanged)
		return
	}

	if !f.opts.DryRun {
		if err := doc.WriteFile(f.env.FS, p); err != nil {
			f.fail(ctx, p, err, res)
			return
		}
	}
	log.Info("Updated image paths", logfields.Category(category), logfields.DryRun(f.opts.DryRun))
	res.Updated = append(res.Updated, p)
	f.env.Recorder.IncDocumentResult(StageFix, metrics.ResultSuccess)
	f.env.record(ctx, journal.Event{Type: journal.EventUpdated, Path: p, Category: category})
}

func (f *PathFixer) fail(ctx context.Context, p string, err error, res *FixResult) {
	f.env.Logger.Error("Failed to fix image paths", logfields.Path(p), logfields.Error(err))
	res.Errors = append(res.Errors, err)
	f.env.Recorder.IncDocumentResult(StageFix, metrics.ResultFailed)
	f.env.record(ctx, journal.Event{Type: journal.EventError, Path: p, Message: err.Error()})
}
