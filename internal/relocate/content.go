package relocate

import (
	"context"
	"fmt"
	"log/slog"
	"path"

	"github.com/go-git/go-billy/v5/util"

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

// ContentOptions controls a content relocation run.
type ContentOptions struct {
	DryRun   bool
	Mode     frontmatter.Mode
	Markdown markdown.Options
	// RewriteBody also normalizes image references in the document body.
	// Without it the body is written back byte for byte.
	RewriteBody bool
}

// ContentRelocator moves flat content documents into
// <content root>/<category>/ with normalized image references.
type ContentRelocator struct {
	env    Env
	layout Layout
	opts   ContentOptions
}

// NewContentRelocator creates a content relocator.
func NewContentRelocator(env Env, layout Layout, opts ContentOptions) *ContentRelocator {
	return &ContentRelocator{env: env.withDefaults(), layout: layout, opts: opts}
}

// Run relocates every document found directly under the content root.
//
// Originals are deleted in a final pass, and only those whose destination
// was written or already held the same content. The returned error is
// non-nil only when the content root cannot be listed or ctx is cancelled.
func (r *ContentRelocator) Run(ctx context.Context) (*ContentResult, error) {
	res := &ContentResult{RunID: r.env.runID(), DryRun: r.opts.DryRun}
	root := r.layout.ContentRoot

	infos, err := readDir(r.env.FS, root)
	if err != nil {
		return res, err
	}

	var relocatedOriginals []string
	for _, fi := range infos {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if !fi.Mode().IsRegular() || !r.layout.isDocument(fi.Name()) {
			continue
		}
		if r.relocate(ctx, path.Join(root, fi.Name()), res) {
			relocatedOriginals = append(relocatedOriginals, path.Join(root, fi.Name()))
		}
	}

	for _, original := range relocatedOriginals {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		r.deleteOriginal(ctx, original, res)
	}
	return res, nil
}

// relocate handles one document and reports whether its original may be
// deleted.
func (r *ContentRelocator) relocate(ctx context.Context, p string, res *ContentResult) bool {
	log := r.env.Logger.With(logfields.Path(p), logfields.Stage(StageContent))

	doc, err := docmodel.ReadFile(r.env.FS, p, docmodel.Options{Mode: r.opts.Mode, Markdown: r.opts.Markdown})
	if err != nil {
		r.fail(ctx, p, err, res)
		return false
	}

	category, ok := doc.Category()
	if !ok {
		log.Warn("Skipping document without category")
		res.Skipped = append(res.Skipped, p)
		r.env.Recorder.IncDocumentResult(StageContent, metrics.ResultSkipped)
		r.env.record(ctx, journal.Event{Type: journal.EventSkipped, Path: p, Message: "no category"})
		return false
	}
	if !validCategory(category) {
		r.fail(ctx, p, errors.ValidationError("category is not a valid directory name").
			WithContext("path", p).
			WithContext("category", category).
			Build(), res)
		return false
	}
	if !r.layout.knownCategory(category) {
		log.Warn("Unknown category", logfields.Category(category))
		res.Warnings = append(res.Warnings, fmt.Sprintf("%s: unknown category %q", p, category))
	}

	imagepath.NormalizeFields(doc.Fields(), category)
	if r.opts.RewriteBody {
		if _, err := doc.RewriteBodyImages(func(ref string) string {
			return imagepath.Normalize(ref, category)
		}); err != nil {
			r.fail(ctx, p, err, res)
			return false
		}
	}
	r.checkAssets(ctx, doc, category, res)

	target := path.Join(r.layout.ContentRoot, category, doc.Name())
	move := Move{Source: p, Target: target, Category: category}

	if existing, err := util.ReadFile(r.env.FS, target); err == nil {
		same, err := sameContent(doc, existing, r.opts.Mode)
		if err != nil {
			r.fail(ctx, p, err, res)
			return false
		}
		if !same {
			log.Warn("Destination exists with different content, keeping original", logfields.Target(target))
			res.Collisions = append(res.Collisions, move)
			r.env.Recorder.IncDocumentResult(StageContent, metrics.ResultSkipped)
			r.env.record(ctx, journal.Event{Type: journal.EventCollision, Path: p, Target: target, Category: category})
			return false
		}
		log.Debug("Already relocated", logfields.Target(target))
		res.AlreadyRelocated = append(res.AlreadyRelocated, move)
		r.env.Recorder.IncDocumentResult(StageContent, metrics.ResultUnchanged)
		r.env.record(ctx, journal.Event{Type: journal.EventAlreadyRelocated, Path: p, Target: target, Category: category})
		return true
	}

	if !r.opts.DryRun {
		if err := doc.WriteFile(r.env.FS, target); err != nil {
			r.fail(ctx, p, err, res)
			return false
		}
		r.stage(p, target, log)
	}

	log.Info("Relocated document", logfields.Target(target), logfields.Category(category), logfields.DryRun(r.opts.DryRun))
	res.Relocated = append(res.Relocated, move)
	r.env.Recorder.IncDocumentResult(StageContent, metrics.ResultSuccess)
	r.env.record(ctx, journal.Event{Type: journal.EventRelocated, Path: p, Target: target, Category: category})
	return true
}

// stage adds the new copy to the index when the original is tracked, so the
// final deletion shows up as a rename.
func (r *ContentRelocator) stage(original, target string, log *slog.Logger) {
	stager, ok := r.env.Mover.(Stager)
	if !ok || !stager.Tracked(original) {
		return
	}
	if err := stager.Add(target); err != nil {
		log.Warn("Failed to stage relocated document", logfields.Target(target), logfields.Error(err))
	}
}

func (r *ContentRelocator) checkAssets(ctx context.Context, doc *docmodel.ContentDocument, category string, res *ContentResult) {
	resolver := r.layout.resolver(r.env.FS)
	for _, ref := range documentImageRefs(doc, r.opts.RewriteBody) {
		if resolver.Exists(ref) {
			continue
		}
		r.env.Logger.Warn("Image not found",
			logfields.Path(doc.Path()), logfields.Image(ref), logfields.Category(category))
		res.Missing = append(res.Missing, MissingAsset{Document: doc.Path(), Image: ref})
		r.env.record(ctx, journal.Event{Type: journal.EventMissingAsset, Path: doc.Path(), Target: ref, Category: category})
	}
}

func (r *ContentRelocator) deleteOriginal(ctx context.Context, p string, res *ContentResult) {
	if !r.opts.DryRun {
		if err := r.env.Mover.Remove(p); err != nil {
			r.fail(ctx, p, err, res)
			return
		}
	}
	res.Deleted = append(res.Deleted, p)
	r.env.record(ctx, journal.Event{Type: journal.EventDeleted, Path: p})
}

func (r *ContentRelocator) fail(ctx context.Context, p string, err error, res *ContentResult) {
	r.env.Logger.Error("Failed to relocate document", logfields.Path(p), logfields.Error(err))
	res.Errors = append(res.Errors, err)
	r.env.Recorder.IncDocumentResult(StageContent, metrics.ResultFailed)
	r.env.record(ctx, journal.Event{Type: journal.EventError, Path: p, Message: err.Error()})
}

// sameContent compares the fingerprint of doc with the fingerprint of the
// bytes already at its destination.
func sameContent(doc *docmodel.ContentDocument, existing []byte, mode frontmatter.Mode) (bool, error) {
	want, err := doc.Fingerprint()
	if err != nil {
		return false, errors.WrapError(err, errors.CategoryInternal, "failed to fingerprint document").
			WithContext("path", doc.Path()).
			Build()
	}
	have, err := frontmatterops.Fingerprint(existing, mode)
	if err != nil {
		return false, errors.WrapError(err, errors.CategoryInternal, "failed to fingerprint destination").
			WithContext("path", doc.Path()).
			Build()
	}
	return want == have, nil
}
