package relocate

import (
	"context"
	"log/slog"
	"path"
	"slices"
	"strings"

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

// AssetOptions controls an image relocation run.
type AssetOptions struct {
	DryRun bool
	// Mode is used for documents in category directories. Documents at the
	// content root are legacy files and are always read permissively.
	Mode     frontmatter.Mode
	Markdown markdown.Options
	// BodyImages also moves the images referenced from document bodies.
	BodyImages bool
}

// AssetRelocator moves the images referenced by each document into
// <images root>/<category>/.
type AssetRelocator struct {
	env    Env
	layout Layout
	opts   AssetOptions
}

// NewAssetRelocator creates an asset relocator.
func NewAssetRelocator(env Env, layout Layout, opts AssetOptions) *AssetRelocator {
	return &AssetRelocator{env: env.withDefaults(), layout: layout, opts: opts}
}

type pendingMove struct {
	Move
	document string
}

type assetPlan struct {
	order   []string
	pending map[string]*pendingMove
}

// Run scans every document, plans one move per referenced image and then
// executes the moves. A failed move never stops the remaining ones.
func (r *AssetRelocator) Run(ctx context.Context) (*AssetResult, error) {
	res := &AssetResult{RunID: r.env.runID(), DryRun: r.opts.DryRun}

	index, err := BuildImageIndex(r.env.FS, r.layout.ImagesRoot, r.layout.isImage)
	if err != nil {
		return res, err
	}
	r.env.Logger.Debug("Indexed images", logfields.Count(index.Len()))

	docs, err := r.documents()
	if err != nil {
		return res, err
	}

	plan := &assetPlan{pending: make(map[string]*pendingMove)}
	for _, d := range docs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		r.scan(ctx, d, index, plan, res)
	}

	for _, src := range plan.order {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		r.execute(ctx, plan.pending[src], index, res)
	}

	r.countPerCategory(index, res)
	return res, nil
}

type assetDocument struct {
	path        string
	dirCategory string
	mode        frontmatter.Mode
}

// documents lists the content root in name order, descending one level
// into category directories.
func (r *AssetRelocator) documents() ([]assetDocument, error) {
	root := r.layout.ContentRoot
	infos, err := readDir(r.env.FS, root)
	if err != nil {
		return nil, err
	}

	var docs []assetDocument
	for _, fi := range infos {
		name := fi.Name()
		switch {
		case fi.Mode().IsRegular() && r.layout.isDocument(name):
			docs = append(docs, assetDocument{path: path.Join(root, name), mode: frontmatter.ModePermissive})
		case fi.IsDir() && !strings.HasPrefix(name, ".") && name != r.layout.PlaceholderDir:
			sub, err := readDir(r.env.FS, path.Join(root, name))
			if err != nil {
				return nil, err
			}
			for _, sfi := range sub {
				if sfi.Mode().IsRegular() && r.layout.isDocument(sfi.Name()) {
					docs = append(docs, assetDocument{
						path:        path.Join(root, name, sfi.Name()),
						dirCategory: name,
						mode:        r.opts.Mode,
					})
				}
			}
		}
	}
	return docs, nil
}

func (r *AssetRelocator) scan(ctx context.Context, d assetDocument, index *ImageIndex, plan *assetPlan, res *AssetResult) {
	log := r.env.Logger.With(logfields.Path(d.path), logfields.Stage(StageAssets))

	doc, err := docmodel.ReadFile(r.env.FS, d.path, docmodel.Options{Mode: d.mode, Markdown: r.opts.Markdown})
	if err != nil {
		r.fail(ctx, d.path, err, res)
		return
	}
	res.Documents++

	category, ok := doc.Category()
	if !ok {
		category = d.dirCategory
	}
	if !validCategory(category) {
		log.Warn("Skipping document without usable category", logfields.Category(category))
		res.SkippedDocuments = append(res.SkippedDocuments, d.path)
		r.env.Recorder.IncDocumentResult(StageAssets, metrics.ResultSkipped)
		r.env.record(ctx, journal.Event{Type: journal.EventSkipped, Path: d.path, Message: "no category"})
		return
	}

	for _, ref := range documentImageRefs(doc, r.opts.BodyImages) {
		src, candidates := r.locate(ref, category, index)
		switch {
		case src != "":
			plan.add(ctx, r, pendingMove{
				Move:     Move{Source: src, Target: path.Join(r.layout.ImagesRoot, category, path.Base(src)), Category: category},
				document: d.path,
			}, res)
		case len(candidates) > 1:
			log.Warn("Ambiguous image reference", logfields.Image(ref), logfields.Count(len(candidates)))
			res.Ambiguous = append(res.Ambiguous, Ambiguity{Document: d.path, Image: ref, Candidates: candidates})
			r.env.Recorder.IncImageResult(StageAssets, metrics.ResultWarning)
			r.env.record(ctx, journal.Event{Type: journal.EventAmbiguous, Path: d.path, Target: ref, Category: category,
				Message: strings.Join(candidates, ", ")})
		default:
			log.Warn("Image not found", logfields.Image(ref))
			res.Missing = append(res.Missing, MissingAsset{Document: d.path, Image: ref})
			r.env.Recorder.IncImageResult(StageAssets, metrics.ResultWarning)
			r.env.record(ctx, journal.Event{Type: journal.EventMissingAsset, Path: d.path, Target: ref, Category: category})
		}
	}
}

// documentImageRefs returns the metadata references, followed by the body
// references when withBody is set, without duplicates or external URLs.
func documentImageRefs(doc *docmodel.ContentDocument, withBody bool) []string {
	refs := frontmatterops.ImageRefs(doc.Fields())
	if !withBody {
		return slices.DeleteFunc(refs, imagepath.IsExternal)
	}
	for _, img := range doc.BodyImages() {
		if !slices.Contains(refs, img.Destination) {
			refs = append(refs, img.Destination)
		}
	}
	return slices.DeleteFunc(refs, imagepath.IsExternal)
}

// locate finds the file ref names. Direct paths win over the index; several
// index matches resolve only when one of them is already in category.
func (r *AssetRelocator) locate(ref, category string, index *ImageIndex) (string, []string) {
	base := imagepath.Base(ref)
	if base == "" {
		return "", nil
	}

	cleaned := imagepath.Clean(ref)
	direct := []string{
		path.Join(r.layout.ImagesRoot, base),
		path.Join(r.layout.ImagesRoot, strings.TrimPrefix(cleaned, strings.TrimPrefix(imagepath.URLPrefix, "/"))),
		path.Join(r.layout.PublicRoot, cleaned),
	}
	for _, p := range direct {
		if fileExists(r.env.FS, p) {
			return p, nil
		}
	}

	candidates := index.Lookup(base)
	switch len(candidates) {
	case 0:
		return "", nil
	case 1:
		return candidates[0], nil
	}
	inCategory := path.Join(r.layout.ImagesRoot, category)
	for _, c := range candidates {
		if path.Dir(c) == inCategory {
			return c, candidates
		}
	}
	return "", candidates
}

// add records a pending move. A later document of another category takes
// the image over.
func (p *assetPlan) add(ctx context.Context, r *AssetRelocator, m pendingMove, res *AssetResult) {
	existing, ok := p.pending[m.Source]
	if !ok {
		p.order = append(p.order, m.Source)
		p.pending[m.Source] = &m
		return
	}
	if existing.Category == m.Category {
		return
	}
	r.env.Logger.Warn("Image claimed by another category, last document wins",
		logfields.Image(m.Source),
		slog.String("from", existing.Category),
		slog.String("to", m.Category),
		logfields.Path(m.document))
	res.Reassigned = append(res.Reassigned, Reassignment{
		Image: m.Source, From: existing.Category, To: m.Category, Document: m.document,
	})
	r.env.record(ctx, journal.Event{Type: journal.EventReassigned, Path: m.document, Target: m.Source, Category: m.Category,
		Metadata: map[string]string{"from": existing.Category}})
	*existing = m
}

func (r *AssetRelocator) execute(ctx context.Context, m *pendingMove, index *ImageIndex, res *AssetResult) {
	log := r.env.Logger.With(logfields.Image(m.Source), logfields.Target(m.Target), logfields.Stage(StageAssets))

	if m.Source == m.Target {
		res.InPlace = append(res.InPlace, m.Move)
		r.env.Recorder.IncImageResult(StageAssets, metrics.ResultUnchanged)
		return
	}
	if _, err := r.env.FS.Lstat(m.Target); err == nil {
		r.collision(ctx, m, res, log)
		return
	}

	if !r.opts.DryRun {
		if err := r.env.Mover.Move(m.Source, m.Target); err != nil {
			if errors.HasCategory(err, errors.CategoryAlreadyExists) {
				r.collision(ctx, m, res, log)
				return
			}
			r.fail(ctx, m.Source, err, res)
			return
		}
	}

	index.Move(m.Source, m.Target)
	log.Info("Moved image", logfields.Category(m.Category), logfields.DryRun(r.opts.DryRun))
	res.Moved = append(res.Moved, m.Move)
	r.env.Recorder.IncImageResult(StageAssets, metrics.ResultSuccess)
	r.env.record(ctx, journal.Event{Type: journal.EventMoved, Path: m.Source, Target: m.Target, Category: m.Category})
}

func (r *AssetRelocator) collision(ctx context.Context, m *pendingMove, res *AssetResult, log *slog.Logger) {
	log.Warn("Destination occupied by another file, skipping")
	res.Collisions = append(res.Collisions, m.Move)
	r.env.Recorder.IncImageResult(StageAssets, metrics.ResultSkipped)
	r.env.record(ctx, journal.Event{Type: journal.EventCollision, Path: m.Source, Target: m.Target, Category: m.Category})
}

func (r *AssetRelocator) fail(ctx context.Context, p string, err error, res *AssetResult) {
	r.env.Logger.Error("Image relocation failed", logfields.Path(p), logfields.Error(err))
	res.Errors = append(res.Errors, err)
	r.env.Recorder.IncImageResult(StageAssets, metrics.ResultFailed)
	r.env.record(ctx, journal.Event{Type: journal.EventError, Path: p, Message: err.Error()})
}

// countPerCategory reports the images held by every category directory
// once the moves are applied. The index already reflects the moves, so a
// dry run reports the counts the real run would produce.
func (r *AssetRelocator) countPerCategory(index *ImageIndex, res *AssetResult) {
	counts := index.CountByDir(r.layout.ImagesRoot)
	delete(counts, r.layout.PlaceholderDir)
	for c := range counts {
		if strings.HasPrefix(c, ".") {
			delete(counts, c)
		}
	}

	res.PerCategory = counts
	for c, n := range counts {
		r.env.Recorder.SetCategoryImages(c, n)
	}
}
