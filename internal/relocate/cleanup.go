package relocate

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/go-git/go-billy/v5/util"

	"github.com/bogomolov-fly/portfolio/internal/foundation/errors"
	"github.com/bogomolov-fly/portfolio/internal/journal"
	"github.com/bogomolov-fly/portfolio/internal/logfields"
	"github.com/bogomolov-fly/portfolio/internal/metrics"
)

// CleanupOptions controls an image cleanup run.
type CleanupOptions struct {
	DryRun bool
	// All removes every image at the images root, not only the ones with a
	// categorized copy.
	All bool
}

// ImageCleanup removes leftovers of an image relocation: images at the root
// of the images tree and the template placeholder directory.
type ImageCleanup struct {
	env    Env
	layout Layout
	opts   CleanupOptions
}

// NewImageCleanup creates an image cleanup.
func NewImageCleanup(env Env, layout Layout, opts CleanupOptions) *ImageCleanup {
	return &ImageCleanup{env: env.withDefaults(), layout: layout, opts: opts}
}

// Run removes root-level images that already exist in a category directory
// (every root-level image with All) and the placeholder directory.
func (c *ImageCleanup) Run(ctx context.Context) (*CleanupResult, error) {
	res := &CleanupResult{RunID: c.env.runID(), DryRun: c.opts.DryRun}
	root := c.layout.ImagesRoot

	index, err := BuildImageIndex(c.env.FS, root, c.layout.isImage)
	if err != nil {
		return res, err
	}
	infos, err := readDir(c.env.FS, root)
	if err != nil {
		return res, err
	}

	for _, fi := range infos {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if !fi.Mode().IsRegular() || !c.layout.isImage(fi.Name()) {
			continue
		}
		p := path.Join(root, fi.Name())
		if !c.opts.All && !c.hasCategorizedCopy(index, p) {
			res.Kept = append(res.Kept, p)
			c.env.Recorder.IncImageResult(StageCleanup, metrics.ResultSkipped)
			continue
		}
		c.remove(ctx, p, index, res)
	}

	if c.layout.PlaceholderDir != "" {
		if err := c.removePlaceholder(ctx, path.Join(root, c.layout.PlaceholderDir), index, res); err != nil {
			return res, err
		}
	}
	res.Remaining = index.Len()
	return res, nil
}

// hasCategorizedCopy reports whether a file named like p exists one level
// down in a category directory.
func (c *ImageCleanup) hasCategorizedCopy(index *ImageIndex, p string) bool {
	for _, candidate := range index.Lookup(path.Base(p)) {
		dir := path.Dir(candidate)
		if candidate != p && path.Dir(dir) == c.layout.ImagesRoot && path.Base(dir) != c.layout.PlaceholderDir {
			return true
		}
	}
	return false
}

func (c *ImageCleanup) remove(ctx context.Context, p string, index *ImageIndex, res *CleanupResult) {
	if !c.opts.DryRun {
		if err := c.env.Mover.Remove(p); err != nil {
			c.env.Logger.Error("Failed to remove image", logfields.Path(p), logfields.Error(err))
			res.Errors = append(res.Errors, err)
			c.env.Recorder.IncImageResult(StageCleanup, metrics.ResultFailed)
			c.env.record(ctx, journal.Event{Type: journal.EventError, Path: p, Message: err.Error()})
			return
		}
	}
	index.Remove(p)
	c.env.Logger.Info("Removed image", logfields.Path(p), logfields.DryRun(c.opts.DryRun))
	res.Removed = append(res.Removed, p)
	c.env.Recorder.IncImageResult(StageCleanup, metrics.ResultSuccess)
	c.env.record(ctx, journal.Event{Type: journal.EventRemoved, Path: p})
}

// removePlaceholder removes every file below dir and then dir itself.
func (c *ImageCleanup) removePlaceholder(ctx context.Context, dir string, index *ImageIndex, res *CleanupResult) error {
	fi, err := c.env.FS.Lstat(dir)
	if err != nil || !fi.IsDir() {
		return nil
	}

	var files []string
	err = util.Walk(c.env.FS, dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files = append(files, filepath.ToSlash(p))
		}
		return nil
	})
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to list placeholder directory").
			WithContext("path", dir).
			Build()
	}
	sort.Strings(files)

	failed := len(res.Errors)
	for _, p := range files {
		c.remove(ctx, p, index, res)
	}
	if len(res.Errors) > failed {
		return nil
	}

	if !c.opts.DryRun {
		if err := util.RemoveAll(c.env.FS, dir); err != nil {
			res.Errors = append(res.Errors, errors.WrapError(err, errors.CategoryFileSystem, "failed to remove placeholder directory").
				WithContext("path", dir).
				Build())
			return nil
		}
	}
	res.Placeholder = true
	c.env.record(ctx, journal.Event{Type: journal.EventRemoved, Path: dir, Message: "placeholder directory"})
	return nil
}
