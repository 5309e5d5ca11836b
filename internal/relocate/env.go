package relocate

import (
	"context"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"

	"github.com/bogomolov-fly/portfolio/internal/config"
	"github.com/bogomolov-fly/portfolio/internal/foundation/errors"
	"github.com/bogomolov-fly/portfolio/internal/imagepath"
	"github.com/bogomolov-fly/portfolio/internal/journal"
	"github.com/bogomolov-fly/portfolio/internal/metrics"
)

// Stage names used for metrics labels and log attributes.
const (
	StageContent = "organize-content"
	StageAssets  = "organize-images"
	StageFix     = "fix-paths"
	StageCleanup = "cleanup-images"
)

// Env carries the collaborators shared by every batch tool.
type Env struct {
	FS       billy.Filesystem
	Mover    Mover
	Journal  *journal.Run
	Recorder metrics.Recorder
	Logger   *slog.Logger
}

func (e Env) withDefaults() Env {
	if e.Mover == nil {
		e.Mover = FSMover{FS: e.FS}
	}
	if e.Recorder == nil {
		e.Recorder = metrics.NoopRecorder{}
	}
	if e.Logger == nil {
		e.Logger = slog.Default()
	}
	return e
}

func (e Env) runID() string {
	if e.Journal == nil {
		return ""
	}
	return e.Journal.ID()
}

func (e Env) record(ctx context.Context, ev journal.Event) {
	if e.Journal != nil {
		e.Journal.Record(ctx, ev)
	}
}

// Layout locates the content and image trees relative to the filesystem
// root.
type Layout struct {
	ContentRoot     string
	ImagesRoot      string
	PublicRoot      string
	Extension       string
	ImageExtensions []string
	PlaceholderDir  string
	Categories      []string
}

// LayoutFromConfig builds a Layout from a loaded configuration.
func LayoutFromConfig(cfg *config.Config) Layout {
	l := Layout{
		ContentRoot:     cfg.Paths.ContentRoot,
		ImagesRoot:      cfg.Paths.ImagesRoot,
		PublicRoot:      cfg.Paths.PublicRoot,
		Extension:       cfg.Content.Extension,
		ImageExtensions: cfg.Images.Extensions,
		PlaceholderDir:  cfg.Images.PlaceholderDir,
	}
	for _, c := range cfg.Categories {
		l.Categories = append(l.Categories, c.ID)
	}
	return l
}

func (l Layout) resolver(fsys billy.Filesystem) imagepath.Resolver {
	return imagepath.Resolver{FS: fsys, PublicRoot: l.PublicRoot}
}

func (l Layout) isDocument(name string) bool {
	ext := l.Extension
	if ext == "" {
		ext = ".md"
	}
	return strings.EqualFold(path.Ext(name), ext)
}

func (l Layout) isImage(name string) bool {
	return imagepath.HasImageExt(name, l.ImageExtensions)
}

func (l Layout) knownCategory(c string) bool {
	if len(l.Categories) == 0 {
		return true
	}
	for _, known := range l.Categories {
		if known == c {
			return true
		}
	}
	return false
}

// validCategory reports whether c can be used as a directory name.
func validCategory(c string) bool {
	return c != "" && c != "." && c != ".." && !strings.ContainsAny(c, `/\`)
}

// readDir lists dir sorted by name. A missing directory is reported as
// not_found.
func readDir(fsys billy.Filesystem, dir string) ([]fs.FileInfo, error) {
	infos, err := fsys.ReadDir(dir)
	if err != nil {
		category := errors.CategoryFileSystem
		if isNotExist(err) {
			category = errors.CategoryNotFound
		}
		return nil, errors.WrapError(err, category, "failed to list directory").
			WithContext("path", dir).
			Build()
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name() < infos[j].Name() })
	return infos, nil
}

// categoryDirs returns the category subdirectories of root, skipping hidden
// directories and the template placeholder.
func (l Layout) categoryDirs(fsys billy.Filesystem, root string) ([]string, error) {
	infos, err := readDir(fsys, root)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, fi := range infos {
		name := fi.Name()
		if !fi.IsDir() || strings.HasPrefix(name, ".") || name == l.PlaceholderDir {
			continue
		}
		dirs = append(dirs, name)
	}
	return dirs, nil
}

func fileExists(fsys billy.Filesystem, p string) bool {
	fi, err := fsys.Stat(p)
	return err == nil && fi.Mode().IsRegular()
}
