package git

import (
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	gogit "github.com/go-git/go-git/v5"

	"github.com/bogomolov-fly/portfolio/internal/foundation/errors"
	"github.com/bogomolov-fly/portfolio/internal/logfields"
)

// Mover performs relocation file operations inside a git worktree.
//
// Paths passed to Mover are slash-separated and relative to the project
// root, which may be a subdirectory of the repository.
type Mover struct {
	repo   *gogit.Repository
	wt     *gogit.Worktree
	prefix string
	logger *slog.Logger
}

// NewMover wraps an opened repository. The project root is the worktree root.
func NewMover(repo *gogit.Repository, logger *slog.Logger) (*Mover, error) {
	wt, err := repo.Worktree()
	if err != nil {
		return nil, classify(err, "worktree", "")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Mover{repo: repo, wt: wt, logger: logger}, nil
}

// Open finds the repository containing projectRoot and returns a Mover for
// it together with a filesystem rooted at projectRoot.
func Open(projectRoot string, logger *slog.Logger) (*Mover, billy.Filesystem, error) {
	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve project root").
			WithContext("path", projectRoot).
			Build()
	}

	repo, err := gogit.PlainOpenWithOptions(abs, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, nil, classify(err, "open", abs)
	}

	m, err := NewMover(repo, logger)
	if err != nil {
		return nil, nil, err
	}

	rel, err := filepath.Rel(m.wt.Filesystem.Root(), abs)
	if err != nil {
		return nil, nil, errors.WrapError(err, errors.CategoryFileSystem, "project root is outside the repository").
			WithContext("path", abs).
			Build()
	}
	if rel = filepath.ToSlash(rel); rel != "." {
		m.prefix = rel
	}

	fs, err := m.wt.Filesystem.Chroot(m.repoPath("."))
	if err != nil {
		return nil, nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to open project root").
			WithContext("path", abs).
			Build()
	}
	return m, fs, nil
}

func (m *Mover) repoPath(p string) string {
	return path.Join(m.prefix, p)
}

// Tracked reports whether p has an entry in the index.
func (m *Mover) Tracked(p string) bool {
	idx, err := m.repo.Storer.Index()
	if err != nil {
		return false
	}
	_, err = idx.Entry(m.repoPath(p))
	return err == nil
}

// Move renames from to to. Tracked files are moved in the index as well.
// An existing destination is never overwritten.
func (m *Mover) Move(from, to string) error {
	fs := m.wt.Filesystem
	src, dst := m.repoPath(from), m.repoPath(to)

	if _, err := fs.Lstat(dst); err == nil {
		return errors.NewError(errors.CategoryAlreadyExists, "destination already exists").
			WithContext("path", to).
			Build()
	}
	if err := fs.MkdirAll(path.Dir(dst), 0o755); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create directory").
			WithContext("path", path.Dir(to)).
			Build()
	}

	if !m.Tracked(from) {
		if err := fs.Rename(src, dst); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "rename failed").
				WithContext("path", from).
				Build()
		}
		return nil
	}

	if _, err := m.wt.Move(src, dst); err != nil {
		return classify(err, "mv", from)
	}
	m.logger.Debug("Moved tracked file", logfields.Path(from), logfields.Target(to))
	return nil
}

// Remove deletes p, staging the deletion when p is tracked.
func (m *Mover) Remove(p string) error {
	if !m.Tracked(p) {
		if err := m.wt.Filesystem.Remove(m.repoPath(p)); err != nil && !os.IsNotExist(err) {
			return errors.WrapError(err, errors.CategoryFileSystem, "remove failed").
				WithContext("path", p).
				Build()
		}
		return nil
	}

	if _, err := m.wt.Remove(m.repoPath(p)); err != nil {
		return classify(err, "rm", p)
	}
	m.logger.Debug("Removed tracked file", logfields.Path(p))
	return nil
}

// Add stages p. It is used for documents written to a new location so the
// relocation shows up as a rename once the original is removed.
func (m *Mover) Add(p string) error {
	if _, err := m.wt.Add(m.repoPath(p)); err != nil {
		return classify(err, "add", p)
	}
	return nil
}
