package relocate

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path"

	"github.com/go-git/go-billy/v5"

	"github.com/bogomolov-fly/portfolio/internal/foundation/errors"
)

// Mover moves and removes files on behalf of the batch tools. Paths are
// relative to the filesystem root.
//
// Move must refuse to replace an existing destination with an
// already_exists error and create missing parent directories.
type Mover interface {
	Move(from, to string) error
	Remove(p string) error
}

// Stager is implemented by movers backed by version control. When a
// relocated document's original is tracked the new copy is staged too.
type Stager interface {
	Tracked(p string) bool
	Add(p string) error
}

// FSMover moves files with plain filesystem renames.
type FSMover struct {
	FS billy.Filesystem
}

// Move renames from to to.
func (m FSMover) Move(from, to string) error {
	if _, err := m.FS.Lstat(to); err == nil {
		return errors.NewError(errors.CategoryAlreadyExists, "destination already exists").
			WithContext("from", from).
			WithContext("to", to).
			Build()
	}
	if err := m.FS.MkdirAll(path.Dir(to), 0o755); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create directory").
			WithContext("path", path.Dir(to)).
			Build()
	}
	if err := m.FS.Rename(from, to); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to move file").
			WithContext("from", from).
			WithContext("to", to).
			Build()
	}
	return nil
}

// Remove deletes p. A missing file is not an error.
func (m FSMover) Remove(p string) error {
	if err := m.FS.Remove(p); err != nil && !isNotExist(err) {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to remove file").
			WithContext("path", p).
			Build()
	}
	return nil
}

func isNotExist(err error) bool {
	return stderrors.Is(err, fs.ErrNotExist) || os.IsNotExist(err)
}
