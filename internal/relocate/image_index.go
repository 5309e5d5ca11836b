package relocate

import (
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"golang.org/x/text/unicode/norm"

	"github.com/bogomolov-fly/portfolio/internal/foundation/errors"
)

// ImageIndex maps image file names to every path holding a file of that
// name under the images root.
//
// Names are keyed in Unicode NFC so a name written on one system (NFD file
// names) matches the same name typed in a document.
type ImageIndex struct {
	byName map[string][]string
	files  int
}

// BuildImageIndex walks root once and indexes every image file.
func BuildImageIndex(fsys billy.Filesystem, root string, isImage func(name string) bool) (*ImageIndex, error) {
	ix := &ImageIndex{byName: make(map[string][]string)}

	err := util.Walk(fsys, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() || !isImage(info.Name()) {
			return nil
		}
		p = filepath.ToSlash(p)
		key := indexKey(info.Name())
		ix.byName[key] = append(ix.byName[key], p)
		ix.files++
		return nil
	})
	if err != nil {
		category := errors.CategoryFileSystem
		if isNotExist(err) {
			category = errors.CategoryNotFound
		}
		return nil, errors.WrapError(err, category, "failed to index images").
			WithContext("path", root).
			Build()
	}

	for _, paths := range ix.byName {
		sort.Strings(paths)
	}
	return ix, nil
}

// Lookup returns the sorted paths of files named name.
func (ix *ImageIndex) Lookup(name string) []string {
	return ix.byName[indexKey(name)]
}

// Len returns the number of indexed files.
func (ix *ImageIndex) Len() int { return ix.files }

// Move updates the index after a file was moved.
func (ix *ImageIndex) Move(from, to string) {
	key := indexKey(path.Base(from))
	paths := ix.byName[key]
	for i, p := range paths {
		if p == from {
			paths[i] = to
		}
	}
	sort.Strings(paths)
}

// CountByDir counts the indexed files held directly in each subdirectory of
// root, keyed by subdirectory name. Files at root itself are not counted.
func (ix *ImageIndex) CountByDir(root string) map[string]int {
	counts := make(map[string]int)
	for _, paths := range ix.byName {
		for _, p := range paths {
			if dir := path.Dir(p); path.Dir(dir) == root {
				counts[path.Base(dir)]++
			}
		}
	}
	return counts
}

// Remove drops p from the index.
func (ix *ImageIndex) Remove(p string) {
	key := indexKey(path.Base(p))
	paths := ix.byName[key]
	for i, existing := range paths {
		if existing == p {
			ix.byName[key] = append(paths[:i], paths[i+1:]...)
			ix.files--
			return
		}
	}
}

func indexKey(name string) string {
	return norm.NFC.String(name)
}
