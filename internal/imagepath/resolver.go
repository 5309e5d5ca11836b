package imagepath

import (
	"path"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5"
)

// DefaultExtensions are the file extensions treated as images.
var DefaultExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".gif", ".avif", ".svg"}

// Resolver checks image references against the public assets root.
type Resolver struct {
	FS         billy.Filesystem
	PublicRoot string
}

// Path returns the filesystem location of ref under the public root.
func (r Resolver) Path(ref string) string {
	return path.Join(r.PublicRoot, Clean(ref))
}

// Exists reports whether ref names a regular file under the public root.
func (r Resolver) Exists(ref string) bool {
	if Clean(ref) == "" {
		return false
	}
	fi, err := r.FS.Stat(r.Path(ref))
	return err == nil && !fi.IsDir()
}

// HasImageExt reports whether name ends in one of exts, ignoring case.
// A nil exts uses DefaultExtensions.
func HasImageExt(name string, exts []string) bool {
	if exts == nil {
		exts = DefaultExtensions
	}
	ext := strings.ToLower(path.Ext(name))
	return ext != "" && slices.ContainsFunc(exts, func(e string) bool {
		return strings.EqualFold(e, ext)
	})
}
