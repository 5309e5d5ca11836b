package docmodel

import (
	"bytes"
	"io/fs"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/bogomolov-fly/portfolio/internal/foundation/errors"
	"github.com/bogomolov-fly/portfolio/internal/frontmatter"
	"github.com/bogomolov-fly/portfolio/internal/frontmatterops"
	"github.com/bogomolov-fly/portfolio/internal/markdown"
)

// Options controls how a ContentDocument is parsed.
type Options struct {
	// Mode selects how leniently metadata outside a `---` block is read.
	Mode frontmatter.Mode
	// Markdown configures body analysis (image references).
	Markdown markdown.Options
}

// ContentDocument is one portfolio project file: its location, its metadata
// and the Markdown body that follows the metadata.
//
// Fields returns the live metadata map; callers edit it in place with the
// frontmatterops helpers and then call Bytes or WriteFile.
type ContentDocument struct {
	path     string
	original []byte
	fields   frontmatter.Fields
	body     []byte
	opts     Options
}

// Parse builds a ContentDocument from raw file content. It never fails.
func Parse(p string, content []byte, opts Options) *ContentDocument {
	fields, body := frontmatterops.Read(content, opts.Mode)
	return &ContentDocument{
		path:     p,
		original: append([]byte(nil), content...),
		fields:   fields,
		body:     body,
		opts:     opts,
	}
}

// ReadFile reads and parses a document from a billy filesystem.
func ReadFile(fsys billy.Filesystem, p string, opts Options) (*ContentDocument, error) {
	content, err := util.ReadFile(fsys, p)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read document").
			WithContext("path", p).
			Build()
	}
	return Parse(p, content, opts), nil
}

// ReadFS reads and parses a document from an io/fs filesystem.
func ReadFS(fsys fs.FS, p string, opts Options) (*ContentDocument, error) {
	content, err := fs.ReadFile(fsys, p)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read document").
			WithContext("path", p).
			Build()
	}
	return Parse(p, content, opts), nil
}

// Path returns the slash-separated location the document was read from.
func (d *ContentDocument) Path() string { return d.path }

// Name returns the file name of the document.
func (d *ContentDocument) Name() string { return path.Base(d.path) }

// ID returns the file name without its extension.
func (d *ContentDocument) ID() string {
	name := d.Name()
	return strings.TrimSuffix(name, path.Ext(name))
}

// Dir returns the name of the directory holding the document.
func (d *ContentDocument) Dir() string { return path.Base(path.Dir(d.path)) }

// Fields returns the document metadata.
func (d *ContentDocument) Fields() frontmatter.Fields { return d.fields }

// Body returns a copy of the Markdown body.
func (d *ContentDocument) Body() []byte {
	return append([]byte(nil), d.body...)
}

// Original returns a copy of the bytes the document was parsed from.
func (d *ContentDocument) Original() []byte {
	return append([]byte(nil), d.original...)
}

// Category returns the `category` metadata and whether it is set.
func (d *ContentDocument) Category() (string, bool) {
	return frontmatterops.Category(d.fields)
}

// BodyImages returns the image references embedded in the body.
func (d *ContentDocument) BodyImages() []markdown.ImageRef {
	return markdown.ExtractImages(d.body, d.opts.Markdown)
}

// RewriteBodyImages replaces body image destinations with fn(destination)
// and returns how many references changed.
func (d *ContentDocument) RewriteBodyImages(fn func(string) string) (int, error) {
	updated, n, err := markdown.RewriteImages(d.body, d.opts.Markdown, fn)
	if err != nil {
		return 0, errors.WrapError(err, errors.CategoryParse, "failed to rewrite body images").
			WithContext("path", d.path).
			Build()
	}
	d.body = updated
	return n, nil
}

// Bytes serializes the metadata as a `---` block followed by the body.
func (d *ContentDocument) Bytes() ([]byte, error) {
	out, err := frontmatterops.Write(d.fields, d.body)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryParse, "failed to serialize document").
			WithContext("path", d.path).
			Build()
	}
	return out, nil
}

// Changed reports whether serializing the document would produce bytes
// different from the ones it was read from.
func (d *ContentDocument) Changed() (bool, error) {
	out, err := d.Bytes()
	if err != nil {
		return false, err
	}
	return !bytes.Equal(out, d.original), nil
}

// Fingerprint returns the content fingerprint of the document in its current
// state.
func (d *ContentDocument) Fingerprint() (string, error) {
	return frontmatterops.ComputeFingerprint(d.fields, d.body)
}

// WriteFile serializes the document to p on fsys, creating parent
// directories as needed.
func (d *ContentDocument) WriteFile(fsys billy.Filesystem, p string) error {
	out, err := d.Bytes()
	if err != nil {
		return err
	}
	if err := fsys.MkdirAll(path.Dir(p), 0o755); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create directory").
			WithContext("path", path.Dir(p)).
			Build()
	}
	if err := util.WriteFile(fsys, p, out, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write document").
			WithContext("path", p).
			Build()
	}
	return nil
}
