// Package markdown wraps goldmark for the two things the pipeline needs from
// document bodies: locating image references for rewriting, and rendering
// descriptions to HTML for the presentation layer.
package markdown

import (
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// Options controls how Markdown is parsed and rendered.
type Options struct {
	// Typographer converts straight quotes and dashes to typographic ones.
	Typographer bool
	// HardWraps renders single newlines inside a paragraph as <br>.
	HardWraps bool
}

func newMarkdown(opts Options) goldmark.Markdown {
	exts := []goldmark.Extender{extension.GFM}
	if opts.Typographer {
		exts = append(exts, extension.Typographer)
	}

	var rendererOpts []renderer.Option
	if opts.HardWraps {
		rendererOpts = append(rendererOpts, html.WithHardWraps())
	}

	return goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithRendererOptions(rendererOpts...),
	)
}

// ParseBody parses a Markdown body (metadata already removed) into a goldmark AST.
func ParseBody(body []byte, opts Options) gmast.Node {
	return newMarkdown(opts).Parser().Parse(text.NewReader(body))
}
