package markdown

import "bytes"

// Render converts a Markdown body to HTML. Raw HTML in the source is omitted.
func Render(body []byte, opts Options) (string, error) {
	var buf bytes.Buffer
	if err := newMarkdown(opts).Convert(body, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
