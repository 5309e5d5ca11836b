package frontmatter

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// parseScalar interprets the right-hand side of a `key: value` line.
//
// Quoted values are unquoted and never coerced. Unquoted true/false become
// booleans. A bracketed value is decoded as an inline list and falls back to
// the literal text when it does not parse.
func parseScalar(raw string) any {
	v := strings.TrimSpace(raw)
	if isQuoted(v) {
		return unquote(v)
	}
	switch v {
	case "true":
		return true
	case "false":
		return false
	}
	if strings.HasPrefix(v, "[") {
		if list, ok := flowList(v); ok {
			return list
		}
	}
	return v
}

// flowList decodes an inline `[a, b]` list, keeping each item's text.
func flowList(v string) ([]any, bool) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(v), &doc); err != nil || len(doc.Content) == 0 {
		return nil, false
	}
	if doc.Content[0].Kind != yaml.SequenceNode {
		return nil, false
	}
	list, err := nodeValue(doc.Content[0])
	if err != nil {
		return nil, false
	}
	return list.([]any), true
}

// parseText is parseScalar without boolean or list coercion.
func parseText(raw string) string {
	v := strings.TrimSpace(raw)
	if isQuoted(v) {
		return unquote(v)
	}
	return v
}

func isQuoted(v string) bool {
	if len(v) < 2 {
		return false
	}
	first, last := v[0], v[len(v)-1]
	return first == last && (first == '"' || first == '\'')
}

func unquote(v string) string {
	var s string
	if err := yaml.Unmarshal([]byte(v), &s); err == nil {
		return s
	}
	return v[1 : len(v)-1]
}
