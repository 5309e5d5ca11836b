package frontmatterops

import (
	"strconv"
	"strings"

	"github.com/bogomolov-fly/portfolio/internal/frontmatter"
)

// Recognized metadata keys.
const (
	KeyCategory    = "category"
	KeyTitle       = "title"
	KeyImage       = "image"
	KeyImages      = "images"
	KeyDescription = "description"
	KeyBody        = "body"
	KeyDate        = "date"
	KeyFeatured    = "featured"
)

// String returns the trimmed string value of key, or "" when the key is
// missing or not a string.
func String(fields frontmatter.Fields, key string) string {
	s, _ := fields[key].(string)
	return strings.TrimSpace(s)
}

// Bool returns the boolean value of key. String values are accepted when
// they parse as a boolean; anything else is false.
func Bool(fields frontmatter.Fields, key string) bool {
	switch v := fields[key].(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && b
	default:
		return false
	}
}

// Category returns the document category and whether one is set.
func Category(fields frontmatter.Fields) (string, bool) {
	c := String(fields, KeyCategory)
	return c, c != ""
}

// EnsureTitle sets title to fallback when missing or empty/whitespace.
func EnsureTitle(fields frontmatter.Fields, fallback string) (changed bool) {
	if fields == nil {
		return false
	}

	v, ok := fields[KeyTitle]
	if !ok || v == nil {
		fields[KeyTitle] = fallback
		return true
	}

	s, ok := v.(string)
	if !ok {
		return false
	}

	if strings.TrimSpace(s) == "" {
		fields[KeyTitle] = fallback
		return true
	}

	return false
}
