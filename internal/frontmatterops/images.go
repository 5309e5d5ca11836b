package frontmatterops

import (
	"slices"
	"strings"

	"github.com/bogomolov-fly/portfolio/internal/frontmatter"
)

// imageEntry returns the path carried by one `images` item: either a plain
// string or a {image: path} map.
func imageEntry(item any) (string, bool) {
	switch v := item.(type) {
	case string:
		s := strings.TrimSpace(v)
		return s, s != ""
	case map[string]any:
		s, _ := v[KeyImage].(string)
		s = strings.TrimSpace(s)
		return s, s != ""
	default:
		return "", false
	}
}

// ImageList returns the display image list of a document.
//
// When `images` is a list its non-empty entries are used, trimmed. Otherwise
// a non-empty `image` yields a single-element list. The result is never nil.
func ImageList(fields frontmatter.Fields) []string {
	if items, ok := fields[KeyImages].([]any); ok {
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := imageEntry(item); ok {
				out = append(out, s)
			}
		}
		return out
	}
	if s := String(fields, KeyImage); s != "" {
		return []string{s}
	}
	return []string{}
}

// PrimaryImage returns `image`, or the first usable `images` entry.
func PrimaryImage(fields frontmatter.Fields) string {
	if s := String(fields, KeyImage); s != "" {
		return s
	}
	if list := ImageList(fields); len(list) > 0 {
		return list[0]
	}
	return ""
}

// ImageRefs returns every image a document references through metadata:
// `image` followed by the `images` entries, without duplicates.
func ImageRefs(fields frontmatter.Fields) []string {
	out := make([]string, 0)
	add := func(s string) {
		if s != "" && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}

	add(String(fields, KeyImage))
	if items, ok := fields[KeyImages].([]any); ok {
		for _, item := range items {
			if s, ok := imageEntry(item); ok {
				add(s)
			}
		}
	}
	return out
}

// MapImages applies fn to `image` and to every `images` entry, keeping the
// shape of each entry. It reports whether any value changed.
func MapImages(fields frontmatter.Fields, fn func(string) string) (changed bool) {
	if s, ok := fields[KeyImage].(string); ok && s != "" {
		if next := fn(s); next != s {
			fields[KeyImage] = next
			changed = true
		}
	}

	items, ok := fields[KeyImages].([]any)
	if !ok {
		return changed
	}
	for i, item := range items {
		switch v := item.(type) {
		case string:
			if v == "" {
				continue
			}
			if next := fn(v); next != v {
				items[i] = next
				changed = true
			}
		case map[string]any:
			s, ok := v[KeyImage].(string)
			if !ok || s == "" {
				continue
			}
			if next := fn(s); next != s {
				v[KeyImage] = next
				changed = true
			}
		}
	}
	return changed
}

// ArrangeImages makes `images` start with the primary image.
//
// When only `image` is set it creates `images: [image]`. When both are set
// the primary image is moved to the front and later duplicates of it are
// dropped. Documents without `image` are left untouched.
func ArrangeImages(fields frontmatter.Fields) (changed bool) {
	primary := String(fields, KeyImage)
	if primary == "" {
		return false
	}

	items, ok := fields[KeyImages].([]any)
	if !ok {
		fields[KeyImages] = []any{primary}
		return true
	}

	out := make([]any, 0, len(items)+1)
	out = append(out, primary)
	for _, item := range items {
		if s, ok := imageEntry(item); ok && s == primary {
			continue
		}
		out = append(out, item)
	}

	if slices.EqualFunc(out, items, sameEntry) {
		return false
	}
	fields[KeyImages] = out
	return true
}

func sameEntry(a, b any) bool {
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok || bok {
		return aok && bok && as == bs
	}
	ap, aok := imageEntry(a)
	bp, bok := imageEntry(b)
	return aok == bok && ap == bp
}
