package imagepath

import (
	"path"
	"strings"

	"github.com/bogomolov-fly/portfolio/internal/frontmatter"
	"github.com/bogomolov-fly/portfolio/internal/frontmatterops"
)

// URLPrefix is the public URL prefix of every portfolio image.
const URLPrefix = "/images/portfolio/"

const publicDir = "public/"

// Clean strips leading slashes and a leading public/ directory from ref,
// converting backslashes to slashes. The result is relative to the public
// assets root.
func Clean(ref string) string {
	p := strings.ReplaceAll(strings.TrimSpace(ref), "\\", "/")
	p = strings.TrimLeft(p, "/")
	p = strings.TrimPrefix(p, publicDir)
	return strings.TrimLeft(p, "/")
}

// Base returns the file name component of ref.
func Base(ref string) string {
	p := Clean(ref)
	if p == "" {
		return ""
	}
	return path.Base(p)
}

// IsExternal reports whether ref is an absolute URL (http, https, data or
// protocol-relative) rather than a site asset path.
func IsExternal(ref string) bool {
	r := strings.ToLower(strings.TrimSpace(ref))
	return strings.HasPrefix(r, "//") ||
		strings.HasPrefix(r, "http:") ||
		strings.HasPrefix(r, "https:") ||
		strings.HasPrefix(r, "data:")
}

// Normalize returns the canonical public path of ref for category.
//
// The result is always /images/portfolio/<category>/<base name of ref>, so
// Normalize is idempotent and references into another category are moved to
// category. Nested sub-paths under the category are flattened as well:
// /images/portfolio/kitchens/2023/k1.jpg becomes
// /images/portfolio/kitchens/k1.jpg. Empty references, external URLs and an
// empty category return ref unchanged.
func Normalize(ref, category string) string {
	if IsExternal(ref) {
		return ref
	}
	category = strings.Trim(strings.TrimSpace(category), "/")
	base := Base(ref)
	if base == "" || category == "" {
		return ref
	}
	return URLPrefix + category + "/" + base
}

// NormalizeValue normalizes v when it is a non-empty string and returns any
// other value unchanged.
func NormalizeValue(v any, category string) any {
	s, ok := v.(string)
	if !ok || s == "" {
		return v
	}
	return Normalize(s, category)
}

// NormalizeList normalizes every entry of an `images` value: plain strings
// and {image: path} maps. Other values are handled like NormalizeValue.
func NormalizeList(v any, category string) any {
	items, ok := v.([]any)
	if !ok {
		return NormalizeValue(v, category)
	}

	out := make([]any, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			out[i] = NormalizeValue(item, category)
			continue
		}
		entry := make(map[string]any, len(m))
		for k, val := range m {
			entry[k] = val
		}
		if img, ok := m[frontmatterops.KeyImage]; ok {
			entry[frontmatterops.KeyImage] = NormalizeValue(img, category)
		}
		out[i] = entry
	}
	return out
}

// NormalizeFields rewrites `image` and `images` of a document in place and
// reports whether anything changed.
func NormalizeFields(fields frontmatter.Fields, category string) bool {
	return frontmatterops.MapImages(fields, func(ref string) string {
		return Normalize(ref, category)
	})
}
