package config

import (
	"fmt"
	"path"
	"strings"

	"github.com/bogomolov-fly/portfolio/internal/foundation/normalization"
)

// NormalizationResult captures adjustments and warnings from the
// normalization pass.
type NormalizationResult struct{ Warnings []string }

// NormalizeConfig canonicalizes enumerations, paths and extensions before
// defaults are applied. It mutates c in place.
func NormalizeConfig(c *Config) *NormalizationResult {
	res := &NormalizationResult{}
	if c == nil {
		return res
	}

	normalizeEnum("content.parse_mode", &c.Content.ParseMode, parseModeNormalizer, res)
	normalizeEnum("content.missing_category", &c.Content.MissingCategory, missingCategoryNormalizer, res)
	normalizeEnum("logging.level", &c.Logging.Level, logLevelNormalizer, res)
	normalizeEnum("logging.format", &c.Logging.Format, logFormatNormalizer, res)

	c.Paths.ContentRoot = cleanRelative(c.Paths.ContentRoot)
	c.Paths.ImagesRoot = cleanRelative(c.Paths.ImagesRoot)
	c.Paths.PublicRoot = cleanRelative(c.Paths.PublicRoot)

	if ext := c.Content.Extension; ext != "" {
		c.Content.Extension = normalizeExt(ext)
	}
	for i, ext := range c.Images.Extensions {
		c.Images.Extensions[i] = normalizeExt(ext)
	}

	if c.Content.ExcerptLength < 0 {
		res.Warnings = append(res.Warnings, warnChanged("content.excerpt_length", c.Content.ExcerptLength, 0))
		c.Content.ExcerptLength = 0
	}

	for i := range c.Categories {
		c.Categories[i].ID = strings.TrimSpace(c.Categories[i].ID)
		c.Categories[i].Label = strings.TrimSpace(c.Categories[i].Label)
	}
	return res
}

func normalizeEnum[T ~string](field string, v *T, n *normalization.Normalizer[T], res *NormalizationResult) {
	raw := string(*v)
	if strings.TrimSpace(raw) == "" {
		return
	}
	if canonical, ok := n.Lookup(raw); ok {
		if canonical != *v {
			res.Warnings = append(res.Warnings, warnChanged(field, raw, canonical))
			*v = canonical
		}
		return
	}
	def := n.Normalize("")
	res.Warnings = append(res.Warnings, warnUnknown(field, raw, string(def)))
	*v = def
}

// cleanRelative turns "./a//b/" or "a\b" into "a/b". Empty stays empty.
func cleanRelative(p string) string {
	p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
	if p == "" {
		return ""
	}
	return path.Clean(p)
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func warnChanged(field string, from, to any) string {
	return fmt.Sprintf("normalized %s from '%v' to '%v'", field, from, to)
}

func warnUnknown(field, value, def string) string {
	return fmt.Sprintf("unknown %s '%s', defaulting to %s", field, value, def)
}
