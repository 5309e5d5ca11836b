package portfolio

import (
	"slices"
	"strings"

	"github.com/bogomolov-fly/portfolio/internal/docmodel"
	"github.com/bogomolov-fly/portfolio/internal/frontmatterops"
	"github.com/bogomolov-fly/portfolio/internal/imagepath"
	"github.com/bogomolov-fly/portfolio/internal/markdown"
)

// Entry is one portfolio project as consumed by the presentation layer.
type Entry struct {
	ID               string   `json:"id"`
	Category         string   `json:"category"`
	Title            string   `json:"title"`
	PrimaryImage     string   `json:"primaryImage,omitempty"`
	Images           []string `json:"images"`
	Gallery          []string `json:"gallery"`
	ShortDescription string   `json:"shortDescription,omitempty"`
	FullDescription  string   `json:"fullDescription,omitempty"`
	DescriptionHTML  string   `json:"descriptionHtml,omitempty"`
	Excerpt          string   `json:"excerpt,omitempty"`
	Date             string   `json:"date,omitempty"`
	Featured         bool     `json:"featured"`
	Source           string   `json:"source"`
}

// HasImages reports whether the entry has anything to show besides a
// placeholder.
func (e Entry) HasImages() bool { return len(e.Images) > 0 }

// buildEntry derives an entry from a parsed document. category has already
// been resolved by the loader.
func buildEntry(doc *docmodel.ContentDocument, id, category string, opts loaderOptions) (Entry, error) {
	fields := doc.Fields()

	e := Entry{
		ID:               id,
		Category:         category,
		Title:            frontmatterops.String(fields, frontmatterops.KeyTitle),
		ShortDescription: frontmatterops.String(fields, frontmatterops.KeyDescription),
		Date:             frontmatterops.String(fields, frontmatterops.KeyDate),
		Featured:         frontmatterops.Bool(fields, frontmatterops.KeyFeatured),
		Source:           doc.Path(),
	}
	if e.Title == "" {
		e.Title = id
	}

	primary := frontmatterops.PrimaryImage(fields)
	images := frontmatterops.ImageList(fields)
	if opts.normalizeImages {
		primary = imagepath.Normalize(primary, category)
		for i, img := range images {
			images[i] = imagepath.Normalize(img, category)
		}
	}
	e.Images = images
	e.PrimaryImage = primary
	e.Gallery = arrangeImages(primary, images)

	e.FullDescription = fullDescription(
		e.ShortDescription,
		frontmatterops.String(fields, frontmatterops.KeyBody),
		strings.TrimSpace(string(doc.Body())),
	)
	if e.FullDescription != "" {
		html, err := markdown.Render([]byte(e.FullDescription), opts.markdown)
		if err != nil {
			return Entry{}, err
		}
		e.DescriptionHTML = html
		if opts.excerptLength > 0 {
			e.Excerpt = markdown.Excerpt(html, opts.excerptLength)
		}
	}
	return e, nil
}

// arrangeImages returns the viewer order: primary first, then the other
// images without duplicates of primary.
func arrangeImages(primary string, images []string) []string {
	if primary == "" {
		return slices.Clone(images)
	}
	out := make([]string, 0, len(images)+1)
	out = append(out, primary)
	for _, img := range images {
		if img != primary {
			out = append(out, img)
		}
	}
	return out
}

// fullDescription joins the non-empty parts with one blank line.
func fullDescription(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}
