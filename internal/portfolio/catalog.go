package portfolio

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category is a configured category and its display label.
type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// CatalogEntry is a category with the number of entries in it.
type CatalogEntry struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Catalog lists the configured categories in their configured order,
// followed by the categories that only occur in entries, sorted. Unknown
// categories get a label derived from their id.
func Catalog(entries []Entry, known []Category) []CatalogEntry {
	counts := make(map[string]int)
	for _, e := range entries {
		counts[e.Category]++
	}

	out := make([]CatalogEntry, 0, len(known)+len(counts))
	seen := make(map[string]bool, len(known))
	for _, c := range known {
		label := c.Label
		if label == "" {
			label = LabelFromID(c.ID)
		}
		out = append(out, CatalogEntry{ID: c.ID, Label: label, Count: counts[c.ID]})
		seen[c.ID] = true
	}

	var extra []string
	for id := range counts {
		if !seen[id] {
			extra = append(extra, id)
		}
	}
	sort.Strings(extra)
	for _, id := range extra {
		out = append(out, CatalogEntry{ID: id, Label: LabelFromID(id), Count: counts[id]})
	}
	return out
}

// LabelFromID turns a category id such as "living-room" into "Living Room".
func LabelFromID(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool { return r == '-' || r == '_' || r == ' ' })
	return cases.Title(language.Und).String(strings.Join(words, " "))
}
