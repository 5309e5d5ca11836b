package portfolio

import (
	"slices"
	"strings"
)

// AllCategories selects every entry in FilterByCategory.
const AllCategories = "all"

// SortForDisplay returns a copy of entries ordered featured first, then by
// date descending (undated last), then by title.
func SortForDisplay(entries []Entry) []Entry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b Entry) int {
		if a.Featured != b.Featured {
			if a.Featured {
				return -1
			}
			return 1
		}
		if a.Date != b.Date {
			switch {
			case a.Date == "":
				return 1
			case b.Date == "":
				return -1
			}
			return strings.Compare(b.Date, a.Date)
		}
		return strings.Compare(a.Title, b.Title)
	})
	return out
}

// FilterByCategory returns the entries of category. An empty category or
// AllCategories returns every entry.
func FilterByCategory(entries []Entry, category string) []Entry {
	if category == "" || category == AllCategories {
		return slices.Clone(entries)
	}
	out := make([]Entry, 0)
	for _, e := range entries {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}
