package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ids(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestSortForDisplay(t *testing.T) {
	entries := []Entry{
		{ID: "old", Title: "B", Date: "2021-01-01"},
		{ID: "undated", Title: "A"},
		{ID: "featured-old", Title: "Z", Date: "2020-01-01", Featured: true},
		{ID: "new", Title: "C", Date: "2024-03-01"},
		{ID: "featured-new", Title: "Y", Date: "2023-01-01", Featured: true},
		{ID: "same-date", Title: "A", Date: "2021-01-01"},
	}

	sorted := SortForDisplay(entries)

	assert.Equal(t, []string{"featured-new", "featured-old", "new", "same-date", "old", "undated"}, ids(sorted))
	assert.Equal(t, "old", entries[0].ID, "input is not reordered")
}

func TestFilterByCategory(t *testing.T) {
	entries := []Entry{
		{ID: "a", Category: "kitchens"},
		{ID: "b", Category: "cabinets"},
		{ID: "c", Category: "kitchens"},
	}

	assert.Equal(t, []string{"a", "c"}, ids(FilterByCategory(entries, "kitchens")))
	assert.Equal(t, []string{"a", "b", "c"}, ids(FilterByCategory(entries, AllCategories)))
	assert.Equal(t, []string{"a", "b", "c"}, ids(FilterByCategory(entries, "")))
	assert.Empty(t, FilterByCategory(entries, "bathroom"))
}

func TestCatalog(t *testing.T) {
	entries := []Entry{
		{Category: "kitchens"},
		{Category: "kitchens"},
		{Category: "living-room"},
		{Category: "uncategorized"},
	}
	known := []Category{
		{ID: "kitchens", Label: "Кухни"},
		{ID: "cabinets", Label: "Гардеробные"},
	}

	assert.Equal(t, []CatalogEntry{
		{ID: "kitchens", Label: "Кухни", Count: 2},
		{ID: "cabinets", Label: "Гардеробные", Count: 0},
		{ID: "living-room", Label: "Living Room", Count: 1},
		{ID: "uncategorized", Label: "Uncategorized", Count: 1},
	}, Catalog(entries, known))
}

func TestLabelFromID(t *testing.T) {
	assert.Equal(t, "Living Room", LabelFromID("living-room"))
	assert.Equal(t, "Детская Мебель", LabelFromID("детская_мебель"))
	assert.Equal(t, "", LabelFromID(""))
}
