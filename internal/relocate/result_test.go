package relocate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bogomolov-fly/portfolio/internal/foundation/errors"
)

func TestContentResult_Summary(t *testing.T) {
	res := &ContentResult{
		Relocated: []Move{
			{Source: "a.md", Target: "kitchens/a.md", Category: "kitchens"},
			{Source: "b.md", Target: "cabinets/b.md", Category: "cabinets"},
		},
		AlreadyRelocated: []Move{{Source: "c.md", Target: "kitchens/c.md", Category: "kitchens"}},
		Skipped:          []string{"nocat.md"},
		Errors:           []error{errors.FileSystemError("disk full").Build()},
	}

	summary := res.Summary()
	assert.Contains(t, summary, "Documents relocated: 2\n")
	assert.Contains(t, summary, "Already relocated: 1\n")
	assert.Contains(t, summary, "  kitchens (2): a.md, c.md\n")
	assert.Contains(t, summary, "  • nocat.md\n")
	assert.Contains(t, summary, "disk full")
	assert.NotContains(t, summary, "dry run")
	assert.True(t, res.HasErrors())

	assert.Equal(t, "2", res.Counters()["relocated"])
	assert.Equal(t, "1", res.Counters()["errors"])
}

func TestAssetResult_Summary(t *testing.T) {
	res := &AssetResult{
		DryRun:      true,
		Documents:   3,
		Moved:       []Move{{Source: "x.jpg", Target: "kitchens/x.jpg", Category: "kitchens"}},
		PerCategory: map[string]int{"kitchens": 4, "cabinets": 1},
		Reassigned:  []Reassignment{{Image: "x.jpg", From: "cabinets", To: "kitchens", Document: "b.md"}},
	}

	summary := res.Summary()
	assert.Contains(t, summary, "Image relocation (dry run, nothing written)\n")
	assert.Contains(t, summary, "  cabinets: 1\n  kitchens: 4\n")
	assert.Contains(t, summary, "x.jpg → kitchens/x.jpg")
	assert.Contains(t, summary, "x.jpg: cabinets → kitchens (b.md)")
	assert.False(t, res.HasErrors())
}

func TestCleanupResult_Counters(t *testing.T) {
	res := &CleanupResult{Removed: []string{"a", "b"}, Placeholder: true, Remaining: 7}
	assert.Equal(t, map[string]string{
		"removed":             "2",
		"kept":                "0",
		"placeholder_removed": "1",
		"remaining":           "7",
		"errors":              "0",
	}, res.Counters())
	assert.Contains(t, res.Summary(), "Placeholder directory removed")
	assert.Contains(t, res.Summary(), "Images remaining: 7\n")
}
