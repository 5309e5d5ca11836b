package frontmatterops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bogomolov-fly/portfolio/internal/frontmatter"
)

func TestString(t *testing.T) {
	fields := frontmatter.Fields{"title": "  Кухня ", "featured": true}
	assert.Equal(t, "Кухня", String(fields, "title"))
	assert.Equal(t, "", String(fields, "featured"))
	assert.Equal(t, "", String(fields, "missing"))
}

func TestBool(t *testing.T) {
	tests := []struct {
		value any
		want  bool
	}{
		{true, true},
		{false, false},
		{"true", true},
		{" TRUE ", true},
		{"yes", false},
		{[]any{"true"}, false},
		{nil, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Bool(frontmatter.Fields{KeyFeatured: tt.value}, KeyFeatured), "%v", tt.value)
	}
}

func TestCategory(t *testing.T) {
	c, ok := Category(frontmatter.Fields{KeyCategory: "kitchens"})
	assert.True(t, ok)
	assert.Equal(t, "kitchens", c)

	_, ok = Category(frontmatter.Fields{KeyCategory: "  "})
	assert.False(t, ok)

	_, ok = Category(frontmatter.Fields{})
	assert.False(t, ok)
}

func TestEnsureTitle(t *testing.T) {
	fields := frontmatter.Fields{}
	require.True(t, EnsureTitle(fields, "kitchen-1"))
	require.Equal(t, "kitchen-1", fields[KeyTitle])

	fields = frontmatter.Fields{KeyTitle: "   "}
	require.True(t, EnsureTitle(fields, "kitchen-1"))
	require.Equal(t, "kitchen-1", fields[KeyTitle])

	fields = frontmatter.Fields{KeyTitle: "Кухня"}
	require.False(t, EnsureTitle(fields, "kitchen-1"))
	require.Equal(t, "Кухня", fields[KeyTitle])
}
