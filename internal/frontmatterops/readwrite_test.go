package frontmatterops

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bogomolov-fly/portfolio/internal/frontmatter"
)

func TestRead_NoMetadata_ReturnsEmptyFieldsAndBody(t *testing.T) {
	input := []byte("# Кухня\n\nТекст\n")

	fields, body := Read(input, frontmatter.ModeStandard)
	require.NotNil(t, fields)
	require.Empty(t, fields)
	require.Equal(t, input, body)
}

func TestRead_LeadingLines_InStandardMode(t *testing.T) {
	fields, body := Read([]byte("category: kitchens\nimage: a.jpg\n\nТекст\n"), frontmatter.ModeStandard)
	require.Equal(t, "kitchens", fields[KeyCategory])
	require.Equal(t, "a.jpg", fields[KeyImage])
	require.Equal(t, []byte("\nТекст\n"), body)
}

func TestWrite_ThenRead_RoundTrips(t *testing.T) {
	fields := frontmatter.Fields{
		KeyCategory: "kitchens",
		KeyImages:   []any{"/images/portfolio/kitchens/a.jpg"},
		KeyFeatured: true,
	}
	body := []byte("Текст\n")

	out, err := Write(fields, body)
	require.NoError(t, err)

	gotFields, gotBody := Read(out, frontmatter.ModeStrict)
	require.Equal(t, fields, gotFields)
	require.Equal(t, body, gotBody)
}
