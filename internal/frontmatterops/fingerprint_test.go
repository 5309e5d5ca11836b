package frontmatterops

import (
	"testing"

	"github.com/inful/mdfp"
	"github.com/stretchr/testify/require"

	"github.com/bogomolov-fly/portfolio/internal/frontmatter"
)

func TestComputeFingerprint(t *testing.T) {
	t.Run("matches canonical serialization", func(t *testing.T) {
		fields := frontmatter.Fields{"title": "Кухня", "category": "kitchens"}
		body := []byte("Текст\n")

		got, err := ComputeFingerprint(fields, body)
		require.NoError(t, err)

		raw, err := frontmatter.SerializeYAML(fields, frontmatter.Style{Newline: "\n"})
		require.NoError(t, err)
		expected := mdfp.CalculateFingerprintFromParts(trimSingleTrailingNewline(string(raw)), string(body))
		require.Equal(t, expected, got)
	})

	t.Run("ignores stored fingerprint", func(t *testing.T) {
		a, err := ComputeFingerprint(frontmatter.Fields{"title": "Кухня"}, []byte("x"))
		require.NoError(t, err)
		b, err := ComputeFingerprint(frontmatter.Fields{"title": "Кухня", mdfp.FingerprintField: "stale"}, []byte("x"))
		require.NoError(t, err)
		require.Equal(t, a, b)
	})

	t.Run("body changes the fingerprint", func(t *testing.T) {
		a, err := ComputeFingerprint(frontmatter.Fields{"title": "Кухня"}, []byte("x"))
		require.NoError(t, err)
		b, err := ComputeFingerprint(frontmatter.Fields{"title": "Кухня"}, []byte("y"))
		require.NoError(t, err)
		require.NotEqual(t, a, b)
	})

	t.Run("nil fields", func(t *testing.T) {
		_, err := ComputeFingerprint(nil, nil)
		require.Error(t, err)
	})
}

func TestFingerprint_IndependentOfMetadataLayout(t *testing.T) {
	delimited := []byte("---\ncategory: kitchens\ntitle: \"Кухня\"\n---\nТекст\n")
	rewritten, err := Write(frontmatter.Fields{"title": "Кухня", "category": "kitchens"}, []byte("Текст\n"))
	require.NoError(t, err)

	a, err := Fingerprint(delimited, frontmatter.ModeStandard)
	require.NoError(t, err)
	b, err := Fingerprint(rewritten, frontmatter.ModeStandard)
	require.NoError(t, err)
	require.Equal(t, a, b)
}
