package docmodel

import (
	"testing"
	"testing/fstest"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"

	"github.com/bogomolov-fly/portfolio/internal/foundation/errors"
	"github.com/bogomolov-fly/portfolio/internal/frontmatter"
	"github.com/bogomolov-fly/portfolio/internal/frontmatterops"
)

func TestParse_Accessors(t *testing.T) {
	doc := Parse("src/data/portfolio/kitchens/kitchen-1.md",
		[]byte("---\ncategory: kitchens\nimage: a.jpg\n---\nТекст\n"),
		Options{Mode: frontmatter.ModeStandard})

	require.Equal(t, "kitchen-1.md", doc.Name())
	require.Equal(t, "kitchen-1", doc.ID())
	require.Equal(t, "kitchens", doc.Dir())
	require.Equal(t, []byte("Текст\n"), doc.Body())

	category, ok := doc.Category()
	require.True(t, ok)
	require.Equal(t, "kitchens", category)
}

func TestBytes_UnchangedDelimitedDocumentIsStable(t *testing.T) {
	content := []byte("---\ncategory: kitchens\nimage: a.jpg\n---\nТекст\n")
	doc := Parse("a.md", content, Options{})

	out, err := doc.Bytes()
	require.NoError(t, err)
	require.Equal(t, content, out)

	changed, err := doc.Changed()
	require.NoError(t, err)
	require.False(t, changed)
}

func TestChanged_AfterFieldEdit(t *testing.T) {
	doc := Parse("a.md", []byte("---\nimage: a.jpg\n---\n"), Options{})
	doc.Fields()[frontmatterops.KeyImage] = "/images/portfolio/kitchens/a.jpg"

	changed, err := doc.Changed()
	require.NoError(t, err)
	require.True(t, changed)
}

func TestRewriteBodyImages_KeepsMetadata(t *testing.T) {
	doc := Parse("a.md", []byte("---\ncategory: kitchens\n---\n![Фасад](a.jpg)\n"), Options{})

	n, err := doc.RewriteBodyImages(func(dest string) string { return "/images/portfolio/kitchens/" + dest })
	require.NoError(t, err)
	require.Equal(t, 1, n)

	out, err := doc.Bytes()
	require.NoError(t, err)
	require.Equal(t, "---\ncategory: kitchens\n---\n![Фасад](/images/portfolio/kitchens/a.jpg)\n", string(out))
}

func TestReadFile_WriteFile(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "src/data/portfolio/a.md", []byte("category: kitchens\n\nТекст\n"), 0o644))

	doc, err := ReadFile(fs, "src/data/portfolio/a.md", Options{Mode: frontmatter.ModeStandard})
	require.NoError(t, err)
	require.NoError(t, doc.WriteFile(fs, "src/data/portfolio/kitchens/a.md"))

	written, err := util.ReadFile(fs, "src/data/portfolio/kitchens/a.md")
	require.NoError(t, err)
	require.Equal(t, "---\ncategory: kitchens\n---\n\nТекст\n", string(written))
}

func TestReadFile_Missing_ReturnsFilesystemError(t *testing.T) {
	_, err := ReadFile(memfs.New(), "missing.md", Options{})
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
}

func TestReadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"kitchens/a.md": {Data: []byte("---\ntitle: Кухня\n---\n")},
	}

	doc, err := ReadFS(fsys, "kitchens/a.md", Options{})
	require.NoError(t, err)
	require.Equal(t, "Кухня", doc.Fields()["title"])

	_, err = ReadFS(fsys, "nope.md", Options{})
	require.Error(t, err)
}

func TestFingerprint_MatchesRewrittenCopy(t *testing.T) {
	doc := Parse("a.md", []byte("category: kitchens\nimage: a.jpg\n\nТекст\n"), Options{Mode: frontmatter.ModeStandard})
	out, err := doc.Bytes()
	require.NoError(t, err)

	copyDoc := Parse("kitchens/a.md", out, Options{Mode: frontmatter.ModeStandard})

	a, err := doc.Fingerprint()
	require.NoError(t, err)
	b, err := copyDoc.Fingerprint()
	require.NoError(t, err)
	require.Equal(t, a, b)
}
