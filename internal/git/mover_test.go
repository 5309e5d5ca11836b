package git

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bogomolov-fly/portfolio/internal/foundation/errors"
)

func newRepo(t *testing.T, tracked map[string]string, untracked map[string]string) (*gogit.Repository, *Mover) {
	t.Helper()

	fs := memfs.New()
	repo, err := gogit.Init(memory.NewStorage(), fs)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	for p, content := range tracked {
		require.NoError(t, util.WriteFile(fs, p, []byte(content), 0o644))
		_, err := wt.Add(p)
		require.NoError(t, err)
	}
	for p, content := range untracked {
		require.NoError(t, util.WriteFile(fs, p, []byte(content), 0o644))
	}

	m, err := NewMover(repo, nil)
	require.NoError(t, err)
	return repo, m
}

func indexHas(t *testing.T, repo *gogit.Repository, p string) bool {
	t.Helper()
	idx, err := repo.Storer.Index()
	require.NoError(t, err)
	_, err = idx.Entry(p)
	return err == nil
}

func TestMover_MoveTrackedFile_UpdatesIndex(t *testing.T) {
	repo, m := newRepo(t, map[string]string{"public/images/portfolio/k1.jpg": "jpg"}, nil)

	require.True(t, m.Tracked("public/images/portfolio/k1.jpg"))
	require.NoError(t, m.Move("public/images/portfolio/k1.jpg", "public/images/portfolio/kitchens/k1.jpg"))

	assert.False(t, indexHas(t, repo, "public/images/portfolio/k1.jpg"))
	assert.True(t, indexHas(t, repo, "public/images/portfolio/kitchens/k1.jpg"))

	content, err := util.ReadFile(m.wt.Filesystem, "public/images/portfolio/kitchens/k1.jpg")
	require.NoError(t, err)
	assert.Equal(t, "jpg", string(content))
}

func TestMover_MoveUntrackedFile_PlainRename(t *testing.T) {
	repo, m := newRepo(t, nil, map[string]string{"public/images/portfolio/k1.jpg": "jpg"})

	require.False(t, m.Tracked("public/images/portfolio/k1.jpg"))
	require.NoError(t, m.Move("public/images/portfolio/k1.jpg", "public/images/portfolio/kitchens/k1.jpg"))

	assert.False(t, indexHas(t, repo, "public/images/portfolio/kitchens/k1.jpg"))
	_, err := m.wt.Filesystem.Stat("public/images/portfolio/kitchens/k1.jpg")
	assert.NoError(t, err)
	_, err = m.wt.Filesystem.Stat("public/images/portfolio/k1.jpg")
	assert.Error(t, err)
}

func TestMover_MoveRefusesExistingDestination(t *testing.T) {
	_, m := newRepo(t,
		map[string]string{"a.jpg": "new"},
		map[string]string{"kitchens/a.jpg": "old"},
	)

	err := m.Move("a.jpg", "kitchens/a.jpg")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryAlreadyExists))

	content, err := util.ReadFile(m.wt.Filesystem, "kitchens/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "old", string(content))
}

func TestMover_RemoveAndAdd(t *testing.T) {
	repo, m := newRepo(t,
		map[string]string{"src/data/portfolio/a.md": "---\ncategory: kitchens\n---\n"},
		map[string]string{"src/data/portfolio/kitchens/a.md": "---\ncategory: kitchens\n---\n", "tmp.md": "x"},
	)

	require.NoError(t, m.Add("src/data/portfolio/kitchens/a.md"))
	require.NoError(t, m.Remove("src/data/portfolio/a.md"))
	require.NoError(t, m.Remove("tmp.md"))
	require.NoError(t, m.Remove("missing.md"))

	assert.True(t, indexHas(t, repo, "src/data/portfolio/kitchens/a.md"))
	assert.False(t, indexHas(t, repo, "src/data/portfolio/a.md"))
	_, err := m.wt.Filesystem.Stat("src/data/portfolio/a.md")
	assert.Error(t, err)
	_, err = m.wt.Filesystem.Stat("tmp.md")
	assert.Error(t, err)
}
