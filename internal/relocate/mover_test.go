package relocate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bogomolov-fly/portfolio/internal/foundation/errors"
)

func TestFSMover(t *testing.T) {
	fsys := newTree(t, map[string]string{
		"a.jpg":       "a",
		"taken/b.jpg": "old",
		"b.jpg":       "new",
	})
	m := FSMover{FS: fsys}

	require.NoError(t, m.Move("a.jpg", "deep/dir/a.jpg"))
	assert.Equal(t, "a", readString(t, fsys, "deep/dir/a.jpg"))
	assert.False(t, exists(fsys, "a.jpg"))

	err := m.Move("b.jpg", "taken/b.jpg")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryAlreadyExists))
	assert.Equal(t, "old", readString(t, fsys, "taken/b.jpg"))

	require.NoError(t, m.Remove("b.jpg"))
	require.NoError(t, m.Remove("b.jpg"), "removing a missing file is not an error")
	assert.False(t, exists(fsys, "b.jpg"))
}
