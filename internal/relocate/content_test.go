package relocate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bogomolov-fly/portfolio/internal/foundation/errors"
	"github.com/bogomolov-fly/portfolio/internal/frontmatter"
	"github.com/bogomolov-fly/portfolio/internal/journal"
	"github.com/bogomolov-fly/portfolio/internal/metrics"
)

const kitchenDoc = `---
category: kitchens
title: Кухня
image: images/portfolio/k1.jpg
images:
  - k1.jpg
  - image: /images/portfolio/k2.jpg
---
Фасады ![фото](k3.jpg)
`

func TestContentRelocator_RelocatesByCategory(t *testing.T) {
	fsys := newTree(t, map[string]string{
		contentRoot + "/kitchen-1.md":   kitchenDoc,
		contentRoot + "/nocat.md":       "title: No category\n\nBody\n",
		contentRoot + "/notes.txt":      "not a document",
		imagesRoot + "/kitchens/k1.jpg": "jpg",
	})
	rec := newCountingRecorder()

	res, err := NewContentRelocator(Env{FS: fsys, Recorder: rec}, testLayout(), ContentOptions{RewriteBody: true}).Run(t.Context())
	require.NoError(t, err)

	require.Len(t, res.Relocated, 1)
	assert.Equal(t, Move{
		Source:   contentRoot + "/kitchen-1.md",
		Target:   contentRoot + "/kitchens/kitchen-1.md",
		Category: "kitchens",
	}, res.Relocated[0])
	assert.Equal(t, []string{contentRoot + "/nocat.md"}, res.Skipped)
	assert.Equal(t, []string{contentRoot + "/kitchen-1.md"}, res.Deleted)
	assert.Empty(t, res.Errors)
	assert.Len(t, res.Missing, 2, "k2 and k3 do not exist")

	assert.False(t, exists(fsys, contentRoot+"/kitchen-1.md"))
	assert.True(t, exists(fsys, contentRoot+"/nocat.md"), "skipped documents stay in place")
	assert.True(t, exists(fsys, contentRoot+"/notes.txt"))

	fields, body := frontmatter.Parse(readString(t, fsys, contentRoot+"/kitchens/kitchen-1.md"), frontmatter.ModeStandard)
	assert.Equal(t, "Кухня", fields["title"])
	assert.Equal(t, "/images/portfolio/kitchens/k1.jpg", fields["image"])
	assert.Equal(t, []any{
		"/images/portfolio/kitchens/k1.jpg",
		map[string]any{"image": "/images/portfolio/kitchens/k2.jpg"},
	}, fields["images"])
	assert.Equal(t, "Фасады ![фото](/images/portfolio/kitchens/k3.jpg)\n", body)

	assert.Equal(t, map[string][]string{"kitchens": {"kitchen-1.md"}}, res.ByCategory())
	assert.Equal(t, 1, rec.documents[StageContent+"/"+string(metrics.ResultSuccess)])
	assert.Equal(t, 1, rec.documents[StageContent+"/"+string(metrics.ResultSkipped)])
}

func TestContentRelocator_KeepsBodyByDefault(t *testing.T) {
	fsys := newTree(t, map[string]string{
		contentRoot + "/kitchen-1.md": kitchenDoc,
	})

	res, err := NewContentRelocator(Env{FS: fsys}, testLayout(), ContentOptions{}).Run(t.Context())
	require.NoError(t, err)
	require.Len(t, res.Relocated, 1)
	assert.Equal(t, []MissingAsset{
		{Document: contentRoot + "/kitchen-1.md", Image: "/images/portfolio/kitchens/k1.jpg"},
		{Document: contentRoot + "/kitchen-1.md", Image: "/images/portfolio/kitchens/k2.jpg"},
	}, res.Missing, "body references are not checked")

	fields, body := frontmatter.Parse(readString(t, fsys, contentRoot+"/kitchens/kitchen-1.md"), frontmatter.ModeStandard)
	assert.Equal(t, "/images/portfolio/kitchens/k1.jpg", fields["image"])
	assert.Equal(t, "Фасады ![фото](k3.jpg)\n", body)
}

func TestContentRelocator_KeepsScalarText(t *testing.T) {
	fsys := newTree(t, map[string]string{
		contentRoot + "/bond.md": "---\n" +
			"category: kitchens\n" +
			"title: 007\n" +
			"date: 2024-01-15\n" +
			"price: 1.50\n" +
			"featured: true\n" +
			"---\n" +
			"Кухня агента\n",
	})

	_, err := NewContentRelocator(Env{FS: fsys}, testLayout(), ContentOptions{}).Run(t.Context())
	require.NoError(t, err)

	written := readString(t, fsys, contentRoot+"/kitchens/bond.md")
	assert.NotContains(t, written, "T00:00:00Z")

	fields, body := frontmatter.Parse(written, frontmatter.ModeStandard)
	assert.Equal(t, "007", fields["title"])
	assert.Equal(t, "2024-01-15", fields["date"])
	assert.Equal(t, "1.50", fields["price"])
	assert.Equal(t, true, fields["featured"])
	assert.Equal(t, "Кухня агента\n", body)
}

func TestContentRelocator_SecondRunIsNoop(t *testing.T) {
	fsys := newTree(t, map[string]string{
		contentRoot + "/kitchen-1.md": kitchenDoc,
		contentRoot + "/nocat.md":     "Body only\n",
	})
	relocator := NewContentRelocator(Env{FS: fsys}, testLayout(), ContentOptions{})

	_, err := relocator.Run(t.Context())
	require.NoError(t, err)
	before := readString(t, fsys, contentRoot+"/kitchens/kitchen-1.md")
	filesBefore := listFiles(t, fsys, contentRoot)

	res, err := relocator.Run(t.Context())
	require.NoError(t, err)
	assert.Empty(t, res.Relocated)
	assert.Empty(t, res.AlreadyRelocated)
	assert.Empty(t, res.Deleted)
	assert.Equal(t, before, readString(t, fsys, contentRoot+"/kitchens/kitchen-1.md"))
	assert.Equal(t, filesBefore, listFiles(t, fsys, contentRoot))
}

func TestContentRelocator_DestinationStates(t *testing.T) {
	t.Run("same content is already relocated", func(t *testing.T) {
		existing := "---\nimage: /images/portfolio/kitchens/a.jpg\ncategory: kitchens\n---\nBody\n"
		fsys := newTree(t, map[string]string{
			contentRoot + "/a.md":          "---\ncategory: kitchens\nimage: a.jpg\n---\nBody\n",
			contentRoot + "/kitchens/a.md": existing,
		})

		res, err := NewContentRelocator(Env{FS: fsys}, testLayout(), ContentOptions{}).Run(t.Context())
		require.NoError(t, err)

		assert.Empty(t, res.Relocated)
		require.Len(t, res.AlreadyRelocated, 1)
		assert.Equal(t, []string{contentRoot + "/a.md"}, res.Deleted)
		assert.Equal(t, existing, readString(t, fsys, contentRoot+"/kitchens/a.md"), "destination is not rewritten")
		assert.False(t, exists(fsys, contentRoot+"/a.md"))
	})

	t.Run("different content is a collision", func(t *testing.T) {
		existing := "---\ncategory: kitchens\ntitle: Other\n---\nOther body\n"
		fsys := newTree(t, map[string]string{
			contentRoot + "/a.md":          "---\ncategory: kitchens\n---\nBody\n",
			contentRoot + "/kitchens/a.md": existing,
		})

		res, err := NewContentRelocator(Env{FS: fsys}, testLayout(), ContentOptions{}).Run(t.Context())
		require.NoError(t, err)

		require.Len(t, res.Collisions, 1)
		assert.Empty(t, res.Deleted)
		assert.True(t, exists(fsys, contentRoot+"/a.md"), "original is kept")
		assert.Equal(t, existing, readString(t, fsys, contentRoot+"/kitchens/a.md"))
	})
}

func TestContentRelocator_DryRun(t *testing.T) {
	fsys := newTree(t, map[string]string{
		contentRoot + "/kitchen-1.md": kitchenDoc,
	})

	res, err := NewContentRelocator(Env{FS: fsys}, testLayout(), ContentOptions{DryRun: true}).Run(t.Context())
	require.NoError(t, err)

	assert.True(t, res.DryRun)
	assert.Len(t, res.Relocated, 1)
	assert.Len(t, res.Deleted, 1)
	assert.Equal(t, kitchenDoc, readString(t, fsys, contentRoot+"/kitchen-1.md"))
	assert.False(t, exists(fsys, contentRoot+"/kitchens"))
	assert.Contains(t, res.Summary(), "dry run")
}

func TestContentRelocator_CategoryChecks(t *testing.T) {
	fsys := newTree(t, map[string]string{
		contentRoot + "/evil.md":   "---\ncategory: ../etc\n---\n",
		contentRoot + "/garage.md": "---\ncategory: garage\n---\nBody\n",
	})

	res, err := NewContentRelocator(Env{FS: fsys}, testLayout(), ContentOptions{}).Run(t.Context())
	require.NoError(t, err)

	require.Len(t, res.Errors, 1)
	assert.True(t, errors.HasCategory(res.Errors[0], errors.CategoryValidation))
	assert.True(t, exists(fsys, contentRoot+"/evil.md"), "failed document is never deleted")

	require.Len(t, res.Relocated, 1)
	assert.Equal(t, "garage", res.Relocated[0].Category)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "unknown category")
	assert.Equal(t, []string{contentRoot + "/garage.md"}, res.Deleted)
}

func TestContentRelocator_MissingRoot(t *testing.T) {
	_, err := NewContentRelocator(Env{FS: newTree(t, nil)}, testLayout(), ContentOptions{}).Run(t.Context())
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

type stagingMover struct {
	FSMover
	tracked map[string]bool
	added   []string
}

func (m *stagingMover) Tracked(p string) bool { return m.tracked[p] }

func (m *stagingMover) Add(p string) error {
	m.added = append(m.added, p)
	return nil
}

func TestContentRelocator_StagesTrackedDocuments(t *testing.T) {
	fsys := newTree(t, map[string]string{
		contentRoot + "/a.md": "---\ncategory: kitchens\n---\n",
		contentRoot + "/b.md": "---\ncategory: cabinets\n---\n",
	})
	mover := &stagingMover{FSMover: FSMover{FS: fsys}, tracked: map[string]bool{contentRoot + "/a.md": true}}

	_, err := NewContentRelocator(Env{FS: fsys, Mover: mover}, testLayout(), ContentOptions{}).Run(t.Context())
	require.NoError(t, err)

	assert.Equal(t, []string{contentRoot + "/kitchens/a.md"}, mover.added)
}

func TestContentRelocator_Journal(t *testing.T) {
	store, err := journal.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	run := journal.StartRun(t.Context(), store, StageContent, nil)
	fsys := newTree(t, map[string]string{
		contentRoot + "/a.md":     "---\ncategory: kitchens\n---\n",
		contentRoot + "/nocat.md": "Body\n",
	})

	res, err := NewContentRelocator(Env{FS: fsys, Journal: run}, testLayout(), ContentOptions{}).Run(t.Context())
	require.NoError(t, err)
	assert.Equal(t, run.ID(), res.RunID)

	events, err := store.GetByRunID(t.Context(), run.ID())
	require.NoError(t, err)

	var types []journal.EventType
	for _, e := range events {
		types = append(types, e.Type)
	}
	assert.Equal(t, []journal.EventType{
		journal.EventRunStarted,
		journal.EventRelocated,
		journal.EventSkipped,
		journal.EventDeleted,
	}, types)
}
