package relocate

import (
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"

	"github.com/bogomolov-fly/portfolio/internal/metrics"
)

const (
	contentRoot = "src/data/portfolio"
	imagesRoot  = "public/images/portfolio"
)

func testLayout() Layout {
	return Layout{
		ContentRoot:    contentRoot,
		ImagesRoot:     imagesRoot,
		PublicRoot:     "public",
		Extension:      ".md",
		PlaceholderDir: "{{category}}",
		Categories:     []string{"kitchens", "cabinets", "wardrobes"},
	}
}

func newTree(t *testing.T, files map[string]string) billy.Filesystem {
	t.Helper()
	fsys := memfs.New()
	for p, content := range files {
		require.NoError(t, util.WriteFile(fsys, p, []byte(content), 0o644))
	}
	return fsys
}

func readString(t *testing.T, fsys billy.Filesystem, p string) string {
	t.Helper()
	data, err := util.ReadFile(fsys, p)
	require.NoError(t, err)
	return string(data)
}

func exists(fsys billy.Filesystem, p string) bool {
	_, err := fsys.Stat(p)
	return err == nil
}

// listFiles returns every regular file below root, sorted.
func listFiles(t *testing.T, fsys billy.Filesystem, root string) []string {
	t.Helper()
	var out []string
	require.NoError(t, util.Walk(fsys, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			out = append(out, p)
		}
		return nil
	}))
	sort.Strings(out)
	return out
}

type countingRecorder struct {
	mu        sync.Mutex
	documents map[string]int
	images    map[string]int
	category  map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{
		documents: map[string]int{},
		images:    map[string]int{},
		category:  map[string]int{},
	}
}

func (c *countingRecorder) ObserveRunDuration(string, time.Duration) {}

func (c *countingRecorder) IncDocumentResult(stage string, result metrics.ResultLabel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.documents[stage+"/"+string(result)]++
}

func (c *countingRecorder) IncImageResult(stage string, result metrics.ResultLabel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.images[stage+"/"+string(result)]++
}

func (c *countingRecorder) SetCategoryImages(category string, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.category[category] = n
}

func (c *countingRecorder) IncLoadFailure() {}
