package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bogomolov-fly/portfolio/internal/foundation/errors"
	"github.com/bogomolov-fly/portfolio/internal/frontmatter"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "portfolio.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "git:\n  enabled: true\n"))
	require.NoError(t, err)

	assert.True(t, cfg.Git.Enabled)
	assert.Equal(t, ".", cfg.Paths.ProjectRoot)
	assert.Equal(t, "src/data/portfolio", cfg.Paths.ContentRoot)
	assert.Equal(t, "public/images/portfolio", cfg.Paths.ImagesRoot)
	assert.Equal(t, ".md", cfg.Content.Extension)
	assert.Equal(t, ParseModeStandard, cfg.Content.ParseMode)
	assert.Equal(t, MissingCategoryDefault, cfg.Content.MissingCategory)
	assert.Equal(t, "uncategorized", cfg.Content.DefaultCategory)
	assert.False(t, cfg.Content.RewriteBodyImages)
	assert.Equal(t, "{{category}}", cfg.Images.PlaceholderDir)
	assert.Len(t, cfg.Categories, len(DefaultCategories))
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
}

func TestLoad_NormalizesValues(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
paths:
  content_root: ./content//items/
content:
  extension: MD
  parse_mode: Lenient
  missing_category: SKIP
  rewrite_body_images: true
images:
  extensions: [JPG, .Png]
logging:
  level: WARNING
  format: yaml
`))
	require.NoError(t, err)

	assert.Equal(t, "content/items", cfg.Paths.ContentRoot)
	assert.Equal(t, ".md", cfg.Content.Extension)
	assert.Equal(t, ParseModePermissive, cfg.Content.ParseMode)
	assert.Equal(t, MissingCategorySkip, cfg.Content.MissingCategory)
	assert.True(t, cfg.Content.RewriteBodyImages)
	assert.Equal(t, []string{".jpg", ".png"}, cfg.Images.Extensions)
	assert.Equal(t, LogLevelWarn, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("PORTFOLIO_JOURNAL", "/var/lib/portfolio/journal.db")
	cfg, err := Load(writeConfig(t, "journal:\n  path: ${PORTFOLIO_JOURNAL}\n"))
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/portfolio/journal.db", cfg.Journal.Path)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "paths: [unclosed\n"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestLoad_ValidationFailure(t *testing.T) {
	_, err := Load(writeConfig(t, `
categories:
  - id: kitchens
    label: Кухни
  - id: kitchens
    label: Again
  - id: a/b
`))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
	assert.Contains(t, err.Error(), "duplicate")
	assert.Contains(t, err.Error(), "Categories[2].ID")
}

func TestLoadOrDefault_NoFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), DefaultFile))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestInit(t *testing.T) {
	p := filepath.Join(t.TempDir(), DefaultFile)

	require.NoError(t, Init(p, false))
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, ".portfolio/journal.db", cfg.Journal.Path)
	label, ok := cfg.CategoryLabel("kitchens")
	assert.True(t, ok)
	assert.Equal(t, "Кухни", label)

	err = Init(p, false)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryAlreadyExists))

	require.NoError(t, Init(p, true))
}

func TestParseModeFrontmatter(t *testing.T) {
	assert.Equal(t, frontmatter.ModeStrict, ParseModeStrict.Frontmatter())
	assert.Equal(t, frontmatter.ModeStandard, ParseModeStandard.Frontmatter())
	assert.Equal(t, frontmatter.ModePermissive, ParseModePermissive.Frontmatter())
}

func TestLogLevelSlog(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LogLevelDebug.Slog())
	assert.Equal(t, slog.LevelWarn, LogLevelWarn.Slog())
	assert.Equal(t, slog.LevelInfo, LogLevel("").Slog())
}

func TestNormalizeConfig_Warnings(t *testing.T) {
	cfg := &Config{Content: ContentConfig{ParseMode: "bogus", ExcerptLength: -5}}
	res := NormalizeConfig(cfg)

	assert.Equal(t, ParseModeStandard, cfg.Content.ParseMode)
	assert.Equal(t, 0, cfg.Content.ExcerptLength)
	assert.Len(t, res.Warnings, 2)
	assert.Contains(t, res.Warnings[0], "unknown content.parse_mode 'bogus'")
}
