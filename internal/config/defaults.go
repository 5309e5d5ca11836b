package config

import (
	"slices"

	"github.com/bogomolov-fly/portfolio/internal/imagepath"
)

const (
	defaultContentRoot     = "src/data/portfolio"
	defaultImagesRoot      = "public/images/portfolio"
	defaultPublicRoot      = "public"
	defaultExtension       = ".md"
	defaultCategory        = "uncategorized"
	defaultPlaceholderDir  = "{{category}}"
	defaultExcerptLength   = 160
	defaultProjectRootPath = "."
)

// DefaultCategories are the categories the site ships with.
var DefaultCategories = []Category{
	{ID: "proven", Label: "Интерьеры"},
	{ID: "kitchens", Label: "Кухни"},
	{ID: "cabinets", Label: "Гардеробные"},
	{ID: "wardrobes", Label: "Шкафы"},
	{ID: "children", Label: "Детская мебель"},
	{ID: "shelves", Label: "Тумбы/столы"},
	{ID: "bathroom", Label: "Мебель для ванных"},
	{ID: "storage", Label: "Элементы хранения"},
}

// DefaultApplier fills the zero-valued fields of one configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config)
	Domain() string
}

type pathsDefaults struct{}

func (pathsDefaults) Domain() string { return "paths" }

func (pathsDefaults) ApplyDefaults(cfg *Config) {
	p := &cfg.Paths
	if p.ProjectRoot == "" {
		p.ProjectRoot = defaultProjectRootPath
	}
	if p.ContentRoot == "" {
		p.ContentRoot = defaultContentRoot
	}
	if p.ImagesRoot == "" {
		p.ImagesRoot = defaultImagesRoot
	}
	if p.PublicRoot == "" {
		p.PublicRoot = defaultPublicRoot
	}
}

type contentDefaults struct{}

func (contentDefaults) Domain() string { return "content" }

func (contentDefaults) ApplyDefaults(cfg *Config) {
	c := &cfg.Content
	if c.Extension == "" {
		c.Extension = defaultExtension
	}
	if c.ParseMode == "" {
		c.ParseMode = ParseModeStandard
	}
	if c.MissingCategory == "" {
		c.MissingCategory = MissingCategoryDefault
	}
	if c.DefaultCategory == "" {
		c.DefaultCategory = defaultCategory
	}
	if c.ExcerptLength == 0 {
		c.ExcerptLength = defaultExcerptLength
	}
}

type imagesDefaults struct{}

func (imagesDefaults) Domain() string { return "images" }

func (imagesDefaults) ApplyDefaults(cfg *Config) {
	if len(cfg.Images.Extensions) == 0 {
		cfg.Images.Extensions = slices.Clone(imagepath.DefaultExtensions)
	}
	if cfg.Images.PlaceholderDir == "" {
		cfg.Images.PlaceholderDir = defaultPlaceholderDir
	}
	if len(cfg.Categories) == 0 {
		cfg.Categories = slices.Clone(DefaultCategories)
	}
}

type loggingDefaults struct{}

func (loggingDefaults) Domain() string { return "logging" }

func (loggingDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
}

var defaultAppliers = []DefaultApplier{
	pathsDefaults{},
	contentDefaults{},
	imagesDefaults{},
	loggingDefaults{},
}

func applyDefaults(cfg *Config) {
	for _, applier := range defaultAppliers {
		applier.ApplyDefaults(cfg)
	}
}
