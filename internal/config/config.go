package config

import (
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bogomolov-fly/portfolio/internal/foundation/errors"
)

// DefaultFile is the configuration file looked up when none is given.
const DefaultFile = "portfolio.yaml"

// Config is the complete configuration of the portfolio tools.
//
// All paths except ProjectRoot are relative to ProjectRoot and use forward
// slashes.
type Config struct {
	Paths      PathsConfig   `yaml:"paths"`
	Content    ContentConfig `yaml:"content"`
	Images     ImagesConfig  `yaml:"images"`
	Categories []Category    `yaml:"categories" validate:"unique=ID,dive"`
	Git        GitConfig     `yaml:"git"`
	Journal    JournalConfig `yaml:"journal"`
	Metrics    MetricsConfig `yaml:"metrics"`
	Logging    LoggingConfig `yaml:"logging"`
}

// PathsConfig locates the content and image trees.
type PathsConfig struct {
	ProjectRoot string `yaml:"project_root" validate:"required"`
	ContentRoot string `yaml:"content_root" validate:"required"`
	ImagesRoot  string `yaml:"images_root" validate:"required"`
	PublicRoot  string `yaml:"public_root" validate:"required"`
}

// ContentConfig controls how content documents are found and read.
type ContentConfig struct {
	Extension       string                `yaml:"extension" validate:"required,startswith=."`
	ParseMode       ParseMode             `yaml:"parse_mode" validate:"oneof=strict standard permissive"`
	MissingCategory MissingCategoryPolicy `yaml:"missing_category" validate:"oneof=default skip"`
	DefaultCategory string                `yaml:"default_category" validate:"required,excludesall=/"`
	NormalizeImages bool                  `yaml:"normalize_images"`
	ExcerptLength   int                   `yaml:"excerpt_length" validate:"gte=0"`
	// RewriteBodyImages lets the batch commands normalize and move images
	// referenced from document bodies. Off, bodies are written unchanged.
	RewriteBodyImages bool `yaml:"rewrite_body_images"`
}

// ImagesConfig controls which files count as images.
type ImagesConfig struct {
	Extensions     []string `yaml:"extensions" validate:"min=1,dive,startswith=."`
	PlaceholderDir string   `yaml:"placeholder_dir"`
}

// Category is a known portfolio category and its display label.
type Category struct {
	ID    string `yaml:"id" validate:"required,excludesall=/"`
	Label string `yaml:"label"`
}

// GitConfig enables moving tracked files through the git index.
type GitConfig struct {
	Enabled bool `yaml:"enabled"`
}

// JournalConfig locates the run journal database. An empty path disables
// the journal.
type JournalConfig struct {
	Path string `yaml:"path"`
}

// MetricsConfig locates the Prometheus textfile written after each run. An
// empty path disables metrics.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// Load reads, normalizes, defaults and validates a configuration file.
//
// Environment variables from .env and .env.local are loaded first (never
// overriding the process environment) and ${VAR} references in the file are
// expanded.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").
				WithContext("path", configPath).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			WithContext("path", configPath).
			Fatal().
			Build()
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse config file").
			WithContext("path", configPath).
			Fatal().
			Build()
	}

	if err := finish(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault behaves like Load when configPath exists and returns the
// built-in defaults otherwise.
func LoadOrDefault(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		slog.Debug("No configuration file, using defaults", slog.String("path", configPath))
		loadEnvFiles()
		return Default(), nil
	}
	return Load(configPath)
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func finish(cfg *Config) error {
	for _, w := range NormalizeConfig(cfg).Warnings {
		slog.Warn("Config normalization", slog.String("detail", w))
	}
	applyDefaults(cfg)
	return Validate(cfg)
}

// Init writes an example configuration file. An existing file is only
// replaced when force is set.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.NewError(errors.CategoryAlreadyExists, "configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	example := Default()
	example.Journal.Path = ".portfolio/journal.db"

	data, err := yaml.Marshal(example)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal example config").Build()
	}

	header := "# Portfolio content tools configuration.\n" +
		"# Paths are relative to paths.project_root; ${VAR} references are expanded.\n"
	if err := os.WriteFile(configPath, append([]byte(header), data...), 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}

// CategoryLabel returns the configured label of a category.
func (c *Config) CategoryLabel(id string) (string, bool) {
	for _, cat := range c.Categories {
		if cat.ID == id {
			return cat.Label, cat.Label != ""
		}
	}
	return "", false
}
