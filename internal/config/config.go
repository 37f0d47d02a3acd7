package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-tex2canvas/internal/fileutil"
	"github.com/alnah/go-tex2canvas/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field limits.
const (
	MaxPathLength       = 4096
	MaxURLLength        = 2048
	MaxDateFormatLength = 50
	MaxFigureWidth      = 10000
	MinDensity          = 50
	MaxDensity          = 1200
	DefaultDensity      = 300
)

// appDirName is the directory under the user config dir searched for named configs.
const appDirName = "go-tex2canvas"

// Config holds all configuration for a conversion run.
type Config struct {
	Output   OutputConfig   `yaml:"output"`
	Style    string         `yaml:"style"` // embedded style name or CSS file path
	Assets   AssetsConfig   `yaml:"assets"`
	Figures  FiguresConfig  `yaml:"figures"`
	Images   ImagesConfig   `yaml:"images"`
	Document DocumentConfig `yaml:"document"`
	Strict   bool           `yaml:"strict"` // unclosed environments are errors
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // empty = next to each input
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // empty = embedded assets only
}

// FiguresConfig controls TikZ rasterization.
type FiguresConfig struct {
	Enabled  *bool  `yaml:"enabled"`  // nil = enabled
	Timeout  string `yaml:"timeout"`  // Go duration per figure, empty = none
	MaxWidth int    `yaml:"maxWidth"` // pixels, 0 = no limit
	Density  int    `yaml:"density"`  // DPI for the ImageMagick fallback
}

// ImagesConfig controls image source rewriting.
type ImagesConfig struct {
	BaseURL string `yaml:"baseURL"` // prefix for relative <img src>, empty = unchanged
}

// DocumentConfig controls header rendering.
type DocumentConfig struct {
	ShowDate   bool   `yaml:"showDate"`   // render \date under the author
	DateFormat string `yaml:"dateFormat"` // dateutil tokens or preset for \today
}

// FiguresEnabled reports whether figures should be rendered.
func (c *Config) FiguresEnabled() bool {
	return c.Figures.Enabled == nil || *c.Figures.Enabled
}

// FigureTimeout parses Figures.Timeout. Zero means no timeout.
func (c *Config) FigureTimeout() (time.Duration, error) {
	if c.Figures.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Figures.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: figures.timeout %q: %v", ErrInvalidValue, c.Figures.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: figures.timeout must not be negative, got %s", ErrInvalidValue, d)
	}
	return d, nil
}

// Validate checks field lengths and ranges.
func (c *Config) Validate() error {
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("style", c.Style, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("images.baseURL", c.Images.BaseURL, MaxURLLength); err != nil {
		return err
	}
	if err := validateFieldLength("document.dateFormat", c.Document.DateFormat, MaxDateFormatLength); err != nil {
		return err
	}

	if _, err := c.FigureTimeout(); err != nil {
		return err
	}
	if c.Figures.MaxWidth < 0 || c.Figures.MaxWidth > MaxFigureWidth {
		return fmt.Errorf("%w: figures.maxWidth must be between 0 and %d, got %d", ErrInvalidValue, MaxFigureWidth, c.Figures.MaxWidth)
	}
	if c.Figures.Density != 0 && (c.Figures.Density < MinDensity || c.Figures.Density > MaxDensity) {
		return fmt.Errorf("%w: figures.density must be between %d and %d, got %d", ErrInvalidValue, MinDensity, MaxDensity, c.Figures.Density)
	}
	if c.Images.BaseURL != "" && !fileutil.IsURL(c.Images.BaseURL) && !strings.HasPrefix(c.Images.BaseURL, "/") {
		return fmt.Errorf("%w: images.baseURL must be an http(s) URL or an absolute path, got %q", ErrInvalidValue, c.Images.BaseURL)
	}

	return nil
}

func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Figures: FiguresConfig{Density: DefaultDensity},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's searched as <name>.yaml / <name>.yml in the current
// directory and then in the user config directory.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	cfg := DefaultConfig()
	if err := yamlutil.DecodeFile(configPath, cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}
	if cfg.Figures.Density == 0 {
		cfg.Figures.Density = DefaultDensity
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths lists the candidate files for a config name, in lookup order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, appDirName, name+ext))
		}
	}
	return paths
}

func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
