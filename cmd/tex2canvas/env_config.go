package main

import (
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-tex2canvas/internal/config"
)

// envConfig holds configuration from TEX2CANVAS_* environment variables,
// for CI jobs that convert without a config file.
type envConfig struct {
	ConfigPath    string        // TEX2CANVAS_CONFIG
	OutputDir     string        // TEX2CANVAS_OUTPUT_DIR
	Style         string        // TEX2CANVAS_STYLE
	FigureTimeout time.Duration // TEX2CANVAS_FIGURE_TIMEOUT
	ImageBaseURL  string        // TEX2CANVAS_IMAGE_BASE_URL
}

const envPrefix = "TEX2CANVAS_"

// knownEnvVars lists valid TEX2CANVAS_* variables, for typo detection.
var knownEnvVars = map[string]bool{
	"TEX2CANVAS_CONFIG":         true,
	"TEX2CANVAS_OUTPUT_DIR":     true,
	"TEX2CANVAS_STYLE":          true,
	"TEX2CANVAS_FIGURE_TIMEOUT": true,
	"TEX2CANVAS_IMAGE_BASE_URL": true,
}

// loadEnvConfig reads the environment. An unparsable or non-positive
// TEX2CANVAS_FIGURE_TIMEOUT is ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:   os.Getenv("TEX2CANVAS_CONFIG"),
		OutputDir:    os.Getenv("TEX2CANVAS_OUTPUT_DIR"),
		Style:        os.Getenv("TEX2CANVAS_STYLE"),
		ImageBaseURL: os.Getenv("TEX2CANVAS_IMAGE_BASE_URL"),
	}

	if timeout := os.Getenv("TEX2CANVAS_FIGURE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.FigureTimeout = d
		}
	}

	return cfg
}

// warnUnknownEnvVars logs a warning for each unrecognized TEX2CANVAS_*
// variable, e.g. TEX2CANVAS_OUTPUTDIR.
func warnUnknownEnvVars(log logrus.FieldLogger) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			log.WithField("variable", name).Warn("unknown environment variable (typo?)")
		}
	}
}

// applyEnvConfig overrides config file values with the environment.
// Precedence: CLI flags > env vars > config file > defaults
// (flags are applied afterwards by mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Style != "" {
		cfg.Style = env.Style
	}
	if env.FigureTimeout > 0 {
		cfg.Figures.Timeout = env.FigureTimeout.String()
	}
	if env.ImageBaseURL != "" {
		cfg.Images.BaseURL = env.ImageBaseURL
	}
}
