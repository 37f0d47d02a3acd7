package tex2canvas

import (
	"time"

	"github.com/sirupsen/logrus"
)

// converterConfig holds the settings applied by options.
type converterConfig struct {
	styleInput    string // style name or CSS file path
	assetPath     string
	imageBaseURL  string
	dateFormat    string
	showDate      bool
	strict        bool
	noFigures     bool
	figureTimeout time.Duration
	maxWidth      int
	density       int
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger. Default: discard.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Converter) { c.log = l }
}

// WithStyle sets the stylesheet: a built-in or custom style name, or a path
// to a CSS file (any value containing a path separator).
func WithStyle(nameOrPath string) Option {
	return func(c *Converter) { c.cfg.styleInput = nameOrPath }
}

// WithAssetPath sets a directory whose styles/ and templates/ override the
// embedded assets.
func WithAssetPath(path string) Option {
	return func(c *Converter) { c.cfg.assetPath = path }
}

// WithAssetLoader sets a custom asset loader. It takes precedence over
// WithAssetPath.
func WithAssetLoader(loader AssetLoader) Option {
	return func(c *Converter) { c.loader = loader }
}

// WithImageBaseURL prefixes relative image sources, e.g. with the course
// files URL the figures are uploaded to.
func WithImageBaseURL(url string) Option {
	return func(c *Converter) { c.cfg.imageBaseURL = url }
}

// WithDateFormat sets the format \today is rendered with.
// Accepts presets (iso, us, european, long) or tokens (YYYY, MMMM, D...).
func WithDateFormat(format string) Option {
	return func(c *Converter) { c.cfg.dateFormat = format }
}

// WithDateHeader renders \date under the author. Default: omitted.
func WithDateHeader(show bool) Option {
	return func(c *Converter) { c.cfg.showDate = show }
}

// WithNow sets the clock used for \today. Default: time.Now.
func WithNow(now func() time.Time) Option {
	return func(c *Converter) { c.now = now }
}

// WithStrict makes unclosed figure and equation environments an error
// instead of a warning.
func WithStrict(strict bool) Option {
	return func(c *Converter) { c.cfg.strict = strict }
}

// WithoutFigures keeps every figure as source without probing for tools.
func WithoutFigures() Option {
	return func(c *Converter) { c.cfg.noFigures = true }
}

// WithFigureTimeout bounds each figure render. Zero means no limit.
func WithFigureTimeout(d time.Duration) Option {
	return func(c *Converter) { c.cfg.figureTimeout = d }
}

// WithMaxFigureWidth downscales rendered figures wider than px pixels.
func WithMaxFigureWidth(px int) Option {
	return func(c *Converter) { c.cfg.maxWidth = px }
}

// WithFigureDensity sets the DPI of the ImageMagick fallback.
func WithFigureDensity(dpi int) Option {
	return func(c *Converter) { c.cfg.density = dpi }
}

// WithCommandRunner replaces the runner for external tools.
func WithCommandRunner(r CommandRunner) Option {
	return func(c *Converter) { c.runner = r }
}

// WithLookPath replaces the executable lookup used to probe for tools.
func WithLookPath(fn func(file string) (string, error)) Option {
	return func(c *Converter) { c.lookPath = fn }
}
