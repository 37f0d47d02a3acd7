package tex2canvas

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-tex2canvas/internal/assets"
	"github.com/alnah/go-tex2canvas/internal/dateutil"
	"github.com/alnah/go-tex2canvas/internal/figure"
	"github.com/alnah/go-tex2canvas/internal/fileutil"
	"github.com/alnah/go-tex2canvas/internal/hints"
	"github.com/alnah/go-tex2canvas/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.FigureRenderer = (*figure.Renderer)(nil)
	_ figure.CommandRunner    = (CommandRunner)(nil)
	_ AssetLoader             = (*assetLoaderAdapter)(nil)
)

// Converter turns LaTeX sources into Canvas HTML documents.
// A Converter is meant for one run: figures rendered by one Convert call
// are reused by the next without touching the disk, and the figure
// toolchain is probed once. It is not safe for concurrent use.
type Converter struct {
	cfg      converterConfig
	log      logrus.FieldLogger
	now      func() time.Time
	loader   AssetLoader
	runner   CommandRunner
	lookPath func(string) (string, error)

	css      string
	shell    *assets.Shell
	renderer *figure.Renderer // nil when figures are disabled
}

// NewConverter creates a Converter.
// Returns an error if the style, template or asset path cannot be loaded.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}

	if c.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		c.log = l
	}

	if c.loader == nil {
		loader, err := NewAssetLoader(c.cfg.assetPath)
		if err != nil {
			return nil, err
		}
		c.loader = loader
	}

	if err := c.resolveStyle(); err != nil {
		return nil, err
	}

	shellHTML, err := c.loader.LoadTemplate(DefaultTemplate)
	if err != nil {
		return nil, fmt.Errorf("loading document template: %w", err)
	}
	if c.shell, err = assets.ParseShell(DefaultTemplate, shellHTML); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHTMLRender, err)
	}

	if !c.cfg.noFigures {
		c.renderer = c.newRenderer()
	}
	return c, nil
}

func (c *Converter) newRenderer() *figure.Renderer {
	opts := []figure.Option{
		figure.WithLogger(c.log),
		figure.WithTimeout(c.cfg.figureTimeout),
		figure.WithMaxWidth(c.cfg.maxWidth),
		figure.WithDensity(c.cfg.density),
	}
	if c.runner != nil {
		opts = append(opts, figure.WithRunner(c.runner))
	}
	if c.lookPath != nil {
		opts = append(opts, figure.WithLookPath(c.lookPath))
	}
	return figure.NewRenderer(opts...)
}

// resolveStyle loads the stylesheet named by WithStyle, or the default.
func (c *Converter) resolveStyle() error {
	input := c.cfg.styleInput
	if input == "" {
		input = DefaultStyle
	}

	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("%w: loading style file %q: %v", ErrStyleNotFound, input, err)
		}
		c.css = string(content)
		return nil
	}

	css, err := c.loader.LoadStyle(input)
	if err != nil {
		return fmt.Errorf("loading style %q: %w%s", input, err, hints.ForStyleNotFound(BuiltinStyles()))
	}
	c.css = css
	return nil
}

// Convert runs the pipeline on one document.
//
// Constructs that cannot be converted degrade locally: a figure that fails
// to render is kept as source and reported in ConvertResult.Warnings. Only
// cancellation, invalid input and, in strict mode, unclosed environments
// fail the whole conversion. Recovers from internal panics.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := validateInput(input); err != nil {
		return nil, err
	}

	stem := defaultStem
	if input.Name != "" {
		stem = fileutil.Stem(input.Name)
	}
	log := c.log.WithField("input", stem)

	doc := pipeline.Extract(input.Source)

	scanOpts := pipeline.Options{
		Stem:      stem,
		SourceDir: input.SourceDir,
		OutputDir: outputDir(input),
		Preamble:  doc.Preamble,
		Strict:    c.cfg.strict,
		FirstLine: doc.BodyLine,
		Logger:    log,
	}
	if c.renderer != nil {
		scanOpts.Renderer = c.renderer
	}

	scanned, err := pipeline.NewScanner(scanOpts).Scan(ctx, doc.Body)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", stem, err)
	}

	header := pipeline.Header{Title: doc.Title, Author: doc.Author}
	if c.cfg.showDate {
		header.Date = c.expandDate(doc.Date, log)
	}
	body := pipeline.Compose(header, scanned.Lines)

	body, err = pipeline.RewriteImageSources(body, c.cfg.imageBaseURL)
	if err != nil {
		return nil, fmt.Errorf("rewriting image sources: %w", err)
	}

	title := doc.Title
	if title == "" {
		title = stem
	}
	page, err := c.shell.Render(assets.Page{
		Title: title,
		CSS:   template.CSS(c.css), // #nosec G203 -- stylesheet chosen by the user
		Body:  template.HTML(body), // #nosec G203 -- markup produced by the converter
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHTMLRender, err)
	}

	log.WithFields(logrus.Fields{
		"figures":  len(scanned.Figures),
		"warnings": len(scanned.Warnings),
	}).Debug("document converted")

	return &ConvertResult{
		HTML:     page,
		Title:    title,
		Figures:  scanned.Figures,
		Warnings: scanned.Warnings,
	}, nil
}

// expandDate resolves \today. A bad date format leaves the value as written.
func (c *Converter) expandDate(value string, log logrus.FieldLogger) string {
	date, err := dateutil.ExpandToday(value, c.cfg.dateFormat, c.now())
	if err != nil {
		log.WithError(err).Warn("keeping \\date as written")
		return value
	}
	return date
}

// validateInput is the trust boundary for library callers building Input
// by hand. CLI input has already passed config validation.
func validateInput(input Input) error {
	if strings.TrimSpace(input.Source) == "" {
		return ErrEmptySource
	}
	if input.OutputDir != "" && !fileutil.DirExists(input.OutputDir) {
		return fmt.Errorf("%w: %q does not exist%s", ErrInvalidOutputDir, input.OutputDir, hints.ForOutputDirectory())
	}
	return nil
}

func outputDir(input Input) string {
	switch {
	case input.OutputDir != "":
		return input.OutputDir
	case input.SourceDir != "":
		return input.SourceDir
	default:
		return "."
	}
}
