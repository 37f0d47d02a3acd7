// Package figure rasterizes TikZ pictures into PNG files through pdflatex
// and pdftocairo (or ImageMagick), caching results by content hash.
package figure

import (
	"context"
	"crypto/sha1" // #nosec G505 -- content addressing, not security
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/alnah/go-tex2canvas/internal/fileutil"
	"github.com/alnah/go-tex2canvas/internal/hints"
)

// Sentinel errors for figure rendering. All of them mean the figure
// should be kept as source.
var (
	ErrEmptySource          = errors.New("figure source is empty")
	ErrToolchainUnavailable = errors.New("figure toolchain unavailable")
	ErrCompile              = errors.New("figure compilation failed")
	ErrRasterize            = errors.New("figure rasterization failed")
	ErrNoOutput             = errors.New("rasterizer produced no image")
	ErrTimeout              = errors.New("figure rendering timed out")
)

// DefaultDensity is the DPI used by the ImageMagick fallback.
const DefaultDensity = 300

const (
	workPrefix = "tex2canvas_tikz_"
	workName   = "tikz_figure"
	hashLength = 10
	outputTail = 400 // bytes of tool output kept in errors
)

// Job describes one figure to render.
type Job struct {
	Source    string // the tikzpicture environment, markers included
	Preamble  string // document preamble, filtered by Standalone
	OutputDir string // where the PNG is written
	Basename  string // file name prefix, e.g. "hw1_figure_2"
}

// Hash returns the short content hash of a figure source.
func Hash(source string) string {
	sum := sha1.Sum([]byte(source)) // #nosec G401 -- content addressing
	return hex.EncodeToString(sum[:])[:hashLength]
}

// FileName returns the cache-keyed image name for a figure.
func FileName(basename, source string) string {
	return basename + "_" + Hash(source) + ".png"
}

// Renderer turns figure sources into PNG files.
type Renderer struct {
	runner   CommandRunner
	lookPath LookPathFunc
	log      logrus.FieldLogger
	timeout  time.Duration
	maxWidth int
	density  int

	memo      *cache.Cache
	probeOnce sync.Once
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithRunner sets the command runner. Default: ExecRunner.
func WithRunner(r CommandRunner) Option {
	return func(rd *Renderer) { rd.runner = r }
}

// WithLookPath sets the executable lookup. Default: exec.LookPath.
func WithLookPath(fn LookPathFunc) Option {
	return func(rd *Renderer) { rd.lookPath = fn }
}

// WithLogger sets the logger. Default: discard.
func WithLogger(l logrus.FieldLogger) Option {
	return func(rd *Renderer) { rd.log = l }
}

// WithTimeout bounds each figure render. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(rd *Renderer) { rd.timeout = d }
}

// WithMaxWidth downscales wider figures. Zero means no limit.
func WithMaxWidth(px int) Option {
	return func(rd *Renderer) { rd.maxWidth = px }
}

// WithDensity sets the ImageMagick rasterization DPI.
func WithDensity(dpi int) Option {
	return func(rd *Renderer) {
		if dpi > 0 {
			rd.density = dpi
		}
	}
}

// NewRenderer creates a Renderer. The toolchain is probed on first use.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		runner:   &ExecRunner{},
		lookPath: exec.LookPath,
		density:  DefaultDensity,
		memo:     cache.New(cache.NoExpiration, 0),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		r.log = l
	}
	return r
}

// Toolchain returns the probed toolchain. The probe runs once per Renderer.
func (r *Renderer) Toolchain() Toolchain {
	r.probeOnce.Do(func() {
		tc := Probe(r.lookPath)
		r.memo.Set("toolchain", tc, cache.NoExpiration)
		if !tc.Available() {
			r.log.Warn("figure toolchain unavailable, figures are kept as source" + hints.ForFigureToolchain(tc.Missing()))
			return
		}
		r.log.WithField("toolchain", tc.String()).Debug("figure toolchain found")
	})
	tc, _ := r.memo.Get("toolchain")
	return tc.(Toolchain)
}

// Render rasterizes job.Source and returns the image file name relative
// to job.OutputDir. An existing file with the same content hash is reused
// without invoking any tool.
func (r *Renderer) Render(ctx context.Context, job Job) (string, error) {
	if strings.TrimSpace(job.Source) == "" {
		return "", ErrEmptySource
	}

	name := FileName(job.Basename, job.Source)
	target := filepath.Join(job.OutputDir, name)
	log := r.log.WithField("figure", name)

	if _, found := r.memo.Get("rendered:" + target); found {
		log.Debug("figure memo hit")
		return name, nil
	}
	if fileutil.FileExists(target) {
		log.Debug("figure cache hit")
		r.memo.Set("rendered:"+target, name, cache.NoExpiration)
		return name, nil
	}
	if prev, found := r.memo.Get("failed:" + target); found {
		return "", prev.(error)
	}

	tc := r.Toolchain()
	if !tc.Available() {
		return "", fmt.Errorf("%w: missing %s", ErrToolchainUnavailable, strings.Join(tc.Missing(), ", "))
	}

	parent := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	started := time.Now()
	err := r.build(ctx, tc, job, target)
	if err != nil {
		if perr := parent.Err(); perr != nil {
			return "", perr
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w after %s%s", ErrTimeout, r.timeout, hints.ForFigureTimeout())
		}
		r.memo.Set("failed:"+target, err, cache.NoExpiration)
		return "", err
	}

	r.memo.Set("rendered:"+target, name, cache.NoExpiration)
	log.WithField("elapsed", time.Since(started).Round(time.Millisecond)).Info("figure rendered")
	return name, nil
}

// build compiles and rasterizes in a temporary directory inside the
// output directory, then moves the PNG to target.
func (r *Renderer) build(ctx context.Context, tc Toolchain, job Job, target string) error {
	work, err := os.MkdirTemp(job.OutputDir, workPrefix)
	if err != nil {
		return fmt.Errorf("creating work directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(work) }()

	texFile := workName + ".tex"
	if err := os.WriteFile(filepath.Join(work, texFile), []byte(Standalone(job.Source, job.Preamble)), 0o600); err != nil {
		return fmt.Errorf("writing figure document: %w", err)
	}

	if out, err := r.runner.Run(ctx, work, ToolCompiler, "-interaction=nonstopmode", "-halt-on-error", texFile); err != nil {
		return fmt.Errorf("%w: %v%s", ErrCompile, err, outputSuffix(out))
	}

	pdf := filepath.Join(work, workName+".pdf")
	png := filepath.Join(work, workName+".png")
	var args []string
	switch tc.Rasterizer {
	case ToolCairo:
		args = []string{"-png", "-singlefile", "-transp", pdf, filepath.Join(work, workName)}
	default:
		args = []string{"-density", strconv.Itoa(r.density), pdf + "[0]", "-background", "none", png}
	}
	if out, err := r.runner.Run(ctx, work, tc.Rasterizer, args...); err != nil {
		return fmt.Errorf("%w: %s: %v%s", ErrRasterize, tc.Rasterizer, err, outputSuffix(out))
	}

	if !fileutil.FileExists(png) {
		return ErrNoOutput
	}

	if r.maxWidth > 0 {
		scaled, err := downscale(png, r.maxWidth)
		if err != nil {
			return err
		}
		if scaled {
			r.log.WithField("maxWidth", r.maxWidth).Debug("figure downscaled")
		}
	}

	if err := os.Rename(png, target); err != nil {
		return fmt.Errorf("moving figure into place: %w", err)
	}
	return nil
}

// outputSuffix formats the end of a tool's output for an error message.
func outputSuffix(out string) string {
	out = strings.TrimSpace(out)
	if out == "" {
		return ""
	}
	if len(out) > outputTail {
		out = "..." + out[len(out)-outputTail:]
	}
	return "\n" + out
}
