package figure

// Notes:
// - No test needs a TeX install: mockRunner stands in for pdflatex and the
//   rasterizers, and writes a real PNG where pdftocairo/magick would
// - lookPath fakes decide which rendering path Probe selects

import (
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

const sampleFigure = "\\begin{tikzpicture}\n\\draw (0,0) -- (1,1);\n\\end{tikzpicture}"

type mockRunner struct {
	mu     sync.Mutex
	calls  [][]string
	fail   map[string]error
	output string
	width  int
	height int
	block  bool
}

func (m *mockRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, append([]string{name}, args...))
	m.mu.Unlock()

	if m.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if err := m.fail[name]; err != nil {
		return m.output, err
	}
	if name == ToolCairo || name == ToolMagick {
		w, h := m.width, m.height
		if w == 0 {
			w, h = 40, 20
		}
		if err := writePNG(filepath.Join(dir, workName+".png"), w, h); err != nil {
			return "", err
		}
	}
	return m.output, nil
}

func (m *mockRunner) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func writePNG(path string, w, h int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, image.NewNRGBA(image.Rect(0, 0, w, h)))
}

// fakeLookPath finds only the listed tools.
func fakeLookPath(tools ...string) LookPathFunc {
	return func(file string) (string, error) {
		for _, t := range tools {
			if t == file {
				return "/usr/bin/" + file, nil
			}
		}
		return "", errors.New("not found")
	}
}

func newTestRenderer(runner CommandRunner, tools []string, opts ...Option) *Renderer {
	base := []Option{WithRunner(runner), WithLookPath(fakeLookPath(tools...))}
	return NewRenderer(append(base, opts...)...)
}

func testJob(t *testing.T, source string) Job {
	t.Helper()
	return Job{Source: source, OutputDir: t.TempDir(), Basename: "hw1_figure_1"}
}

// ---------------------------------------------------------------------------
// TestFileName - Content addressing
// ---------------------------------------------------------------------------

func TestFileName(t *testing.T) {
	t.Parallel()

	a := FileName("hw1_figure_1", sampleFigure)
	if a != FileName("hw1_figure_1", sampleFigure) {
		t.Error("FileName() is not deterministic")
	}
	if !strings.HasPrefix(a, "hw1_figure_1_") || !strings.HasSuffix(a, ".png") {
		t.Errorf("FileName() = %q, want hw1_figure_1_<hash>.png", a)
	}
	if got := len(Hash(sampleFigure)); got != hashLength {
		t.Errorf("len(Hash()) = %d, want %d", got, hashLength)
	}

	variants := []string{
		strings.Replace(sampleFigure, "(1,1)", "(1, 1)", 1),
		sampleFigure + " ",
		strings.Replace(sampleFigure, "\n", "\n ", 1),
	}
	for _, v := range variants {
		if FileName("hw1_figure_1", v) == a {
			t.Errorf("FileName() collides for one-character change %q", v)
		}
	}
}

// ---------------------------------------------------------------------------
// TestStandalone
// ---------------------------------------------------------------------------

func TestStandalone(t *testing.T) {
	t.Parallel()

	preamble := strings.Join([]string{
		`\documentclass{article}`,
		`\usepackage{tikz}`,
		`\usetikzlibrary{arrows.meta}`,
		`\title{HW 1}`,
		`  \author{A. Student}`,
		`\date{\today}`,
	}, "\n")

	got := Standalone(sampleFigure, preamble)

	for _, want := range []string{standaloneClass, `\usepackage{tikz}`, `\usetikzlibrary{arrows.meta}`, `\begin{document}`, sampleFigure, `\end{document}`} {
		if !strings.Contains(got, want) {
			t.Errorf("Standalone() missing %q", want)
		}
	}
	for _, unwanted := range []string{`\documentclass{article}`, `\title`, `\author`, `\date`} {
		if strings.Contains(got, unwanted) {
			t.Errorf("Standalone() should drop %q", unwanted)
		}
	}
	if !strings.HasPrefix(got, standaloneClass+"\n") {
		t.Error("Standalone() should start with the standalone class")
	}
}

// ---------------------------------------------------------------------------
// TestProbe
// ---------------------------------------------------------------------------

func TestProbe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		tools      []string
		available  bool
		rasterizer string
		missing    int
	}{
		{"full toolchain prefers pdftocairo", []string{ToolCompiler, ToolCairo, ToolMagick}, true, ToolCairo, 0},
		{"imagemagick fallback", []string{ToolCompiler, ToolMagick}, true, ToolMagick, 0},
		{"no rasterizer", []string{ToolCompiler}, false, "", 1},
		{"no compiler", []string{ToolCairo}, false, ToolCairo, 1},
		{"nothing installed", nil, false, "", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tc := Probe(fakeLookPath(tt.tools...))
			if tc.Available() != tt.available {
				t.Errorf("Available() = %v, want %v", tc.Available(), tt.available)
			}
			if tc.Rasterizer != tt.rasterizer {
				t.Errorf("Rasterizer = %q, want %q", tc.Rasterizer, tt.rasterizer)
			}
			if len(tc.Missing()) != tt.missing {
				t.Errorf("Missing() = %v, want %d entries", tc.Missing(), tt.missing)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRenderer_Render - Rendering, caching and graceful failure
// ---------------------------------------------------------------------------

func TestRenderer_Render_Cairo(t *testing.T) {
	t.Parallel()

	runner := &mockRunner{}
	r := newTestRenderer(runner, []string{ToolCompiler, ToolCairo})
	job := testJob(t, sampleFigure)

	name, err := r.Render(context.Background(), job)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if name != FileName(job.Basename, job.Source) {
		t.Errorf("Render() = %q, want cache-keyed name", name)
	}
	if _, err := os.Stat(filepath.Join(job.OutputDir, name)); err != nil {
		t.Errorf("rendered file missing: %v", err)
	}

	if len(runner.calls) != 2 {
		t.Fatalf("runner calls = %d, want 2", len(runner.calls))
	}
	compile := strings.Join(runner.calls[0], " ")
	if compile != "pdflatex -interaction=nonstopmode -halt-on-error tikz_figure.tex" {
		t.Errorf("compile command = %q", compile)
	}
	if runner.calls[1][0] != ToolCairo || runner.calls[1][1] != "-png" {
		t.Errorf("rasterize command = %v, want pdftocairo -png ...", runner.calls[1])
	}

	entries, _ := os.ReadDir(job.OutputDir)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), workPrefix) {
			t.Errorf("work directory %s was not removed", e.Name())
		}
	}
}

func TestRenderer_Render_MagickDensity(t *testing.T) {
	t.Parallel()

	runner := &mockRunner{}
	r := newTestRenderer(runner, []string{ToolCompiler, ToolMagick}, WithDensity(150))

	if _, err := r.Render(context.Background(), testJob(t, sampleFigure)); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	got := strings.Join(runner.calls[1], " ")
	if !strings.HasPrefix(got, "magick -density 150 ") || !strings.Contains(got, ".pdf[0] -background none") {
		t.Errorf("magick command = %q", got)
	}
}

func TestRenderer_Render_Idempotent(t *testing.T) {
	t.Parallel()

	runner := &mockRunner{}
	job := testJob(t, sampleFigure)
	r := newTestRenderer(runner, []string{ToolCompiler, ToolCairo})

	first, err := r.Render(context.Background(), job)
	if err != nil {
		t.Fatalf("first Render() error: %v", err)
	}
	calls := runner.callCount()

	second, err := r.Render(context.Background(), job)
	if err != nil {
		t.Fatalf("second Render() error: %v", err)
	}
	if second != first {
		t.Errorf("second Render() = %q, want %q", second, first)
	}
	if runner.callCount() != calls {
		t.Errorf("second Render() invoked tools: %d calls, want %d", runner.callCount(), calls)
	}

	// A new renderer, as in a later run, reuses the file on disk without
	// probing or invoking anything.
	fresh := &mockRunner{}
	probed := false
	r2 := NewRenderer(WithRunner(fresh), WithLookPath(func(string) (string, error) {
		probed = true
		return "", errors.New("not found")
	}))
	third, err := r2.Render(context.Background(), job)
	if err != nil || third != first {
		t.Errorf("Render() across runs = %q, %v; want %q", third, err, first)
	}
	if fresh.callCount() != 0 || probed {
		t.Error("cached figure should not probe or invoke tools")
	}
}

func TestRenderer_Render_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		tools   []string
		runner  *mockRunner
		wantErr error
		calls   int
	}{
		{
			name:    "toolchain absent",
			tools:   nil,
			runner:  &mockRunner{},
			wantErr: ErrToolchainUnavailable,
			calls:   0,
		},
		{
			name:    "compile error",
			tools:   []string{ToolCompiler, ToolCairo},
			runner:  &mockRunner{fail: map[string]error{ToolCompiler: errors.New("exit status 1")}, output: "! Undefined control sequence."},
			wantErr: ErrCompile,
			calls:   1,
		},
		{
			name:    "rasterizer error",
			tools:   []string{ToolCompiler, ToolCairo},
			runner:  &mockRunner{fail: map[string]error{ToolCairo: errors.New("exit status 99")}},
			wantErr: ErrRasterize,
			calls:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := newTestRenderer(tt.runner, tt.tools)
			job := testJob(t, sampleFigure)

			name, err := r.Render(context.Background(), job)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Render() error = %v, want %v", err, tt.wantErr)
			}
			if name != "" {
				t.Errorf("Render() = %q, want empty name on failure", name)
			}
			if tt.runner.callCount() != tt.calls {
				t.Errorf("runner calls = %d, want %d", tt.runner.callCount(), tt.calls)
			}

			// The same broken figure is not retried within a run.
			_, err = r.Render(context.Background(), job)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("second Render() error = %v, want %v", err, tt.wantErr)
			}
			if tt.runner.callCount() != tt.calls {
				t.Errorf("second Render() retried tools: %d calls", tt.runner.callCount())
			}
		})
	}
}

func TestRenderer_Render_CompileOutputInError(t *testing.T) {
	t.Parallel()

	runner := &mockRunner{
		fail:   map[string]error{ToolCompiler: errors.New("exit status 1")},
		output: "! Package tikz Error: Giving up on this path.",
	}
	r := newTestRenderer(runner, []string{ToolCompiler, ToolCairo})

	_, err := r.Render(context.Background(), testJob(t, sampleFigure))
	if err == nil || !strings.Contains(err.Error(), "Giving up on this path") {
		t.Errorf("Render() error = %v, want tool output included", err)
	}
}

func TestRenderer_Render_Timeout(t *testing.T) {
	t.Parallel()

	runner := &mockRunner{block: true}
	r := newTestRenderer(runner, []string{ToolCompiler, ToolCairo}, WithTimeout(20*time.Millisecond))

	_, err := r.Render(context.Background(), testJob(t, sampleFigure))
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("Render() error = %v, want ErrTimeout", err)
	}
}

func TestRenderer_Render_Cancelled(t *testing.T) {
	t.Parallel()

	runner := &mockRunner{block: true}
	r := newTestRenderer(runner, []string{ToolCompiler, ToolCairo})
	job := testJob(t, sampleFigure)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Render(ctx, job); !errors.Is(err, context.Canceled) {
		t.Fatalf("Render() error = %v, want context.Canceled", err)
	}

	// Cancellation is not remembered as a figure failure.
	runner.block = false
	if _, err := r.Render(context.Background(), job); err != nil {
		t.Errorf("Render() after cancellation error: %v", err)
	}
}

func TestRenderer_Render_EmptySource(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(&mockRunner{}, []string{ToolCompiler, ToolCairo})
	if _, err := r.Render(context.Background(), testJob(t, "  \n")); !errors.Is(err, ErrEmptySource) {
		t.Errorf("Render() error = %v, want ErrEmptySource", err)
	}
}

func TestRenderer_Render_Downscale(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		maxWidth  int
		wantWidth int
		wantH     int
	}{
		{"wider than limit", 100, 100, 50},
		{"within limit", 400, 200, 100},
		{"no limit", 0, 200, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			runner := &mockRunner{width: 200, height: 100}
			r := newTestRenderer(runner, []string{ToolCompiler, ToolCairo}, WithMaxWidth(tt.maxWidth))
			job := testJob(t, sampleFigure)

			name, err := r.Render(context.Background(), job)
			if err != nil {
				t.Fatalf("Render() error: %v", err)
			}

			f, err := os.Open(filepath.Join(job.OutputDir, name))
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			cfg, err := png.DecodeConfig(f)
			if err != nil {
				t.Fatal(err)
			}
			if cfg.Width != tt.wantWidth || cfg.Height != tt.wantH {
				t.Errorf("figure size = %dx%d, want %dx%d", cfg.Width, cfg.Height, tt.wantWidth, tt.wantH)
			}
		})
	}
}
