package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-tex2canvas/internal/figure"
)

// ErrUnclosedEnvironment is returned in strict mode when an environment
// runs to the end of the input without its close marker.
var ErrUnclosedEnvironment = errors.New("unclosed environment")

// FigureRenderer rasterizes a figure and returns the image file name.
// An error other than a context error means the figure stays as source.
type FigureRenderer interface {
	Render(ctx context.Context, job figure.Job) (string, error)
}

// Options configures a Scanner.
type Options struct {
	Stem      string         // input file stem, prefixes figure names
	SourceDir string         // directory probed for image extensions
	OutputDir string         // directory figures are written to
	Preamble  string         // passed to the figure renderer
	Renderer  FigureRenderer // nil keeps every figure as source
	Strict    bool           // unclosed environments are errors
	FirstLine int            // source line number of the first scanned line
	Logger    logrus.FieldLogger
}

// ScanResult is the output of one scan.
type ScanResult struct {
	Lines    []string // emitted lines; "" separates blocks
	Figures  []string // image files produced or reused
	Warnings []string
}

type listFrame struct {
	tag      string // "ul" or "ol"
	itemOpen bool
}

var (
	listMarker = regexp.MustCompile(`\\begin\{(itemize|enumerate)\}(?:\[[^\]]*\])?|\\end\{(itemize|enumerate)\}|\\item\b`)
	minipage   = regexp.MustCompile(`\\(?:begin|end)\{minipage\}`)

	// A line holding nothing but one heading is a block of its own.
	headingLine = regexp.MustCompile(`^\s*<h[3-5]>.*</h[3-5]>\s*$`)

	// Lines that cannot appear inside display math. An open $$ or \[ span
	// is abandoned when one of them starts a line.
	displayBoundary = regexp.MustCompile(`^\s*\\(?:item\b|(?:begin|end)\{(?:itemize|enumerate)\}|(?:sub){0,2}section\*?\{)`)

	// Wrapper lines that neither consume nor clear a pending alt annotation.
	transparent = regexp.MustCompile(`^\s*(?:\\(?:begin|end)\{(?:figure\*?|center|minipage|wrapfigure|subfigure)\}(?:\[[^\]]*\])?(?:\{[^{}]*\})*|\\centering|\\maketitle|\\noindent)\s*$`)
)

// Scanner turns document body lines into HTML fragment lines. It keeps
// list nesting, the pending alt annotation and heading counters for one
// document; Scan resets them.
type Scanner struct {
	opts Options
	log  logrus.FieldLogger

	lines []string
	pos   int
	out   []string

	lists      []listFrame
	pendingAlt string
	altLine    int
	display    string // closing delimiter of an open multi-line display span
	displayAt  int
	part       int
	figures    int

	written  []string
	warnings []string
}

// NewScanner creates a Scanner.
func NewScanner(opts Options) *Scanner {
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	if opts.FirstLine < 1 {
		opts.FirstLine = 1
	}
	return &Scanner{opts: opts, log: log}
}

// Scan processes lines one at a time. Multi-line environments are
// accumulated to their close marker; open lists are closed at the end.
func (s *Scanner) Scan(ctx context.Context, lines []string) (*ScanResult, error) {
	s.reset(lines)

	for s.pos = 0; s.pos < len(s.lines); s.pos++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := s.pos
		code, comment, hasComment := SplitComment(s.lines[s.pos])
		if hasComment {
			s.noteComment(comment)
		}
		code = strings.TrimRight(code, " \t")

		if strings.TrimSpace(code) == "" {
			if !hasComment {
				s.abandonDisplay()
				s.blank()
			}
			continue
		}
		if displayBoundary.MatchString(code) {
			s.abandonDisplay()
		}

		if err := s.handle(ctx, code); err != nil {
			return nil, err
		}
		if s.pendingAlt != "" && s.altLine < start && !transparent.MatchString(code) {
			s.clearAlt()
		}
	}

	s.closeLists()

	return &ScanResult{Lines: s.out, Figures: s.written, Warnings: s.warnings}, nil
}

func (s *Scanner) reset(lines []string) {
	s.lines = lines
	s.pos = 0
	s.out = nil
	s.lists = nil
	s.pendingAlt = ""
	s.altLine = 0
	s.display = ""
	s.displayAt = 0
	s.part = 0
	s.figures = 0
	s.written = nil
	s.warnings = nil
}

// handle dispatches one line of code, comment already removed.
func (s *Scanner) handle(ctx context.Context, code string) error {
	if s.display == "" {
		masked, saved := maskMath(code)
		if m := envOpen.FindStringSubmatchIndex(masked); m != nil {
			return s.environment(ctx, masked, saved, m)
		}
	}
	s.listOrText(code)
	return nil
}

// listOrText splits a line at list markers. Text around the markers is
// processed as ordinary text.
func (s *Scanner) listOrText(code string) {
	if s.display != "" {
		s.text(code)
		return
	}
	marks := listMarker.FindAllStringSubmatchIndex(code, -1)
	if marks == nil {
		s.text(code)
		return
	}
	if pre := code[:marks[0][0]]; strings.TrimSpace(pre) != "" {
		s.text(pre)
	}
	for k, m := range marks {
		end := len(code)
		if k+1 < len(marks) {
			end = marks[k+1][0]
		}
		tail := code[m[1]:end]

		switch {
		case m[2] >= 0:
			s.openList(code[m[2]:m[3]])
		case m[4] >= 0:
			s.closeList()
		default:
			s.item(tail)
			continue
		}
		if strings.TrimSpace(tail) != "" {
			s.text(tail)
		}
	}
}

func (s *Scanner) openList(env string) {
	tag := "ul"
	if env == "enumerate" {
		tag = "ol"
	}
	if len(s.lists) == 0 {
		s.separate()
	}
	s.emit("<" + tag + ">")
	s.lists = append(s.lists, listFrame{tag: tag})
}

// closeList closes the innermost list. Without an open list it does nothing.
func (s *Scanner) closeList() {
	if len(s.lists) == 0 {
		return
	}
	top := s.lists[len(s.lists)-1]
	if top.itemOpen {
		s.emit("</li>")
	}
	s.emit("</" + top.tag + ">")
	s.lists = s.lists[:len(s.lists)-1]
	if len(s.lists) == 0 {
		s.emit("")
	}
}

func (s *Scanner) closeLists() {
	for len(s.lists) > 0 {
		s.closeList()
	}
}

// item opens a list item, closing the previous one in the same list.
// Outside a list the item is emitted as a complete element.
func (s *Scanner) item(text string) {
	text = strings.TrimSpace(text)
	if len(s.lists) == 0 {
		s.emit("<li>" + s.inline(text) + "</li>")
		s.trackDisplay(text)
		return
	}
	top := &s.lists[len(s.lists)-1]
	if top.itemOpen {
		s.emit("</li>")
	}
	if text == "" {
		s.emit("<li>")
	} else {
		s.emit("<li>" + s.inline(text))
	}
	top.itemOpen = true
	s.trackDisplay(text)
}

// text emits an ordinary line after inline rewriting. Layout-only lines
// are dropped.
func (s *Scanner) text(code string) {
	if s.display != "" {
		s.emit(code)
		s.trackDisplay(code)
		return
	}
	if strings.TrimSpace(code) == `\maketitle` || minipage.MatchString(code) {
		return
	}
	line := s.inline(code)
	if headingLine.MatchString(line) {
		s.block(strings.TrimSpace(line))
	} else {
		s.emit(line)
	}
	s.trackDisplay(code)
}

// inline rewrites headings, emphasis and images outside math spans.
func (s *Scanner) inline(text string) string {
	masked, saved := maskMath(text)
	masked = s.headings(masked)
	masked = emphasis(masked)
	masked = s.images(masked)
	return unmaskMath(masked, saved)
}

// trackDisplay follows $$ and \[ delimiters left open at the end of a
// line so environments inside a multi-line display span stay untouched.
func (s *Scanner) trackDisplay(code string) {
	for i := 0; i+1 < len(code); i++ {
		switch pair := code[i : i+2]; {
		case pair == `\[` && s.display == "":
			s.display = `\]`
			s.displayAt = s.pos
			i++
		case pair == `\]` && s.display == `\]`:
			s.display = ""
			i++
		case code[i] == '\\':
			i++
		case pair == "$$" && s.display == "":
			s.display = "$$"
			s.displayAt = s.pos
			i++
		case pair == "$$" && s.display == "$$":
			s.display = ""
			i++
		}
	}
}

// abandonDisplay drops an open display span at a block boundary so one
// unbalanced delimiter cannot swallow the rest of the document.
func (s *Scanner) abandonDisplay() {
	if s.display == "" {
		return
	}
	open := "$$"
	if s.display == `\]` {
		open = `\[`
	}
	s.warn(fmt.Sprintf("line %d: %s has no closing %s", s.sourceLine(s.displayAt), open, s.display))
	s.display = ""
}

// blank handles an empty line. Inside a list it is swallowed.
func (s *Scanner) blank() {
	if len(s.lists) == 0 {
		s.emit("")
	}
}

// block emits a multi-line construct as its own block. Inside a list the
// surrounding separators are omitted so the list stays one block.
func (s *Scanner) block(content string) {
	if len(s.lists) > 0 {
		s.emit(content)
		return
	}
	s.separate()
	s.emit(content)
	s.emit("")
}

// separate emits a block separator unless the last line already is one.
func (s *Scanner) separate() {
	if n := len(s.out); n > 0 && s.out[n-1] != "" {
		s.emit("")
	}
}

func (s *Scanner) emit(line string) {
	s.out = append(s.out, line)
}

func (s *Scanner) noteComment(comment string) {
	if alt, ok := ParseAlt(comment); ok {
		s.pendingAlt = alt
		s.altLine = s.pos
	}
}

func (s *Scanner) clearAlt() {
	s.pendingAlt = ""
}

func (s *Scanner) warn(msg string) {
	s.warnings = append(s.warnings, msg)
	s.log.Warn(msg)
}

func (s *Scanner) sourceLine(index int) int {
	return s.opts.FirstLine + index
}

// renderFigure returns the image file for source, or "" when the figure
// stays as source. Only context errors are returned.
func (s *Scanner) renderFigure(ctx context.Context, source string) (string, error) {
	if s.opts.Renderer == nil {
		return "", nil
	}
	job := figure.Job{
		Source:    source,
		Preamble:  s.opts.Preamble,
		OutputDir: s.opts.OutputDir,
		Basename:  fmt.Sprintf("%s_figure_%d", s.opts.Stem, s.figures),
	}
	file, err := s.opts.Renderer.Render(ctx, job)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		s.warnings = append(s.warnings, fmt.Sprintf("figure %d kept as source: %v", s.figures, err))
		s.log.WithError(err).WithField("figure", s.figures).Warn("figure kept as source")
		return "", nil
	}
	s.written = append(s.written, file)
	return file, nil
}
