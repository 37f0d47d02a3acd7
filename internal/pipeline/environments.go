package pipeline

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"
)

// envKind selects how an accumulated environment is reassembled.
type envKind int

const (
	envFigure  envKind = iota // rasterized, or kept as source
	envRows                   // eqnarray: one display equation per row
	envDisplay                // body becomes one display equation
	envWrapped                // display equation keeping the \begin/\end markers
)

var environments = map[string]envKind{
	"tikzpicture": envFigure,
	"eqnarray":    envRows,
	"equation":    envDisplay,
	"equation*":   envDisplay,
	"cases":       envWrapped,
	"array":       envWrapped,
	"align":       envWrapped,
	"align*":      envWrapped,
	"aligned":     envWrapped,
	"gather":      envWrapped,
	"gather*":     envWrapped,
	"multline":    envWrapped,
	"multline*":   envWrapped,
}

var envOpen = regexp.MustCompile(`\\begin\{(tikzpicture|eqnarray|equation\*?|cases|array|align\*?|aligned|gather\*?|multline\*?)\}`)

// environment handles a line containing an environment open marker.
// code is masked; m indexes the marker within it.
func (s *Scanner) environment(ctx context.Context, code string, saved []string, m []int) error {
	name := code[m[2]:m[3]]
	before := unmaskMath(code[:m[0]], saved)
	rest := unmaskMath(code[m[1]:], saved)
	openLine := s.pos

	if strings.TrimSpace(before) != "" {
		s.listOrText(before)
	}

	inner, after, closed := s.accumulate(name, rest)
	if !closed {
		msg := fmt.Sprintf(`line %d: \begin{%s} has no matching \end{%s}`, s.sourceLine(openLine), name, name)
		if s.opts.Strict {
			return fmt.Errorf("%w: %s", ErrUnclosedEnvironment, msg)
		}
		s.warn(msg)
	}

	kind := environments[name]
	if kind == envFigure {
		if err := s.figure(ctx, name, inner, closed); err != nil {
			return err
		}
	} else {
		s.block(equationBlock(kind, name, inner))
		s.clearAlt()
	}

	if strings.TrimSpace(after) != "" {
		return s.handle(ctx, after)
	}
	return nil
}

// accumulate collects the environment body up to its close marker,
// advancing the scanner past swallowed lines. Comments on those lines are
// stripped and still checked for alt annotations.
func (s *Scanner) accumulate(name, rest string) (inner []string, after string, closed bool) {
	end := `\end{` + name + `}`
	if i := strings.Index(rest, end); i >= 0 {
		return []string{rest[:i]}, rest[i+len(end):], true
	}
	inner = append(inner, rest)
	for s.pos+1 < len(s.lines) {
		s.pos++
		code, comment, ok := SplitComment(s.lines[s.pos])
		if ok {
			s.noteComment(comment)
		}
		if i := strings.Index(code, end); i >= 0 {
			return append(inner, code[:i]), code[i+len(end):], true
		}
		inner = append(inner, strings.TrimRight(code, " \t"))
	}
	return inner, "", false
}

// equationBlock reassembles an equation environment as display math.
func equationBlock(kind envKind, name string, inner []string) string {
	lines := nonEmpty(inner)
	switch kind {
	case envRows:
		rows := make([]string, 0, len(lines))
		for _, l := range lines {
			l = strings.TrimRight(strings.TrimSuffix(l, `\\`), " \t")
			if l = strings.ReplaceAll(l, "&", ""); l != "" {
				rows = append(rows, "$$\n"+l+"\n$$")
			}
		}
		return strings.Join(rows, "\n")
	case envWrapped:
		return "$$\n\\begin{" + name + "}\n" + strings.Join(lines, "\n") + "\n\\end{" + name + "}\n$$"
	default:
		return "$$\n" + strings.Join(lines, "\n") + "\n$$"
	}
}

func nonEmpty(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// figure renders an accumulated figure environment. The alt text is the
// pending annotation or "Figure N"; a figure that cannot be rendered is
// emitted as its source.
func (s *Scanner) figure(ctx context.Context, name string, inner []string, closed bool) error {
	source := `\begin{` + name + `}` + strings.Join(inner, "\n")
	if closed {
		source += `\end{` + name + `}`
	}
	source = strings.TrimSpace(source)

	s.figures++
	alt := s.pendingAlt
	if alt == "" {
		alt = fmt.Sprintf("Figure %d", s.figures)
	}
	s.clearAlt()

	file, err := s.renderFigure(ctx, source)
	if err != nil {
		return err
	}
	if file == "" {
		s.block(source)
		return nil
	}
	s.block(fmt.Sprintf(`<img src="%s" alt="%s">`, html.EscapeString(file), html.EscapeString(alt)))
	return nil
}
