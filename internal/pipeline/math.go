package pipeline

import (
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var (
	dollarDisplay  = regexp.MustCompile(`(?s)\$\$(.+?)\$\$`)
	bracketDisplay = regexp.MustCompile(`(?s)\\\[(.+?)\\\]`)
)

// EquationImage returns the Canvas equation image tag for a LaTeX source.
func EquationImage(latex string) string {
	escaped := html.EscapeString(latex)
	return `<img class="equation_image" title="` + escaped +
		`" src="/equation_images/` + encodeEquation(latex) +
		`?scale=1" alt="LaTeX: ` + escaped +
		`" data-equation-content="` + escaped +
		`" data-ignore-a11y-check="">`
}

// encodeEquation percent-encodes every byte outside the unreserved set,
// spaces included.
func encodeEquation(latex string) string {
	return strings.ReplaceAll(url.QueryEscape(latex), "+", "%20")
}

// RewriteMath replaces display spans ($$...$$, \[...\]) with paragraph
// wrapped equation images, then inline $...$ spans with bare ones.
func RewriteMath(text string) string {
	return renderSpans(splitMath(text), nil)
}

// mathSpan is a piece of text that is either plain or an equation.
type mathSpan struct {
	text    string // equation source, trimmed, for math spans
	raw     string // source including delimiters
	math    bool
	display bool
}

// splitMath cuts text into plain and equation spans. Later passes only
// look inside plain spans left by earlier ones.
func splitMath(text string) []mathSpan {
	spans := []mathSpan{plainSpan(text)}
	spans = splitPlain(spans, func(s string) []mathSpan { return splitRegexp(s, dollarDisplay) })
	spans = splitPlain(spans, func(s string) []mathSpan { return splitRegexp(s, bracketDisplay) })
	return splitPlain(spans, splitInline)
}

func plainSpan(text string) mathSpan {
	return mathSpan{text: text, raw: text}
}

func splitPlain(spans []mathSpan, split func(string) []mathSpan) []mathSpan {
	out := make([]mathSpan, 0, len(spans))
	for _, sp := range spans {
		if sp.math {
			out = append(out, sp)
			continue
		}
		out = append(out, split(sp.text)...)
	}
	return out
}

func splitRegexp(text string, re *regexp.Regexp) []mathSpan {
	var out []mathSpan
	last := 0
	for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > last {
			out = append(out, plainSpan(text[last:m[0]]))
		}
		out = append(out, mathSpan{
			text:    strings.TrimSpace(text[m[2]:m[3]]),
			raw:     text[m[0]:m[1]],
			math:    true,
			display: true,
		})
		last = m[1]
	}
	if last < len(text) {
		out = append(out, plainSpan(text[last:]))
	}
	return out
}

// splitInline finds $...$ spans. A delimiter must not follow a backslash
// and must not be part of a $$ pair; the body is the shortest run of at
// least one character ending at a valid closing delimiter.
func splitInline(text string) []mathSpan {
	var out []mathSpan
	last := 0
	for i := 0; i < len(text); i++ {
		if !isOpenDollar(text, i) {
			continue
		}
		end := closeDollar(text, i+2)
		if end < 0 {
			continue
		}
		if i > last {
			out = append(out, plainSpan(text[last:i]))
		}
		out = append(out, mathSpan{text: strings.TrimSpace(text[i+1 : end]), raw: text[i : end+1], math: true})
		last = end + 1
		i = end
	}
	if last < len(text) {
		out = append(out, plainSpan(text[last:]))
	}
	return out
}

func isOpenDollar(text string, i int) bool {
	if text[i] != '$' {
		return false
	}
	if i > 0 && text[i-1] == '\\' {
		return false
	}
	return i+1 >= len(text) || text[i+1] != '$'
}

// closeDollar returns the first valid closing $ at or after from.
func closeDollar(text string, from int) int {
	for j := from; j < len(text); j++ {
		if text[j] != '$' || text[j-1] == '\\' {
			continue
		}
		if j+1 < len(text) && text[j+1] == '$' {
			continue
		}
		return j
	}
	return -1
}

// renderSpans joins spans back into text, rendering equations as images.
// plain, when set, transforms the text outside equations.
func renderSpans(spans []mathSpan, plain func(string) string) string {
	var b strings.Builder
	for _, sp := range spans {
		switch {
		case !sp.math:
			if plain != nil {
				b.WriteString(plain(sp.text))
			} else {
				b.WriteString(sp.text)
			}
		case sp.display:
			b.WriteString("<p>" + EquationImage(sp.text) + "</p>")
		default:
			b.WriteString(EquationImage(sp.text))
		}
	}
	return b.String()
}

// maskMath replaces every equation span in line with a placeholder so
// text commands are never rewritten inside math. unmaskMath restores them.
func maskMath(line string) (string, []string) {
	spans := splitMath(line)
	if len(spans) == 1 && !spans[0].math {
		return line, nil
	}
	var b strings.Builder
	var saved []string
	for _, sp := range spans {
		if !sp.math {
			b.WriteString(sp.raw)
			continue
		}
		b.WriteString(placeholder(len(saved)))
		saved = append(saved, sp.raw)
	}
	return b.String(), saved
}

func unmaskMath(line string, saved []string) string {
	for i, raw := range saved {
		line = strings.Replace(line, placeholder(i), raw, 1)
	}
	return line
}

func placeholder(i int) string {
	return "\x00" + strconv.Itoa(i) + "\x00"
}
