package pipeline

import "strings"

// Header is rendered above the body when the document declares a title.
type Header struct {
	Title  string
	Author string
	Date   string
}

// structuralPrefixes mark blocks that are already HTML elements.
var structuralPrefixes = []string{
	"<h", "<img", "<blockquote", "<ul", "<ol", "<div", "<li", "</ol", "</ul",
	`<p><img class="equation_image"`,
}

// Compose groups scanned lines into blank-line separated blocks, rewrites
// math in each and wraps narrative blocks in paragraphs.
func Compose(h Header, lines []string) string {
	var rendered []string

	if h.Title != "" {
		rendered = append(rendered, "<h2>"+h.Title+"</h2>")
		if h.Author != "" {
			rendered = append(rendered, "<p><em>"+h.Author+"</em></p>")
		}
		if h.Date != "" {
			rendered = append(rendered, "<p>"+h.Date+"</p>")
		}
	}

	for _, block := range blocks(lines) {
		spans := splitMath(block)
		out := strings.TrimSpace(renderSpans(spans, nil))
		if out == "" {
			continue
		}
		if isStructural(out) {
			rendered = append(rendered, out)
			continue
		}
		rendered = append(rendered, paragraphs(spans)...)
	}

	return strings.Join(rendered, "\n")
}

// paragraphs wraps narrative text in <p> elements. A display equation
// inside the block becomes a paragraph of its own so paragraphs never nest.
func paragraphs(spans []mathSpan) []string {
	var out []string
	var cur []mathSpan
	flush := func() {
		if text := strings.TrimSpace(renderSpans(cur, lineBreaks)); text != "" {
			out = append(out, "<p>"+text+"</p>")
		}
		cur = nil
	}
	for _, sp := range spans {
		if sp.display {
			flush()
			out = append(out, renderSpans([]mathSpan{sp}, nil))
			continue
		}
		cur = append(cur, sp)
	}
	flush()
	return out
}

func blocks(lines []string) []string {
	var out []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			out = append(out, strings.TrimSpace(strings.Join(cur, "\n")))
			cur = nil
		}
	}
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	flush()
	return out
}

// isStructural reports whether block is already an element. A block that
// merely starts with inline math is narrative.
func isStructural(block string) bool {
	if strings.HasPrefix(block, `<img class="equation_image"`) {
		return false
	}
	for _, p := range structuralPrefixes {
		if strings.HasPrefix(block, p) {
			return true
		}
	}
	return false
}

// lineBreaks converts LaTeX \\ breaks in narrative text.
func lineBreaks(text string) string {
	return strings.ReplaceAll(text, `\\`, "<br>")
}
