package pipeline

import (
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/alnah/go-tex2canvas/internal/fileutil"
)

// imageExtensions are tried in order for \includegraphics paths without one.
var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".svg"}

var includeGraphics = regexp.MustCompile(`\\includegraphics(?:\[(.*?)\])?\{(.*?)\}`)

// replaceCommand rewrites every \name{arg} in s with fn(arg). With star,
// \name*{arg} is accepted too. Arguments may contain nested braces.
func replaceCommand(s, name string, star bool, fn func(arg string) string) string {
	token := `\` + name
	var b strings.Builder
	for {
		i := strings.Index(s, token)
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		j := i + len(token)
		if star && j < len(s) && s[j] == '*' {
			j++
		}
		if j >= len(s) || s[j] != '{' {
			b.WriteString(s[:j])
			s = s[j:]
			continue
		}
		end := matchBrace(s, j)
		if end < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:i])
		b.WriteString(fn(s[j+1 : end]))
		s = s[end+1:]
	}
}

// replaceBoldSwitch rewrites the legacy {\bf text} form.
func replaceBoldSwitch(s string) string {
	const token = `{\bf`
	var b strings.Builder
	for {
		i := strings.Index(s, token)
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		j := i + len(token)
		if j >= len(s) || !isSpace(s[j]) {
			b.WriteString(s[:j])
			s = s[j:]
			continue
		}
		end := matchBrace(s, i)
		if end < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:i])
		b.WriteString("<strong>" + strings.TrimSpace(s[j:end]) + "</strong>")
		s = s[end+1:]
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n'
}

func emphasis(s string) string {
	s = replaceCommand(s, "emph", false, func(arg string) string { return "<em>" + arg + "</em>" })
	s = replaceCommand(s, "textbf", false, func(arg string) string { return "<strong>" + arg + "</strong>" })
	return replaceBoldSwitch(s)
}

// headings rewrites sectioning commands. Empty \subsection{} braces become
// "Part N"; N restarts after every \section.
func (s *Scanner) headings(line string) string {
	line = replaceCommand(line, "section", true, func(arg string) string {
		s.part = 0
		return "<h3>" + arg + "</h3>"
	})
	line = replaceCommand(line, "subsection", true, func(arg string) string {
		if arg = strings.TrimSpace(arg); arg == "" {
			s.part++
			return fmt.Sprintf("<h4>Part %d</h4>", s.part)
		}
		return "<h4>" + arg + "</h4>"
	})
	return replaceCommand(line, "subsubsection", true, func(arg string) string {
		return "<h5>" + arg + "</h5>"
	})
}

// images resolves \includegraphics commands. Alt text comes from the
// options, then the pending comment annotation, then the file name.
func (s *Scanner) images(line string) string {
	if !strings.Contains(line, `\includegraphics`) {
		return line
	}
	line = includeGraphics.ReplaceAllStringFunc(line, func(match string) string {
		m := includeGraphics.FindStringSubmatch(match)
		src := s.resolveImage(strings.TrimSpace(m[2]))
		alt := altFromOptions(m[1])
		if alt == "" {
			alt = s.pendingAlt
		}
		if alt == "" {
			alt = "Image: " + fileutil.Stem(src)
		}
		return fmt.Sprintf(`<img src="%s" alt="%s">`, html.EscapeString(src), html.EscapeString(alt))
	})
	s.clearAlt()
	return line
}

// resolveImage probes the source directory for an extension when the
// path has none. Unresolved paths are returned unchanged.
func (s *Scanner) resolveImage(path string) string {
	if filepath.Ext(path) != "" {
		return path
	}
	for _, ext := range imageExtensions {
		if fileutil.FileExists(filepath.Join(s.opts.SourceDir, path+ext)) {
			return path + ext
		}
	}
	return path
}
