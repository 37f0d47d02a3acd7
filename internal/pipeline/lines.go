package pipeline

import (
	"regexp"
	"strings"
)

var altPattern = regexp.MustCompile(`(?i)\balt\s*:\s*(.+)`)

// SplitComment splits a source line at the first % not preceded by a
// backslash. ok is false when the line carries no comment.
func SplitComment(line string) (code, comment string, ok bool) {
	for i := 0; i < len(line); i++ {
		if line[i] != '%' {
			continue
		}
		if i > 0 && line[i-1] == '\\' {
			continue
		}
		return line[:i], line[i+1:], true
	}
	return line, "", false
}

// ParseAlt extracts the text of an "alt: <text>" annotation from a comment.
func ParseAlt(comment string) (string, bool) {
	m := altPattern.FindStringSubmatch(comment)
	if m == nil {
		return "", false
	}
	alt := strings.TrimSpace(m[1])
	return alt, alt != ""
}

// splitLines splits text on line breaks. A trailing newline does not
// produce a final empty line.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// matchBrace returns the index of the brace closing the one at open,
// skipping escaped braces, or -1.
func matchBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// stripBraces removes one pair of surrounding braces.
func stripBraces(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '{' && s[len(s)-1] == '}' {
		return strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

// splitOptions splits a key=value option list on top-level commas.
func splitOptions(opts string) []string {
	var parts []string
	var cur strings.Builder
	depth := 0
	for _, r := range opts {
		switch {
		case r == '{':
			depth++
		case r == '}' && depth > 0:
			depth--
		}
		if r == ',' && depth == 0 {
			parts = append(parts, strings.TrimSpace(cur.String()))
			cur.Reset()
			continue
		}
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		parts = append(parts, strings.TrimSpace(cur.String()))
	}
	return parts
}

// altFromOptions reads alt text from \includegraphics options.
func altFromOptions(opts string) string {
	for _, part := range splitOptions(opts) {
		key, val, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "alt", "alttext", "description":
			return stripBraces(val)
		}
	}
	return ""
}
