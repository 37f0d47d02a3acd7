package figure

import "strings"

const standaloneClass = `\documentclass[tikz,border=4pt]{standalone}`

// droppedPreamble lists preamble directives that conflict with the
// standalone wrapper.
var droppedPreamble = []string{
	`\documentclass`, `\begin{document}`, `\end{document}`,
	`\title`, `\author`, `\date`,
}

// Standalone builds a compilable document holding one figure. Package and
// library setup from the preamble is kept.
func Standalone(source, preamble string) string {
	parts := []string{standaloneClass}
	for _, line := range strings.Split(preamble, "\n") {
		if keepPreambleLine(strings.TrimSpace(line)) {
			parts = append(parts, line)
		}
	}
	parts = append(parts, `\begin{document}`, source, `\end{document}`, "")
	return strings.Join(parts, "\n")
}

func keepPreambleLine(trimmed string) bool {
	for _, prefix := range droppedPreamble {
		if strings.HasPrefix(trimmed, prefix) {
			return false
		}
	}
	return true
}
