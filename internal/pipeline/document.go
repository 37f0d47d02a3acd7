package pipeline

import (
	"strings"
)

const (
	beginDocument = `\begin{document}`
	endDocument   = `\end{document}`
)

// Document is the part of a source file the converter works from.
type Document struct {
	Title    string
	Author   string
	Date     string
	Preamble string   // text before \begin{document}
	Body     []string // lines between the document markers
	BodyLine int      // 1-based source line of Body[0]
}

// Extract splits source into preamble, body lines and header fields.
// When either document marker is missing the whole source is the body.
func Extract(source string) Document {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	doc := Document{Preamble: source, BodyLine: 1}

	body := source
	begin := strings.Index(source, beginDocument)
	if begin >= 0 {
		doc.Preamble = source[:begin]
		if end := strings.Index(source[begin:], endDocument); end >= 0 {
			start := begin + len(beginDocument)
			body = source[start : begin+end]
			doc.BodyLine = strings.Count(source[:start], "\n") + 1
		}
	}
	doc.Body = splitLines(body)

	header := stripComments(source)
	doc.Title = commandArg(header, "title")
	doc.Author = commandArg(header, "author")
	doc.Date = commandArg(header, "date")
	return doc
}

// commandArg returns the trimmed brace argument of the first \name{...}.
func commandArg(text, name string) string {
	token := `\` + name + `{`
	i := strings.Index(text, token)
	if i < 0 {
		return ""
	}
	open := i + len(token) - 1
	end := matchBrace(text, open)
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(text[open+1 : end])
}

func stripComments(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i], _, _ = SplitComment(line)
	}
	return strings.Join(lines, "\n")
}
