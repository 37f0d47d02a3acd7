package assets

import (
	"bytes"
	"fmt"
	"html/template"
)

// Page is the data passed to a document shell.
type Page struct {
	Title string
	CSS   template.CSS  // trusted stylesheet contents
	Body  template.HTML // already-rendered page body
}

// Shell is a parsed document shell.
type Shell struct {
	tmpl *template.Template
}

// ParseShell parses a document shell loaded from an AssetLoader.
func ParseShell(name, content string) (*Shell, error) {
	tmpl, err := template.New(name).Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrTemplateParse, name, err)
	}
	return &Shell{tmpl: tmpl}, nil
}

// Render executes the shell for one page.
func (s *Shell) Render(p Page) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, p); err != nil {
		return nil, fmt.Errorf("rendering document: %w", err)
	}
	return buf.Bytes(), nil
}
