package assets

import (
	"embed"
	"io/fs"
	"path"
	"regexp"
	"strings"
)

// Built-in asset names.
const (
	DefaultStyleName    = "canvas"
	DefaultTemplateName = "document"
)

//go:embed styles/*.css templates/*.html
var builtin embed.FS

// kind is a category of asset: where it lives and what its absence means.
type kind struct {
	dir      string
	ext      string
	notFound error
}

var (
	styleKind    = kind{dir: "styles", ext: ".css", notFound: ErrStyleNotFound}
	templateKind = kind{dir: "templates", ext: ".html", notFound: ErrTemplateNotFound}
)

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// file returns the slash-separated path of name inside a layer.
func (k kind) file(name string) string {
	return path.Join(k.dir, name+k.ext)
}

// BuiltinStyles lists the embedded style names, sorted.
func BuiltinStyles() []string {
	matches, err := fs.Glob(builtin, styleKind.file("*"))
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(path.Base(m), styleKind.ext))
	}
	return names
}
