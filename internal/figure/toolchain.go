package figure

import (
	"strings"
)

// Tool names.
const (
	ToolCompiler = "pdflatex"
	ToolCairo    = "pdftocairo"
	ToolMagick   = "magick"
)

// Toolchain is the result of probing for the external tools.
type Toolchain struct {
	Compiler   string // path to pdflatex, empty if missing
	Rasterizer string // ToolCairo or ToolMagick, empty if neither exists
	Paths      map[string]string
}

// Available reports whether figures can be rendered.
func (t Toolchain) Available() bool {
	return t.Compiler != "" && t.Rasterizer != ""
}

// Missing lists the tools needed for rendering that were not found.
func (t Toolchain) Missing() []string {
	var missing []string
	if t.Compiler == "" {
		missing = append(missing, ToolCompiler)
	}
	if t.Rasterizer == "" {
		missing = append(missing, ToolCairo+" or "+ToolMagick)
	}
	return missing
}

// String describes the rendering path, e.g. "pdflatex + pdftocairo".
func (t Toolchain) String() string {
	if !t.Available() {
		return "unavailable (missing " + strings.Join(t.Missing(), ", ") + ")"
	}
	return ToolCompiler + " + " + t.Rasterizer
}

// Probe looks up pdflatex and a rasterizer, preferring pdftocairo over
// ImageMagick.
func Probe(lookPath LookPathFunc) Toolchain {
	tc := Toolchain{Paths: make(map[string]string, 3)}
	for _, tool := range []string{ToolCompiler, ToolCairo, ToolMagick} {
		if p, err := lookPath(tool); err == nil {
			tc.Paths[tool] = p
		}
	}
	tc.Compiler = tc.Paths[ToolCompiler]
	switch {
	case tc.Paths[ToolCairo] != "":
		tc.Rasterizer = ToolCairo
	case tc.Paths[ToolMagick] != "":
		tc.Rasterizer = ToolMagick
	}
	return tc
}
