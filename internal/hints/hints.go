// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to messages.
package hints

import (
	"runtime"
	"strings"

	"github.com/alnah/go-tex2canvas/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// goos is swapped by tests.
var goos = runtime.GOOS

// ForFigureToolchain returns install suggestions for the missing figure tools.
// missing holds executable names as probed (pdflatex, pdftocairo, magick).
func ForFigureToolchain(missing []string) string {
	if len(missing) == 0 {
		return ""
	}

	var hints []string
	hints = append(hints, "missing "+strings.Join(missing, ", "))

	switch {
	case IsInContainer():
		hints = append(hints, "apt-get install texlive-pictures poppler-utils")
	case goos == "darwin":
		hints = append(hints, "brew install --cask mactex-no-gui && brew install poppler")
	case goos == "windows":
		hints = append(hints, "install MiKTeX and ImageMagick, then reopen the terminal")
	default:
		hints = append(hints, "install TeX Live (pdflatex, tikz) and poppler-utils or ImageMagick")
	}

	hints = append(hints, "figures are kept as source text until then")
	return formatHints(hints)
}

// ForFigureTimeout returns a hint about raising the per-figure timeout.
func ForFigureTimeout() string {
	return format("for large figures, raise --figure-timeout")
}

// ForConfigNotFound suggests --config and the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, "go-tex2canvas") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound lists the styles that do exist.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
