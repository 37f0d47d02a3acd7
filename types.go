package tex2canvas

import "context"

// Input is one document to convert.
type Input struct {
	Source    string // LaTeX source (required)
	Name      string // source file name; its stem prefixes figure files
	SourceDir string // directory searched for \includegraphics files without extension
	OutputDir string // directory figures are written to (default: SourceDir, then ".")
}

// ConvertResult holds the output of a conversion.
type ConvertResult struct {
	HTML     []byte   // complete HTML document
	Title    string   // document title, or the input stem
	Figures  []string // figure images written or reused, relative to OutputDir
	Warnings []string // constructs that degraded (figures kept as source, unclosed environments)
}

// CommandRunner executes an external tool in dir and returns its combined
// output. It is the seam used to run pdflatex, pdftocairo and magick.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) (string, error)
}

// defaultStem names figures when Input.Name is empty.
const defaultStem = "document"
