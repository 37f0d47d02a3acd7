package tex2canvas

import (
	"errors"

	"github.com/alnah/go-tex2canvas/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrEmptySource      = errors.New("source cannot be empty")
	ErrInvalidOutputDir = errors.New("invalid output directory")
	ErrHTMLRender       = errors.New("HTML rendering failed")

	// ErrUnclosedEnvironment is returned in strict mode when a figure or
	// equation environment has no \end marker.
	ErrUnclosedEnvironment = pipeline.ErrUnclosedEnvironment

	// Asset loading errors.
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
