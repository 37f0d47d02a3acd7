package main

import (
	"errors"
	"os"

	tex2canvas "github.com/alnah/go-tex2canvas"
	"github.com/alnah/go-tex2canvas/internal/config"
)

// Exit codes for the tex2canvas CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // All inputs converted
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or source
	ExitIO      = 3 // Input missing, output not writable
)

// exitCodeFor maps an error to an exit code through errors.Is, so callers
// must wrap with %w. Joined errors match if any of their parts does.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrReadSource) ||
		errors.Is(err, ErrWriteHTML) ||
		errors.Is(err, tex2canvas.ErrInvalidOutputDir) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, tex2canvas.ErrEmptySource) ||
		errors.Is(err, tex2canvas.ErrUnclosedEnvironment) ||
		errors.Is(err, tex2canvas.ErrStyleNotFound) ||
		errors.Is(err, tex2canvas.ErrTemplateNotFound) ||
		errors.Is(err, tex2canvas.ErrInvalidAssetPath) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrUnsupportedCommand) ||
		errors.Is(err, ErrInvalidFlag) {
		return ExitUsage
	}

	return ExitGeneral
}
