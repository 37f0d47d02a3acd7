// Package yamlutil decodes YAML configuration strictly, reporting syntax
// errors with the offending source lines.
package yamlutil

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
)

// MaxFileSize caps YAML input; config files are a few hundred bytes.
var MaxFileSize int64 = 1 << 20

var (
	ErrEmpty          = errors.New("yamlutil: empty document")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrTooLarge       = errors.New("yamlutil: input exceeds maximum size")
	ErrInvalid        = errors.New("yamlutil: invalid document")
)

// DecodeFile decodes the file at path into v. Open errors are returned
// unwrapped so callers can test fs.ErrNotExist.
func DecodeFile(path string, v any) error {
	f, err := os.Open(path) // #nosec G304 -- path chosen by the user
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return fmt.Errorf("yamlutil: reading %s: %w", path, err)
	}
	return Decode(data, v)
}

// Decode decodes data into v, rejecting fields v does not declare.
func Decode(data []byte, v any) error {
	switch {
	case v == nil:
		return ErrNilDestination
	case int64(len(data)) > MaxFileSize:
		return fmt.Errorf("%w: more than %d bytes", ErrTooLarge, MaxFileSize)
	case len(bytes.TrimSpace(data)) == 0:
		return ErrEmpty
	}

	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("%w:\n%s", ErrInvalid, yaml.FormatError(err, false, true))
	}
	return nil
}
