package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Layer serves assets from a single fs.FS.
type Layer struct {
	fsys fs.FS
	root string // resolved directory of a disk layer, empty when embedded
}

// Embedded returns the layer compiled into the binary.
func Embedded() *Layer {
	return &Layer{fsys: builtin}
}

// OpenDir returns a layer reading basePath. The directory must exist and
// be readable; its subdirectories are optional.
func OpenDir(basePath string) (*Layer, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	root, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	_, err = os.ReadDir(root)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %s does not exist", ErrInvalidBasePath, root)
	case err != nil:
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidBasePath, root, err)
	}

	return &Layer{fsys: os.DirFS(root), root: root}, nil
}

func (l *Layer) LoadStyle(name string) (string, error) {
	return l.load(styleKind, name)
}

func (l *Layer) LoadTemplate(name string) (string, error) {
	return l.load(templateKind, name)
}

func (l *Layer) load(k kind, name string) (string, error) {
	if !validName.MatchString(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	file := k.file(name)

	if l.root != "" {
		if err := l.contained(file); err != nil {
			return "", err
		}
	}

	content, err := fs.ReadFile(l.fsys, file)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("%w: %q", k.notFound, name)
	case err != nil:
		return "", fmt.Errorf("%w: %s: %v", ErrAssetRead, file, err)
	}
	return string(content), nil
}

// contained rejects files whose symlinks lead outside the layer root.
// A missing file passes; the read reports it.
func (l *Layer) contained(file string) error {
	full := filepath.Join(l.root, filepath.FromSlash(file))
	resolved, err := filepath.EvalSymlinks(full)
	if err != nil {
		return nil
	}
	if !strings.HasPrefix(resolved, l.root+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s", ErrPathTraversal, file)
	}
	return nil
}

var _ AssetLoader = (*Layer)(nil)
