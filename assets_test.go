package tex2canvas

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewAssetLoader(t *testing.T) {
	t.Parallel()

	t.Run("embedded only", func(t *testing.T) {
		t.Parallel()

		loader, err := NewAssetLoader("")
		if err != nil {
			t.Fatalf("NewAssetLoader() error: %v", err)
		}
		css, err := loader.LoadStyle(DefaultStyle)
		if err != nil || css == "" {
			t.Errorf("LoadStyle(%q) = %d bytes, %v", DefaultStyle, len(css), err)
		}
		shell, err := loader.LoadTemplate(DefaultTemplate)
		if err != nil || !strings.Contains(shell, "{{.Body}}") {
			t.Errorf("LoadTemplate(%q) error = %v", DefaultTemplate, err)
		}
	})

	t.Run("custom directory with fallback", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		if err := os.MkdirAll(filepath.Join(dir, "templates"), 0o750); err != nil {
			t.Fatal(err)
		}
		custom := "<html><body>{{.Body}}</body></html>"
		if err := os.WriteFile(filepath.Join(dir, "templates", "document.html"), []byte(custom), 0o600); err != nil {
			t.Fatal(err)
		}

		loader, err := NewAssetLoader(dir)
		if err != nil {
			t.Fatalf("NewAssetLoader() error: %v", err)
		}
		if got, _ := loader.LoadTemplate("document"); got != custom {
			t.Errorf("LoadTemplate() = %q, want the custom shell", got)
		}
		if _, err := loader.LoadStyle("plain"); err != nil {
			t.Errorf("LoadStyle(plain) should fall back to embedded: %v", err)
		}
	})
}

func TestNewAssetLoader_Errors(t *testing.T) {
	t.Parallel()

	if _, err := NewAssetLoader(filepath.Join(t.TempDir(), "missing")); !errors.Is(err, ErrInvalidAssetPath) {
		t.Errorf("NewAssetLoader(missing) error = %v, want ErrInvalidAssetPath", err)
	}

	loader, err := NewAssetLoader("")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		load    func() error
		wantErr error
	}{
		{"unknown style", func() error { _, err := loader.LoadStyle("neon"); return err }, ErrStyleNotFound},
		{"invalid style name", func() error { _, err := loader.LoadStyle("../x"); return err }, ErrStyleNotFound},
		{"unknown template", func() error { _, err := loader.LoadTemplate("poster"); return err }, ErrTemplateNotFound},
	}

	for _, tt := range tests {
		if err := tt.load(); !errors.Is(err, tt.wantErr) {
			t.Errorf("%s: error = %v, want %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestConvertAssetError_KeepsMessage(t *testing.T) {
	t.Parallel()

	loader, err := NewAssetLoader("")
	if err != nil {
		t.Fatal(err)
	}
	_, err = loader.LoadStyle("neon")
	if err == nil || !strings.Contains(err.Error(), "neon") {
		t.Errorf("error = %v, want the style name in the message", err)
	}
}
