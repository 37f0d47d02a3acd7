package yamlutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type figures struct {
	Timeout  string `yaml:"timeout"`
	MaxWidth int    `yaml:"maxWidth"`
}

// ---------------------------------------------------------------------------
// TestDecode - Strict decoding and input checks
// ---------------------------------------------------------------------------

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		dest    any
		want    figures
		wantErr error
		wantMsg string
	}{
		{
			name: "known fields",
			data: "timeout: 30s\nmaxWidth: 800\n",
			dest: &figures{},
			want: figures{Timeout: "30s", MaxWidth: 800},
		},
		{name: "empty", data: "", dest: &figures{}, wantErr: ErrEmpty},
		{name: "blank", data: "\n  \n", dest: &figures{}, wantErr: ErrEmpty},
		{name: "nil destination", data: "timeout: 1s", dest: nil, wantErr: ErrNilDestination},
		{
			name:    "unknown field",
			data:    "timeout: 1s\nmaxwidth: 800\n",
			dest:    &figures{},
			wantErr: ErrInvalid,
			wantMsg: "maxwidth",
		},
		{
			name:    "syntax error",
			data:    "timeout: [30s\n",
			dest:    &figures{},
			wantErr: ErrInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Decode([]byte(tt.data), tt.dest)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Decode() error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				if !strings.Contains(err.Error(), tt.wantMsg) {
					t.Errorf("error = %q, want it to mention %q", err, tt.wantMsg)
				}
				return
			}
			if got := *tt.dest.(*figures); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecode_TooLarge(t *testing.T) {
	t.Parallel()

	data := []byte("timeout: " + strings.Repeat("9", int(MaxFileSize)))
	if err := Decode(data, &figures{}); !errors.Is(err, ErrTooLarge) {
		t.Errorf("Decode() error = %v, want ErrTooLarge", err)
	}
}

func TestDecodeFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "course.yaml")
	if err := os.WriteFile(path, []byte("maxWidth: 640\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	var got figures
	if err := DecodeFile(path, &got); err != nil {
		t.Fatalf("DecodeFile() error = %v", err)
	}
	if got.MaxWidth != 640 {
		t.Errorf("MaxWidth = %d, want 640", got.MaxWidth)
	}

	if err := DecodeFile(filepath.Join(dir, "absent.yaml"), &got); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("DecodeFile(absent) error = %v, want fs.ErrNotExist", err)
	}
}
