package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ---------------------------------------------------------------------------
// TestSplitComment
// ---------------------------------------------------------------------------

func TestSplitComment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		line        string
		wantCode    string
		wantComment string
		wantOK      bool
	}{
		{"no comment", `Energy is $E=mc^2$.`, `Energy is $E=mc^2$.`, "", false},
		{"comment only", "% alt: A plot", "", " alt: A plot", true},
		{"trailing comment", `x = 1 % note`, "x = 1 ", " note", true},
		{"escaped percent", `50\% off`, `50\% off`, "", false},
		{"escaped then real", `50\% off % real`, `50\% off `, " real", true},
		{"first unescaped wins", "a % b % c", "a ", " b % c", true},
		{"empty line", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			code, comment, ok := SplitComment(tt.line)
			if code != tt.wantCode || comment != tt.wantComment || ok != tt.wantOK {
				t.Errorf("SplitComment(%q) = (%q, %q, %v), want (%q, %q, %v)",
					tt.line, code, comment, ok, tt.wantCode, tt.wantComment, tt.wantOK)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestParseAlt
// ---------------------------------------------------------------------------

func TestParseAlt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		comment string
		want    string
		wantOK  bool
	}{
		{" alt: A phase diagram ", "A phase diagram", true},
		{"ALT:Uppercase key", "Uppercase key", true},
		{" alt :  spaced colon", "spaced colon", true},
		{" TODO: fix alt: later", "later", true},
		{" alt:   ", "", false},
		{" salt: not an annotation", "", false},
		{" just a comment", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseAlt(tt.comment)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseAlt(%q) = (%q, %v), want (%q, %v)", tt.comment, got, ok, tt.want, tt.wantOK)
		}
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func TestSplitLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a\n", []string{"a"}},
		{"a\r\nb", []string{"a", "b"}},
		{"a\n\nb\n", []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, splitLines(tt.in)); diff != "" {
			t.Errorf("splitLines(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestMatchBrace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		s    string
		open int
		want int
	}{
		{"{a}", 0, 2},
		{"{a{b}c}", 0, 6},
		{`{a\}b}`, 0, 5},
		{"{unclosed", 0, -1},
		{`\x{y}`, 2, 4},
	}

	for _, tt := range tests {
		if got := matchBrace(tt.s, tt.open); got != tt.want {
			t.Errorf("matchBrace(%q, %d) = %d, want %d", tt.s, tt.open, got, tt.want)
		}
	}
}

func TestAltFromOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		opts string
		want string
	}{
		{"", ""},
		{"width=3in", ""},
		{"width=3in, alt={A graph, with a comma}", "A graph, with a comma"},
		{"alttext=Plain words", "Plain words"},
		{"Description = {Braced}", "Braced"},
	}

	for _, tt := range tests {
		if got := altFromOptions(tt.opts); got != tt.want {
			t.Errorf("altFromOptions(%q) = %q, want %q", tt.opts, got, tt.want)
		}
	}
}
