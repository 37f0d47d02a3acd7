package pipeline

import (
	"testing"
)

func TestRewriteImageSources(t *testing.T) {
	t.Parallel()

	const base = "https://canvas.example.edu/courses/7/files"
	equation := EquationImage(`x \in A`)

	tests := []struct {
		name    string
		html    string
		baseURL string
		want    string
	}{
		{
			name:    "empty base URL leaves HTML unchanged",
			html:    `<img src="fig.png" alt="a">`,
			baseURL: "",
			want:    `<img src="fig.png" alt="a">`,
		},
		{
			name:    "relative source prefixed",
			html:    `<p><img src="fig.png" alt="Figure 1"></p>`,
			baseURL: base,
			want:    `<p><img src="` + base + `/fig.png" alt="Figure 1"></p>`,
		},
		{
			name:    "trailing slash and dot segment",
			html:    `<img src="./plots/a.png" alt="a">`,
			baseURL: base + "/",
			want:    `<img src="` + base + `/plots/a.png" alt="a">`,
		},
		{
			name:    "equation images untouched",
			html:    "<p>" + equation + "</p>",
			baseURL: base,
			want:    "<p>" + equation + "</p>",
		},
		{
			name:    "absolute sources untouched",
			html:    `<img src="/files/a.png" alt="a"><img src="https://x.test/b.png" alt="b"><img src="data:image/png;base64,AA==" alt="c">`,
			baseURL: base,
			want:    `<img src="/files/a.png" alt="a"><img src="https://x.test/b.png" alt="b"><img src="data:image/png;base64,AA==" alt="c">`,
		},
		{
			name:    "surrounding markup copied verbatim",
			html:    "<h3>Q1</h3>\n<p>Text with \\draw (0,0) -- (1,1); & raw</p>\n<img src=\"f.png\" alt=\"f\">",
			baseURL: base,
			want:    "<h3>Q1</h3>\n<p>Text with \\draw (0,0) -- (1,1); & raw</p>\n<img src=\"" + base + "/f.png\" alt=\"f\">",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := RewriteImageSources(tt.html, tt.baseURL)
			if err != nil {
				t.Fatalf("RewriteImageSources() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("RewriteImageSources() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestIsRelativePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{"fig.png", true},
		{"dir/fig.png", true},
		{"", false},
		{"#anchor", false},
		{"/abs.png", false},
		{"//cdn.test/a.png", false},
		{"https://x.test/a.png", false},
		{"file:///tmp/a.png", false},
	}

	for _, tt := range tests {
		if got := isRelativePath(tt.path); got != tt.want {
			t.Errorf("isRelativePath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
