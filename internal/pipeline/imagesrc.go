package pipeline

import (
	"errors"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RewriteImageSources prefixes relative <img src> values with baseURL.
// If baseURL is empty, returns the HTML unchanged.
//
// Does NOT rewrite:
//   - equation images (their src is the platform renderer)
//   - absolute paths, URLs, data: URIs and anchors
//
// Markup other than rewritten img tags is copied byte for byte.
func RewriteImageSources(htmlContent, baseURL string) (string, error) {
	if baseURL == "" {
		return htmlContent, nil
	}
	base := strings.TrimRight(baseURL, "/") + "/"

	z := html.NewTokenizer(strings.NewReader(htmlContent))
	var b strings.Builder
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return b.String(), nil
			}
			return "", z.Err()
		case html.StartTagToken, html.SelfClosingTagToken:
			// Token lowercases the tokenizer buffer in place.
			raw := append([]byte(nil), z.Raw()...)
			tok := z.Token()
			if tok.DataAtom == atom.Img && rewriteSrc(&tok, base) {
				b.WriteString(tok.String())
				continue
			}
			b.Write(raw)
		default:
			b.Write(z.Raw())
		}
	}
}

// rewriteSrc updates the src attribute of an img token. Reports whether
// the token changed.
func rewriteSrc(tok *html.Token, base string) bool {
	for _, attr := range tok.Attr {
		if attr.Key == "class" && strings.Contains(attr.Val, "equation_image") {
			return false
		}
	}
	for i, attr := range tok.Attr {
		if attr.Key != "src" || !isRelativePath(attr.Val) {
			continue
		}
		tok.Attr[i].Val = base + strings.TrimPrefix(filepath.ToSlash(attr.Val), "./")
		return true
	}
	return false
}

// isRelativePath returns true if the path should be rewritten.
func isRelativePath(path string) bool {
	if path == "" || strings.HasPrefix(path, "#") || strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		return false
	}
	if u, err := url.Parse(path); err == nil && u.Scheme != "" {
		return false // http, https, file, data
	}
	return !filepath.IsAbs(path)
}
