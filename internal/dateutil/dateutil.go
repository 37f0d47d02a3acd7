// Package dateutil renders the \today macro with user-friendly date formats.
package dateutil

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length.
const MaxDateFormatLength = 50

// DefaultDateFormat renders \today the way LaTeX's article class does.
const DefaultDateFormat = "MMMM D, YYYY"

const todayMacro = `\today`

// Presets are named shortcuts, matched case-insensitively.
var Presets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     DefaultDateFormat,
}

// tokenPattern matches a bracketed literal (possibly unclosed) or a token,
// longest token first.
var tokenPattern = regexp.MustCompile(`\[[^\]]*\]?|YYYY|MMMM|MMM|YY|MM|DD|M|D`)

var renderers = map[string]func(time.Time) string{
	"YYYY": func(t time.Time) string { return fmt.Sprintf("%04d", t.Year()) },
	"YY":   func(t time.Time) string { return fmt.Sprintf("%02d", t.Year()%100) },
	"MMMM": func(t time.Time) string { return t.Month().String() },
	"MMM":  func(t time.Time) string { return t.Month().String()[:3] },
	"MM":   func(t time.Time) string { return fmt.Sprintf("%02d", int(t.Month())) },
	"M":    func(t time.Time) string { return strconv.Itoa(int(t.Month())) },
	"DD":   func(t time.Time) string { return fmt.Sprintf("%02d", t.Day()) },
	"D":    func(t time.Time) string { return strconv.Itoa(t.Day()) },
}

// Layout is a compiled date format. Text outside tokens is copied as is;
// [brackets] protect text that would otherwise be read as tokens.
type Layout struct {
	parts []func(time.Time) string
}

// Compile parses a preset name or a token format:
// YYYY, YY, MMMM, MMM, MM, M, DD, D.
func Compile(format string) (Layout, error) {
	if format == "" {
		return Layout{}, fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return Layout{}, fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}
	if preset, ok := Presets[strings.ToLower(format)]; ok {
		format = preset
	}

	var l Layout
	last := 0
	for _, m := range tokenPattern.FindAllStringIndex(format, -1) {
		l.literal(format[last:m[0]])
		tok := format[m[0]:m[1]]
		last = m[1]

		if tok[0] != '[' {
			l.parts = append(l.parts, renderers[tok])
			continue
		}
		if !strings.HasSuffix(tok, "]") {
			return Layout{}, fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, m[0])
		}
		l.literal(tok[1 : len(tok)-1])
	}
	l.literal(format[last:])
	return l, nil
}

func (l *Layout) literal(s string) {
	if s != "" {
		l.parts = append(l.parts, func(time.Time) string { return s })
	}
}

// Format renders t.
func (l Layout) Format(t time.Time) string {
	var b strings.Builder
	for _, p := range l.parts {
		b.WriteString(p(t))
	}
	return b.String()
}

// ExpandToday replaces every \today in a \date{} value with t rendered in
// format. An empty format uses DefaultDateFormat.
func ExpandToday(value, format string, t time.Time) (string, error) {
	if !strings.Contains(value, todayMacro) {
		return value, nil
	}
	if format == "" {
		format = DefaultDateFormat
	}

	layout, err := Compile(format)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(value, todayMacro, layout.Format(t)), nil
}
