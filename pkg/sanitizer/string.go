package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims s and collapses every run of whitespace, including
// newlines and tabs, into a single space.
func TrimAndNormalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeName is applied to single-line person names.
func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizeEmail only trims; case is preserved.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

// NormalizeMultiline keeps line structure for free-text areas such as a
// project description or a contact message.
func NormalizeMultiline(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n \t")
}
