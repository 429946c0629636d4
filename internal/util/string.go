package util

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TruncateString truncates a string to maxRunes characters (rune-based, not byte-based)
// If truncated, appends "..." to the result
func TruncateString(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxRunes]) + "..."
}

// Normalize performs basic string normalization (lowercase + trim)
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ContainsFold reports whether substr is within s, ignoring case.
// An empty (or blank) substr matches everything.
func ContainsFold(s, substr string) bool {
	needle := Normalize(substr)
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), needle)
}

// Initials returns the upper-cased first letters of the first two words of name.
func Initials(name string) string {
	var builder strings.Builder
	count := 0
	for _, word := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(word)
		if r == utf8.RuneError {
			continue
		}
		builder.WriteRune(unicode.ToUpper(r))
		count++
		if count == 2 {
			break
		}
	}
	return builder.String()
}

// QuoteField wraps s in double quotes, doubling any quotes inside it.
func QuoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
