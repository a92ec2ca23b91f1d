package internal

import (
	"strings"
	"time"
	"unicode"
)

// DateLayout is the calendar date format used for history keys (YYYY-MM-DD)
const DateLayout = "2006-01-02"

// NormalizeTerm returns the case-insensitive key of a dictionary term
func NormalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// DateKey formats t as a calendar date in the given location.
// A nil location means t's own location.
func DateKey(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(DateLayout)
}

// SanitizeFilename creates a safe filename from a string
func SanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isAlphaNumeric(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// isAlphaNumeric checks if a rune is a letter or digit in any script
func isAlphaNumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
