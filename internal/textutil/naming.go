package textutil

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var duplicateIndex = regexp.MustCompile(`\s*\(\d+\)$`)

// CleanSegment turns a directory or file name segment into display text:
// underscores become spaces and whitespace is collapsed.
func CleanSegment(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "_", " ")), " ")
}

// TitleCase upper-cases the first letter of every word without lowering the
// rest, so "dj shadow" becomes "Dj Shadow" and "AC/DC" is left alone.
func TitleCase(s string) string {
	return cases.Title(language.Und, cases.NoLower).String(s)
}

// Fold returns a case-folded form suitable for equality checks.
func Fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// EqualFold compares two names under Unicode case folding.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}

// StripDuplicateIndex removes the catalog's disambiguation suffix from an
// artist name: "Deimos (3)" becomes "Deimos".
func StripDuplicateIndex(name string) string {
	return strings.TrimSpace(duplicateIndex.ReplaceAllString(strings.TrimSpace(name), ""))
}
