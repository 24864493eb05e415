package position

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnparsable reports a hyphenated position that matches no known encoding.
var ErrUnparsable = errors.New("unparsable position")

// Error carries the offending position and where it was found.
type Error struct {
	Raw     string
	Context string
}

func (e *Error) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("unparsable position %q", e.Raw)
	}
	return fmt.Sprintf("unparsable position %q (%s)", e.Raw, e.Context)
}

func (e *Error) Unwrap() error { return ErrUnparsable }

// Info is the structured form of a position string.
type Info struct {
	// Disc is numeric text ("1", "02") or a media label ("CD", "USB-Stick").
	Disc string
	// Track is the number within the disc; may be non-numeric ("A1").
	Track   string
	Heading bool
}

// DiscNumber returns the disc as an integer when it is numeric.
func (i Info) DiscNumber() (int, bool) {
	if i.Disc == "" || !isDigits(i.Disc) {
		return 0, false
	}
	n, err := strconv.Atoi(i.Disc)
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsMediaLabel reports whether the disc component names a media type rather
// than a number.
func (i Info) IsMediaLabel() bool {
	_, ok := i.DiscNumber()
	return !ok && i.Disc != ""
}

// Ordered; the first match wins.
var schemes = []*regexp.Regexp{
	regexp.MustCompile(`^CD(\d+)-(\d+)$`),
	regexp.MustCompile(`^(\d+)-(\d+)$`),
	regexp.MustCompile(`^(CD)-(\d+)$`),
	regexp.MustCompile(`^(USB-Stick)-(\d+)$`),
}

// Parse converts a raw position into an Info. Strings without a hyphen are a
// plain track on disc 1. Hyphenated strings must match one of the registered
// disc/track schemes, otherwise a *Error wrapping ErrUnparsable is returned.
func Parse(raw string) (Info, error) {
	trimmed := strings.TrimSpace(raw)
	if !strings.Contains(trimmed, "-") {
		return Info{Disc: "1", Track: trimmed}, nil
	}
	for _, scheme := range schemes {
		if m := scheme.FindStringSubmatch(trimmed); m != nil {
			return Info{Disc: m[1], Track: m[2]}, nil
		}
	}
	return Info{}, &Error{Raw: raw}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
