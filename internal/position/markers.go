package position

import "strings"

// Entry is a tracklist row as seen by the parser.
type Entry struct {
	Position string
	Title    string
	Duration string
	// Type is the catalog row type ("track", "heading", "index").
	Type string
}

// TypeHeading marks catalog rows that only carry a section title.
const TypeHeading = "heading"

var (
	// mappingExclusions drop bonus video discs when numbering a release.
	mappingExclusions = []string{"Video", "video", "DVD", "BD", "Blu-Ray"}
	// comparisonExclusions drop the same when comparing durations; the
	// comparison list is narrower.
	comparisonExclusions = []string{"Video", "video", "DVD"}
)

// IsHeading reports whether the entry is a disc or section subtitle rather
// than a track.
func IsHeading(e Entry) bool {
	if strings.EqualFold(strings.TrimSpace(e.Type), TypeHeading) {
		return true
	}
	return strings.TrimSpace(e.Title) != "" &&
		strings.TrimSpace(e.Position) == "" &&
		strings.TrimSpace(e.Duration) == ""
}

// IsNonAudio reports whether the position marks a video or disc-image bonus
// entry that is never numbered.
func IsNonAudio(pos string) bool {
	return hasMarker(pos, mappingExclusions)
}

// IsNonAudioForComparison applies the narrower marker set used when
// extracting comparable tracks.
func IsNonAudioForComparison(pos string) bool {
	return hasMarker(pos, comparisonExclusions)
}

func hasMarker(pos string, markers []string) bool {
	for _, m := range markers {
		if strings.HasPrefix(pos, m) || strings.HasSuffix(pos, m) {
			return true
		}
	}
	return false
}
