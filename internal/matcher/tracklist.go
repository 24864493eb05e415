package matcher

import "strings"

// MediaVinyl is the MediaHint value for albums ripped from vinyl.
const MediaVinyl = "vinyl"

// LocalTrack is one audio file of the album being matched.
type LocalTrack struct {
	// Ordinal is the 1-based position of the file in scan order.
	Ordinal  int
	Position string
	Title    string
	Artist   string
	// Duration in seconds.
	Duration float64
	// TrackOverride holds a non-numeric track number such as "A1".
	TrackOverride string
}

// LocalTracklist describes the local album used to search the catalog.
type LocalTracklist struct {
	SourceDir   string
	Artist      string
	Artists     []string
	AlbumArtist string
	Album       string
	// Year is 0 when unknown.
	Year int
	// DiscHint is 0 when unknown.
	DiscHint  int
	MediaHint string
	Tracks    []LocalTrack
}

// HasTrackOverride reports whether the first track carries an explicit
// non-numeric track number, which usually means a vinyl rip.
func (t LocalTracklist) HasTrackOverride() bool {
	return len(t.Tracks) > 0 && strings.TrimSpace(t.Tracks[0].TrackOverride) != ""
}

// IsVinyl reports whether the local album looks like a vinyl rip.
func (t LocalTracklist) IsVinyl() bool {
	return t.MediaHint == MediaVinyl || t.HasTrackOverride()
}

// IsVariousArtists reports whether name is a compilation marker.
func IsVariousArtists(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "various", "various artists", "va":
		return true
	}
	return false
}
