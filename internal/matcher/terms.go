package matcher

import (
	"strings"

	"tracksift/internal/textutil"
)

// SearchTerms are the normalized query strings used by the cascade.
type SearchTerms struct {
	Artist  string
	Release string
	// Combined is the artist+release query; for compilations it pairs the
	// first track title with the release instead.
	Combined string
}

// BuildSearchTerms derives the catalog queries for a local album.
func BuildSearchTerms(tl LocalTracklist) SearchTerms {
	artist := searchArtist(tl)
	terms := SearchTerms{
		Artist:  textutil.NormalizeQuery(artist),
		Release: textutil.NormalizeQuery(tl.Album),
	}
	if terms.Artist == "" || IsVariousArtists(terms.Artist) {
		first := ""
		if len(tl.Tracks) > 0 {
			first = tl.Tracks[0].Title
		}
		terms.Combined = textutil.NormalizeQuery(strings.TrimSpace(first + " " + terms.Release))
		return terms
	}
	terms.Combined = textutil.NormalizeQuery(terms.Artist + " " + terms.Release)
	return terms
}

func searchArtist(tl LocalTracklist) string {
	albumArtist := strings.TrimSpace(tl.AlbumArtist)
	switch {
	case IsVariousArtists(albumArtist):
		if len(tl.Artists) > 0 {
			return tl.Artists[0]
		}
		if len(tl.Tracks) > 0 && tl.Tracks[0].Artist != "" {
			return tl.Tracks[0].Artist
		}
		return tl.Artist
	case albumArtist != "":
		return albumArtist
	default:
		return tl.Artist
	}
}
