package position

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Track is one numbered entry produced by Sequence.
type Track struct {
	// Index is the entry's offset in the input slice.
	Index int
	Title string
	Disc  int
	// Number restarts at 1 on each disc.
	Number int
	// RealNumber is the catalog's own track label, or Number when absent.
	RealNumber string
	MediaType  string
	Subtitle   string
}

// Disc groups the tracks sharing a disc number.
type Disc struct {
	Number    int
	MediaType string
	Subtitle  string
	Tracks    []Track
}

// Sequence assigns disc and running track numbers to a release tracklist.
//
// Non-audio entries are skipped, headings become the subtitle of the disc
// being built. Numeric disc components are used as-is. A media label that
// differs from the current disc's media type opens a new disc, except for the
// very first group, which keeps the running counter. An unparsable position
// aborts the whole sequence.
func Sequence(entries []Entry) ([]Disc, error) {
	var (
		discs     []Disc
		subtitles []string
		discCount = 1
		running   int
		current   = Disc{Number: 1}
	)

	for idx, entry := range entries {
		if IsNonAudio(entry.Position) {
			continue
		}
		if IsHeading(entry) {
			subtitles = append(subtitles, strings.TrimSpace(entry.Title))
			continue
		}
		running++

		info, err := Parse(entry.Position)
		if err != nil {
			var perr *Error
			if errors.As(err, &perr) {
				perr.Context = fmt.Sprintf("entry %d %q", idx+1, strings.TrimSpace(entry.Title))
			}
			return nil, err
		}

		discNumber := discCount
		mediaType := current.MediaType
		if n, ok := info.DiscNumber(); ok {
			discNumber = n
		} else if current.MediaType != info.Disc {
			mediaType = info.Disc
			if len(discs) == 0 && len(current.Tracks) == 0 {
				current.MediaType = info.Disc
			} else {
				discNumber = discCount + 1
			}
		}

		if discNumber != current.Number {
			if len(current.Tracks) > 0 {
				discs = append(discs, current)
			}
			current = Disc{Number: discNumber, MediaType: mediaType}
			running = 1
			discCount++
		}

		track := Track{
			Index:      idx,
			Title:      strings.TrimSpace(entry.Title),
			Disc:       discNumber,
			Number:     running,
			RealNumber: info.Track,
			MediaType:  current.MediaType,
		}
		if track.RealNumber == "" {
			track.RealNumber = strconv.Itoa(running)
		}
		if len(subtitles) > 0 {
			track.Subtitle = subtitles[len(subtitles)-1]
			current.Subtitle = track.Subtitle
		}
		current.Tracks = append(current.Tracks, track)
	}
	if len(current.Tracks) > 0 {
		discs = append(discs, current)
	}
	return discs, nil
}

// TrackCount returns the number of tracks across all discs.
func TrackCount(discs []Disc) int {
	total := 0
	for _, d := range discs {
		total += len(d.Tracks)
	}
	return total
}
