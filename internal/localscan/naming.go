package localscan

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"tracksift/internal/matcher"
	"tracksift/internal/textutil"
)

var (
	vinylPattern  = regexp.MustCompile(`(?i)vinyl`)
	yearPattern   = regexp.MustCompile(`\d{4}`)
	dashSplit     = regexp.MustCompile(`\s*-\s*`)
	emptyBrackets = regexp.MustCompile(`\(\s*\)|\[\s*\]`)
)

// applyNaming fills artist, album, year and track details from the
// directory layout and file names. Layouts understood:
//
//	<root>/Artist/Album
//	<root>/Artist/albums/Album
//	<root>/Artist/Something/Album
//	<root>/Artist - Album
//
// and file names "NN Title" or "NN Artist - Title".
func (b *Builder) applyNaming(tl *matcher.LocalTracklist, files []string) {
	if vinylPattern.MatchString(tl.SourceDir) {
		tl.MediaHint = matcher.MediaVinyl
	}

	rel := releasePath(b.libraryRoot, tl.SourceDir)
	if y := yearPattern.FindString(rel); y != "" {
		if n, err := strconv.Atoi(y); err == nil && tl.Year == 0 {
			tl.Year = n
		}
		rel = strings.ReplaceAll(rel, y, "")
	}

	segments := pathSegments(rel)
	if len(segments) > 2 {
		segments = []string{segments[0], segments[len(segments)-1]}
	}
	switch len(segments) {
	case 2:
		tl.Artist = segments[0]
		tl.Album = trimSeparators(removeFold(segments[1], segments[0]))
		if tl.Album == "" {
			tl.Album = segments[1]
		}
	case 1:
		parts := dashSplit.Split(segments[0], -1)
		if len(parts) == 2 && strings.TrimSpace(parts[0]) != "" && strings.TrimSpace(parts[1]) != "" {
			tl.Artist = strings.TrimSpace(parts[0])
			tl.Album = strings.TrimSpace(parts[1])
		} else {
			tl.Album = segments[0]
		}
	}

	for i := range tl.Tracks {
		if i >= len(files) {
			break
		}
		number, artist, title := parseFileName(files[i])
		track := &tl.Tracks[i]
		if startsWithLetter(number) && track.TrackOverride == "" {
			track.TrackOverride = number
		}
		if track.Title == "" {
			track.Title = title
		}
		if artist != "" {
			if track.Artist == "" {
				track.Artist = artist
			}
			tl.Artists = appendUnique(tl.Artists, artist)
		} else if track.Artist == "" {
			track.Artist = tl.Artist
		}
	}

	if tl.Artist == "" && len(tl.Artists) > 0 {
		tl.Artist = strings.Join(tl.Artists, ", ")
		tl.AlbumArtist = tl.Artists[0]
	}
}

// releasePath returns dir relative to root, or the last path component when
// dir is not below root.
func releasePath(root, dir string) string {
	if root != "" {
		if rel, err := filepath.Rel(root, dir); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.Base(dir)
}

func pathSegments(rel string) []string {
	var out []string
	for _, seg := range strings.Split(rel, "/") {
		seg = textutil.CleanSegment(emptyBrackets.ReplaceAllString(seg, ""))
		seg = trimSeparators(seg)
		if seg == "" {
			continue
		}
		switch strings.ToLower(seg) {
		case "albums", "singles":
			continue
		}
		out = append(out, seg)
	}
	return out
}

// parseFileName splits "NN Artist - Title.ext" into its parts. number is
// empty when the name does not start with a track number.
func parseFileName(path string) (number, artist, title string) {
	base := filepath.Base(path)
	name := textutil.CleanSegment(strings.TrimSuffix(base, filepath.Ext(base)))
	rest := name
	if head, tail, ok := strings.Cut(name, " "); ok && strings.ContainsAny(head, "0123456789") {
		number, rest = head, tail
	}
	if a, t, ok := strings.Cut(rest, " - "); ok {
		return number, strings.TrimSpace(a), strings.TrimSpace(t)
	}
	return number, "", strings.TrimSpace(rest)
}

func removeFold(s, sub string) string {
	if sub == "" {
		return s
	}
	re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(sub))
	if err != nil {
		return s
	}
	return re.ReplaceAllString(s, "")
}

func trimSeparators(s string) string {
	return strings.Trim(s, " -_.")
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}
