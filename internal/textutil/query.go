package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// stopWords are dropped from search terms regardless of case.
var stopWords = map[string]struct{}{
	"lp": {}, "ep": {}, "bonus": {}, "tracks": {}, "mcd": {}, "cd": {},
	"cdm": {}, "cds": {}, "none": {}, "vs.": {}, "vs": {}, "inch": {},
	"various": {}, "artists": {}, "boxset": {}, "limited": {}, "edition": {},
	"the": {}, "remaster": {}, "remastered": {}, "deluxe": {},
}

// spaceReplacer turns separator punctuation into spaces; dropReplacer
// removes bracketing and list punctuation outright.
var (
	spaceReplacer = strings.NewReplacer(",", " ", `"`, " ", "-", " ", "_", " ", `\`, " ")
	dropReplacer  = strings.NewReplacer("[", "", "]", "", "(", "", ")", "", "|", "", ":", "", ";", "")
)

// NormalizeQuery cleans a free-text search term for the catalog's fuzzy
// search. Token order is preserved and the first occurrence of a repeated
// token wins. Single digits standing alone between other tokens are dropped.
func NormalizeQuery(s string) string {
	s = norm.NFC.String(s)
	s = spaceReplacer.Replace(s)
	s = dropReplacer.Replace(s)

	fields := strings.Fields(s)
	out := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for i, tok := range fields {
		if i > 0 && i < len(fields)-1 && isLoneDigit(tok) {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		if IsStopWord(tok) {
			continue
		}
		out = append(out, tok)
	}
	return strings.Join(out, " ")
}

// IsStopWord reports whether tok is removed by NormalizeQuery.
func IsStopWord(tok string) bool {
	_, ok := stopWords[strings.ToLower(tok)]
	return ok
}

func isLoneDigit(tok string) bool {
	return len(tok) == 1 && tok[0] >= '0' && tok[0] <= '9'
}
