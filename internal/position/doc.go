// Package position parses catalog and local track position strings.
//
// Positions arrive in several encodings: plain numbers ("5"), lettered vinyl
// sides ("A1"), disc-prefixed numbers ("2-05", "CD2-05") and media labels used
// by mixed-media box sets ("CD-3", "USB-Stick-12"). Parse turns one string into
// an Info; Sequence walks a whole tracklist and assigns running disc and track
// numbers, skipping headings and non-audio entries.
package position
