package matcher

import "testing"

func TestBuildSearchTerms(t *testing.T) {
	cases := []struct {
		name string
		tl   LocalTracklist
		want SearchTerms
	}{
		{
			name: "album artist",
			tl:   LocalTracklist{AlbumArtist: "The Beatles", Artist: "Beatles, Billy Preston", Album: "Abbey Road (Remastered)"},
			want: SearchTerms{Artist: "Beatles", Release: "Abbey Road", Combined: "Beatles Abbey Road"},
		},
		{
			name: "track artist fallback",
			tl:   LocalTracklist{Artist: "Boards of Canada", Album: "Geogaddi"},
			want: SearchTerms{Artist: "Boards of Canada", Release: "Geogaddi", Combined: "Boards of Canada Geogaddi"},
		},
		{
			name: "compilation uses first artist",
			tl:   LocalTracklist{AlbumArtist: "Various Artists", Artists: []string{"DJ Shadow", "Moby"}, Album: "Sampler"},
			want: SearchTerms{Artist: "DJ Shadow", Release: "Sampler", Combined: "DJ Shadow Sampler"},
		},
		{
			name: "compilation marker falls back to first title",
			tl: LocalTracklist{
				AlbumArtist: "VA",
				Artist:      "Various",
				Album:       "Sampler",
				Tracks:      []LocalTrack{{Ordinal: 1, Title: "Intro"}},
			},
			want: SearchTerms{Artist: "", Release: "Sampler", Combined: "Intro Sampler"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := BuildSearchTerms(tc.tl); got != tc.want {
				t.Fatalf("BuildSearchTerms = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestTitleAndArtistMatching(t *testing.T) {
	if !titleMatches("Abbey Road (Remastered)", "abbey road", 0.9) {
		t.Fatal("containment should match")
	}
	if !titleMatches("Abbey Rd", "Abbey Road", 0.9) {
		t.Fatal("near miss should pass the similarity threshold")
	}
	if titleMatches("Completely Different", "Abbey Road", 0.9) {
		t.Fatal("unrelated titles must not match")
	}
	if titleMatches("", "Abbey Road", 0.9) {
		t.Fatal("empty title must not match")
	}
	if !artistMatches("Deimos (3)", "deimos", "deimos") {
		t.Fatal("duplicate index suffix should be ignored")
	}
	if !artistMatches("The Beatles", "Beatles", "Beatles") {
		t.Fatal("normalized names should match")
	}
	if artistMatches("Moby", "Deimos", "Deimos") {
		t.Fatal("different artists must not match")
	}
}
