package matcher

import (
	"testing"

	"tracksift/internal/catalog"
)

func release(id int64, format string, qty, year int) catalog.Release {
	return catalog.Release{
		ID:             id,
		Year:           year,
		Formats:        []catalog.Format{{Name: format, Qty: qty}},
		FormatQuantity: qty,
	}
}

func poolOf(releases ...catalog.Release) *Pool {
	pool := &Pool{}
	for i, rel := range releases {
		pool.Add(float64(i)*0.5, rel, "all")
	}
	return pool
}

func TestResolvePrefersVinylMatchingYear(t *testing.T) {
	pool := &Pool{}
	pool.Add(0.5, release(2, "CD", 1, 2005), "all")
	pool.Add(1.0, release(1, "Vinyl", 1, 2001), "all")
	tl := LocalTracklist{Year: 2001, MediaHint: MediaVinyl, Tracks: []LocalTrack{{Ordinal: 1}}}

	entry, rule, ok := Resolve(pool, tl)
	if !ok || entry.Release.ID != 1 || rule != RuleVinylYear {
		t.Fatalf("expected vinyl release via rule 1, got id=%d rule=%s ok=%v", entry.Release.ID, rule, ok)
	}
}

func TestResolveRules(t *testing.T) {
	cases := []struct {
		name   string
		pool   *Pool
		tl     LocalTracklist
		wantID int64
		rule   Rule
	}{
		{
			name:   "single",
			pool:   poolOf(release(5, "File", 1, 1990)),
			wantID: 5,
			rule:   RuleSingle,
		},
		{
			name:   "vinyl by track override without year",
			pool:   poolOf(release(1, "CD", 1, 2001), release(2, "LP", 1, 1999)),
			tl:     LocalTracklist{Year: 2001, Tracks: []LocalTrack{{TrackOverride: "A1"}}},
			wantID: 2,
			rule:   RuleVinyl,
		},
		{
			name:   "disc count and year",
			pool:   poolOf(release(1, "CD", 1, 2001), release(2, "CD", 2, 2001)),
			tl:     LocalTracklist{Year: 2001, DiscHint: 2},
			wantID: 2,
			rule:   RuleDiscCountYear,
		},
		{
			name:   "year and cd",
			pool:   poolOf(release(1, "Vinyl", 1, 2001), release(2, "CD", 1, 2001)),
			tl:     LocalTracklist{Year: 2001},
			wantID: 2,
			rule:   RuleYearCD,
		},
		{
			name:   "year only",
			pool:   poolOf(release(1, "Cassette", 1, 2000), release(2, "File", 1, 2001)),
			tl:     LocalTracklist{Year: 2001},
			wantID: 2,
			rule:   RuleYear,
		},
		{
			name:   "cd when year unknown",
			pool:   poolOf(release(1, "Vinyl", 1, 2001), release(2, "cd", 1, 2005)),
			tl:     LocalTracklist{},
			wantID: 2,
			rule:   RuleCD,
		},
		{
			name:   "unknown years never match",
			pool:   poolOf(release(1, "File", 1, 0), release(2, "Cassette", 1, 0)),
			tl:     LocalTracklist{},
			wantID: 1,
			rule:   RuleFirst,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entry, rule, ok := Resolve(tc.pool, tc.tl)
			if !ok {
				t.Fatal("expected a selection")
			}
			if entry.Release.ID != tc.wantID || rule != tc.rule {
				t.Fatalf("got id=%d rule=%s, want id=%d rule=%s", entry.Release.ID, rule, tc.wantID, tc.rule)
			}
		})
	}
}

func TestResolveEmptyPool(t *testing.T) {
	if _, _, ok := Resolve(&Pool{}, LocalTracklist{}); ok {
		t.Fatal("empty pool must not select anything")
	}
	if _, _, ok := Resolve(nil, LocalTracklist{}); ok {
		t.Fatal("nil pool must not select anything")
	}
}

func TestResolveAlwaysSelectsFromPool(t *testing.T) {
	formats := []string{"CD", "Vinyl", "File", "Cassette"}
	years := []int{0, 1999, 2001}
	for _, f1 := range formats {
		for _, f2 := range formats {
			for _, y := range years {
				pool := poolOf(release(1, f1, 1, y), release(2, f2, 2, 2001))
				entry, _, ok := Resolve(pool, LocalTracklist{Year: y, DiscHint: 2})
				if !ok || (entry.Release.ID != 1 && entry.Release.ID != 2) {
					t.Fatalf("no valid selection for %s/%s/%d", f1, f2, y)
				}
			}
		}
	}
}
