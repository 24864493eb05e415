package matcher

import "tracksift/internal/catalog"

// Rule identifies the tie-break predicate that chose a release.
type Rule int

const (
	// RuleSingle means the pool held exactly one candidate.
	RuleSingle Rule = iota
	RuleVinylYear
	RuleVinyl
	RuleDiscCountYear
	RuleYearCD
	RuleYear
	RuleCD
	RuleFirst
)

var ruleNames = map[Rule]string{
	RuleSingle:        "single",
	RuleVinylYear:     "vinyl_year",
	RuleVinyl:         "vinyl",
	RuleDiscCountYear: "disc_count_year",
	RuleYearCD:        "year_cd",
	RuleYear:          "year",
	RuleCD:            "cd",
	RuleFirst:         "first",
}

func (r Rule) String() string {
	if name, ok := ruleNames[r]; ok {
		return name
	}
	return "unknown"
}

type tieBreaker struct {
	rule  Rule
	match func(rel catalog.Release, tl LocalTracklist) bool
}

var tieBreakers = []tieBreaker{
	{RuleVinylYear, func(rel catalog.Release, tl LocalTracklist) bool {
		return rel.IsVinyl() && tl.IsVinyl() && yearMatches(rel, tl)
	}},
	{RuleVinyl, func(rel catalog.Release, tl LocalTracklist) bool {
		return rel.IsVinyl() && tl.IsVinyl()
	}},
	{RuleDiscCountYear, func(rel catalog.Release, tl LocalTracklist) bool {
		return tl.DiscHint > 0 && rel.FormatQuantity == tl.DiscHint && yearMatches(rel, tl)
	}},
	{RuleYearCD, func(rel catalog.Release, tl LocalTracklist) bool {
		return yearMatches(rel, tl) && rel.IsDisc()
	}},
	{RuleYear, yearMatches},
	{RuleCD, func(rel catalog.Release, _ LocalTracklist) bool {
		return rel.IsDisc()
	}},
}

func yearMatches(rel catalog.Release, tl LocalTracklist) bool {
	return tl.Year != 0 && rel.Year == tl.Year
}

// Resolve picks one release from the pool. Each rule is tried against every
// entry in pool order before the next rule; the first entry wins when no
// rule applies. ok is false for an empty pool.
func Resolve(pool *Pool, tl LocalTracklist) (PoolEntry, Rule, bool) {
	if pool == nil || pool.Empty() {
		return PoolEntry{}, RuleFirst, false
	}
	entries := pool.Entries()
	if len(entries) == 1 {
		return entries[0], RuleSingle, true
	}
	for _, tb := range tieBreakers {
		for _, e := range entries {
			if tb.match(e.Release, tl) {
				return e, tb.rule, true
			}
		}
	}
	return entries[0], RuleFirst, true
}
