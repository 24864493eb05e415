package matcher

import (
	"sort"

	"tracksift/internal/catalog"
)

// keyEpsilon separates equal scores in the Keys view.
const keyEpsilon = 0.001

// PoolEntry is one accepted candidate.
type PoolEntry struct {
	Score    float64
	Release  catalog.Release
	Strategy string
}

// Pool holds accepted candidates in ascending score order. Equal scores
// keep insertion order.
type Pool struct {
	entries []PoolEntry
	ids     map[int64]struct{}
}

// Add inserts a candidate. A release already in the pool is ignored and
// Add reports false.
func (p *Pool) Add(score float64, rel catalog.Release, strategy string) bool {
	if p.ids == nil {
		p.ids = make(map[int64]struct{})
	}
	if _, ok := p.ids[rel.ID]; ok {
		return false
	}
	p.ids[rel.ID] = struct{}{}
	idx := sort.Search(len(p.entries), func(i int) bool { return p.entries[i].Score > score })
	p.entries = append(p.entries, PoolEntry{})
	copy(p.entries[idx+1:], p.entries[idx:])
	p.entries[idx] = PoolEntry{Score: score, Release: rel, Strategy: strategy}
	return true
}

// Len returns the number of candidates.
func (p *Pool) Len() int { return len(p.entries) }

// Empty reports whether no candidate has been accepted.
func (p *Pool) Empty() bool { return len(p.entries) == 0 }

// Entries returns a copy of the candidates in pool order.
func (p *Pool) Entries() []PoolEntry {
	return append([]PoolEntry(nil), p.entries...)
}

// Keys returns one distinct key per entry, in pool order. A score equal to
// or below the previous key is nudged to previous key plus 0.001.
func (p *Pool) Keys() []float64 {
	keys := make([]float64, len(p.entries))
	for i, e := range p.entries {
		key := e.Score
		if i > 0 && key <= keys[i-1] {
			key = keys[i-1] + keyEpsilon
		}
		keys[i] = key
	}
	return keys
}
