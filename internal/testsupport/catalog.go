package testsupport

import (
	"context"
	"fmt"
	"sync"

	"tracksift/internal/catalog"
)

// FakeCatalog is an in-memory catalog.Catalog. Search results are keyed by
// kind and exact query; a query of "*" matches any query of that kind.
type FakeCatalog struct {
	mu          sync.Mutex
	searches    map[string][]catalog.Hit
	searchErr   map[catalog.Kind]error
	fetchErr    map[int64]error
	releases    map[int64]catalog.Release
	versions    map[int64][]catalog.Release
	artistHits  map[int64][]catalog.Hit
	calls       []string
	fetchCounts map[int64]int
}

// NewFakeCatalog returns an empty fake.
func NewFakeCatalog() *FakeCatalog {
	return &FakeCatalog{
		searches:    make(map[string][]catalog.Hit),
		searchErr:   make(map[catalog.Kind]error),
		fetchErr:    make(map[int64]error),
		releases:    make(map[int64]catalog.Release),
		versions:    make(map[int64][]catalog.Release),
		artistHits:  make(map[int64][]catalog.Hit),
		fetchCounts: make(map[int64]int),
	}
}

func searchKey(kind catalog.Kind, query string) string {
	return string(kind) + "|" + query
}

// AddSearch registers the hits returned for query under kind.
func (f *FakeCatalog) AddSearch(kind catalog.Kind, query string, hits ...catalog.Hit) *FakeCatalog {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := searchKey(kind, query)
	f.searches[key] = append(f.searches[key], hits...)
	return f
}

// FailSearch makes every search of kind return err.
func (f *FakeCatalog) FailSearch(kind catalog.Kind, err error) *FakeCatalog {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchErr[kind] = err
	return f
}

// FailFetch makes FetchRelease(id) return err.
func (f *FakeCatalog) FailFetch(id int64, err error) *FakeCatalog {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchErr[id] = err
	return f
}

// AddRelease registers full releases for FetchRelease.
func (f *FakeCatalog) AddRelease(releases ...catalog.Release) *FakeCatalog {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rel := range releases {
		f.releases[rel.ID] = rel
	}
	return f
}

// AddVersions registers the versions of a master. Versions are returned as
// stubs without tracklists; the full releases are registered for fetching.
func (f *FakeCatalog) AddVersions(masterID int64, releases ...catalog.Release) *FakeCatalog {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rel := range releases {
		f.releases[rel.ID] = rel
		stub := rel
		stub.Tracklist = nil
		f.versions[masterID] = append(f.versions[masterID], stub)
	}
	return f
}

// AddArtistReleases registers the release listing of an artist.
func (f *FakeCatalog) AddArtistReleases(artistID int64, hits ...catalog.Hit) *FakeCatalog {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.artistHits[artistID] = append(f.artistHits[artistID], hits...)
	return f
}

// Calls returns the recorded call log, e.g. "search all|q" or "fetch 12".
func (f *FakeCatalog) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// FetchCount returns how often FetchRelease(id) was called.
func (f *FakeCatalog) FetchCount(id int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCounts[id]
}

func (f *FakeCatalog) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

// Search implements catalog.Catalog.
func (f *FakeCatalog) Search(ctx context.Context, query string, kind catalog.Kind) ([]catalog.Hit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("search %s|%s", kind, query)
	if err := f.searchErr[kind]; err != nil {
		return nil, err
	}
	if hits, ok := f.searches[searchKey(kind, query)]; ok {
		return append([]catalog.Hit(nil), hits...), nil
	}
	return append([]catalog.Hit(nil), f.searches[searchKey(kind, "*")]...), nil
}

// ExpandVersions implements catalog.Catalog.
func (f *FakeCatalog) ExpandVersions(ctx context.Context, hit catalog.Hit) ([]catalog.Release, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("versions %d", hit.ID)
	if !hit.IsMaster() {
		return nil, nil
	}
	return append([]catalog.Release(nil), f.versions[hit.ID]...), nil
}

// FetchRelease implements catalog.Catalog.
func (f *FakeCatalog) FetchRelease(ctx context.Context, id int64) (catalog.Release, error) {
	if err := ctx.Err(); err != nil {
		return catalog.Release{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("fetch %d", id)
	f.fetchCounts[id]++
	if err := f.fetchErr[id]; err != nil {
		return catalog.Release{}, err
	}
	rel, ok := f.releases[id]
	if !ok {
		return catalog.Release{}, fmt.Errorf("%w: release %d", catalog.ErrNotFound, id)
	}
	if rel.Tracklist == nil {
		rel.Tracklist = []catalog.Track{}
	}
	return rel, nil
}

// ArtistReleases implements catalog.Catalog.
func (f *FakeCatalog) ArtistReleases(ctx context.Context, artistID int64) ([]catalog.Hit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("artist %d", artistID)
	return append([]catalog.Hit(nil), f.artistHits[artistID]...), nil
}

// Tracks builds a catalog tracklist from durations, numbering positions
// from 1.
func Tracks(durations ...string) []catalog.Track {
	out := make([]catalog.Track, 0, len(durations))
	for i, d := range durations {
		out = append(out, catalog.Track{
			Position: fmt.Sprintf("%d", i+1),
			Duration: d,
			Title:    fmt.Sprintf("Track %d", i+1),
			Type:     "track",
		})
	}
	return out
}
