// Package catalog defines the release catalog contract consumed by the
// matching engine and the read-only views it returns.
package catalog

import (
	"context"
	"errors"
	"strings"

	"tracksift/internal/position"
)

var (
	// ErrTransport wraps any failure to reach or decode the catalog.
	ErrTransport = errors.New("catalog transport failure")
	// ErrNotFound reports an identifier the catalog does not know.
	ErrNotFound = errors.New("catalog entry not found")
)

// Kind selects which entity types a search returns.
type Kind string

const (
	KindAll     Kind = "all"
	KindMaster  Kind = "master"
	KindArtist  Kind = "artist"
	KindRelease Kind = "release"
)

// HitType is the entity type of a search hit.
type HitType string

const (
	HitRelease HitType = "release"
	HitMaster  HitType = "master"
	HitArtist  HitType = "artist"
	HitLabel   HitType = "label"
)

// Hit is one search or artist-listing result.
type Hit struct {
	ID    int64
	Type  HitType
	Title string
	Year  int
	// MasterID is set on release hits that belong to a master.
	MasterID int64
}

// IsMaster reports whether the hit groups several release versions.
func (h Hit) IsMaster() bool { return h.Type == HitMaster }

// IsArtist reports whether the hit is an artist entity.
func (h Hit) IsArtist() bool { return h.Type == HitArtist }

// Format describes one physical format entry of a release.
type Format struct {
	Name string
	Qty  int
}

// Track is one catalog tracklist row.
type Track struct {
	Position string
	Duration string
	Title    string
	Type     string
}

// Entry converts the row for position parsing.
func (t Track) Entry() position.Entry {
	return position.Entry{Position: t.Position, Title: t.Title, Duration: t.Duration, Type: t.Type}
}

// Release is a read-only view over one catalog release. Version stubs
// returned by ExpandVersions carry no Tracklist until fetched.
type Release struct {
	ID             int64
	Title          string
	Year           int
	Artists        []string
	Formats        []Format
	FormatQuantity int
	Tracklist      []Track
	MasterID       int64
}

// FormatName returns the first declared format name, or "".
func (r Release) FormatName() string {
	if len(r.Formats) == 0 {
		return ""
	}
	return strings.TrimSpace(r.Formats[0].Name)
}

// IsVinyl reports whether the primary format is vinyl or LP.
func (r Release) IsVinyl() bool {
	switch strings.ToLower(r.FormatName()) {
	case "vinyl", "lp":
		return true
	}
	return false
}

// IsDisc reports whether the primary format is a compact disc.
func (r Release) IsDisc() bool {
	return strings.EqualFold(r.FormatName(), "CD")
}

// Entries converts the tracklist for position parsing.
func (r Release) Entries() []position.Entry {
	out := make([]position.Entry, 0, len(r.Tracklist))
	for _, t := range r.Tracklist {
		out = append(out, t.Entry())
	}
	return out
}

// HasTracklist reports whether the release was fetched in full.
func (r Release) HasTracklist() bool { return r.Tracklist != nil }

// Catalog is the release database the matching engine searches.
type Catalog interface {
	// Search runs a free-text query restricted to kind.
	Search(ctx context.Context, query string, kind Kind) ([]Hit, error)
	// ExpandVersions lists the releases grouped under a master hit.
	ExpandVersions(ctx context.Context, hit Hit) ([]Release, error)
	// FetchRelease loads a release including its tracklist.
	FetchRelease(ctx context.Context, id int64) (Release, error)
	// ArtistReleases lists releases and masters credited to an artist.
	ArtistReleases(ctx context.Context, artistID int64) ([]Hit, error)
}
