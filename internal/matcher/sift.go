package matcher

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"tracksift/internal/catalog"
	"tracksift/internal/logging"
	"tracksift/internal/textutil"
)

// sifter scores catalog hits for one strategy and feeds accepted releases
// into the pool.
type sifter struct {
	catalog  catalog.Catalog
	policy   Policy
	logger   *slog.Logger
	local    LocalTracklist
	pool     *Pool
	strategy string

	evaluated int
	accepted  int
}

func (s *sifter) siftHit(ctx context.Context, hit catalog.Hit) error {
	switch hit.Type {
	case catalog.HitArtist, catalog.HitLabel:
		return nil
	case catalog.HitMaster:
		versions, err := s.catalog.ExpandVersions(ctx, hit)
		if err != nil {
			return err
		}
		return s.siftReleases(ctx, versions)
	default:
		rel, err := s.catalog.FetchRelease(ctx, hit.ID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				s.logger.Debug("release vanished from catalog", logging.Int64(logging.FieldReleaseID, hit.ID))
				return nil
			}
			return err
		}
		s.score(rel)
		return nil
	}
}

// siftReleases scores every release of a group; version stubs are fetched
// first.
func (s *sifter) siftReleases(ctx context.Context, releases []catalog.Release) error {
	for _, rel := range releases {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !rel.HasTracklist() {
			full, err := s.catalog.FetchRelease(ctx, rel.ID)
			if err != nil {
				if errors.Is(err, catalog.ErrNotFound) {
					continue
				}
				return err
			}
			rel = full
		}
		s.score(rel)
	}
	return nil
}

func (s *sifter) score(rel catalog.Release) {
	s.evaluated++
	score := Compare(s.local.Tracks, rel, s.policy.Tolerance)
	if !score.Accepted {
		s.logger.Debug("candidate rejected",
			logging.Int64(logging.FieldReleaseID, rel.ID),
			logging.String("reason", string(score.Reason)),
			logging.Score(score.Value),
			logging.Int("local_tracks", len(s.local.Tracks)),
			logging.Int("release_tracks", score.Compared),
		)
		return
	}
	if s.pool.Add(score.Value, rel, s.strategy) {
		s.accepted++
		s.logger.Info("candidate accepted",
			logging.Int64(logging.FieldReleaseID, rel.ID),
			logging.String("title", rel.Title),
			logging.Score(score.Value),
		)
	}
}

// artistMatches compares a catalog artist name with the local artist,
// ignoring the " (N)" suffix the catalog uses for namesakes.
func artistMatches(catalogName, rawArtist, normalizedArtist string) bool {
	name := textutil.StripDuplicateIndex(catalogName)
	if name == "" {
		return false
	}
	if textutil.EqualFold(name, rawArtist) {
		return true
	}
	return normalizedArtist != "" && textutil.EqualFold(textutil.NormalizeQuery(name), normalizedArtist)
}

// titleMatches accepts equal titles, titles that contain one another
// (catalog titles often carry extra words such as "EP") and near misses
// above the similarity threshold.
func titleMatches(catalogTitle, localTitle string, threshold float64) bool {
	a := textutil.Fold(catalogTitle)
	b := textutil.Fold(localTitle)
	if a == "" || b == "" {
		return false
	}
	if a == b || strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	return strutil.Similarity(a, b, metrics.NewJaroWinkler()) >= threshold
}
