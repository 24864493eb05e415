package matcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tracksift/internal/catalog"
	"tracksift/internal/config"
	"tracksift/internal/logging"
)

var (
	// ErrNoCandidate reports that no strategy produced an accepted release.
	ErrNoCandidate = errors.New("no matching release")
	// ErrEmptyTracklist rejects a local album without tracks.
	ErrEmptyTracklist = errors.New("local tracklist has no tracks")
)

// Outcome classifies how a strategy ended.
type Outcome string

const (
	OutcomeCandidates     Outcome = "candidates"
	OutcomeEmpty          Outcome = "empty"
	OutcomeTransportError Outcome = "transport_error"
)

// StrategyResult reports one cascade step.
type StrategyResult struct {
	Strategy  string
	Outcome   Outcome
	Query     string
	Hits      int
	Evaluated int
	Accepted  int
	Elapsed   time.Duration
	Err       error
}

// Match is the release chosen for a local album.
type Match struct {
	Release  catalog.Release
	Score    float64
	Strategy string
	Rule     Rule
	// Candidates is the pool size the tie-break chose from.
	Candidates int
	Results    []StrategyResult
}

// Engine runs the search cascade against a catalog.
type Engine struct {
	catalog catalog.Catalog
	policy  Policy
	logger  *slog.Logger
}

// NewEngine builds an engine. The policy is normalized so zero values fall
// back to defaults.
func NewEngine(cat catalog.Catalog, policy Policy, logger *slog.Logger) *Engine {
	return &Engine{
		catalog: cat,
		policy:  policy.normalized(),
		logger:  logging.NewComponentLogger(logger, "matcher"),
	}
}

// Policy returns the effective policy.
func (e *Engine) Policy() Policy { return e.policy }

// FindBestMatch runs the configured strategies in order until one yields an
// accepted candidate, then resolves ties. It returns ErrNoCandidate when the
// cascade is exhausted.
func (e *Engine) FindBestMatch(ctx context.Context, tl LocalTracklist) (Match, error) {
	if e == nil || e.catalog == nil {
		return Match{}, errors.New("matcher: engine has no catalog")
	}
	if len(tl.Tracks) == 0 {
		return Match{}, ErrEmptyTracklist
	}
	logger := logging.WithContext(ctx, e.logger)
	terms := BuildSearchTerms(tl)
	logger.Info("searching catalog",
		logging.String("artist_term", terms.Artist),
		logging.String("release_term", terms.Release),
		logging.String("combined_query", terms.Combined),
		logging.Int("local_tracks", len(tl.Tracks)),
	)

	pool := &Pool{}
	results := make([]StrategyResult, 0, len(e.policy.Strategies))
	for _, name := range e.policy.Strategies {
		if err := ctx.Err(); err != nil {
			return Match{Results: results}, err
		}
		result := e.runStrategy(ctx, logger, name, terms, tl, pool)
		results = append(results, result)
		// Only the caller's context aborts the cascade. A request timeout
		// inside the client is an ordinary transport failure.
		if err := ctx.Err(); err != nil {
			return Match{Results: results}, err
		}
		if result.Outcome == OutcomeTransportError {
			logging.WarnWithContext(logger, "search strategy failed", "strategy_failed",
				logging.String(logging.FieldStrategy, name),
				logging.String("query", result.Query),
				logging.Error(result.Err),
				logging.String(logging.FieldErrorHint, "check network access and the catalog token"),
				logging.String(logging.FieldImpact, "continuing with the next strategy"),
			)
		}
		logStrategyResult(logger, result)
		if !pool.Empty() {
			break
		}
	}

	entry, rule, ok := Resolve(pool, tl)
	if !ok {
		logger.Info("no candidate release", logging.Args(logging.DecisionAttrs("release_match", "none", "cascade_exhausted")...)...)
		return Match{Results: results}, ErrNoCandidate
	}
	match := Match{
		Release:    entry.Release,
		Score:      entry.Score,
		Strategy:   entry.Strategy,
		Rule:       rule,
		Candidates: pool.Len(),
		Results:    results,
	}
	attrs := logging.DecisionAttrs("release_match", "selected", rule.String())
	attrs = append(attrs,
		logging.Int64(logging.FieldReleaseID, match.Release.ID),
		logging.String("title", match.Release.Title),
		logging.Score(match.Score),
		logging.String(logging.FieldStrategy, match.Strategy),
		logging.Int("candidates", match.Candidates),
	)
	logger.Info("release selected", logging.Args(attrs...)...)
	return match, nil
}

func (e *Engine) runStrategy(ctx context.Context, logger *slog.Logger, name string, terms SearchTerms, tl LocalTracklist, pool *Pool) StrategyResult {
	start := time.Now()
	s := &sifter{
		catalog:  e.catalog,
		policy:   e.policy,
		logger:   logger.With(logging.String(logging.FieldStrategy, name)),
		local:    tl,
		pool:     pool,
		strategy: name,
	}
	result := StrategyResult{Strategy: name}
	var (
		hits int
		err  error
	)
	switch name {
	case config.StrategyAll:
		result.Query = terms.Combined
		hits, err = e.searchCombined(ctx, s, terms.Combined, catalog.KindAll)
	case config.StrategyMaster:
		result.Query = terms.Combined
		hits, err = e.searchCombined(ctx, s, terms.Combined, catalog.KindMaster)
	case config.StrategyArtist:
		result.Query = terms.Artist
		hits, err = e.searchArtist(ctx, s, terms, tl)
	case config.StrategyTitle:
		result.Query = terms.Release
		hits, err = e.searchTitle(ctx, s, terms.Release)
	default:
		err = fmt.Errorf("unknown strategy %q", name)
	}
	result.Hits = hits
	result.Evaluated = s.evaluated
	result.Accepted = s.accepted
	result.Elapsed = time.Since(start)
	result.Err = err
	switch {
	case err != nil:
		result.Outcome = OutcomeTransportError
	case s.accepted > 0:
		result.Outcome = OutcomeCandidates
	default:
		result.Outcome = OutcomeEmpty
	}
	return result
}

// searchCombined queries artist and release together and sifts hits until
// the pool is non-empty.
func (e *Engine) searchCombined(ctx context.Context, s *sifter, query string, kind catalog.Kind) (int, error) {
	if query == "" {
		return 0, nil
	}
	hits, err := e.catalog.Search(ctx, query, kind)
	if err != nil {
		return 0, err
	}
	for _, hit := range hits {
		if !s.pool.Empty() {
			break
		}
		if err := s.siftHit(ctx, hit); err != nil {
			return len(hits), err
		}
	}
	return len(hits), nil
}

// searchArtist finds the artist entity, then scans its releases for a title
// resembling the local album.
func (e *Engine) searchArtist(ctx context.Context, s *sifter, terms SearchTerms, tl LocalTracklist) (int, error) {
	if terms.Artist == "" {
		return 0, nil
	}
	hits, err := e.catalog.Search(ctx, terms.Artist, catalog.KindArtist)
	if err != nil {
		return 0, err
	}
	raw := searchArtist(tl)
	for _, hit := range hits {
		if !s.pool.Empty() {
			break
		}
		if !hit.IsArtist() || !artistMatches(hit.Title, raw, terms.Artist) {
			continue
		}
		releases, err := e.catalog.ArtistReleases(ctx, hit.ID)
		if err != nil {
			return len(hits), err
		}
		for i, rel := range releases {
			if !s.pool.Empty() || i >= e.policy.ScanLimit {
				break
			}
			if !titleMatches(rel.Title, tl.Album, e.policy.TitleSimilarity) {
				continue
			}
			if err := s.siftHit(ctx, rel); err != nil {
				return len(hits), err
			}
		}
	}
	return len(hits), nil
}

// searchTitle queries the release title alone and sifts at most ScanLimit
// hits.
func (e *Engine) searchTitle(ctx context.Context, s *sifter, query string) (int, error) {
	if query == "" {
		return 0, nil
	}
	hits, err := e.catalog.Search(ctx, query, catalog.KindRelease)
	if err != nil {
		return 0, err
	}
	for i, hit := range hits {
		if !s.pool.Empty() || i >= e.policy.ScanLimit {
			break
		}
		if err := s.siftHit(ctx, hit); err != nil {
			return len(hits), err
		}
	}
	return len(hits), nil
}

func logStrategyResult(logger *slog.Logger, result StrategyResult) {
	logger.Info("search strategy evaluated",
		logging.String(logging.FieldEventType, "decision_summary"),
		logging.String(logging.FieldDecisionType, "search_strategy"),
		logging.String("decision_result", string(result.Outcome)),
		logging.String(logging.FieldStrategy, result.Strategy),
		logging.String("query", result.Query),
		logging.Int("hits", result.Hits),
		logging.Int("evaluated", result.Evaluated),
		logging.Int("accepted", result.Accepted),
		logging.Duration("elapsed", result.Elapsed),
	)
}
