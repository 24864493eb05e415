package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"tracksift/internal/catalog"
	"tracksift/internal/config"
	"tracksift/internal/fileutil"
	"tracksift/internal/ledger"
	"tracksift/internal/localscan"
	"tracksift/internal/logging"
	"tracksift/internal/matcher"
	"tracksift/internal/position"
	"tracksift/internal/services"
)

// ErrLocked reports that another run holds the batch lock.
var ErrLocked = errors.New("another tracksift run is in progress")

// StrategyReleaseID marks matches taken from an explicit release ID.
const StrategyReleaseID = "release_id"

// Builder produces local tracklists and discovers album directories.
type Builder interface {
	Build(ctx context.Context, dir string) (matcher.LocalTracklist, error)
	AlbumDirs(root string) ([]string, error)
}

// Engine selects the best catalog release for a local tracklist.
type Engine interface {
	FindBestMatch(ctx context.Context, tl matcher.LocalTracklist) (matcher.Match, error)
}

// ReleaseFetcher loads a release by ID for explicit overrides.
type ReleaseFetcher interface {
	FetchRelease(ctx context.Context, id int64) (catalog.Release, error)
}

// Options controls one run.
type Options struct {
	// Recursive discovers album directories below the root.
	Recursive bool
	// Force reprocesses albums that are done or already matched.
	Force bool
	// WriteDone drops the done file into matched album directories.
	WriteDone bool
	// ReleaseID skips the search and maps this release instead.
	ReleaseID int64
}

// Outcome is the result for one album directory.
type Outcome struct {
	SourceDir string
	Status    ledger.Status
	Skipped   bool
	ReleaseID int64
	Title     string
	Score     float64
	Strategy  string
	Rule      string
	Discs     int
	Tracks    int
	Err       error
	Message   string
}

// Summary aggregates a run.
type Summary struct {
	RunID    string
	Matched  int
	NoMatch  int
	Failed   int
	Skipped  int
	Elapsed  time.Duration
	Outcomes []Outcome
}

func (s *Summary) add(o Outcome) {
	s.Outcomes = append(s.Outcomes, o)
	switch {
	case o.Skipped:
		s.Skipped++
	case o.Status == ledger.StatusMatched:
		s.Matched++
	case o.Status == ledger.StatusNoMatch:
		s.NoMatch++
	default:
		s.Failed++
	}
}

// Runner processes album directories.
type Runner struct {
	cfg     *config.Config
	builder Builder
	engine  Engine
	fetcher ReleaseFetcher
	ledger  *ledger.Store
	logger  *slog.Logger
	now     func() time.Time
}

// NewRunner wires a runner. store may be nil to skip ledger bookkeeping.
func NewRunner(cfg *config.Config, builder Builder, engine Engine, fetcher ReleaseFetcher, store *ledger.Store, logger *slog.Logger) *Runner {
	return &Runner{
		cfg:     cfg,
		builder: builder,
		engine:  engine,
		fetcher: fetcher,
		ledger:  store,
		logger:  logging.NewComponentLogger(logger, "batch"),
		now:     time.Now,
	}
}

// Run processes root, or every album below it when opts.Recursive is set.
// Album failures are recorded and do not stop the run.
func (r *Runner) Run(ctx context.Context, root string, opts Options) (Summary, error) {
	start := r.now()
	if err := r.cfg.EnsureDirectories(); err != nil {
		return Summary{}, services.Wrap(services.ErrConfiguration, "batch", "prepare state dir", "", err)
	}
	lock := flock.New(r.cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return Summary{}, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return Summary{}, fmt.Errorf("%w (lock %s)", ErrLocked, r.cfg.LockPath())
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release batch lock", logging.Error(err))
		}
	}()

	summary := Summary{RunID: uuid.NewString()}
	ctx = services.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, r.logger)

	dirs := []string{root}
	if opts.Recursive {
		dirs, err = r.builder.AlbumDirs(root)
		if err != nil {
			return summary, services.Wrap(services.ErrValidation, "batch", "discover albums", root, err)
		}
	}
	logger.Info("batch started",
		logging.String("root", root),
		logging.Int("albums", len(dirs)),
		logging.Bool("force", opts.Force),
	)

	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			summary.Elapsed = r.now().Sub(start)
			return summary, err
		}
		dirCtx := services.WithSourceDir(ctx, dir)
		if skip, reason := r.shouldSkip(dirCtx, dir, opts); skip {
			logging.WithContext(dirCtx, r.logger).Info("album skipped",
				logging.Args(logging.DecisionAttrs("album_skip", "skipped", reason)...)...)
			summary.add(Outcome{SourceDir: dir, Skipped: true, Message: reason})
			continue
		}
		outcome := r.Process(dirCtx, dir, opts)
		if errors.Is(outcome.Err, context.Canceled) {
			summary.Elapsed = r.now().Sub(start)
			return summary, outcome.Err
		}
		r.record(dirCtx, summary.RunID, outcome)
		if outcome.Status == ledger.StatusMatched && opts.WriteDone {
			if err := r.writeDoneFile(dir, outcome, summary.RunID); err != nil {
				logging.WarnWithContext(logging.WithContext(dirCtx, r.logger), "failed to write done file", "done_file_failed",
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check directory permissions"),
					logging.String(logging.FieldImpact, "album will be rescanned on the next run"),
				)
			}
		}
		summary.add(outcome)
	}

	summary.Elapsed = r.now().Sub(start)
	logger.Info("batch finished",
		logging.Int("matched", summary.Matched),
		logging.Int("no_match", summary.NoMatch),
		logging.Int("failed", summary.Failed),
		logging.Int("skipped", summary.Skipped),
		logging.Duration("elapsed", summary.Elapsed),
	)
	return summary, nil
}

func (r *Runner) shouldSkip(ctx context.Context, dir string, opts Options) (bool, string) {
	if opts.Force {
		return false, ""
	}
	if name := r.cfg.Scan.DoneFile; name != "" {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true, "done_file_present"
		}
	}
	if r.ledger != nil && opts.ReleaseID == 0 {
		entry, err := r.ledger.Lookup(ctx, dir)
		if err != nil {
			r.logger.Debug("ledger lookup failed", logging.Error(err))
			return false, ""
		}
		if entry != nil && entry.Status == ledger.StatusMatched {
			return true, "already_matched"
		}
	}
	return false, ""
}

// Process matches a single album directory without taking the batch lock or
// touching the ledger.
func (r *Runner) Process(ctx context.Context, dir string, opts Options) Outcome {
	ctx = services.WithSourceDir(ctx, dir)
	logger := logging.WithContext(ctx, r.logger)
	out := Outcome{SourceDir: dir}

	tl, err := r.builder.Build(services.WithStage(ctx, "scan"), dir)
	if err != nil {
		return r.fail(logger, out, classifyScanError(err, dir))
	}

	var match matcher.Match
	if opts.ReleaseID > 0 {
		match, err = r.fetchOverride(services.WithStage(ctx, "fetch"), tl, opts.ReleaseID)
	} else {
		match, err = r.engine.FindBestMatch(services.WithStage(ctx, "match"), tl)
		if errors.Is(err, matcher.ErrNoCandidate) {
			err = services.Wrap(services.ErrNotFound, "match", "find release", "no candidate passed the duration check", err)
		}
	}
	if err != nil {
		return r.fail(logger, out, err)
	}
	out.ReleaseID = match.Release.ID
	out.Title = match.Release.Title
	out.Score = match.Score
	out.Strategy = match.Strategy
	out.Rule = match.Rule.String()
	if match.Strategy == StrategyReleaseID {
		out.Rule = StrategyReleaseID
	}

	discs, err := position.Sequence(match.Release.Entries())
	if err != nil {
		return r.fail(logger, out, services.Wrap(services.ErrValidation, "map",
			fmt.Sprintf("release %d", match.Release.ID), "tracklist positions", err))
	}
	out.Discs = len(discs)
	out.Tracks = position.TrackCount(discs)
	out.Status = ledger.StatusMatched
	out.Message = fmt.Sprintf("release %d %q", out.ReleaseID, out.Title)

	logger.Info("album matched",
		logging.Int64(logging.FieldReleaseID, out.ReleaseID),
		logging.String("title", out.Title),
		logging.Score(out.Score),
		logging.String(logging.FieldStrategy, out.Strategy),
		logging.String("rule", out.Rule),
		logging.Int("discs", out.Discs),
		logging.Int("tracks", out.Tracks),
	)
	return out
}

func (r *Runner) fetchOverride(ctx context.Context, tl matcher.LocalTracklist, id int64) (matcher.Match, error) {
	if r.fetcher == nil {
		return matcher.Match{}, services.Wrap(services.ErrConfiguration, "fetch", "release override", "no catalog configured", nil)
	}
	rel, err := r.fetcher.FetchRelease(ctx, id)
	if err != nil {
		marker := services.ErrTransient
		if errors.Is(err, catalog.ErrNotFound) {
			marker = services.ErrNotFound
		}
		return matcher.Match{}, services.Wrap(marker, "fetch", fmt.Sprintf("release %d", id), "", err)
	}
	score := matcher.Compare(tl.Tracks, rel, r.cfg.Matching.ToleranceSeconds)
	if !score.Accepted {
		logging.WarnWithContext(logging.WithContext(ctx, r.logger), "explicit release disagrees with local durations", "release_override_mismatch",
			logging.Int64(logging.FieldReleaseID, id),
			logging.String("reason", string(score.Reason)),
			logging.Score(score.Value),
			logging.String(logging.FieldErrorHint, "double-check the release id"),
			logging.String(logging.FieldImpact, "release used as given"),
		)
	}
	return matcher.Match{
		Release:    rel,
		Score:      score.Value,
		Strategy:   StrategyReleaseID,
		Candidates: 1,
	}, nil
}

func (r *Runner) fail(logger *slog.Logger, out Outcome, err error) Outcome {
	out.Err = err
	out.Status = services.FailureStatus(err)
	out.Message = err.Error()
	if errors.Is(err, context.Canceled) {
		return out
	}
	if out.Status == ledger.StatusNoMatch {
		logger.Info("no matching release", logging.Args(logging.DecisionAttrs("album_match", "no_match", "cascade_exhausted")...)...)
		return out
	}
	logging.WarnWithContext(logger, "album failed", "album_failed",
		logging.Error(err),
		logging.String(logging.FieldImpact, "album left untagged"),
	)
	return out
}

func classifyScanError(err error, dir string) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, localscan.ErrNoLocalMetadata), errors.Is(err, localscan.ErrNoAudioFiles):
		return services.Wrap(services.ErrValidation, "scan", "build tracklist", dir, err)
	default:
		return services.Wrap(services.ErrExternalTool, "scan", "read tags", dir, err)
	}
}

func (r *Runner) record(ctx context.Context, runID string, out Outcome) {
	if r.ledger == nil {
		return
	}
	entry := ledger.Entry{
		SourceDir: out.SourceDir,
		ReleaseID: out.ReleaseID,
		Title:     out.Title,
		Score:     out.Score,
		Strategy:  out.Strategy,
		Rule:      out.Rule,
		Status:    out.Status,
		RunID:     runID,
		UpdatedAt: r.now(),
	}
	if out.Err != nil {
		entry.Error = out.Err.Error()
	}
	if err := r.ledger.Record(ctx, entry); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, r.logger), "failed to record ledger entry", "ledger_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the state directory"),
			logging.String(logging.FieldImpact, "album will be reprocessed on the next run"),
		)
	}
}

func (r *Runner) writeDoneFile(dir string, out Outcome, runID string) error {
	name := r.cfg.Scan.DoneFile
	if name == "" {
		return nil
	}
	body := fmt.Sprintf("release_id = %d\ntitle = %q\nrun_id = %q\n", out.ReleaseID, out.Title, runID)
	return fileutil.WriteFileAtomic(filepath.Join(dir, name), []byte(body), 0o644)
}
