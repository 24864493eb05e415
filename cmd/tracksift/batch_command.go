package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tracksift/internal/batch"
	"tracksift/internal/logging"
	"tracksift/internal/notifications"
	"tracksift/internal/preflight"
	"tracksift/internal/ratelimit"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var opts batch.Options
	var skipChecks bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Match albums and record the outcomes in the ledger",
		Long: `Match the album in <dir>, or every album below it with --recursive.

Each outcome is recorded in the ledger. Albums already matched, or carrying
the done file, are skipped unless --force is given. Disc subdirectories such
as "CD1" and "Disc 2" are matched together with their parent.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := resolveDir(args[0])
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.openLedger()
			if err != nil {
				return err
			}
			defer store.Close()

			runner, client, err := ctx.newRunner(store)
			if err != nil {
				return err
			}

			if !skipChecks {
				if failed := preflight.Failed(preflight.RunAll(cmd.Context(), cfg, client)); len(failed) > 0 {
					return preflightError(failed)
				}
			}

			notifier := notifications.NewService(cfg)
			summary, runErr := runner.Run(cmd.Context(), root, opts)
			if runErr != nil && summary.RunID == "" {
				notifyRun(cmd, ctx, func() error {
					return notifier.NotifyError(cmd.Context(), runErr, "batch "+root)
				})
				return runErr
			}
			notifyRun(cmd, ctx, func() error {
				return notifier.NotifyBatchCompleted(cmd.Context(), notifications.BatchReport{
					Root:    root,
					RunID:   summary.RunID,
					Matched: summary.Matched,
					NoMatch: summary.NoMatch,
					Failed:  summary.Failed,
					Skipped: summary.Skipped,
					Elapsed: summary.Elapsed,
				})
			})

			out := cmd.OutOrStdout()
			if jsonOutput {
				if jerr := writeJSON(cmd, newSummaryView(summary)); jerr != nil {
					return jerr
				}
			} else {
				writeSummary(out, summary, shouldColorize(out))
				writeCatalogStats(out, ctx.limiter)
			}
			if runErr != nil {
				return runErr
			}
			if summary.Failed > 0 {
				return fmt.Errorf("%d album(s) failed", summary.Failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.Recursive, "recursive", "r", false, "Match every album directory below <dir>")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Reprocess albums that are already matched or marked done")
	cmd.Flags().BoolVar(&opts.WriteDone, "write-done", false, "Write the done file into matched album directories")
	cmd.Flags().Int64Var(&opts.ReleaseID, "release-id", 0, "Skip the search and map this Discogs release")
	cmd.Flags().BoolVar(&skipChecks, "skip-checks", false, "Skip readiness checks before the run")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

// notifyRun sends a notification and logs delivery failures without
// affecting the command result.
func notifyRun(cmd *cobra.Command, ctx *commandContext, send func() error) {
	err := send()
	if err == nil {
		return
	}
	logger, lerr := ctx.ensureLogger()
	if lerr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "notification failed: %v\n", err)
		return
	}
	logging.WarnWithContext(logger, "notification failed", "notification_failed",
		logging.Error(err),
	)
}

func preflightError(failed []preflight.Result) error {
	parts := make([]string, 0, len(failed))
	for _, r := range failed {
		parts = append(parts, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	return fmt.Errorf("readiness checks failed (run 'tracksift check'): %s", strings.Join(parts, "; "))
}

func writeSummary(out io.Writer, summary batch.Summary, colorize bool) {
	rows := make([][]string, 0, len(summary.Outcomes))
	for _, o := range summary.Outcomes {
		view := newOutcomeView(o)
		status := view.Status
		if !o.Skipped {
			status = renderLedgerStatus(o.Status, colorize)
		}
		detail := o.Title
		if detail == "" {
			detail = o.Message
		}
		rows = append(rows, []string{
			o.SourceDir,
			status,
			formatReleaseID(o.ReleaseID),
			formatScore(o.Score),
			o.Strategy,
			detail,
		})
	}
	if len(rows) > 0 {
		fmt.Fprintln(out, renderTable(
			[]string{"Directory", "Status", "Release", "Score", "Strategy", "Detail"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
		))
	}
	fmt.Fprintf(out, "Run %s: %d matched, %d no match, %d failed, %d skipped in %s\n",
		summary.RunID, summary.Matched, summary.NoMatch, summary.Failed, summary.Skipped,
		summary.Elapsed.Round(time.Millisecond))
}

func writeCatalogStats(out io.Writer, limiter *ratelimit.Limiter) {
	if limiter == nil {
		return
	}
	search := limiter.Stats(ratelimit.ClassSearch)
	metadata := limiter.Stats(ratelimit.ClassMetadata)
	fmt.Fprintf(out, "Catalog calls: %d search (%d throttled), %d metadata (%d throttled)\n",
		search.Calls, search.Throttled, metadata.Calls, metadata.Throttled)
}
