package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tracksift/internal/ledger"
)

type ledgerEntryView struct {
	SourceDir string  `json:"source_dir"`
	Status    string  `json:"status"`
	ReleaseID int64   `json:"release_id,omitempty"`
	Title     string  `json:"title,omitempty"`
	Score     float64 `json:"score"`
	Strategy  string  `json:"strategy,omitempty"`
	Rule      string  `json:"rule,omitempty"`
	Error     string  `json:"error,omitempty"`
	RunID     string  `json:"run_id,omitempty"`
	UpdatedAt string  `json:"updated_at"`
}

func newLedgerCommand(ctx *commandContext) *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect and prune recorded match outcomes",
	}
	ledgerCmd.AddCommand(newLedgerListCommand(ctx))
	ledgerCmd.AddCommand(newLedgerRemoveCommand(ctx))
	ledgerCmd.AddCommand(newLedgerClearCommand(ctx))
	return ledgerCmd
}

func newLedgerListCommand(ctx *commandContext) *cobra.Command {
	var statusFlags []string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses, err := parseStatuses(statusFlags)
			if err != nil {
				return err
			}
			store, err := ctx.openLedger()
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), statuses...)
			if err != nil {
				return err
			}

			if jsonOutput {
				views := make([]ledgerEntryView, 0, len(entries))
				for _, e := range entries {
					views = append(views, newLedgerEntryView(e))
				}
				return writeJSON(cmd, views)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "Ledger is empty")
				return nil
			}
			colorize := shouldColorize(out)
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				detail := e.Title
				if e.Status != ledger.StatusMatched {
					detail = e.Error
				}
				rows = append(rows, []string{
					e.SourceDir,
					renderLedgerStatus(e.Status, colorize),
					formatReleaseID(e.ReleaseID),
					formatScore(e.Score),
					e.UpdatedAt.Local().Format("2006-01-02 15:04"),
					detail,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Directory", "Status", "Release", "Score", "Updated", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&statusFlags, "status", nil, "Only show these statuses (matched, no_match, failed)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newLedgerRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <dir>...",
		Short: "Forget the outcome of album directories so the next batch retries them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openLedger()
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			for _, arg := range args {
				// Entries may outlive their directory, so a missing path is
				// looked up as given.
				dir, err := resolveDir(arg)
				if err != nil {
					dir = strings.TrimSpace(arg)
				}
				removed, err := store.Remove(cmd.Context(), dir)
				if err != nil {
					return err
				}
				if removed {
					fmt.Fprintf(out, "Removed %s\n", dir)
				} else {
					fmt.Fprintf(out, "Not in ledger: %s\n", dir)
				}
			}
			return nil
		},
	}
}

func newLedgerClearCommand(ctx *commandContext) *cobra.Command {
	var statusFlags []string
	var all bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove outcomes by status, or every outcome with --all",
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses, err := parseStatuses(statusFlags)
			if err != nil {
				return err
			}
			if len(statuses) == 0 && !all {
				return errors.New("refusing to clear the whole ledger without --all (or pass --status)")
			}
			store, err := ctx.openLedger()
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.Clear(cmd.Context(), statuses...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d entries\n", n)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&statusFlags, "status", nil, "Only clear these statuses (matched, no_match, failed)")
	cmd.Flags().BoolVar(&all, "all", false, "Clear every entry")
	return cmd
}

func parseStatuses(values []string) ([]ledger.Status, error) {
	statuses := make([]ledger.Status, 0, len(values))
	for _, v := range values {
		status, ok := ledger.ParseStatus(strings.ToLower(strings.TrimSpace(v)))
		if !ok {
			return nil, fmt.Errorf("unknown status %q (want matched, no_match or failed)", v)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func newLedgerEntryView(e ledger.Entry) ledgerEntryView {
	return ledgerEntryView{
		SourceDir: e.SourceDir,
		Status:    string(e.Status),
		ReleaseID: e.ReleaseID,
		Title:     e.Title,
		Score:     e.Score,
		Strategy:  e.Strategy,
		Rule:      e.Rule,
		Error:     e.Error,
		RunID:     e.RunID,
		UpdatedAt: e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
