package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tracksift/internal/batch"
	"tracksift/internal/ledger"
)

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var releaseID int64
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "match <dir>",
		Short: "Match one album directory against Discogs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(args[0])
			if err != nil {
				return err
			}
			runner, _, err := ctx.newRunner(nil)
			if err != nil {
				return err
			}

			outcome := runner.Process(cmd.Context(), dir, batch.Options{ReleaseID: releaseID})
			if jsonOutput {
				if err := writeJSON(cmd, newOutcomeView(outcome)); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), renderOutcome(outcome))
			}
			if outcome.Status != ledger.StatusMatched {
				return fmt.Errorf("match %s: %w", dir, outcome.Err)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&releaseID, "release-id", 0, "Skip the search and map this Discogs release")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func renderOutcome(o batch.Outcome) string {
	pairs := [][2]string{
		{"Directory", o.SourceDir},
		{"Status", string(o.Status)},
	}
	if o.Status == ledger.StatusMatched {
		pairs = append(pairs,
			[2]string{"Release", formatReleaseID(o.ReleaseID)},
			[2]string{"Title", o.Title},
			[2]string{"Score", formatScore(o.Score)},
			[2]string{"Strategy", o.Strategy},
			[2]string{"Rule", o.Rule},
			[2]string{"Discs", strconv.Itoa(o.Discs)},
			[2]string{"Tracks", strconv.Itoa(o.Tracks)},
		)
	} else if o.Message != "" {
		pairs = append(pairs, [2]string{"Reason", o.Message})
	}
	return renderKeyValues(pairs)
}
