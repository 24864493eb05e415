package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tracksift/internal/notifications"
	"tracksift/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var offline bool
	var testNotify bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify directories, ffprobe and Discogs credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var pinger preflight.Pinger
			if !offline && cfg.Discogs.Token != "" {
				client, err := ctx.newCatalog()
				if err != nil {
					return err
				}
				pinger = client
			}

			results := preflight.RunAll(cmd.Context(), cfg, pinger)
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				kind := statusOK
				if !r.Passed {
					kind = statusError
				}
				rows = append(rows, []string{r.Name, renderStatus(kind, colorize), r.Detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows, nil))

			if testNotify {
				if cfg.Notifications.NtfyTopic == "" {
					return fmt.Errorf("notifications.ntfy_topic is not configured")
				}
				if err := notifications.NewService(cfg).TestNotification(cmd.Context()); err != nil {
					return fmt.Errorf("test notification: %w", err)
				}
				fmt.Fprintln(out, "Test notification sent")
			}

			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d of %d checks failed", len(failed), len(results))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Skip the Discogs API request")
	cmd.Flags().BoolVar(&testNotify, "test-notify", false, "Send a test notification to the configured ntfy topic")
	return cmd
}
