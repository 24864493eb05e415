package preflight

import (
	"context"

	"tracksift/internal/config"
)

// Result captures the outcome of a single readiness check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// RunAll executes every readiness check for the configuration. The pinger
// is consulted only when a Discogs token is configured; pass nil to skip
// the network probe.
func RunAll(ctx context.Context, cfg *config.Config, pinger Pinger) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// State directory holds the ledger and run lock.
	results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))

	if cfg.Paths.SourceDir != "" {
		results = append(results, CheckReadableDirectory("Source directory", cfg.Paths.SourceDir))
	}

	results = append(results, CheckFFprobe(cfg.Scan.FFprobeBinary))
	results = append(results, CheckDiscogs(ctx, cfg.Discogs.Token, pinger))

	return results
}
