// Package services defines shared utilities consumed by the matching pipeline
// and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp source directories, stage names, and run
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent ledger statuses (failed vs no match).
//
// Use these helpers when wiring new pipeline steps so error classification and
// observability stay uniform across albums in a batch.
package services
