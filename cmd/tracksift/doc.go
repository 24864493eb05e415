// Command tracksift matches local album directories against the Discogs
// catalog by comparing track durations.
//
// Subcommands:
//
//	match <dir>     match one album and print the chosen release
//	batch <dir>     match one album or, with --recursive, every album below dir
//	scan <dir>      print the local tracklist and search terms without the catalog
//	check           run readiness checks
//	config          write or show the configuration
//	ledger          inspect and prune recorded match outcomes
//	logs            show the log file
//
// When notifications.ntfy_topic is set, batch posts a summary to ntfy after
// each run.
package main
