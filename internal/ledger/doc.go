// Package ledger persists the outcome of every album the batch driver has
// processed in a SQLite database under the state directory.
//
// One row per source directory records the chosen release (or the failure)
// so reruns can skip albums that already matched.
package ledger
