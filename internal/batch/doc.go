// Package batch drives matching over one album directory or a whole tree of
// them, recording every outcome in the ledger.
//
// A run holds an exclusive file lock under the state directory so only one
// process spends the catalog account's request budget at a time.
package batch
