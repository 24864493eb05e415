// Package textutil provides text processing utilities for catalog search terms
// and file naming heuristics.
//
// The primary use cases are:
//   - Normalizing free-text artist and album strings into search queries
//   - Cleaning directory and file name segments into human-readable names
//   - Comparing titles case-insensitively under Unicode folding
//
// Query normalization works on whitespace-delimited tokens: punctuation is
// replaced or removed first, then duplicate tokens and stop-words are dropped
// while preserving the order of what remains.
package textutil
