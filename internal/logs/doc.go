// Package logs reads the tracksift log file for "tracksift logs".
//
// Tail returns the last N lines (negative offset) or everything written
// after a byte offset, optionally waiting for new lines in follow mode.
// A Match filter keeps only lines containing a substring, which is how a
// single run or album is isolated from a shared log.
package logs
