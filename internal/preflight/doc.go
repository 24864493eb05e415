// Package preflight provides readiness checks for the filesystem paths,
// external binaries and catalog credentials tracksift depends on.
//
// The "tracksift check" command renders every result as a table, and the
// batch command runs the same checks before touching any album so a
// missing token or ffprobe binary fails fast instead of once per album.
package preflight
