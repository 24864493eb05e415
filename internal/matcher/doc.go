// Package matcher finds the catalog release whose tracklist agrees with a
// local album.
//
// The engine runs a cascade of search strategies against a catalog.Catalog,
// scores each candidate by comparing track durations, keeps the accepted
// candidates in a Pool ordered by score and resolves ties with a fixed list
// of format and year predicates. It holds no state between calls; the rate
// limiter lives on the catalog client.
package matcher
