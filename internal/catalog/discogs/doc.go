// Package discogs implements catalog.Catalog against the Discogs database API.
//
// Requests authenticate with a personal access token, identify themselves with
// a User-Agent as the API requires, and pass through the shared rate limiter
// before every call. Transport, status and decode failures are wrapped with
// catalog.ErrTransport so the matching cascade can recover from them.
package discogs
