// Package config loads, normalizes, and validates tracksift configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads .env files through godotenv and honours
// environment fallbacks such as DISCOGS_TOKEN. The Config type centralizes the
// Discogs credentials, rate limit budget, matching thresholds and scan rules
// the CLI needs.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
