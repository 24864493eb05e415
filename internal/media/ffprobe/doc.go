// Package ffprobe provides a typed wrapper around ffprobe JSON output for
// audio files.
//
// Inspect runs ffprobe restricted to audio streams; Result exposes the
// duration and the embedded tags. It is the fallback reader for containers the
// native tag libraries cannot parse (APE, WavPack, WAV).
package ffprobe
