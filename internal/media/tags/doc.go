// Package tags reads the embedded metadata and playing time of audio files.
//
// FLAC, MP3, MP4 and Ogg tags are decoded natively with dhowden/tag. FLAC
// durations come from the STREAMINFO block (mewkiz/flac), MP3 durations from
// the ID3v2 TLEN frame when present (bogem/id3v2). Everything else, and any
// file the native readers reject, goes through ffprobe.
package tags
