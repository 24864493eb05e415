// Package localscan turns a directory of audio files into the local
// tracklist the matcher searches with.
//
// Tags are read through a TagReader. When the files carry no artist or
// album tags at all, the directory and file names are parsed instead.
package localscan
