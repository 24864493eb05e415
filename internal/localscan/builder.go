package localscan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"tracksift/internal/config"
	"tracksift/internal/logging"
	"tracksift/internal/matcher"
	"tracksift/internal/media/tags"
)

var (
	// ErrNoLocalMetadata reports an album with neither artist nor album
	// information after tags and file names were consulted.
	ErrNoLocalMetadata = errors.New("no artist or album information")
	// ErrNoAudioFiles reports a directory without audio files.
	ErrNoAudioFiles = errors.New("no audio files found")
)

var (
	discDirPattern = regexp.MustCompile(`^(?i)(cd|disc)\s?(\d{1,2})`)
	bracketed      = regexp.MustCompile(`\s*\[[^\]]*\]`)
)

// TagReader reads embedded metadata from one audio file.
type TagReader interface {
	ReadTags(ctx context.Context, path string) (tags.Metadata, error)
}

// Builder assembles local tracklists.
type Builder struct {
	reader      TagReader
	extensions  map[string]struct{}
	cueDoneDir  string
	libraryRoot string
	logger      *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithExtensions replaces the audio extensions considered.
func WithExtensions(exts ...string) Option {
	return func(b *Builder) {
		b.extensions = extensionSet(exts)
	}
}

// WithCueDoneDir sets the directory name skipped while walking.
func WithCueDoneDir(name string) Option {
	return func(b *Builder) { b.cueDoneDir = name }
}

// WithLibraryRoot sets the directory release paths are relative to when
// names are parsed.
func WithLibraryRoot(root string) Option {
	return func(b *Builder) { b.libraryRoot = root }
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logging.NewComponentLogger(logger, "localscan")
	}
}

// NewBuilder returns a builder using the default extensions.
func NewBuilder(reader TagReader, opts ...Option) *Builder {
	b := &Builder{
		reader:     reader,
		extensions: extensionSet(config.DefaultExtensions()),
		cueDoneDir: ".cue",
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewBuilderFromConfig wires a builder from the [scan] and [paths]
// sections.
func NewBuilderFromConfig(cfg *config.Config, reader TagReader, logger *slog.Logger) *Builder {
	return NewBuilder(reader,
		WithExtensions(cfg.Scan.Extensions...),
		WithCueDoneDir(cfg.Scan.CueDoneDir),
		WithLibraryRoot(cfg.Paths.SourceDir),
		WithLogger(logger),
	)
}

func extensionSet(exts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	return set
}

// IsAudio reports whether the file name has a scanned extension.
func (b *Builder) IsAudio(name string) bool {
	_, ok := b.extensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// AudioFiles lists the audio files below dir in path order, skipping the
// CUE done directory.
func (b *Builder) AudioFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && b.cueDoneDir != "" && d.Name() == b.cueDoneDir {
				return filepath.SkipDir
			}
			return nil
		}
		if b.IsAudio(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// Build reads every audio file below dir and returns the local tracklist.
func (b *Builder) Build(ctx context.Context, dir string) (matcher.LocalTracklist, error) {
	files, err := b.AudioFiles(dir)
	if err != nil {
		return matcher.LocalTracklist{}, err
	}
	if len(files) == 0 {
		return matcher.LocalTracklist{}, fmt.Errorf("%w in %s", ErrNoAudioFiles, dir)
	}
	logger := logging.WithContext(ctx, b.logger)

	subdirs := make(map[string]struct{})
	for _, f := range files {
		subdirs[relativeDir(dir, f)] = struct{}{}
	}
	multiDir := len(subdirs) > 1

	tl := matcher.LocalTracklist{SourceDir: dir}
	seenArtists := make(map[string]struct{})
	disc, currentDisc, counter := 0, 0, 0
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return matcher.LocalTracklist{}, err
		}
		md, err := b.reader.ReadTags(ctx, path)
		if err != nil {
			return matcher.LocalTracklist{}, fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		counter++

		switch {
		case md.Disc > 1:
			disc = md.Disc
		case md.Disc == 0 && multiDir:
			if n, ok := discFromDir(relativeDir(dir, path)); ok {
				disc = n
			}
		}
		if disc > 0 && disc != currentDisc {
			currentDisc = disc
			counter = 1
		}

		number := strings.TrimSpace(md.Track)
		if number == "" {
			number = strconv.Itoa(counter)
		}
		pos := number
		if disc > 0 {
			pos = strconv.Itoa(disc) + "-" + number
		}
		track := matcher.LocalTrack{
			Ordinal:  i + 1,
			Position: pos,
			Title:    strings.TrimSpace(md.Title),
			Artist:   strings.TrimSpace(md.Artist),
			Duration: md.Duration,
		}
		if startsWithLetter(md.Track) {
			track.TrackOverride = strings.TrimSpace(md.Track)
		}
		tl.Tracks = append(tl.Tracks, track)

		if track.Artist != "" {
			if _, ok := seenArtists[track.Artist]; !ok {
				seenArtists[track.Artist] = struct{}{}
				tl.Artists = append(tl.Artists, track.Artist)
			}
		}
		if tl.AlbumArtist == "" {
			tl.AlbumArtist = strings.TrimSpace(md.AlbumArtist)
		}
		if tl.Album == "" {
			tl.Album = stripBrackets(md.Album)
		}
		if tl.Year == 0 && md.Year > 0 {
			tl.Year = md.Year
		}
	}
	tl.DiscHint = disc
	tl.Artist = strings.Join(tl.Artists, ", ")

	if len(tl.Artists) == 0 && tl.AlbumArtist == "" && tl.Album == "" {
		logger.Info("no artist or album tags; parsing names",
			logging.Args(logging.DecisionAttrs("local_metadata", "naming", "tags_missing")...)...)
		b.applyNaming(&tl, files)
		if tl.Artist == "" && tl.Album == "" {
			return matcher.LocalTracklist{}, fmt.Errorf("%w in %s", ErrNoLocalMetadata, dir)
		}
	}

	logger.Debug("local tracklist built",
		logging.String("artist", tl.Artist),
		logging.String("album", tl.Album),
		logging.Int("tracks", len(tl.Tracks)),
		logging.Int("year", tl.Year),
		logging.Int("disc_hint", tl.DiscHint),
	)
	return tl, nil
}

// relativeDir returns the first path component of file's directory below
// root, or "" for files directly in root.
func relativeDir(root, file string) string {
	rel, err := filepath.Rel(root, filepath.Dir(file))
	if err != nil || rel == "." {
		return ""
	}
	if i := strings.IndexRune(rel, filepath.Separator); i >= 0 {
		rel = rel[:i]
	}
	return rel
}

func discFromDir(name string) (int, bool) {
	m := discDirPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func startsWithLetter(s string) bool {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(s))
	return r != utf8.RuneError && unicode.IsLetter(r)
}

func stripBrackets(s string) string {
	return strings.TrimSpace(bracketed.ReplaceAllString(s, ""))
}
