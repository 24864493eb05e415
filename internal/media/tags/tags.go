package tags

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/dhowden/tag"
	"github.com/mewkiz/flac"

	"tracksift/internal/logging"
	"tracksift/internal/media/ffprobe"
)

// ErrNoDuration reports a file whose playing time could not be determined.
var ErrNoDuration = errors.New("audio duration unavailable")

// Metadata is the subset of embedded tags used to search the catalog.
// Every field except Duration may be empty.
type Metadata struct {
	Artist      string
	AlbumArtist string
	Album       string
	Title       string
	Year        int
	Date        string
	Disc        int
	// Track is kept as text so vinyl side labels ("A1") survive.
	Track string
	// Duration is the playing time in seconds.
	Duration float64
}

type inspectFunc func(ctx context.Context, binary, path string) (ffprobe.Result, error)

// Reader reads tags from audio files.
type Reader struct {
	ffprobeBinary string
	inspect       inspectFunc
	logger        *slog.Logger
}

// Option configures a Reader.
type Option func(*Reader)

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reader) {
		r.logger = logging.NewComponentLogger(logger, "tags")
	}
}

// WithInspector replaces the ffprobe invocation. Used by tests.
func WithInspector(fn func(ctx context.Context, binary, path string) (ffprobe.Result, error)) Option {
	return func(r *Reader) {
		if fn != nil {
			r.inspect = fn
		}
	}
}

// NewReader constructs a Reader that falls back to the given ffprobe binary.
func NewReader(ffprobeBinary string, opts ...Option) *Reader {
	r := &Reader{
		ffprobeBinary: ffprobeBinary,
		inspect:       ffprobe.Inspect,
		logger:        logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReadTags returns the metadata of one audio file.
func (r *Reader) ReadTags(ctx context.Context, path string) (Metadata, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var (
		md     Metadata
		probed *ffprobe.Result
		native bool
	)
	switch ext {
	case ".flac", ".mp3", ".m4a", ".mp4", ".ogg":
		m, err := readNative(path)
		if err == nil {
			md, native = m, true
		} else {
			r.logger.Debug("native tag read failed; using ffprobe",
				logging.String("path", path),
				logging.Error(err),
			)
		}
	}

	if !native {
		res, err := r.inspect(ctx, r.ffprobeBinary, path)
		if err != nil {
			return Metadata{}, fmt.Errorf("read tags %s: %w", filepath.Base(path), err)
		}
		probed = &res
		md = fromProbe(res)
	}

	switch ext {
	case ".flac":
		md.Duration = flacDuration(path)
	case ".mp3":
		md.Duration = id3Length(path)
	}
	if md.Duration <= 0 && probed != nil {
		md.Duration = probed.DurationSeconds()
	}
	if md.Duration <= 0 && probed == nil {
		res, err := r.inspect(ctx, r.ffprobeBinary, path)
		if err != nil {
			return Metadata{}, fmt.Errorf("%w: %s: %w", ErrNoDuration, filepath.Base(path), err)
		}
		md.Duration = res.DurationSeconds()
	}
	if md.Duration <= 0 {
		return Metadata{}, fmt.Errorf("%w: %s", ErrNoDuration, filepath.Base(path))
	}
	return md, nil
}

func readNative(path string) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return Metadata{}, err
	}
	disc, _ := m.Disc()
	return Metadata{
		Artist:      strings.TrimSpace(m.Artist()),
		AlbumArtist: strings.TrimSpace(m.AlbumArtist()),
		Album:       strings.TrimSpace(m.Album()),
		Title:       strings.TrimSpace(m.Title()),
		Year:        m.Year(),
		Date:        rawString(m.Raw(), "date", "TDRC", "TYER", "©day"),
		Disc:        disc,
		Track:       rawTrack(m),
	}, nil
}

// rawTrack prefers the textual track tag so lettered positions survive;
// dhowden/tag only exposes the numeric form.
func rawTrack(m tag.Metadata) string {
	if s := rawString(m.Raw(), "tracknumber", "TRCK", "TRK"); s != "" {
		return trackText(s)
	}
	if n, _ := m.Track(); n > 0 {
		return strconv.Itoa(n)
	}
	return ""
}

func rawString(raw map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		for k, v := range raw {
			if !strings.EqualFold(k, key) {
				continue
			}
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

// trackText strips a "/total" suffix: "3/12" becomes "3".
func trackText(s string) string {
	if i := strings.Index(s, "/"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func fromProbe(res ffprobe.Result) Metadata {
	md := Metadata{
		Artist:      res.Tag("artist"),
		AlbumArtist: firstNonEmpty(res.Tag("album_artist"), res.Tag("albumartist")),
		Album:       res.Tag("album"),
		Title:       res.Tag("title"),
		Date:        firstNonEmpty(res.Tag("date"), res.Tag("year")),
		Track:       trackText(res.Tag("track")),
	}
	if md.Track == "" {
		md.Track = trackText(res.Tag("tracknumber"))
	}
	md.Year = yearFromDate(md.Date)
	if disc := trackText(firstNonEmpty(res.Tag("disc"), res.Tag("discnumber"))); disc != "" {
		md.Disc, _ = strconv.Atoi(disc)
	}
	return md
}

func yearFromDate(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// flacDuration reads total samples and sample rate from STREAMINFO.
func flacDuration(path string) float64 {
	stream, err := flac.Open(path)
	if err != nil {
		return 0
	}
	defer stream.Close()
	if stream.Info == nil || stream.Info.SampleRate == 0 {
		return 0
	}
	return float64(stream.Info.NSamples) / float64(stream.Info.SampleRate)
}

// id3Length reads the TLEN frame (milliseconds). Most encoders omit it.
func id3Length(path string) float64 {
	t, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return 0
	}
	defer t.Close()
	frame := t.GetTextFrame("TLEN")
	ms, err := strconv.ParseFloat(strings.TrimSpace(frame.Text), 64)
	if err != nil || ms <= 0 {
		return 0
	}
	return ms / 1000
}
