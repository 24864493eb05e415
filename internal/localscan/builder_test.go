package localscan_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"tracksift/internal/localscan"
	"tracksift/internal/media/tags"
	"tracksift/internal/testsupport"
)

// fakeReader returns metadata keyed by path relative to root.
type fakeReader struct {
	root string
	meta map[string]tags.Metadata
	err  map[string]error
}

func (f *fakeReader) ReadTags(_ context.Context, path string) (tags.Metadata, error) {
	rel, _ := filepath.Rel(f.root, path)
	rel = filepath.ToSlash(rel)
	if err := f.err[rel]; err != nil {
		return tags.Metadata{}, err
	}
	md, ok := f.meta[rel]
	if !ok {
		md = tags.Metadata{}
	}
	if md.Duration == 0 {
		md.Duration = 200
	}
	return md, nil
}

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		testsupport.WriteFile(t, filepath.Join(root, filepath.FromSlash(name)), 16)
	}
}

func mustList(t *testing.T, build func() ([]string, error)) []string {
	t.Helper()
	got, err := build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return got
}

func TestBuildFromTags(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "01.flac", "02.flac", "cover.jpg", "notes.txt")
	reader := &fakeReader{root: dir, meta: map[string]tags.Metadata{
		"01.flac": {Artist: "Autechre", AlbumArtist: "Autechre", Album: "Amber [2008 Remaster]", Title: "Foil", Year: 1994, Track: "1", Duration: 360.2},
		"02.flac": {Artist: "Autechre", AlbumArtist: "Autechre", Album: "Amber [2008 Remaster]", Title: "Montreal", Year: 1994, Track: "2", Duration: 421.8},
	}}

	tl, err := localscan.NewBuilder(reader).Build(context.Background(), dir)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if tl.Album != "Amber" || tl.Artist != "Autechre" || tl.AlbumArtist != "Autechre" || tl.Year != 1994 {
		t.Fatalf("unexpected album fields: %+v", tl)
	}
	if len(tl.Tracks) != 2 || tl.Tracks[0].Position != "1" || tl.Tracks[1].Position != "2" {
		t.Fatalf("unexpected tracks: %+v", tl.Tracks)
	}
	if tl.Tracks[1].Ordinal != 2 || tl.Tracks[1].Duration != 421.8 || tl.Tracks[1].Title != "Montreal" {
		t.Fatalf("unexpected second track: %+v", tl.Tracks[1])
	}
	if tl.DiscHint != 0 || tl.SourceDir != dir {
		t.Fatalf("unexpected disc hint or source dir: %+v", tl)
	}
}

func TestBuildDedupesArtists(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "01.mp3", "02.mp3", "03.mp3")
	reader := &fakeReader{root: dir, meta: map[string]tags.Metadata{
		"01.mp3": {Artist: "Moby", Album: "Mix"},
		"02.mp3": {Artist: "DJ Shadow", Album: "Mix"},
		"03.mp3": {Artist: "Moby", Album: "Mix"},
	}}
	tl, err := localscan.NewBuilder(reader).Build(context.Background(), dir)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if tl.Artist != "Moby, DJ Shadow" || len(tl.Artists) != 2 {
		t.Fatalf("unexpected artists: %q %v", tl.Artist, tl.Artists)
	}
}

func TestBuildDiscFromSubdirectories(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "CD1/a.flac", "CD1/b.flac", "CD2/a.flac")
	meta := map[string]tags.Metadata{}
	for _, name := range []string{"CD1/a.flac", "CD1/b.flac", "CD2/a.flac"} {
		meta[name] = tags.Metadata{Artist: "X", Album: "Y"}
	}
	reader := &fakeReader{root: dir, meta: meta}

	tl, err := localscan.NewBuilder(reader).Build(context.Background(), dir)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	got := make([]string, 0, len(tl.Tracks))
	for _, tr := range tl.Tracks {
		got = append(got, tr.Position)
	}
	if strings.Join(got, ",") != "1-1,1-2,2-1" {
		t.Fatalf("unexpected positions: %v", got)
	}
	if tl.DiscHint != 2 {
		t.Fatalf("disc hint = %d, want 2", tl.DiscHint)
	}
}

func TestBuildDiscFromTags(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "01.flac", "02.flac")
	reader := &fakeReader{root: dir, meta: map[string]tags.Metadata{
		"01.flac": {Artist: "X", Album: "Y", Disc: 2, Track: "7"},
		"02.flac": {Artist: "X", Album: "Y", Disc: 2},
	}}
	tl, err := localscan.NewBuilder(reader).Build(context.Background(), dir)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if tl.Tracks[0].Position != "2-7" || tl.Tracks[1].Position != "2-2" {
		t.Fatalf("unexpected positions: %q %q", tl.Tracks[0].Position, tl.Tracks[1].Position)
	}
}

func TestBuildKeepsVinylSideNumbers(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a1.flac", "a2.flac")
	reader := &fakeReader{root: dir, meta: map[string]tags.Metadata{
		"a1.flac": {Artist: "X", Album: "Y", Track: "A1"},
		"a2.flac": {Artist: "X", Album: "Y", Track: "A2"},
	}}
	tl, err := localscan.NewBuilder(reader).Build(context.Background(), dir)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if tl.Tracks[0].TrackOverride != "A1" || tl.Tracks[0].Position != "A1" || !tl.HasTrackOverride() {
		t.Fatalf("unexpected override: %+v", tl.Tracks[0])
	}
}

func TestBuildSkipsCueDoneDir(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "01.flac", ".cue/image.flac")
	reader := &fakeReader{root: dir, meta: map[string]tags.Metadata{"01.flac": {Artist: "X", Album: "Y"}}}
	tl, err := localscan.NewBuilder(reader).Build(context.Background(), dir)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(tl.Tracks) != 1 {
		t.Fatalf("expected cue done dir to be skipped, got %d tracks", len(tl.Tracks))
	}
}

func TestBuildErrors(t *testing.T) {
	empty := t.TempDir()
	writeFiles(t, empty, "readme.txt")
	if _, err := localscan.NewBuilder(&fakeReader{root: empty}).Build(context.Background(), empty); !errors.Is(err, localscan.ErrNoAudioFiles) {
		t.Fatalf("expected ErrNoAudioFiles, got %v", err)
	}

	dir := t.TempDir()
	writeFiles(t, dir, "01.wv")
	reader := &fakeReader{root: dir, err: map[string]error{"01.wv": fmt.Errorf("%w: 01.wv", tags.ErrNoDuration)}}
	if _, err := localscan.NewBuilder(reader).Build(context.Background(), dir); !errors.Is(err, tags.ErrNoDuration) {
		t.Fatalf("expected ErrNoDuration, got %v", err)
	}
}

func TestBuildParsesNamesWhenUntagged(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "Boards_of_Canada", "1998 - Music Has the Right to Children")
	writeFiles(t, dir, "01 Wildlife Analysis.flac", "02 An Eagle in Your Mind.flac")

	b := localscan.NewBuilder(&fakeReader{root: dir}, localscan.WithLibraryRoot(root))
	tl, err := b.Build(context.Background(), dir)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if tl.Artist != "Boards of Canada" || tl.Album != "Music Has the Right to Children" || tl.Year != 1998 {
		t.Fatalf("unexpected parsed fields: artist=%q album=%q year=%d", tl.Artist, tl.Album, tl.Year)
	}
	if tl.Tracks[0].Title != "Wildlife Analysis" || tl.Tracks[0].Artist != "Boards of Canada" || tl.Tracks[0].TrackOverride != "" {
		t.Fatalf("unexpected first track: %+v", tl.Tracks[0])
	}
}

func TestBuildParsesSingleSegmentVinyl(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "Burial - Untrue (Vinyl)")
	writeFiles(t, dir, "A1 Burial - Archangel.flac", "B1 Burial - Near Dark.flac")

	b := localscan.NewBuilder(&fakeReader{root: dir}, localscan.WithLibraryRoot(root))
	tl, err := b.Build(context.Background(), dir)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if tl.MediaHint != "vinyl" || tl.Artist != "Burial" || tl.Album != "Untrue (Vinyl)" {
		t.Fatalf("unexpected parsed fields: %+v", tl)
	}
	if tl.Tracks[0].TrackOverride != "A1" || tl.Tracks[0].Title != "Archangel" || tl.Tracks[1].Artist != "Burial" {
		t.Fatalf("unexpected tracks: %+v", tl.Tracks)
	}
	if !tl.IsVinyl() {
		t.Fatal("expected vinyl hint")
	}
}

func TestBuildFailsWithoutAnyNames(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "2001")
	writeFiles(t, dir, "x.flac")

	b := localscan.NewBuilder(&fakeReader{root: dir}, localscan.WithLibraryRoot(root))
	if _, err := b.Build(context.Background(), dir); !errors.Is(err, localscan.ErrNoLocalMetadata) {
		t.Fatalf("expected ErrNoLocalMetadata, got %v", err)
	}
}

func TestAlbumDirs(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"A/Album One/01.flac",
		"B/Album Two/CD1/01.flac",
		"B/Album Two/Disc 2/01.flac",
		"C/empty/readme.txt",
		"D/Spaced/Disc  2/01.flac",
		".cue/image.flac",
	)
	got := mustList(t, func() ([]string, error) {
		return localscan.NewBuilder(nil).AlbumDirs(root)
	})
	// "Disc  2" yields no disc number when building, so it is not folded
	// into its parent either.
	want := []string{
		filepath.Join(root, "A", "Album One"),
		filepath.Join(root, "B", "Album Two"),
		filepath.Join(root, "D", "Spaced", "Disc  2"),
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("AlbumDirs = %v, want %v", got, want)
	}
}
