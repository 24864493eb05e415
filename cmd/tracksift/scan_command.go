package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tracksift/internal/matcher"
)

type scanTrackView struct {
	Ordinal       int     `json:"ordinal"`
	Position      string  `json:"position"`
	Title         string  `json:"title"`
	Artist        string  `json:"artist,omitempty"`
	Duration      float64 `json:"duration"`
	TrackOverride string  `json:"track_override,omitempty"`
}

type searchTermsView struct {
	Artist   string `json:"artist"`
	Release  string `json:"release"`
	Combined string `json:"combined"`
}

type scanView struct {
	SourceDir   string              `json:"source_dir"`
	Artist      string              `json:"artist"`
	AlbumArtist string              `json:"album_artist,omitempty"`
	Album       string              `json:"album"`
	Year        int                 `json:"year,omitempty"`
	DiscHint    int                 `json:"disc_hint,omitempty"`
	MediaHint   string              `json:"media_hint,omitempty"`
	Vinyl       bool                `json:"vinyl"`
	Terms       searchTermsView     `json:"search_terms"`
	Tracks      []scanTrackView     `json:"tracks"`
}

func newScanCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Show the local tracklist and search terms without querying Discogs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(args[0])
			if err != nil {
				return err
			}
			builder, err := ctx.newBuilder()
			if err != nil {
				return err
			}
			tl, err := builder.Build(cmd.Context(), dir)
			if err != nil {
				return fmt.Errorf("scan %s: %w", dir, err)
			}

			view := newScanView(tl)
			if jsonOutput {
				return writeJSON(cmd, view)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderKeyValues([][2]string{
				{"Directory", view.SourceDir},
				{"Artist", view.Artist},
				{"Album artist", view.AlbumArtist},
				{"Album", view.Album},
				{"Year", optionalInt(view.Year)},
				{"Disc hint", optionalInt(view.DiscHint)},
				{"Vinyl", yesNo(view.Vinyl)},
				{"Query (artist)", view.Terms.Artist},
				{"Query (release)", view.Terms.Release},
				{"Query (combined)", view.Terms.Combined},
			}))

			rows := make([][]string, 0, len(view.Tracks))
			for _, t := range view.Tracks {
				rows = append(rows, []string{
					strconv.Itoa(t.Ordinal),
					t.Position,
					t.Title,
					t.Artist,
					formatDuration(t.Duration),
					t.TrackOverride,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Position", "Title", "Artist", "Length", "Track"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newScanView(tl matcher.LocalTracklist) scanView {
	terms := matcher.BuildSearchTerms(tl)
	view := scanView{
		SourceDir:   tl.SourceDir,
		Artist:      strings.TrimSpace(tl.Artist),
		AlbumArtist: tl.AlbumArtist,
		Album:       tl.Album,
		Year:        tl.Year,
		DiscHint:    tl.DiscHint,
		MediaHint:   tl.MediaHint,
		Vinyl:       tl.IsVinyl(),
		Terms:       searchTermsView{Artist: terms.Artist, Release: terms.Release, Combined: terms.Combined},
		Tracks:      make([]scanTrackView, 0, len(tl.Tracks)),
	}
	for _, t := range tl.Tracks {
		view.Tracks = append(view.Tracks, scanTrackView{
			Ordinal:       t.Ordinal,
			Position:      t.Position,
			Title:         t.Title,
			Artist:        t.Artist,
			Duration:      t.Duration,
			TrackOverride: t.TrackOverride,
		})
	}
	return view
}

func optionalInt(v int) string {
	if v == 0 {
		return "-"
	}
	return strconv.Itoa(v)
}
