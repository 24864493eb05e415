package position

import (
	"errors"
	"testing"
)

func TestParsePlainNumbers(t *testing.T) {
	for _, raw := range []string{"1", "5", "12", "A1", "B2", ""} {
		info, err := Parse(raw)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", raw, err)
		}
		if info.Disc != "1" || info.Track != raw {
			t.Fatalf("Parse(%q) = %+v, want disc 1 track %q", raw, info, raw)
		}
	}
}

func TestParseHyphenatedSchemes(t *testing.T) {
	tests := []struct {
		raw   string
		disc  string
		track string
		num   int
		label bool
	}{
		{"CD2-05", "2", "05", 2, false},
		{"CD01-12", "01", "12", 1, false},
		{"2-05", "2", "05", 2, false},
		{"CD-3", "CD", "3", 0, true},
		{"USB-Stick-12", "USB-Stick", "12", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			first, err := Parse(tt.raw)
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			again, _ := Parse(tt.raw)
			if first != again {
				t.Fatalf("Parse not deterministic: %+v vs %+v", first, again)
			}
			if first.Disc != tt.disc || first.Track != tt.track {
				t.Fatalf("Parse(%q) = %+v", tt.raw, first)
			}
			if first.IsMediaLabel() != tt.label {
				t.Fatalf("IsMediaLabel = %v, want %v", first.IsMediaLabel(), tt.label)
			}
			if n, ok := first.DiscNumber(); !tt.label && (!ok || n != tt.num) {
				t.Fatalf("DiscNumber = %d,%v want %d", n, ok, tt.num)
			}
		})
	}
}

func TestParseRejectsUnknownHyphenation(t *testing.T) {
	for _, raw := range []string{"A-1", "1-B", "Side-A", "1-2-3"} {
		_, err := Parse(raw)
		if !errors.Is(err, ErrUnparsable) {
			t.Fatalf("Parse(%q) error = %v, want ErrUnparsable", raw, err)
		}
		var perr *Error
		if !errors.As(err, &perr) || perr.Raw != raw {
			t.Fatalf("expected *Error carrying %q, got %v", raw, err)
		}
	}
}

func TestIsHeading(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  bool
	}{
		{"typed heading", Entry{Position: "", Title: "Disc One", Type: "heading"}, true},
		{"untyped subtitle", Entry{Title: "Bonus Material"}, true},
		{"regular track", Entry{Position: "1", Title: "Intro", Duration: "1:00", Type: "track"}, false},
		{"track without duration", Entry{Position: "2", Title: "Hidden"}, false},
		{"empty row", Entry{}, false},
	}
	for _, tt := range tests {
		if got := IsHeading(tt.entry); got != tt.want {
			t.Errorf("%s: IsHeading = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNonAudioMarkers(t *testing.T) {
	if !IsNonAudio("DVD-1") || !IsNonAudio("Video 2") || !IsNonAudio("1-BD") || !IsNonAudio("Blu-Ray-4") {
		t.Fatal("expected mapping exclusions to match")
	}
	if IsNonAudio("CD1-1") {
		t.Fatal("audio position flagged as non-audio")
	}
	if IsNonAudioForComparison("BD-1") {
		t.Fatal("comparison exclusions should not include BD")
	}
	if !IsNonAudioForComparison("DVD-1") {
		t.Fatal("comparison exclusions should include DVD")
	}
}

func TestSequenceMultiDisc(t *testing.T) {
	entries := []Entry{
		{Title: "The First Disc", Type: "heading"},
		{Position: "1-1", Title: "One"},
		{Position: "1-2", Title: "Two"},
		{Position: "DVD-1", Title: "Clip"},
		{Position: "2-1", Title: "Three"},
		{Position: "2-2", Title: "Four"},
	}
	discs, err := Sequence(entries)
	if err != nil {
		t.Fatalf("Sequence error: %v", err)
	}
	if len(discs) != 2 {
		t.Fatalf("expected 2 discs, got %d", len(discs))
	}
	if discs[0].Subtitle != "The First Disc" {
		t.Fatalf("subtitle = %q", discs[0].Subtitle)
	}
	second := discs[1]
	if second.Number != 2 || len(second.Tracks) != 2 {
		t.Fatalf("unexpected second disc %+v", second)
	}
	if second.Tracks[0].Number != 1 || second.Tracks[0].Index != 4 {
		t.Fatalf("track numbering did not restart: %+v", second.Tracks[0])
	}
	if TrackCount(discs) != 4 {
		t.Fatalf("TrackCount = %d", TrackCount(discs))
	}
}

func TestSequenceMediaLabels(t *testing.T) {
	entries := []Entry{
		{Position: "CD-1", Title: "a"},
		{Position: "CD-2", Title: "b"},
		{Position: "USB-Stick-1", Title: "c"},
		{Position: "USB-Stick-2", Title: "d"},
	}
	discs, err := Sequence(entries)
	if err != nil {
		t.Fatalf("Sequence error: %v", err)
	}
	if len(discs) != 2 {
		t.Fatalf("expected 2 disc groups, got %+v", discs)
	}
	if discs[0].Number != 1 || discs[0].MediaType != "CD" {
		t.Fatalf("first group = %+v", discs[0])
	}
	if discs[1].Number != 2 || discs[1].MediaType != "USB-Stick" {
		t.Fatalf("second group = %+v", discs[1])
	}
	if discs[1].Tracks[1].Number != 2 || discs[1].Tracks[1].RealNumber != "2" {
		t.Fatalf("unexpected track %+v", discs[1].Tracks[1])
	}
}

func TestSequenceVinylSides(t *testing.T) {
	discs, err := Sequence([]Entry{{Position: "A1", Title: "x"}, {Position: "A2", Title: "y"}, {Position: "B1", Title: "z"}})
	if err != nil {
		t.Fatalf("Sequence error: %v", err)
	}
	if len(discs) != 1 || len(discs[0].Tracks) != 3 {
		t.Fatalf("unexpected discs %+v", discs)
	}
	last := discs[0].Tracks[2]
	if last.Number != 3 || last.RealNumber != "B1" {
		t.Fatalf("unexpected vinyl numbering %+v", last)
	}
}

func TestSequenceFailsOnUnparsable(t *testing.T) {
	_, err := Sequence([]Entry{{Position: "1", Title: "ok"}, {Position: "Side-A", Title: "Broken"}})
	if !errors.Is(err, ErrUnparsable) {
		t.Fatalf("expected ErrUnparsable, got %v", err)
	}
	var perr *Error
	if !errors.As(err, &perr) || perr.Context == "" {
		t.Fatalf("expected context on position error, got %v", err)
	}
}
