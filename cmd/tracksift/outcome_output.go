package main

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"tracksift/internal/batch"
)

type outcomeView struct {
	SourceDir string  `json:"source_dir"`
	Status    string  `json:"status"`
	Skipped   bool    `json:"skipped,omitempty"`
	ReleaseID int64   `json:"release_id,omitempty"`
	Title     string  `json:"title,omitempty"`
	Score     float64 `json:"score"`
	Strategy  string  `json:"strategy,omitempty"`
	Rule      string  `json:"rule,omitempty"`
	Discs     int     `json:"discs,omitempty"`
	Tracks    int     `json:"tracks,omitempty"`
	Message   string  `json:"message,omitempty"`
}

type summaryView struct {
	RunID    string        `json:"run_id"`
	Matched  int           `json:"matched"`
	NoMatch  int           `json:"no_match"`
	Failed   int           `json:"failed"`
	Skipped  int           `json:"skipped"`
	Elapsed  string        `json:"elapsed"`
	Outcomes []outcomeView `json:"outcomes"`
}

func newOutcomeView(o batch.Outcome) outcomeView {
	status := string(o.Status)
	if o.Skipped {
		status = "skipped"
	}
	return outcomeView{
		SourceDir: o.SourceDir,
		Status:    status,
		Skipped:   o.Skipped,
		ReleaseID: o.ReleaseID,
		Title:     o.Title,
		Score:     o.Score,
		Strategy:  o.Strategy,
		Rule:      o.Rule,
		Discs:     o.Discs,
		Tracks:    o.Tracks,
		Message:   o.Message,
	}
}

func newSummaryView(s batch.Summary) summaryView {
	view := summaryView{
		RunID:    s.RunID,
		Matched:  s.Matched,
		NoMatch:  s.NoMatch,
		Failed:   s.Failed,
		Skipped:  s.Skipped,
		Elapsed:  s.Elapsed.Round(time.Millisecond).String(),
		Outcomes: make([]outcomeView, 0, len(s.Outcomes)),
	}
	for _, o := range s.Outcomes {
		view.Outcomes = append(view.Outcomes, newOutcomeView(o))
	}
	return view
}

func formatReleaseID(id int64) string {
	if id <= 0 {
		return "-"
	}
	return strconv.FormatInt(id, 10)
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 2, 64)
}

// formatDuration renders seconds as m:ss, or h:mm:ss past an hour.
func formatDuration(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	total := int(math.Round(seconds))
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
