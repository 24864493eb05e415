package matcher

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"tracksift/internal/catalog"
	"tracksift/internal/position"
)

// missingDurationPenalty is the per-track difference, in seconds, charged
// when either side has no usable duration.
const missingDurationPenalty = 999.0

// RejectReason explains why a candidate was not accepted.
type RejectReason string

const (
	RejectNone              RejectReason = ""
	RejectNoDurations       RejectReason = "no_durations"
	RejectTrackCount        RejectReason = "track_count_mismatch"
	RejectToleranceExceeded RejectReason = "tolerance_exceeded"
)

// Score is the outcome of comparing a local tracklist with one release.
type Score struct {
	Accepted bool
	// Value is the aggregate duration difference in seconds; lower is better.
	Value  float64
	Reason RejectReason
	// Compared is the number of catalog tracks that took part.
	Compared int
}

var errBadDuration = errors.New("invalid duration")

// NormalizeHMS canonicalizes "S", "M:SS" or "H:MM:SS" into "H:MM:SS".
// Minutes of 60 or more fold into hours, so "75:30" becomes "1:15:30".
func NormalizeHMS(s string) (string, error) {
	secs, err := hmsSeconds(s)
	if err != nil {
		return "", err
	}
	return formatHMS(secs), nil
}

func hmsSeconds(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", errBadDuration)
	}
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", errBadDuration, s)
	}
	total := 0
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q", errBadDuration, s)
		}
		total = total*60 + n
	}
	return total, nil
}

func formatHMS(secs int) string {
	return fmt.Sprintf("%d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}

// ExtractComparable returns the release tracks that take part in duration
// comparison: headings, video entries and rows without a duration are
// dropped.
func ExtractComparable(rel catalog.Release) []catalog.Track {
	out := make([]catalog.Track, 0, len(rel.Tracklist))
	for _, t := range rel.Tracklist {
		if position.IsHeading(t.Entry()) {
			continue
		}
		if position.IsNonAudioForComparison(t.Position) {
			continue
		}
		if strings.TrimSpace(t.Duration) == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Compare scores rel against the local tracks. Tracks are paired by index.
func Compare(local []LocalTrack, rel catalog.Release, tolerance float64) Score {
	remote := ExtractComparable(rel)
	if len(remote) == 0 {
		return Score{Reason: RejectNoDurations}
	}
	if len(remote) != len(local) {
		return Score{Reason: RejectTrackCount, Compared: len(remote)}
	}
	diffs := make([]float64, len(local))
	for i := range local {
		diffs[i] = trackDifference(local[i], remote[i])
	}
	value := aggregate(diffs)
	score := Score{Value: value, Compared: len(remote)}
	if value < tolerance {
		score.Accepted = true
	} else {
		score.Reason = RejectToleranceExceeded
	}
	return score
}

func trackDifference(local LocalTrack, remote catalog.Track) float64 {
	if local.Duration <= 0 {
		return missingDurationPenalty
	}
	remoteSecs, err := hmsSeconds(remote.Duration)
	if err != nil {
		return missingDurationPenalty
	}
	localSecs := int(math.Round(local.Duration))
	return math.Abs(float64(localSecs - remoteSecs))
}

// aggregate folds per-track differences into one score. The accumulator
// only grows by a difference larger than its current value, and the result
// is divided by the track count.
func aggregate(diffs []float64) float64 {
	if len(diffs) == 0 {
		return 0
	}
	acc := 0.0
	for _, d := range diffs {
		if d > acc {
			acc += d
		}
	}
	return acc / float64(len(diffs))
}
