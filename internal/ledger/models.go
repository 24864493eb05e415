package ledger

import "time"

// Status is the recorded outcome for a source directory.
type Status string

const (
	StatusMatched Status = "matched"
	StatusNoMatch Status = "no_match"
	StatusFailed  Status = "failed"
)

// ParseStatus validates a status name.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusMatched, StatusNoMatch, StatusFailed:
		return Status(s), true
	}
	return "", false
}

// Entry is one ledger row.
type Entry struct {
	SourceDir string
	ReleaseID int64
	Title     string
	Score     float64
	Strategy  string
	Rule      string
	Status    Status
	Error     string
	RunID     string
	UpdatedAt time.Time
}
