package matcher

import (
	"strings"

	"tracksift/internal/config"
)

// Policy holds the tunables for one engine.
type Policy struct {
	// Tolerance is the aggregate score, in seconds, a candidate must stay
	// below to be accepted.
	Tolerance float64
	// Strategies is the cascade order.
	Strategies []string
	// ScanLimit caps the releases examined by the artist and title scans.
	ScanLimit int
	// TitleSimilarity is the Jaro-Winkler threshold for release titles in
	// the artist scan.
	TitleSimilarity float64
}

// DefaultPolicy mirrors the configuration defaults.
func DefaultPolicy() Policy {
	return Policy{
		Tolerance:       3.0,
		Strategies:      config.DefaultStrategies(),
		ScanLimit:       25,
		TitleSimilarity: 0.9,
	}
}

// PolicyFromConfig builds a policy from the [matching] section.
func PolicyFromConfig(cfg *config.Config) Policy {
	if cfg == nil {
		return DefaultPolicy()
	}
	return Policy{
		Tolerance:       cfg.Matching.ToleranceSeconds,
		Strategies:      append([]string(nil), cfg.Matching.Strategies...),
		ScanLimit:       cfg.Matching.ScanLimit,
		TitleSimilarity: cfg.Matching.TitleSimilarity,
	}.normalized()
}

func (p Policy) normalized() Policy {
	def := DefaultPolicy()
	if p.Tolerance <= 0 {
		p.Tolerance = def.Tolerance
	}
	if p.ScanLimit <= 0 {
		p.ScanLimit = def.ScanLimit
	}
	if p.TitleSimilarity <= 0 || p.TitleSimilarity > 1 {
		p.TitleSimilarity = def.TitleSimilarity
	}
	strategies := make([]string, 0, len(p.Strategies))
	for _, s := range p.Strategies {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			strategies = append(strategies, s)
		}
	}
	if len(strategies) == 0 {
		strategies = def.Strategies
	}
	p.Strategies = strategies
	return p
}
