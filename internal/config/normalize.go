package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDiscogs()
	c.normalizeMatching()
	c.normalizeScan()
	c.normalizeLogging()
	c.normalizeNotifications()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.SourceDir, err = expandPath(strings.TrimSpace(c.Paths.SourceDir)); err != nil {
		return fmt.Errorf("paths.source_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeDiscogs() {
	c.Discogs.Token = strings.TrimSpace(c.Discogs.Token)
	if c.Discogs.Token == "" {
		if value, ok := os.LookupEnv("DISCOGS_TOKEN"); ok {
			c.Discogs.Token = strings.TrimSpace(value)
		}
	}
	c.Discogs.BaseURL = strings.TrimRight(strings.TrimSpace(c.Discogs.BaseURL), "/")
	if c.Discogs.BaseURL == "" {
		c.Discogs.BaseURL = defaultDiscogsBaseURL
	}
	c.Discogs.UserAgent = strings.TrimSpace(c.Discogs.UserAgent)
	if c.Discogs.UserAgent == "" {
		c.Discogs.UserAgent = defaultDiscogsUserAgent
	}
	if c.Discogs.RequestTimeout == 0 {
		c.Discogs.RequestTimeout = defaultRequestTimeout
	}
}

func (c *Config) normalizeMatching() {
	if c.Matching.ToleranceSeconds == 0 {
		c.Matching.ToleranceSeconds = defaultTolerance
	}
	if c.Matching.ScanLimit == 0 {
		c.Matching.ScanLimit = defaultScanLimit
	}
	if c.Matching.TitleSimilarity == 0 {
		c.Matching.TitleSimilarity = defaultTitleSimilarity
	}
	strategies := make([]string, 0, len(c.Matching.Strategies))
	seen := make(map[string]struct{}, len(c.Matching.Strategies))
	for _, s := range c.Matching.Strategies {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		strategies = append(strategies, s)
	}
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	c.Matching.Strategies = strategies
}

func (c *Config) normalizeScan() {
	exts := make([]string, 0, len(c.Scan.Extensions))
	for _, ext := range c.Scan.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	if len(exts) == 0 {
		exts = DefaultExtensions()
	}
	c.Scan.Extensions = exts
	c.Scan.CueDoneDir = strings.TrimSpace(c.Scan.CueDoneDir)
	if c.Scan.CueDoneDir == "" {
		c.Scan.CueDoneDir = defaultCueDoneDir
	}
	c.Scan.DoneFile = strings.TrimSpace(c.Scan.DoneFile)
	if c.Scan.DoneFile == "" {
		c.Scan.DoneFile = defaultDoneFile
	}
	c.Scan.FFprobeBinary = strings.TrimSpace(c.Scan.FFprobeBinary)
	if c.Scan.FFprobeBinary == "" {
		c.Scan.FFprobeBinary = defaultFFprobeBinary
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout == 0 {
		c.Notifications.RequestTimeout = defaultNtfyTimeout
	}
}
