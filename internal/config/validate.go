package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable. It does not require a Discogs
// token; commands that reach the catalog call RequireDiscogsToken.
func (c *Config) Validate() error {
	if err := c.validateDiscogs(); err != nil {
		return err
	}
	if err := c.validateRateLimit(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateNotifications()
}

func (c *Config) validateDiscogs() error {
	if !strings.HasPrefix(c.Discogs.BaseURL, "http://") && !strings.HasPrefix(c.Discogs.BaseURL, "https://") {
		return fmt.Errorf("discogs.base_url must be an http(s) URL, got %q", c.Discogs.BaseURL)
	}
	if c.Discogs.RequestTimeout < 0 {
		return errors.New("discogs.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateRateLimit() error {
	if c.RateLimit.CooldownSeconds < 0 {
		return errors.New("rate_limit.cooldown_seconds must not be negative")
	}
	if c.RateLimit.PauseSeconds < 0 {
		return errors.New("rate_limit.pause_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateMatching() error {
	if c.Matching.ToleranceSeconds < 0 {
		return errors.New("matching.tolerance_seconds must not be negative")
	}
	if c.Matching.ScanLimit < 0 {
		return errors.New("matching.scan_limit must not be negative")
	}
	if c.Matching.TitleSimilarity < 0 || c.Matching.TitleSimilarity > 1 {
		return errors.New("matching.title_similarity must be between 0 and 1")
	}
	for _, s := range c.Matching.Strategies {
		switch s {
		case StrategyAll, StrategyMaster, StrategyArtist, StrategyTitle:
		default:
			return fmt.Errorf("matching.strategies: unknown strategy %q (want all, master, artist or title)", s)
		}
	}
	return nil
}

func (c *Config) validateScan() error {
	if strings.ContainsAny(c.Scan.DoneFile, `/\`) {
		return errors.New("scan.done_file must be a bare file name")
	}
	if strings.ContainsAny(c.Scan.CueDoneDir, `/\`) {
		return errors.New("scan.cue_done_dir must be a bare directory name")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateNotifications() error {
	topic := c.Notifications.NtfyTopic
	if topic != "" && !strings.HasPrefix(topic, "http://") && !strings.HasPrefix(topic, "https://") {
		return fmt.Errorf("notifications.ntfy_topic must be a full http(s) URL, got %q", topic)
	}
	if c.Notifications.RequestTimeout < 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}
