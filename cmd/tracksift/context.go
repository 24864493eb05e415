package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"tracksift/internal/batch"
	"tracksift/internal/catalog/discogs"
	"tracksift/internal/config"
	"tracksift/internal/deps"
	"tracksift/internal/ledger"
	"tracksift/internal/localscan"
	"tracksift/internal/logging"
	"tracksift/internal/matcher"
	"tracksift/internal/media/tags"
	"tracksift/internal/ratelimit"
	"tracksift/internal/services"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	limiterOnce sync.Once
	limiter     *ratelimit.Limiter
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.configPath, c.configExists = resolved, exists
		if c.logLevelFlag != nil {
			if level := strings.TrimSpace(*c.logLevelFlag); level != "" {
				if _, err := logging.ParseLevel(level); err != nil {
					c.configErr = err
					return
				}
				cfg.Logging.Level = strings.ToLower(level)
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// sharedLimiter returns the one limiter every catalog client of this process
// goes through.
func (c *commandContext) sharedLimiter(cfg *config.Config, logger *slog.Logger) *ratelimit.Limiter {
	c.limiterOnce.Do(func() {
		c.limiter = ratelimit.New(cfg.Cooldown(), cfg.Pause(), ratelimit.WithLogger(logger))
	})
	return c.limiter
}

func (c *commandContext) newCatalog() (*discogs.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireDiscogsToken(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "cli", "discogs client", "", err)
	}
	return discogs.New(
		cfg.Discogs.Token,
		cfg.Discogs.BaseURL,
		cfg.Discogs.UserAgent,
		discogs.WithLimiter(c.sharedLimiter(cfg, logger)),
		discogs.WithTimeout(cfg.RequestTimeout()),
	)
}

func (c *commandContext) newBuilder() (*localscan.Builder, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	reader := tags.NewReader(deps.ResolveFFprobePath(cfg.Scan.FFprobeBinary), tags.WithLogger(logger))
	return localscan.NewBuilderFromConfig(cfg, reader, logger), nil
}

// newRunner wires the scanner, catalog client and engine. store may be nil.
func (c *commandContext) newRunner(store *ledger.Store) (*batch.Runner, *discogs.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}
	client, err := c.newCatalog()
	if err != nil {
		return nil, nil, err
	}
	builder, err := c.newBuilder()
	if err != nil {
		return nil, nil, err
	}
	engine := matcher.NewEngine(client, matcher.PolicyFromConfig(cfg), logger)
	return batch.NewRunner(cfg, builder, engine, client, store, logger), client, nil
}

func (c *commandContext) openLedger() (*ledger.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := ledger.Open(cfg.LedgerPath())
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	return store, nil
}

// resolveDir expands and absolutizes a directory argument so ledger keys are
// stable regardless of the working directory.
func resolveDir(arg string) (string, error) {
	path, err := config.ExpandPath(strings.TrimSpace(arg))
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", arg, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("inspect path %q: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", abs)
	}
	return abs, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
