package config

const (
	defaultConfigPath       = "~/.config/tracksift/config.toml"
	defaultStateDir         = "~/.local/share/tracksift"
	defaultLogDir           = "~/.local/share/tracksift/logs"
	defaultDiscogsBaseURL   = "https://api.discogs.com"
	defaultDiscogsUserAgent = "tracksift/dev +https://github.com/tracksift/tracksift"
	defaultRequestTimeout   = 30
	defaultCooldownSeconds  = 5
	defaultPauseSeconds     = 5
	defaultTolerance        = 3.0
	defaultScanLimit        = 25
	defaultTitleSimilarity  = 0.9
	defaultCueDoneDir       = ".cue"
	defaultDoneFile         = "tracksift.done"
	defaultFFprobeBinary    = "ffprobe"
	defaultNtfyTimeout      = 10
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Strategy names accepted in matching.strategies.
const (
	StrategyAll    = "all"
	StrategyMaster = "master"
	StrategyArtist = "artist"
	StrategyTitle  = "title"
)

// DefaultStrategies is the cascade order used when none is configured.
func DefaultStrategies() []string {
	return []string{StrategyAll, StrategyMaster}
}

// DefaultExtensions lists the audio file extensions scanned by default.
func DefaultExtensions() []string {
	return []string{".flac", ".mp3", ".ape", ".wav", ".wv", ".m4a", ".ogg"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Discogs: Discogs{
			BaseURL:        defaultDiscogsBaseURL,
			UserAgent:      defaultDiscogsUserAgent,
			RequestTimeout: defaultRequestTimeout,
		},
		RateLimit: RateLimit{
			CooldownSeconds: defaultCooldownSeconds,
			PauseSeconds:    defaultPauseSeconds,
		},
		Matching: Matching{
			ToleranceSeconds: defaultTolerance,
			Strategies:       DefaultStrategies(),
			ScanLimit:        defaultScanLimit,
			TitleSimilarity:  defaultTitleSimilarity,
		},
		Scan: Scan{
			Extensions:    DefaultExtensions(),
			CueDoneDir:    defaultCueDoneDir,
			DoneFile:      defaultDoneFile,
			FFprobeBinary: defaultFFprobeBinary,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeout,
		},
	}
}
