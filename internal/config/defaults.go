package config

const (
	defaultDownloadDir        = "~/.local/share/quarry/exports"
	defaultStateDir           = "~/.local/share/quarry"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultTimeoutSeconds     = 30
	defaultUserAgent          = "quarry/dev"
	defaultPollIntervalMillis = 1500
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		API: API{
			TimeoutSeconds: defaultTimeoutSeconds,
			UserAgent:      defaultUserAgent,
		},
		Paths: Paths{
			DownloadDir: defaultDownloadDir,
			StateDir:    defaultStateDir,
		},
		Polling: Polling{
			IntervalMillis: defaultPollIntervalMillis,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
