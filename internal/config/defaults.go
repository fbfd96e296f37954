package config

// DefaultUserAgent is sent with favicon discovery and download requests.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Generator: GeneratorConfig{
			DaysBack:     7,
			NumberOfURLs: 10,
			URLFiles:     []string{"sample"},
			Seed:         0,
		},
		Paths: PathsConfig{
			DataDir:      "data",
			TemplatesDir: "data/templates",
			OutputDir:    "output",
			HistoryFile:  "History",
			FaviconsFile: "Favicons",
		},
		Favicons: FaviconsConfig{
			Enabled:           true,
			TimeoutSeconds:    30,
			RequestsPerSecond: 2,
			UserAgent:         DefaultUserAgent,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}
