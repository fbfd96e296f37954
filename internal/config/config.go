package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// AppName names the per-user configuration directory.
const AppName = "historygen"

// Config holds all historygen configuration.
type Config struct {
	Generator GeneratorConfig `yaml:"generator"`
	Paths     PathsConfig     `yaml:"paths"`
	Favicons  FaviconsConfig  `yaml:"favicons"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type GeneratorConfig struct {
	DaysBack     int      `yaml:"days_back"`
	NumberOfURLs int      `yaml:"number_of_urls"`
	URLFiles     []string `yaml:"url_files"`
	Seed         uint64   `yaml:"seed"`
}

type PathsConfig struct {
	DataDir      string `yaml:"data_dir"`
	TemplatesDir string `yaml:"templates_dir"`
	OutputDir    string `yaml:"output_dir"`
	HistoryFile  string `yaml:"history_file"`
	FaviconsFile string `yaml:"favicons_file"`
}

type FaviconsConfig struct {
	Enabled           bool    `yaml:"enabled"`
	TimeoutSeconds    int     `yaml:"timeout_seconds"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	UserAgent         string  `yaml:"user_agent"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// HistoryTemplate returns the path of the History template database.
func (p PathsConfig) HistoryTemplate() string {
	return filepath.Join(p.TemplatesDir, p.HistoryFile)
}

// FaviconsTemplate returns the path of the Favicons template database.
func (p PathsConfig) FaviconsTemplate() string {
	return filepath.Join(p.TemplatesDir, p.FaviconsFile)
}

// HistoryOutput returns the path of the generated History database.
func (p PathsConfig) HistoryOutput() string {
	return filepath.Join(p.OutputDir, p.HistoryFile)
}

// FaviconsOutput returns the path of the generated Favicons database.
func (p PathsConfig) FaviconsOutput() string {
	return filepath.Join(p.OutputDir, p.FaviconsFile)
}

// URLsDir is where named CSV sources live.
func (p PathsConfig) URLsDir() string {
	return filepath.Join(p.DataDir, "urls")
}

// DefaultConfigPath returns the per-user config file location.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// Load reads a YAML config file at path and merges it with defaults.
// Returns an error if the file cannot be read or contains invalid YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// LoadOrCreate loads the config from the default path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreate() (*Config, error) {
	return LoadOrCreateAt(DefaultConfigPath())
}

// LoadOrCreateAt loads the config from the given path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreateAt(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshaling default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}

		return cfg, nil
	}

	return Load(path)
}

// Validate checks that the configuration can drive a generation run.
func (c *Config) Validate() error {
	if c.Generator.DaysBack <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidDaysBack, c.Generator.DaysBack)
	}
	if c.Generator.NumberOfURLs < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidNumberOfURLs, c.Generator.NumberOfURLs)
	}
	if len(c.Generator.URLFiles) == 0 {
		return ErrNoURLFiles
	}
	if c.Paths.HistoryFile == "" || c.Paths.FaviconsFile == "" {
		return ErrEmptyDatabaseName
	}
	if c.Paths.HistoryFile == c.Paths.FaviconsFile {
		return ErrSameDatabaseName
	}
	if c.Favicons.Enabled && c.Favicons.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidTimeout, c.Favicons.TimeoutSeconds)
	}
	if c.Favicons.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: got %g", ErrInvalidRateLimit, c.Favicons.RequestsPerSecond)
	}
	return nil
}
