package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "HISTORYGEN_"

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are ignored; variables already set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides cfg with HISTORYGEN_* variables from the environment.
func ApplyEnv(cfg *Config) error {
	return applyEnv(cfg, os.LookupEnv)
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	ints := map[string]*int{
		"DAYS_BACK":       &cfg.Generator.DaysBack,
		"NUMBER_OF_URLS":  &cfg.Generator.NumberOfURLs,
		"TIMEOUT_SECONDS": &cfg.Favicons.TimeoutSeconds,
	}
	for key, dst := range ints {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("parsing %s%s: %w", EnvPrefix, key, err)
		}
		*dst = n
	}

	strs := map[string]*string{
		"DATA_DIR":      &cfg.Paths.DataDir,
		"TEMPLATES_DIR": &cfg.Paths.TemplatesDir,
		"OUTPUT_DIR":    &cfg.Paths.OutputDir,
		"USER_AGENT":    &cfg.Favicons.UserAgent,
		"LOG_LEVEL":     &cfg.Logging.Level,
		"LOG_FILE":      &cfg.Logging.File,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}

	if v, ok := lookup(EnvPrefix + "URL_FILES"); ok {
		var files []string
		for _, f := range strings.Split(v, ",") {
			if f = strings.TrimSpace(f); f != "" {
				files = append(files, f)
			}
		}
		cfg.Generator.URLFiles = files
	}

	if v, ok := lookup(EnvPrefix + "SEED"); ok {
		seed, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("parsing %sSEED: %w", EnvPrefix, err)
		}
		cfg.Generator.Seed = seed
	}

	if v, ok := lookup(EnvPrefix + "FAVICONS_ENABLED"); ok {
		enabled, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("parsing %sFAVICONS_ENABLED: %w", EnvPrefix, err)
		}
		cfg.Favicons.Enabled = enabled
	}

	if v, ok := lookup(EnvPrefix + "REQUESTS_PER_SECOND"); ok {
		rps, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("parsing %sREQUESTS_PER_SECOND: %w", EnvPrefix, err)
		}
		cfg.Favicons.RequestsPerSecond = rps
	}

	return nil
}
