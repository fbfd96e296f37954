package config

import "errors"

var (
	ErrInvalidDaysBack     = errors.New("generator.days_back must be positive")
	ErrInvalidNumberOfURLs = errors.New("generator.number_of_urls must not be negative")
	ErrNoURLFiles          = errors.New("generator.url_files must name at least one CSV source")
	ErrEmptyDatabaseName   = errors.New("paths.history_file and paths.favicons_file must be set")
	ErrSameDatabaseName    = errors.New("paths.history_file and paths.favicons_file must differ")
	ErrInvalidTimeout      = errors.New("favicons.timeout_seconds must be positive")
	ErrInvalidRateLimit    = errors.New("favicons.requests_per_second must not be negative")
)
