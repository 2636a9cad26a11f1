// Package config loads the settings of the pstats tool from an optional YAML
// file, a .env file and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/etnz/stockstats/date"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store kinds.
const (
	StoreCSV    = "csv"
	StoreSQLite = "sqlite"
)

// Source kinds.
const (
	SourceYahoo = "yahoo"
	SourceEODHD = "eodhd"
)

// Config holds the pstats settings.
type Config struct {
	// DataDir holds price files, the SQLite database and refreshed index
	// lists.
	DataDir    string `yaml:"data_dir"`
	Store      string `yaml:"store"`
	SQLitePath string `yaml:"sqlite_path"`
	Source     string `yaml:"source"`
	EODHDKey   string `yaml:"eodhd_api_key"`

	// StartDate is the first day fetched for a new ticker.
	StartDate string `yaml:"start_date"`

	// LookbackYears is the default CAGR look-back.
	LookbackYears  int    `yaml:"lookback_years"`
	FrontierPoints int    `yaml:"frontier_points"`
	Workers        int    `yaml:"workers"`
	LogLevel       string `yaml:"log_level"`

	// Schedule is a cron spec for the update command, empty to run once.
	Schedule string `yaml:"schedule"`
}

// Load reads the YAML file at path, when it exists, then applies defaults and
// environment overrides. A .env file in the working directory is loaded in
// the environment first.
func Load(path string) (Config, error) {
	// .env is optional.
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config yaml: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg = applyEnv(cfg)
	cfg = applyDefaults(cfg)
	return cfg, cfg.Validate()
}

func applyDefaults(cfg Config) Config {
	if cfg.DataDir == "" {
		cfg.DataDir = "csvs"
	}
	if cfg.Store == "" {
		cfg.Store = StoreCSV
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = filepath.Join(cfg.DataDir, "prices.db")
	}
	if cfg.Source == "" {
		cfg.Source = SourceYahoo
	}
	if cfg.StartDate == "" {
		cfg.StartDate = "2000-01-01"
	}
	if cfg.LookbackYears == 0 {
		cfg.LookbackYears = 10
	}
	if cfg.FrontierPoints == 0 {
		cfg.FrontierPoints = 1000
	}
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg
}

func applyEnv(cfg Config) Config {
	if val := os.Getenv("PSTATS_DATA_DIR"); val != "" {
		cfg.DataDir = val
	}
	if val := os.Getenv("PSTATS_STORE"); val != "" {
		cfg.Store = strings.ToLower(val)
	}
	if val := os.Getenv("PSTATS_SQLITE_PATH"); val != "" {
		cfg.SQLitePath = val
	}
	if val := os.Getenv("PSTATS_SOURCE"); val != "" {
		cfg.Source = strings.ToLower(val)
	}
	if val := os.Getenv("EODHD_API_KEY"); val != "" {
		cfg.EODHDKey = val
	}
	if val := os.Getenv("PSTATS_START_DATE"); val != "" {
		cfg.StartDate = val
	}
	if val := os.Getenv("PSTATS_WORKERS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Workers = n
		}
	}
	if val := os.Getenv("PSTATS_LOG_LEVEL"); val != "" {
		cfg.LogLevel = val
	}
	if val := os.Getenv("PSTATS_SCHEDULE"); val != "" {
		cfg.Schedule = val
	}
	return cfg
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	switch c.Store {
	case StoreCSV, StoreSQLite:
	default:
		return fmt.Errorf("unknown store %q, use %s or %s", c.Store, StoreCSV, StoreSQLite)
	}
	switch c.Source {
	case SourceYahoo, SourceEODHD:
	default:
		return fmt.Errorf("unknown source %q, use %s or %s", c.Source, SourceYahoo, SourceEODHD)
	}
	if _, err := date.Parse(c.StartDate); err != nil {
		return fmt.Errorf("invalid start_date: %w", err)
	}
	if c.LookbackYears < 1 {
		return fmt.Errorf("lookback_years must be positive, got %d", c.LookbackYears)
	}
	return nil
}

// Start returns the parsed StartDate.
func (c Config) Start() date.Date {
	d, _ := date.Parse(c.StartDate)
	return d
}

// CatalogDir is where refreshed index lists are kept.
func (c Config) CatalogDir() string { return filepath.Join(c.DataDir, "indices") }

// CacheDir is where HTTP responses are cached.
func (c Config) CacheDir() string { return filepath.Join(c.DataDir, ".cache") }
