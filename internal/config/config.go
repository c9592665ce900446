// Package config provides configuration management for the courtbot crawler.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/codeforbtv/courtbot-vt/internal/logger"
)

// Configuration validation errors.
var (
	ErrMissingRootURL       = errors.New("calendar_root_url is required")
	ErrInvalidURLPattern    = errors.New("calendar_url_pattern is not a valid regular expression")
	ErrMissingRepoPath      = errors.New("local_calendar_repo_path is required")
	ErrInvalidConcurrency   = errors.New("crawl.concurrency must be at least 1")
	ErrInvalidTimeout       = errors.New("crawl.timeout must be positive")
	ErrInvalidDocstore      = errors.New("docstore.driver must be one of: sqlite3, mysql")
	ErrMissingDocstoreDSN   = errors.New("docstore.dsn is required when docstore.driver is set")
	ErrInvalidDocstoreTable = errors.New("docstore.table must be a plain identifier")
	ErrInvalidLogLevel      = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Environment variables that override file settings.
const (
	EnvDocstoreDSN = "COURTBOT_DOCSTORE_DSN"
	EnvLogLevel    = "COURTBOT_LOG_LEVEL"
)

var tableNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config represents the complete crawler configuration.
type Config struct {
	CalendarRootURL       string         `yaml:"calendar_root_url"`
	CalendarURLPattern    string         `yaml:"calendar_url_pattern"`
	LocalCalendarRepoPath string         `yaml:"local_calendar_repo_path"`
	CalendarRepo          string         `yaml:"calendar_repo"`
	GithubOrganization    string         `yaml:"github_organization"`
	GithubBranch          string         `yaml:"github_branch"`
	GithubLinkStub        string         `yaml:"github_link_stub"`
	Crawl                 CrawlConfig    `yaml:"crawl"`
	Docstore              DocstoreConfig `yaml:"docstore"`
	Logging               LoggingConfig  `yaml:"logging"`
	Metrics               MetricsConfig  `yaml:"metrics"`
}

// CrawlConfig controls how calendar pages are fetched.
type CrawlConfig struct {
	Concurrency int           `yaml:"concurrency"`
	Timeout     time.Duration `yaml:"timeout"`
	UserAgent   string        `yaml:"user_agent"`
}

// DocstoreConfig selects the SQL database per-docket documents are upserted into.
// An empty driver disables the document store.
type DocstoreConfig struct {
	Driver string `yaml:"driver"` // sqlite3 | mysql
	DSN    string `yaml:"dsn"`
	Table  string `yaml:"table"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// MetricsConfig controls the Prometheus endpoint. An empty address disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// DefaultDir returns the directory holding the default config file.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".courtbot-vt"
	}
	return filepath.Join(home, ".courtbot-vt")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// Default returns the configuration written by WriteDefault.
func Default() *Config {
	cfg := &Config{
		CalendarRootURL:    "https://www.vermontjudiciary.org/court-calendars",
		CalendarURLPattern: `^https://www\.vermontjudiciary\.org/courts/court-calendars/.+\.htm$`,
		CalendarRepo:       "court-calendars",
		GithubOrganization: "codeforbtv",
		GithubBranch:       "dev",
		GithubLinkStub:     "https://raw.githubusercontent.com",
		Docstore: DocstoreConfig{
			Table: "court_events",
		},
		Logging: LoggingConfig{Level: "info"},
	}
	cfg.applyDefaults()

	home, err := os.UserHomeDir()
	if err == nil {
		cfg.LocalCalendarRepoPath = filepath.Join(home, cfg.GithubOrganization, cfg.CalendarRepo)
	}
	return cfg
}

// applyDefaults fills in zero values that have sensible defaults.
func (c *Config) applyDefaults() {
	if c.Crawl.Concurrency == 0 {
		c.Crawl.Concurrency = 4
	}
	if c.Crawl.Timeout == 0 {
		c.Crawl.Timeout = 30 * time.Second
	}
	if c.Crawl.UserAgent == "" {
		c.Crawl.UserAgent = "courtbot-vt/1.0 (github.com/codeforbtv/courtbot-vt)"
	}
	if c.Docstore.Table == "" {
		c.Docstore.Table = "court_events"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// applyEnv lets environment variables override file settings.
func (c *Config) applyEnv() {
	if dsn := os.Getenv(EnvDocstoreDSN); dsn != "" {
		c.Docstore.DSN = dsn
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Logging.Level = level
	}
}

// LoadConfig loads configuration from YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	cfg.LocalCalendarRepoPath = expandHome(cfg.LocalCalendarRepoPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// SaveConfig saves configuration to YAML file, creating its directory.
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// WriteDefault writes the default configuration to path.
func WriteDefault(path string) error {
	return Default().SaveConfig(path)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.CalendarRootURL == "" {
		return ErrMissingRootURL
	}

	if c.CalendarURLPattern != "" {
		if _, err := regexp.Compile(c.CalendarURLPattern); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidURLPattern, err)
		}
	}

	if c.LocalCalendarRepoPath == "" {
		return ErrMissingRepoPath
	}

	if c.Crawl.Concurrency < 1 {
		return ErrInvalidConcurrency
	}

	if c.Crawl.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	switch c.Docstore.Driver {
	case "":
	case "sqlite3", "mysql":
		if c.Docstore.DSN == "" {
			return ErrMissingDocstoreDSN
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidDocstore, c.Docstore.Driver)
	}

	if !tableNameRegex.MatchString(c.Docstore.Table) {
		return ErrInvalidDocstoreTable
	}

	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return ErrInvalidLogLevel
	}

	return nil
}

// URLPattern returns the compiled calendar URL filter, or nil if none is set.
func (c *Config) URLPattern() *regexp.Regexp {
	if c.CalendarURLPattern == "" {
		return nil
	}
	return regexp.MustCompile(c.CalendarURLPattern)
}

// RunDir returns the directory a crawl on the given date writes into.
func (c *Config) RunDir(date time.Time) string {
	return filepath.Join(c.LocalCalendarRepoPath, date.Format("2006-01-02"))
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{RootURL: %s, Repo: %s, Concurrency: %d, Docstore: %s}",
		c.CalendarRootURL,
		c.LocalCalendarRepoPath,
		c.Crawl.Concurrency,
		c.Docstore.Driver,
	)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
