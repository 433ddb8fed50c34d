package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Server holds the HTTP surface settings
type Server struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
	// RequestTimeout caps one stream lookup. The pipeline itself never times out.
	RequestTimeout Duration `toml:"request_timeout"`
}

// Upstream holds the base URLs of the three read-only services
type Upstream struct {
	CinemetaURL string `toml:"cinemeta_url"`
	ArchiveURL  string `toml:"archive_url"`
}

// Archive holds the search constraints
type Archive struct {
	MaxCandidates int   `toml:"max_candidates"`
	MinItemSize   int64 `toml:"min_item_size"`
	MaxItemSize   int64 `toml:"max_item_size"`
	// Concurrency > 1 fans candidate listings out while keeping search order.
	Concurrency int `toml:"concurrency"`
}

// Classifier holds the file classification heuristics
type Classifier struct {
	VideoExtensions      []string `toml:"video_extensions"`
	SubtitleExtensions   []string `toml:"subtitle_extensions"`
	SubtitleLanguage     string   `toml:"subtitle_language"`
	SubtitleRuntimeRatio float64  `toml:"subtitle_runtime_ratio"`
	WebReadyExtension    string   `toml:"web_ready_extension"`
}

// Log holds logger settings
type Log struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}

type Config struct {
	Server     Server     `toml:"server"`
	Upstream   Upstream   `toml:"upstream"`
	Archive    Archive    `toml:"archive"`
	Classifier Classifier `toml:"classifier"`
	Log        Log        `toml:"log"`
}

// Duration decodes TOML strings such as "90s" into a time.Duration
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration the addon ships with
func Default() Config {
	return Config{
		Server: Server{
			Host:           "0.0.0.0",
			Port:           7000,
			RequestTimeout: Duration{60 * time.Second},
		},
		Upstream: Upstream{
			CinemetaURL: "https://v3-cinemeta.strem.io",
			ArchiveURL:  "https://archive.org",
		},
		Archive: Archive{
			MaxCandidates: 5,
			MinItemSize:   300000000,
			MaxItemSize:   100000000000,
			Concurrency:   1,
		},
		Classifier: Classifier{
			VideoExtensions:      []string{"avi", "mp4", "mkv", "wmv", "mov", "m4v"},
			SubtitleExtensions:   []string{"srt", "vtt", "ass"},
			SubtitleLanguage:     "en",
			SubtitleRuntimeRatio: 0.7,
			WebReadyExtension:    "mp4",
		},
		Log: Log{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load returns the defaults overlaid with the TOML file at path (if path is non-empty)
// and then with environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyEnv() error {
	c.Server.Host = getEnv("IA_HOST", c.Server.Host)
	c.Upstream.CinemetaURL = getEnv("IA_CINEMETA_URL", c.Upstream.CinemetaURL)
	c.Upstream.ArchiveURL = getEnv("IA_ARCHIVE_URL", c.Upstream.ArchiveURL)
	c.Log.Level = getEnv("IA_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("IA_LOG_FORMAT", c.Log.Format)
	c.Log.File = getEnv("IA_LOG_FILE", c.Log.File)

	var err error
	if c.Server.Port, err = getEnvInt("IA_PORT", c.Server.Port); err != nil {
		return err
	}
	if c.Archive.MaxCandidates, err = getEnvInt("IA_MAX_CANDIDATES", c.Archive.MaxCandidates); err != nil {
		return err
	}
	if c.Archive.Concurrency, err = getEnvInt("IA_CONCURRENCY", c.Archive.Concurrency); err != nil {
		return err
	}
	if value := os.Getenv("IA_REQUEST_TIMEOUT"); value != "" {
		if err := c.Server.RequestTimeout.UnmarshalText([]byte(value)); err != nil {
			return fmt.Errorf("IA_REQUEST_TIMEOUT: %w", err)
		}
	}
	return nil
}

func (c *Config) normalize() {
	c.Upstream.CinemetaURL = strings.TrimRight(strings.TrimSpace(c.Upstream.CinemetaURL), "/")
	c.Upstream.ArchiveURL = strings.TrimRight(strings.TrimSpace(c.Upstream.ArchiveURL), "/")
	c.Classifier.VideoExtensions = lowerAll(c.Classifier.VideoExtensions)
	c.Classifier.SubtitleExtensions = lowerAll(c.Classifier.SubtitleExtensions)
	c.Classifier.WebReadyExtension = strings.ToLower(strings.TrimSpace(c.Classifier.WebReadyExtension))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	if c.Archive.Concurrency < 1 {
		c.Archive.Concurrency = 1
	}
}

// Validate reports every invalid setting as one joined error
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Upstream.CinemetaURL == "" {
		errs = append(errs, errors.New("upstream.cinemeta_url is required"))
	}
	if c.Upstream.ArchiveURL == "" {
		errs = append(errs, errors.New("upstream.archive_url is required"))
	}
	if c.Archive.MaxCandidates < 1 {
		errs = append(errs, fmt.Errorf("archive.max_candidates must be at least 1, got %d", c.Archive.MaxCandidates))
	}
	if c.Archive.MinItemSize >= c.Archive.MaxItemSize {
		errs = append(errs, fmt.Errorf("archive.min_item_size (%d) must be below archive.max_item_size (%d)", c.Archive.MinItemSize, c.Archive.MaxItemSize))
	}
	if len(c.Classifier.VideoExtensions) == 0 {
		errs = append(errs, errors.New("classifier.video_extensions must not be empty"))
	}
	if len(c.Classifier.SubtitleExtensions) == 0 {
		errs = append(errs, errors.New("classifier.subtitle_extensions must not be empty"))
	}
	if c.Classifier.SubtitleRuntimeRatio <= 0 || c.Classifier.SubtitleRuntimeRatio > 1 {
		errs = append(errs, fmt.Errorf("classifier.subtitle_runtime_ratio must be in (0, 1], got %v", c.Classifier.SubtitleRuntimeRatio))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not one of text, json", c.Log.Format))
	}

	return errors.Join(errs...)
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
