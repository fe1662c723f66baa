// ABOUTME: footprints configuration file with environment overrides
// ABOUTME: Ingest tuning, gesture timing, display time zone, and logging settings

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Defaults for unset fields.
const (
	DefaultChunkSize   = 10_000
	DefaultDebounceMS  = 300
	DefaultKeyRepeatMS = 100
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "text"
)

// envPrefix prefixes every environment override.
const envPrefix = "FOOTPRINTS_"

// Config stores footprints configuration.
type Config struct {
	// ChunkSize is the number of records ingested per store lock hold.
	ChunkSize int `json:"chunk_size,omitempty"`

	// Workers bounds concurrent file decoding. Zero means one per CPU.
	Workers int `json:"workers,omitempty"`

	// DebounceMS is the quiet period before recomputing during a drag.
	DebounceMS int `json:"debounce_ms,omitempty"`

	// KeyRepeatMS is the interval of held-key repeats.
	KeyRepeatMS int `json:"key_repeat_ms,omitempty"`

	// Timezone is an IANA zone name for labels, or "Local". Defaults to UTC.
	Timezone string `json:"timezone,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty"`

	// LogFormat is "text", "json", or "logfmt".
	LogFormat string `json:"log_format,omitempty"`
}

// Default returns a config with every field set to its default.
func Default() *Config {
	return &Config{
		ChunkSize:   DefaultChunkSize,
		DebounceMS:  DefaultDebounceMS,
		KeyRepeatMS: DefaultKeyRepeatMS,
		Timezone:    "UTC",
		LogLevel:    DefaultLogLevel,
		LogFormat:   DefaultLogFormat,
	}
}

// GetChunkSize returns the configured chunk size, defaulting to 10,000.
func (c *Config) GetChunkSize() int {
	if c.ChunkSize <= 0 {
		return DefaultChunkSize
	}
	return c.ChunkSize
}

// GetWorkers returns the configured worker count; zero means automatic.
func (c *Config) GetWorkers() int {
	return max(c.Workers, 0)
}

// GetDebounce returns the recompute quiet period.
func (c *Config) GetDebounce() time.Duration {
	if c.DebounceMS <= 0 {
		return DefaultDebounceMS * time.Millisecond
	}
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// GetKeyRepeat returns the held-key repeat interval.
func (c *Config) GetKeyRepeat() time.Duration {
	if c.KeyRepeatMS <= 0 {
		return DefaultKeyRepeatMS * time.Millisecond
	}
	return time.Duration(c.KeyRepeatMS) * time.Millisecond
}

// GetLocation resolves the display time zone.
func (c *Config) GetLocation() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// GetLogLevel returns the log level, defaulting to warn.
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return DefaultLogLevel
	}
	return strings.ToLower(c.LogLevel)
}

// GetLogFormat returns the log format, defaulting to text.
func (c *Config) GetLogFormat() string {
	if c.LogFormat == "" {
		return DefaultLogFormat
	}
	return strings.ToLower(c.LogFormat)
}

// Validate checks fields that cannot be defaulted away.
func (c *Config) Validate() error {
	var errs []error
	if c.ChunkSize < 0 {
		errs = append(errs, fmt.Errorf("chunk_size must not be negative"))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative"))
	}
	if _, err := c.GetLocation(); err != nil {
		errs = append(errs, err)
	}
	switch c.GetLogLevel() {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log_level %q", c.LogLevel))
	}
	switch c.GetLogFormat() {
	case "text", "json", "logfmt":
	default:
		errs = append(errs, fmt.Errorf("unknown log_format %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

// ApplyEnv overrides fields from FOOTPRINTS_* environment variables.
func (c *Config) ApplyEnv() error {
	ints := map[string]*int{
		"CHUNK_SIZE":    &c.ChunkSize,
		"WORKERS":       &c.Workers,
		"DEBOUNCE_MS":   &c.DebounceMS,
		"KEY_REPEAT_MS": &c.KeyRepeatMS,
	}
	for name, dst := range ints {
		v, ok := os.LookupEnv(envPrefix + name)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, name, err)
		}
		*dst = n
	}

	strs := map[string]*string{
		"TIMEZONE":   &c.Timezone,
		"LOG_LEVEL":  &c.LogLevel,
		"LOG_FORMAT": &c.LogFormat,
	}
	for name, dst := range strs {
		if v := os.Getenv(envPrefix + name); v != "" {
			*dst = v
		}
	}
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "footprints", "config.json")
}

// Load reads config from path, or from GetConfigPath when path is empty.
// A missing file yields the defaults. Environment overrides are applied
// last.
func Load(path string) (*Config, error) {
	if path == "" {
		path = GetConfigPath()
	}
	path = ExpandPath(path)

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes config to path, or to GetConfigPath when path is empty.
func (c *Config) Save(path string) error {
	if path == "" {
		path = GetConfigPath()
	}
	path = ExpandPath(path)

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return atomicWrite(path, append(data, '\n'))
}

// atomicWrite writes data to a temp file beside path and renames it into place.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}
