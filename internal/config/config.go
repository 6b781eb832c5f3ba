// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/jeranaias/triage-tui/internal/analysis"
	"github.com/jeranaias/triage-tui/internal/reveal"
	"github.com/jeranaias/triage-tui/internal/session"
	"github.com/jeranaias/triage-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete triage configuration.
type Config struct {
	API     APIConfig     `toml:"api"`
	Reveal  RevealConfig  `toml:"reveal"`
	Session SessionConfig `toml:"session"`
	Storage StorageConfig `toml:"storage"`
	Logging LoggingConfig `toml:"logging"`
	UI      UIConfig      `toml:"ui"`
}

// APIConfig points at the analysis service.
type APIConfig struct {
	BaseURL       string   `toml:"base_url"`
	Timeout       Duration `toml:"timeout"`
	RatePerMinute int      `toml:"rate_per_minute"`
}

// RevealConfig controls the typing animation.
type RevealConfig struct {
	AnalysisInterval Duration `toml:"analysis_interval"`
	ChatInterval     Duration `toml:"chat_interval"`
	CounterInterval  Duration `toml:"counter_interval"`
	CounterMin       int      `toml:"counter_min"`
	CounterMax       int      `toml:"counter_max"`
}

// SessionConfig controls the idle reset of the analysis panel.
type SessionConfig struct {
	// IdleTimeout resets the panel after inactivity; "0s" disables it.
	IdleTimeout Duration `toml:"idle_timeout"`
	IdleWarning Duration `toml:"idle_warning"`
}

// StorageConfig controls the local analysis history.
type StorageConfig struct {
	Enabled     bool   `toml:"enabled"`
	HistoryPath string `toml:"history_path"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// UIConfig controls presentation.
type UIConfig struct {
	Markdown bool   `toml:"markdown"`
	Theme    string `toml:"theme"`
}

// Duration is a time.Duration written as "20ms" or "15m" in TOML.
type Duration struct {
	time.Duration
}

// D wraps a time.Duration.
func D(d time.Duration) Duration {
	return Duration{d}
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Valid values for enumerated settings.
var (
	validThemes    = []string{"auto", "dark", "light"}
	validLogLevels = []string{"debug", "info", "warn", "error"}
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:       analysis.DefaultBaseURL,
			Timeout:       D(30 * time.Second),
			RatePerMinute: 20,
		},
		Reveal: RevealConfig{
			AnalysisInterval: D(reveal.DefaultAnalysisInterval),
			ChatInterval:     D(reveal.DefaultChatInterval),
			CounterInterval:  D(reveal.DefaultCounterInterval),
			CounterMin:       reveal.DefaultCounterMin,
			CounterMax:       reveal.DefaultCounterMax,
		},
		Session: SessionConfig{
			IdleTimeout: D(15 * time.Minute),
			IdleWarning: D(time.Minute),
		},
		Storage: StorageConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		UI: UIConfig{
			Markdown: true,
			Theme:    "auto",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// EnvHome overrides the configuration directory.
const EnvHome = "TRIAGE_HOME"

// ConfigDir returns the triage configuration directory path.
func ConfigDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".triage"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// HistoryPath returns the history database path, resolving the default.
func (c *Config) HistoryPath() (string, error) {
	if c.Storage.HistoryPath != "" {
		return expandHome(c.Storage.HistoryPath)
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// LogPath returns the log file path, resolving the default.
func (c *Config) LogPath() (string, error) {
	if c.Logging.File != "" {
		return expandHome(c.Logging.File)
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "triage.log"), nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads the default config file. A missing file yields the defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads the config at path, applies environment overrides and
// validates the result. A missing file yields the defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if err := LoadTOML(cfg, path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes the file at path over cfg. Keys absent from the file keep
// their current values.
func LoadTOML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration to path atomically with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# triage configuration file\n")
	buf.WriteString("# Durations use Go syntax: 20ms, 30s, 15m.\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// String renders the configuration as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return buf.String()
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// SetDefaults fills zero values that have no meaningful zero.
func (c *Config) SetDefaults() {
	d := Default()

	if c.API.BaseURL == "" {
		c.API.BaseURL = d.API.BaseURL
	}
	if c.API.Timeout.Duration == 0 {
		c.API.Timeout = d.API.Timeout
	}
	if c.Reveal.AnalysisInterval.Duration == 0 {
		c.Reveal.AnalysisInterval = d.Reveal.AnalysisInterval
	}
	if c.Reveal.ChatInterval.Duration == 0 {
		c.Reveal.ChatInterval = d.Reveal.ChatInterval
	}
	if c.Reveal.CounterInterval.Duration == 0 {
		c.Reveal.CounterInterval = d.Reveal.CounterInterval
	}
	if c.Reveal.CounterMin == 0 && c.Reveal.CounterMax == 0 {
		c.Reveal.CounterMin = d.Reveal.CounterMin
		c.Reveal.CounterMax = d.Reveal.CounterMax
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
}

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if u, err := url.Parse(c.API.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "api.base_url",
			Message: fmt.Sprintf("invalid URL '%s', must be http(s)://host[/path]", c.API.BaseURL),
		})
	}
	if c.API.Timeout.Duration < time.Second || c.API.Timeout.Duration > 10*time.Minute {
		errs = append(errs, ValidationError{
			Field:   "api.timeout",
			Message: fmt.Sprintf("%s out of range 1s-10m", c.API.Timeout),
		})
	}
	if c.API.RatePerMinute < 0 {
		errs = append(errs, ValidationError{Field: "api.rate_per_minute", Message: "must not be negative"})
	}

	for field, d := range map[string]Duration{
		"reveal.analysis_interval": c.Reveal.AnalysisInterval,
		"reveal.chat_interval":     c.Reveal.ChatInterval,
		"reveal.counter_interval":  c.Reveal.CounterInterval,
	} {
		if d.Duration < time.Millisecond || d.Duration > time.Second {
			errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("%s out of range 1ms-1s", d)})
		}
	}
	if c.Reveal.CounterMin < 0 || c.Reveal.CounterMax > 100 || c.Reveal.CounterMin > c.Reveal.CounterMax {
		errs = append(errs, ValidationError{
			Field:   "reveal.counter_min",
			Message: fmt.Sprintf("range %d-%d must satisfy 0 <= min <= max <= 100", c.Reveal.CounterMin, c.Reveal.CounterMax),
		})
	}

	if c.Session.IdleTimeout.Duration < 0 {
		errs = append(errs, ValidationError{Field: "session.idle_timeout", Message: "must not be negative"})
	}
	if c.Session.IdleWarning.Duration < 0 {
		errs = append(errs, ValidationError{Field: "session.idle_warning", Message: "must not be negative"})
	}

	if !oneOf(strings.ToLower(c.Logging.Level), validLogLevels) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: %s", c.Logging.Level, strings.Join(validLogLevels, ", ")),
		})
	}
	if !oneOf(strings.ToLower(c.UI.Theme), validThemes) {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: %s", c.UI.Theme, strings.Join(validThemes, ", ")),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func oneOf(v string, options []string) bool {
	for _, o := range options {
		if v == o {
			return true
		}
	}
	return false
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides.
//
// Supported environment variables:
//   - TRIAGE_API_URL: overrides api.base_url
//   - TRIAGE_API_TIMEOUT: overrides api.timeout
//   - TRIAGE_LOG_LEVEL: overrides logging.level
//   - TRIAGE_THEME: overrides ui.theme
//   - TRIAGE_NO_MARKDOWN: set to "1" or "true" to disable markdown rendering
//   - TRIAGE_NO_HISTORY: set to "1" or "true" to disable the history database
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("TRIAGE_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("TRIAGE_API_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.API.Timeout = D(d)
		}
	}
	if v := os.Getenv("TRIAGE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("TRIAGE_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("TRIAGE_NO_MARKDOWN"); v != "" {
		c.UI.Markdown = !truthy(v)
	}
	if v := os.Getenv("TRIAGE_NO_HISTORY"); v != "" {
		c.Storage.Enabled = !truthy(v)
	}
}

func truthy(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}

// =============================================================================
// COMPONENT SETTINGS
// =============================================================================

// ClientConfig returns the analysis client settings.
func (c *Config) ClientConfig(log *zap.Logger) *analysis.ClientConfig {
	return &analysis.ClientConfig{
		BaseURL:       c.API.BaseURL,
		Timeout:       c.API.Timeout.Duration,
		RatePerMinute: c.API.RatePerMinute,
		Logger:        log,
	}
}

// SessionConfig returns the controller settings.
func (c *Config) SessionConfig(log *zap.Logger) session.Config {
	return session.Config{
		RevealInterval:  c.Reveal.AnalysisInterval.Duration,
		CounterInterval: c.Reveal.CounterInterval.Duration,
		CounterMin:      c.Reveal.CounterMin,
		CounterMax:      c.Reveal.CounterMax,
		Logger:          log,
	}
}

// WatchdogConfig returns the idle watchdog settings.
func (c *Config) WatchdogConfig() session.WatchdogConfig {
	return session.WatchdogConfig{
		Timeout:       c.Session.IdleTimeout.Duration,
		WarnBefore:    c.Session.IdleWarning.Duration,
		CheckInterval: time.Second,
	}
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalPath       string
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// SetPath selects the file Global and ReloadGlobal read. It must be called
// before the first Global call to take effect for it.
func SetPath(path string) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalPath = path
}

// Path returns the file Global reads.
func Path() (string, error) {
	globalConfigMu.RLock()
	p := globalPath
	globalConfigMu.RUnlock()
	return resolvePath(p)
}

func resolvePath(p string) (string, error) {
	if p != "" {
		return p, nil
	}
	return ConfigPath()
}

// Global returns the process-wide configuration, loading it on first use
// unless SetGlobal already provided one. A load failure falls back to the
// defaults.
func Global() *Config {
	globalConfigOnce.Do(func() {
		globalConfigMu.Lock()
		defer globalConfigMu.Unlock()
		if globalConfig != nil {
			return
		}

		cfg, err := loadResolved(globalPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfig = cfg
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

func loadResolved(p string) (*Config, error) {
	path, err := resolvePath(p)
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// ReloadGlobal re-reads the configuration file. The previous value is kept
// when the file is invalid.
func ReloadGlobal() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	cfg, err := LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	SetGlobal(cfg)
	return cfg, nil
}

// SetGlobal replaces the process-wide configuration.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalPath = ""
	globalConfigOnce = sync.Once{}
}
