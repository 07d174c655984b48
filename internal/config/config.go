// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management
// for parley.
//
// Supports both TOML and JSON configuration formats, with sensible
// defaults, environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.parley/config.toml
//   - ~/.parley/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/parley-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete parley configuration.
type Config struct {
	// Version is the config schema version.
	Version string `toml:"version" json:"version"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`

	// Assistant configuration
	Assistant AssistantConfig `toml:"assistant" json:"assistant"`

	// Auth configuration
	Auth AuthConfig `toml:"auth" json:"auth"`

	// Countries lookup configuration
	Countries CountriesConfig `toml:"countries" json:"countries"`

	// Storage configuration
	Storage StorageConfig `toml:"storage" json:"storage"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme selects the color scheme: "auto", "dark", or "light".
	// "auto" follows the persisted dark-mode flag.
	Theme string `toml:"theme" json:"theme"`

	// SearchDebounceMs is the sidebar search debounce in milliseconds.
	SearchDebounceMs int `toml:"search_debounce_ms" json:"search_debounce_ms"`
}

// AssistantConfig contains reply pacing configuration.
type AssistantConfig struct {
	// BaseDelayMs is the fixed portion of the reply delay.
	BaseDelayMs int `toml:"base_delay_ms" json:"base_delay_ms"`

	// MinGapMs is the minimum spacing between consecutive replies.
	MinGapMs int `toml:"min_gap_ms" json:"min_gap_ms"`

	// JitterMs is the upper bound of the random delay component.
	JitterMs int `toml:"jitter_ms" json:"jitter_ms"`
}

// AuthConfig contains login configuration.
type AuthConfig struct {
	// OTPMode selects code verification: "stub" or "totp".
	OTPMode string `toml:"otp_mode" json:"otp_mode"`

	// TOTPSecret is the shared secret for totp mode.
	TOTPSecret string `toml:"totp_secret" json:"totp_secret"`

	// ResendIntervalSecs is the minimum gap between code resends.
	ResendIntervalSecs int `toml:"resend_interval_secs" json:"resend_interval_secs"`
}

// CountriesConfig contains country lookup configuration.
type CountriesConfig struct {
	// Endpoint is the countries API URL. Empty uses the default.
	Endpoint string `toml:"endpoint" json:"endpoint"`
}

// StorageConfig contains persistence configuration.
type StorageConfig struct {
	// StatePath is the state snapshot file. Empty uses
	// ~/.parley/state.json.
	StatePath string `toml:"state_path" json:"state_path"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// CurrentVersion is the current config schema version.
const CurrentVersion = "1.0"

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		UI: UIConfig{
			Theme:            "auto",
			SearchDebounceMs: 300,
		},
		Assistant: AssistantConfig{
			BaseDelayMs: 1500,
			MinGapMs:    2000,
			JitterMs:    2000,
		},
		Auth: AuthConfig{
			OTPMode:            "stub",
			ResendIntervalSecs: 10,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the parley configuration directory.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".parley"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()

	if tomlPath, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				return nil, fmt.Errorf("failed to load TOML config: %w", err)
			}
			return finish(cfg)
		}
	}

	if jsonPath, err := ConfigPathJSON(); err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				return nil, fmt.Errorf("failed to load JSON config: %w", err)
			}
			return finish(cfg)
		}
	}

	return finish(cfg)
}

// LoadFromPath loads configuration from a specific file path with full
// validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finish(cfg)
}

// finish applies env overrides, defaults, and validation.
func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// fillDefaults fills in any missing values with defaults.
func (c *Config) fillDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.SearchDebounceMs <= 0 {
		c.UI.SearchDebounceMs = defaults.UI.SearchDebounceMs
	}
	if c.Assistant.BaseDelayMs <= 0 {
		c.Assistant.BaseDelayMs = defaults.Assistant.BaseDelayMs
	}
	if c.Assistant.MinGapMs <= 0 {
		c.Assistant.MinGapMs = defaults.Assistant.MinGapMs
	}
	if c.Assistant.JitterMs < 0 {
		c.Assistant.JitterMs = defaults.Assistant.JitterMs
	}
	if c.Auth.OTPMode == "" {
		c.Auth.OTPMode = defaults.Auth.OTPMode
	}
	if c.Auth.ResendIntervalSecs <= 0 {
		c.Auth.ResendIntervalSecs = defaults.Auth.ResendIntervalSecs
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
// SECURITY: Creates config files with 0600 permissions because the
// file can hold a TOTP secret.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# parley configuration file\n")
	sb.WriteString("# Generated by parley - edit with care\n\n")

	encoder := toml.NewEncoder(&sb)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	// RELIABILITY: Atomic write with fsync prevents data loss on crash
	if err := util.AtomicWriteFile(path, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file.
func SaveJSON(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
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
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	validThemes := map[string]bool{"auto": true, "dark": true, "light": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme),
		})
	}

	if c.UI.SearchDebounceMs < 0 || c.UI.SearchDebounceMs > 5000 {
		errs = append(errs, ValidationError{
			Field:   "ui.search_debounce_ms",
			Message: fmt.Sprintf("must be 0-5000, got %d", c.UI.SearchDebounceMs),
		})
	}

	// Pacing values must stay small enough to keep the demo responsive.
	if c.Assistant.BaseDelayMs < 0 || c.Assistant.BaseDelayMs > 30000 {
		errs = append(errs, ValidationError{
			Field:   "assistant.base_delay_ms",
			Message: fmt.Sprintf("must be 0-30000, got %d", c.Assistant.BaseDelayMs),
		})
	}
	if c.Assistant.MinGapMs < 0 || c.Assistant.MinGapMs > 60000 {
		errs = append(errs, ValidationError{
			Field:   "assistant.min_gap_ms",
			Message: fmt.Sprintf("must be 0-60000, got %d", c.Assistant.MinGapMs),
		})
	}
	if c.Assistant.JitterMs < 0 || c.Assistant.JitterMs > 30000 {
		errs = append(errs, ValidationError{
			Field:   "assistant.jitter_ms",
			Message: fmt.Sprintf("must be 0-30000, got %d", c.Assistant.JitterMs),
		})
	}

	validOTPModes := map[string]bool{"stub": true, "totp": true}
	if !validOTPModes[strings.ToLower(c.Auth.OTPMode)] {
		errs = append(errs, ValidationError{
			Field:   "auth.otp_mode",
			Message: fmt.Sprintf("invalid mode '%s', must be one of: stub, totp", c.Auth.OTPMode),
		})
	}
	if strings.ToLower(c.Auth.OTPMode) == "totp" && c.Auth.TOTPSecret == "" {
		errs = append(errs, ValidationError{
			Field:   "auth.totp_secret",
			Message: "required when otp_mode is totp",
		})
	}

	if c.Countries.Endpoint != "" {
		if _, err := url.Parse(c.Countries.Endpoint); err != nil {
			errs = append(errs, ValidationError{
				Field:   "countries.endpoint",
				Message: fmt.Sprintf("invalid URL: %v", err),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies PARLEY_* environment variables on top of
// the loaded configuration.
func (c *Config) ApplyEnvOverrides() {
	if theme := os.Getenv("PARLEY_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if mode := os.Getenv("PARLEY_OTP_MODE"); mode != "" {
		c.Auth.OTPMode = mode
	}
	if secret := os.Getenv("PARLEY_TOTP_SECRET"); secret != "" {
		c.Auth.TOTPSecret = secret
	}
	if endpoint := os.Getenv("PARLEY_COUNTRIES_URL"); endpoint != "" {
		c.Countries.Endpoint = endpoint
	}
	if path := os.Getenv("PARLEY_STATE_PATH"); path != "" {
		c.Storage.StatePath = path
	}
	if ms := os.Getenv("PARLEY_BASE_DELAY_MS"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil {
			c.Assistant.BaseDelayMs = v
		}
	}
}
