// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.UI.Theme != "auto" {
		t.Errorf("default theme: got %q, want %q", cfg.UI.Theme, "auto")
	}
	if cfg.Assistant.BaseDelayMs != 1500 {
		t.Errorf("default base delay: got %d, want 1500", cfg.Assistant.BaseDelayMs)
	}
	if cfg.Assistant.MinGapMs != 2000 {
		t.Errorf("default min gap: got %d, want 2000", cfg.Assistant.MinGapMs)
	}
	if cfg.Auth.OTPMode != "stub" {
		t.Errorf("default otp mode: got %q, want %q", cfg.Auth.OTPMode, "stub")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromPathTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
version = "1.0"

[ui]
theme = "dark"
search_debounce_ms = 150

[assistant]
base_delay_ms = 500
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	if cfg.UI.Theme != "dark" {
		t.Errorf("theme: got %q, want %q", cfg.UI.Theme, "dark")
	}
	if cfg.UI.SearchDebounceMs != 150 {
		t.Errorf("debounce: got %d, want 150", cfg.UI.SearchDebounceMs)
	}
	if cfg.Assistant.BaseDelayMs != 500 {
		t.Errorf("base delay: got %d, want 500", cfg.Assistant.BaseDelayMs)
	}

	// Unset fields fall back to defaults.
	if cfg.Assistant.MinGapMs != 2000 {
		t.Errorf("min gap should default to 2000, got %d", cfg.Assistant.MinGapMs)
	}
	if cfg.Auth.OTPMode != "stub" {
		t.Errorf("otp mode should default to stub, got %q", cfg.Auth.OTPMode)
	}
}

func TestLoadFromPathJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{"ui": {"theme": "light"}}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("theme: got %q, want %q", cfg.UI.Theme, "light")
	}
}

func TestLoadFromPathInvalidTheme(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[ui]\ntheme = \"neon\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatal("expected validation error for invalid theme")
	}
	if !strings.Contains(err.Error(), "ui.theme") {
		t.Errorf("error should name ui.theme, got %v", err)
	}
}

func TestValidateTOTPRequiresSecret(t *testing.T) {
	cfg := Default()
	cfg.Auth.OTPMode = "totp"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error for totp without secret")
	}
	if !strings.Contains(err.Error(), "auth.totp_secret") {
		t.Errorf("error should name auth.totp_secret, got %v", err)
	}

	cfg.Auth.TOTPSecret = "JBSWY3DPEHPK3PXP"
	if err := cfg.Validate(); err != nil {
		t.Errorf("totp with secret should validate: %v", err)
	}
}

func TestValidatePacingBounds(t *testing.T) {
	cfg := Default()
	cfg.Assistant.BaseDelayMs = 60001

	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for excessive base delay")
	}
}

func TestSaveTOMLRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.UI.Theme = "dark"
	cfg.Assistant.JitterMs = 750

	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config file permissions: got %o, want 0600", perm)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if loaded.UI.Theme != "dark" {
		t.Errorf("theme: got %q, want %q", loaded.UI.Theme, "dark")
	}
	if loaded.Assistant.JitterMs != 750 {
		t.Errorf("jitter: got %d, want 750", loaded.Assistant.JitterMs)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("PARLEY_THEME", "light")
	t.Setenv("PARLEY_OTP_MODE", "totp")
	t.Setenv("PARLEY_TOTP_SECRET", "JBSWY3DPEHPK3PXP")
	t.Setenv("PARLEY_STATE_PATH", "/tmp/state.json")
	t.Setenv("PARLEY_BASE_DELAY_MS", "250")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.UI.Theme != "light" {
		t.Errorf("theme override: got %q", cfg.UI.Theme)
	}
	if cfg.Auth.OTPMode != "totp" {
		t.Errorf("otp mode override: got %q", cfg.Auth.OTPMode)
	}
	if cfg.Auth.TOTPSecret != "JBSWY3DPEHPK3PXP" {
		t.Errorf("totp secret override: got %q", cfg.Auth.TOTPSecret)
	}
	if cfg.Storage.StatePath != "/tmp/state.json" {
		t.Errorf("state path override: got %q", cfg.Storage.StatePath)
	}
	if cfg.Assistant.BaseDelayMs != 250 {
		t.Errorf("base delay override: got %d", cfg.Assistant.BaseDelayMs)
	}
}

func TestApplyEnvOverridesIgnoresBadNumbers(t *testing.T) {
	t.Setenv("PARLEY_BASE_DELAY_MS", "soon")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Assistant.BaseDelayMs != 1500 {
		t.Errorf("bad numeric override should be ignored, got %d", cfg.Assistant.BaseDelayMs)
	}
}
