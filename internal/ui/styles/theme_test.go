// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "testing"

func TestNewThemeWithMode(t *testing.T) {
	dark := NewThemeWithMode(ModeDark)
	if !dark.IsDark {
		t.Error("ModeDark should force a dark theme")
	}

	light := NewThemeWithMode(ModeLight)
	if light.IsDark {
		t.Error("ModeLight should force a light theme")
	}
}

func TestThemeStylesInitialized(t *testing.T) {
	theme := NewThemeWithMode(ModeDark)

	if !theme.HeaderTitle.GetBold() {
		t.Error("header title should be bold")
	}
	if !theme.RoomItemSelected.GetBold() {
		t.Error("selected room item should be bold")
	}
	if !theme.AuthError.GetBold() {
		t.Error("auth error should be bold")
	}
}

func TestForDarkMode(t *testing.T) {
	tests := []struct {
		configured Mode
		isDark     bool
		want       Mode
	}{
		{ModeAuto, true, ModeDark},
		{ModeAuto, false, ModeLight},
		{ModeDark, false, ModeDark},
		{ModeLight, true, ModeLight},
	}

	for _, tt := range tests {
		if got := ForDarkMode(tt.configured, tt.isDark); got != tt.want {
			t.Errorf("ForDarkMode(%q, %v) = %q, want %q", tt.configured, tt.isDark, got, tt.want)
		}
	}
}
