// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Mode selects how the theme resolves light versus dark styling.
type Mode string

const (
	// ModeAuto follows the detected terminal background.
	ModeAuto Mode = "auto"

	// ModeDark forces the dark variant.
	ModeDark Mode = "dark"

	// ModeLight forces the light variant.
	ModeLight Mode = "light"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// ==========================================================================
	// SIDEBAR STYLES
	// ==========================================================================

	Sidebar          lipgloss.Style
	SidebarTitle     lipgloss.Style
	RoomItem         lipgloss.Style
	RoomItemSelected lipgloss.Style
	RoomTitle        lipgloss.Style
	RoomPreview      lipgloss.Style
	RoomTimestamp    lipgloss.Style
	SearchPrompt     lipgloss.Style
	EmptySidebar     lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	MessageSender   lipgloss.Style
	MessageTime     lipgloss.Style
	ImageMarker     lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style
	TypingText       lipgloss.Style
	Spinner          lipgloss.Style

	// ==========================================================================
	// AUTH FORM STYLES
	// ==========================================================================

	AuthBox   lipgloss.Style
	AuthTitle lipgloss.Style
	AuthLabel lipgloss.Style
	AuthHint  lipgloss.Style
	AuthError lipgloss.Style

	// ==========================================================================
	// MODAL AND STATUS STYLES
	// ==========================================================================

	ModalBox          lipgloss.Style
	ModalTitle        lipgloss.Style
	ModalButton       lipgloss.Style
	ModalButtonActive lipgloss.Style
	StatusBar         lipgloss.Style
	ShortcutKey       lipgloss.Style
	ShortcutDesc      lipgloss.Style
	WarningText       lipgloss.Style
	ErrorText         lipgloss.Style
	SuccessText       lipgloss.Style
}

// NewTheme creates a theme following the detected terminal background.
func NewTheme() *Theme {
	return NewThemeWithMode(ModeAuto)
}

// NewThemeWithMode creates a theme, forcing the light or dark variant
// when asked. The dark-mode toggle rebuilds the theme through here.
func NewThemeWithMode(mode Mode) *Theme {
	switch mode {
	case ModeDark:
		lipgloss.SetHasDarkBackground(true)
	case ModeLight:
		lipgloss.SetHasDarkBackground(false)
	}

	t := &Theme{
		IsDark:       lipgloss.HasDarkBackground(),
		ColorProfile: termenv.ColorProfile(),
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Background(SurfaceDim).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Sidebar
	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Overlay).
		PaddingRight(1)

	t.SidebarTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Padding(0, 1)

	t.RoomItem = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)

	t.RoomItemSelected = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(SurfaceBright).
		Bold(true).
		Padding(0, 1)

	t.RoomTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.RoomPreview = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.RoomTimestamp = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.SearchPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.EmptySidebar = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true).
		Padding(1, 1)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 2).
		MarginLeft(4)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		Background(AssistantBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 2).
		MarginRight(4)

	t.MessageSender = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary)

	t.MessageTime = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.ImageMarker = lipgloss.NewStyle().
		Foreground(Amber).
		Italic(true)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.TypingText = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Purple)

	// Auth form
	t.AuthBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(1, 3)

	t.AuthTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple).
		Align(lipgloss.Center)

	t.AuthLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.AuthHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.AuthError = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	// Modals and status
	t.ModalBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(1, 3)

	t.ModalTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.ModalButton = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 2)

	t.ModalButtonActive = lipgloss.NewStyle().
		Foreground(Surface).
		Background(Purple).
		Bold(true).
		Padding(0, 2)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.WarningText = lipgloss.NewStyle().
		Foreground(Amber)

	t.ErrorText = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.SuccessText = lipgloss.NewStyle().
		Foreground(Emerald)
}

// ForDarkMode maps the persisted dark-mode flag onto a theme mode,
// honoring a configured override first.
func ForDarkMode(configured Mode, isDark bool) Mode {
	if configured == ModeDark || configured == ModeLight {
		return configured
	}
	if isDark {
		return ModeDark
	}
	return ModeLight
}
