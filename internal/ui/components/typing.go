// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/parley-tui/internal/ui/styles"
)

// =============================================================================
// TYPING INDICATOR
// =============================================================================

// TypingIndicator shows an animated "Parley is typing" line while a
// reply is pending.
type TypingIndicator struct {
	spinner spinner.Model
	theme   *styles.Theme
	active  bool
}

// NewTypingIndicator creates a typing indicator.
func NewTypingIndicator(theme *styles.Theme) *TypingIndicator {
	s := spinner.New()
	// ASCII-safe frames
	s.Spinner = spinner.Spinner{
		Frames: []string{"   ", ".  ", ".. ", "..."},
		FPS:    time.Second / 3,
	}
	s.Style = theme.Spinner

	return &TypingIndicator{
		spinner: s,
		theme:   theme,
	}
}

// Start activates the indicator and returns the tick command that
// drives the animation.
func (t *TypingIndicator) Start() tea.Cmd {
	t.active = true
	return t.spinner.Tick
}

// Stop deactivates the indicator.
func (t *TypingIndicator) Stop() {
	t.active = false
}

// Active returns whether the indicator is showing.
func (t *TypingIndicator) Active() bool {
	return t.active
}

// Update advances the animation while active.
func (t *TypingIndicator) Update(msg tea.Msg) tea.Cmd {
	if !t.active {
		return nil
	}
	var cmd tea.Cmd
	t.spinner, cmd = t.spinner.Update(msg)
	return cmd
}

// View renders the indicator, or "" when inactive.
func (t *TypingIndicator) View() string {
	if !t.active {
		return ""
	}
	return t.theme.TypingText.Render("Parley is typing" + t.spinner.View())
}
