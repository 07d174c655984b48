// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/parley-tui/internal/ui/styles"
)

// =============================================================================
// INPUT AREA COMPONENT
// =============================================================================

// maxMessageChars caps a single outgoing message.
const maxMessageChars = 4096

// InputArea is the styled message input at the bottom of the thread.
type InputArea struct {
	input    textinput.Model
	width    int
	focused  bool
	disabled bool
	theme    *styles.Theme
}

// NewInputArea creates a new InputArea component.
func NewInputArea(theme *styles.Theme) *InputArea {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.CharLimit = maxMessageChars
	ti.Width = 70
	ti.Prompt = "> "

	ti.PromptStyle = theme.InputPrompt
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.TextPrimary)
	ti.PlaceholderStyle = theme.InputPlaceholder
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(styles.Cyan)

	return &InputArea{
		input: ti,
		width: 80,
		theme: theme,
	}
}

// Focus focuses the input.
func (i *InputArea) Focus() tea.Cmd {
	i.focused = true
	return i.input.Focus()
}

// Blur removes focus from the input.
func (i *InputArea) Blur() {
	i.focused = false
	i.input.Blur()
}

// Focused returns whether the input is focused.
func (i *InputArea) Focused() bool {
	return i.focused
}

// SetDisabled blocks editing while a reply is pending. The entered
// text is kept so nothing is lost when the input re-enables.
func (i *InputArea) SetDisabled(disabled bool) {
	i.disabled = disabled
	if disabled {
		i.input.Placeholder = "Waiting for Parley..."
	} else {
		i.input.Placeholder = "Type a message..."
	}
}

// Disabled returns whether the input is currently disabled.
func (i *InputArea) Disabled() bool {
	return i.disabled
}

// Value returns the current input text.
func (i *InputArea) Value() string {
	return i.input.Value()
}

// SetValue replaces the current input text.
func (i *InputArea) SetValue(v string) {
	i.input.SetValue(v)
}

// Reset clears the input.
func (i *InputArea) Reset() {
	i.input.Reset()
}

// SetWidth resizes the input to the available width.
func (i *InputArea) SetWidth(w int) {
	i.width = w
	inner := w - 4
	if inner < 10 {
		inner = 10
	}
	i.input.Width = inner
}

// Update handles input events. Key events are swallowed while the
// input is disabled.
func (i *InputArea) Update(msg tea.Msg) tea.Cmd {
	if i.disabled {
		if _, ok := msg.(tea.KeyMsg); ok {
			return nil
		}
	}
	var cmd tea.Cmd
	i.input, cmd = i.input.Update(msg)
	return cmd
}

// View renders the input area.
func (i *InputArea) View() string {
	return i.theme.InputContainer.Width(i.width).Render(i.input.View())
}
