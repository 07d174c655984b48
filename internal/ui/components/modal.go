// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/parley-tui/internal/ui/styles"
)

// =============================================================================
// PROMPT MODAL
// =============================================================================

// PromptResult reports how a prompt modal closed.
type PromptResult int

const (
	// PromptPending means the modal is still open.
	PromptPending PromptResult = iota

	// PromptAccepted means the user confirmed.
	PromptAccepted

	// PromptCancelled means the user dismissed the modal.
	PromptCancelled
)

// PromptModal is a single-line text prompt, used for naming a new room.
type PromptModal struct {
	title  string
	input  textinput.Model
	theme  *styles.Theme
	result PromptResult
}

// NewPromptModal creates a text prompt with the given title and
// pre-filled value.
func NewPromptModal(theme *styles.Theme, title, initial string) *PromptModal {
	ti := textinput.New()
	ti.CharLimit = 80
	ti.Width = 40
	ti.Prompt = "> "
	ti.PromptStyle = theme.InputPrompt
	ti.SetValue(initial)
	ti.Focus()

	return &PromptModal{
		title: title,
		input: ti,
		theme: theme,
	}
}

// Result returns how the modal closed.
func (m *PromptModal) Result() PromptResult {
	return m.result
}

// Value returns the entered text, trimmed.
func (m *PromptModal) Value() string {
	return strings.TrimSpace(m.input.Value())
}

// Update handles modal input. Enter accepts, Esc cancels.
func (m *PromptModal) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.result = PromptAccepted
			return nil
		case tea.KeyEsc:
			m.result = PromptCancelled
			return nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// View renders the prompt modal.
func (m *PromptModal) View() string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.ModalTitle.Render(m.title),
		"",
		m.input.View(),
		"",
		m.theme.ShortcutDesc.Render("enter confirm  -  esc cancel"),
	)
	return m.theme.ModalBox.Render(body)
}

// =============================================================================
// CONFIRM MODAL
// =============================================================================

// ConfirmModal is a yes/no prompt, used before deleting a room.
type ConfirmModal struct {
	title   string
	detail  string
	theme   *styles.Theme
	yes     bool
	result  PromptResult
	danger  bool
}

// NewConfirmModal creates a confirmation prompt. Destructive prompts
// default to "No".
func NewConfirmModal(theme *styles.Theme, title, detail string, danger bool) *ConfirmModal {
	return &ConfirmModal{
		title:  title,
		detail: detail,
		theme:  theme,
		yes:    !danger,
		danger: danger,
	}
}

// Result returns how the modal closed.
func (m *ConfirmModal) Result() PromptResult {
	return m.result
}

// Confirmed returns true when the modal closed on "Yes".
func (m *ConfirmModal) Confirmed() bool {
	return m.result == PromptAccepted && m.yes
}

// Update handles modal input.
func (m *ConfirmModal) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch key.Type {
	case tea.KeyLeft, tea.KeyRight, tea.KeyTab:
		m.yes = !m.yes
	case tea.KeyEnter:
		m.result = PromptAccepted
	case tea.KeyEsc:
		m.result = PromptCancelled
	default:
		switch key.String() {
		case "y", "Y":
			m.yes = true
			m.result = PromptAccepted
		case "n", "N":
			m.yes = false
			m.result = PromptAccepted
		}
	}
	return nil
}

// View renders the confirmation modal.
func (m *ConfirmModal) View() string {
	yesBtn := m.theme.ModalButton.Render("Yes")
	noBtn := m.theme.ModalButtonActive.Render("No")
	if m.yes {
		yesBtn = m.theme.ModalButtonActive.Render("Yes")
		noBtn = m.theme.ModalButton.Render("No")
	}

	title := m.theme.ModalTitle.Render(m.title)
	if m.danger {
		title = m.theme.ErrorText.Render(m.title)
	}

	rows := []string{title}
	if m.detail != "" {
		rows = append(rows, "", m.theme.ShortcutDesc.Render(m.detail))
	}
	rows = append(rows, "", lipgloss.JoinHorizontal(lipgloss.Top, yesBtn, "  ", noBtn))

	return m.theme.ModalBox.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
