// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/parley-tui/internal/assistant"
	"github.com/jeranaias/parley-tui/internal/ui/components"
)

// imageCommand marks a message that carries an image attachment.
const imageCommand = "/image "

// Update handles dashboard events.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case StateChangedMsg:
		wasTyping := m.snapshot.IsTyping
		m.snapshot = msg.Snapshot
		m.syncFromSnapshot()
		if !wasTyping && m.snapshot.IsTyping {
			return m, m.typing.Start()
		}
		if wasTyping && !m.snapshot.IsTyping {
			m.typing.Stop()
		}
		return m, nil

	case PersistFailedMsg:
		m.setStatus("Could not save chats: "+msg.Err.Error(), true)
		return m, nil

	case ReplyResultMsg:
		switch msg.Result.Outcome {
		case assistant.OutcomeDropped:
			m.setStatus("Reply discarded: chat was deleted", false)
		case assistant.OutcomeCancelled:
			// Quiet; cancellation is always user-initiated.
		}
		return m, nil

	case searchDebounceMsg:
		if msg.seq == m.searchSeq {
			m.store.SetSearchQuery(strings.TrimSpace(m.searchInput.Value()))
		}
		return m, nil

	case spinner.TickMsg:
		return m, m.typing.Update(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *Model) handleKey(key tea.KeyMsg) (*Model, tea.Cmd) {
	// Modals swallow all input while open.
	if m.focus == focusModal {
		return m.updateModal(key)
	}

	// Global shortcuts.
	switch key.String() {
	case "ctrl+n":
		return m.openNewRoomModal()
	case "ctrl+d":
		return m.openDeleteModal()
	case "ctrl+t":
		m.store.ToggleDarkMode()
		return m, nil
	case "ctrl+l":
		return m.logout()
	case "tab":
		return m.cycleFocus()
	}

	switch m.focus {
	case focusSidebar:
		return m.handleSidebarKey(key)
	case focusSearch:
		return m.handleSearchKey(key)
	case focusInput:
		return m.handleInputKey(key)
	}
	return m, nil
}

func (m *Model) cycleFocus() (*Model, tea.Cmd) {
	m.statusText = ""
	switch m.focus {
	case focusInput:
		m.focus = focusSidebar
		m.input.Blur()
		return m, nil
	default:
		m.focus = focusInput
		m.searchInput.Blur()
		return m, m.input.Focus()
	}
}

func (m *Model) handleSidebarKey(key tea.KeyMsg) (*Model, tea.Cmd) {
	rooms := m.visibleRooms()

	switch key.Type {
	case tea.KeyUp:
		if m.sidebarIdx > 0 {
			m.sidebarIdx--
		}
		return m, nil
	case tea.KeyDown:
		if m.sidebarIdx < len(rooms)-1 {
			m.sidebarIdx++
		}
		return m, nil
	case tea.KeyEnter:
		if m.sidebarIdx < len(rooms) {
			if err := m.store.SetCurrentChatroom(rooms[m.sidebarIdx].ID); err != nil {
				m.setStatus(err.Error(), true)
				return m, nil
			}
			m.focus = focusInput
			return m, m.input.Focus()
		}
		return m, nil
	}

	switch key.String() {
	case "/":
		m.focus = focusSearch
		return m, m.searchInput.Focus()
	case "pgup":
		m.viewport.HalfViewUp()
	case "pgdown":
		m.viewport.HalfViewDown()
	}
	return m, nil
}

func (m *Model) handleSearchKey(key tea.KeyMsg) (*Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.searchInput.Reset()
		m.searchInput.Blur()
		m.focus = focusSidebar
		m.store.SetSearchQuery("")
		return m, nil
	case tea.KeyEnter:
		m.searchInput.Blur()
		m.focus = focusSidebar
		m.store.SetSearchQuery(strings.TrimSpace(m.searchInput.Value()))
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(key)

	// Debounce: only the latest keystroke's timer applies the query.
	m.searchSeq++
	seq := m.searchSeq
	debounce := tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{seq: seq}
	})
	return m, tea.Batch(cmd, debounce)
}

func (m *Model) handleInputKey(key tea.KeyMsg) (*Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEnter:
		return m.sendMessage()
	case tea.KeyUp:
		m.viewport.LineUp(1)
		return m, nil
	case tea.KeyDown:
		m.viewport.LineDown(1)
		return m, nil
	case tea.KeyPgUp:
		m.viewport.HalfViewUp()
		return m, nil
	case tea.KeyPgDown:
		m.viewport.HalfViewDown()
		return m, nil
	}
	return m, m.input.Update(key)
}

// =============================================================================
// ACTIONS
// =============================================================================

// sendMessage appends the typed message and kicks off the simulated
// reply. Empty input and missing room selection are quiet no-ops;
// sending is blocked while a reply is pending.
func (m *Model) sendMessage() (*Model, tea.Cmd) {
	if m.snapshot.IsTyping {
		return m, nil
	}

	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	room := m.currentRoom()
	if room == nil {
		m.setStatus("Select a chat first (ctrl+n creates one)", true)
		return m, nil
	}

	var image string
	if strings.HasPrefix(text, imageCommand) {
		image = "attachment"
		text = strings.TrimSpace(strings.TrimPrefix(text, imageCommand))
		if text == "" {
			text = "[image]"
		}
	}

	if _, err := m.store.AddUserMessage(room.ID, text, image); err != nil {
		m.setStatus(err.Error(), true)
		return m, nil
	}

	m.input.Reset()
	m.statusText = ""
	return m, m.beginReply(room.ID, text)
}

func (m *Model) openNewRoomModal() (*Model, tea.Cmd) {
	m.newRoomModal = components.NewPromptModal(m.theme, "New chat", "")
	m.focus = focusModal
	m.input.Blur()
	return m, nil
}

func (m *Model) openDeleteModal() (*Model, tea.Cmd) {
	rooms := m.visibleRooms()
	var target string
	if m.focus == focusSidebar && m.sidebarIdx < len(rooms) {
		target = rooms[m.sidebarIdx].ID
	} else if room := m.currentRoom(); room != nil {
		target = room.ID
	}
	if target == "" {
		m.setStatus("No chat selected", true)
		return m, nil
	}

	m.deleteTarget = target
	m.deleteModal = components.NewConfirmModal(m.theme, "Delete chat?", "Messages in this chat will be lost.", true)
	m.focus = focusModal
	m.input.Blur()
	return m, nil
}

func (m *Model) updateModal(key tea.KeyMsg) (*Model, tea.Cmd) {
	if m.newRoomModal != nil {
		cmd := m.newRoomModal.Update(key)
		switch m.newRoomModal.Result() {
		case components.PromptAccepted:
			title := m.newRoomModal.Value()
			m.newRoomModal = nil
			m.focus = focusInput
			if title == "" {
				title = "New chat"
			}
			room := m.store.CreateChatroom(title)
			if err := m.store.SetCurrentChatroom(room.ID); err != nil {
				m.setStatus(err.Error(), true)
			}
			m.sidebarIdx = 0
			return m, m.input.Focus()
		case components.PromptCancelled:
			m.newRoomModal = nil
			m.focus = focusInput
			return m, m.input.Focus()
		}
		return m, cmd
	}

	if m.deleteModal != nil {
		m.deleteModal.Update(key)
		switch m.deleteModal.Result() {
		case components.PromptAccepted:
			confirmed := m.deleteModal.Confirmed()
			target := m.deleteTarget
			m.deleteModal = nil
			m.deleteTarget = ""
			m.focus = focusInput
			if confirmed {
				// Stop any pending reply before the room goes away.
				m.responder.CancelRoom(target)
				m.store.DeleteChatroom(target)
			}
			return m, m.input.Focus()
		case components.PromptCancelled:
			m.deleteModal = nil
			m.deleteTarget = ""
			m.focus = focusInput
			return m, m.input.Focus()
		}
		return m, nil
	}

	m.focus = focusInput
	return m, m.input.Focus()
}

func (m *Model) logout() (*Model, tea.Cmd) {
	m.responder.CancelAll()
	m.store.Logout()
	return m, func() tea.Msg { return LoggedOutMsg{} }
}

func (m *Model) setStatus(text string, isErr bool) {
	m.statusText = text
	m.statusIsErr = isErr
}
