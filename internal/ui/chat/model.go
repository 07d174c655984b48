// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/parley-tui/internal/assistant"
	"github.com/jeranaias/parley-tui/internal/model"
	"github.com/jeranaias/parley-tui/internal/store"
	"github.com/jeranaias/parley-tui/internal/ui/components"
	"github.com/jeranaias/parley-tui/internal/ui/styles"
)

// =============================================================================
// FOCUS
// =============================================================================

// focusArea is the part of the dashboard receiving key input.
type focusArea int

const (
	focusSidebar focusArea = iota
	focusInput
	focusSearch
	focusModal
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat dashboard.
type Model struct {
	theme     *styles.Theme
	store     *store.Store
	responder *assistant.Responder

	// Latest store snapshot; the single source of truth for rendering.
	snapshot store.Snapshot

	// Layout
	width  int
	height int
	focus  focusArea

	// Sidebar
	sidebarIdx  int
	searchInput textinput.Model
	searchSeq   int
	debounce    time.Duration

	// Thread
	viewport viewport.Model

	// Components
	input  *components.InputArea
	typing *components.TypingIndicator

	// Modals (nil when closed)
	newRoomModal *components.PromptModal
	deleteModal  *components.ConfirmModal
	deleteTarget string

	// Transient status line
	statusText  string
	statusIsErr bool
}

// New creates the dashboard bound to a store and responder.
func New(theme *styles.Theme, st *store.Store, responder *assistant.Responder) *Model {
	search := textinput.New()
	search.Placeholder = "Search chats..."
	search.CharLimit = 64
	search.Width = 24
	search.Prompt = "/ "
	search.PromptStyle = theme.SearchPrompt

	vp := viewport.New(60, 20)

	m := &Model{
		theme:       theme,
		store:       st,
		responder:   responder,
		snapshot:    st.Snapshot(),
		focus:       focusInput,
		searchInput: search,
		debounce:    300 * time.Millisecond,
		viewport:    vp,
		input:       components.NewInputArea(theme),
		typing:      components.NewTypingIndicator(theme),
	}
	m.syncFromSnapshot()
	return m
}

// Init focuses the input.
func (m *Model) Init() tea.Cmd {
	return m.input.Focus()
}

// SetSize updates the layout dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	threadWidth := width - m.sidebarWidth() - 1
	if threadWidth < 20 {
		threadWidth = 20
	}
	m.viewport.Width = threadWidth
	m.viewport.Height = height - 6
	if m.viewport.Height < 3 {
		m.viewport.Height = 3
	}
	m.input.SetWidth(threadWidth)
	m.refreshThread(true)
}

// SetDebounce overrides the search debounce interval.
func (m *Model) SetDebounce(d time.Duration) {
	if d > 0 {
		m.debounce = d
	}
}

func (m *Model) sidebarWidth() int {
	w := m.width / 3
	if w < 24 {
		w = 24
	}
	if w > 40 {
		w = 40
	}
	return w
}

// =============================================================================
// SNAPSHOT PROJECTION
// =============================================================================

// visibleRooms returns the sidebar rooms after search filtering.
// Rooms are already ordered newest first by the store.
func (m *Model) visibleRooms() []*model.Chatroom {
	query := m.snapshot.SearchQuery
	if query == "" {
		return m.snapshot.Chatrooms
	}
	var out []*model.Chatroom
	for _, room := range m.snapshot.Chatrooms {
		if room.MatchesQuery(query) {
			out = append(out, room)
		}
	}
	return out
}

// currentRoom returns the selected room, or nil when none is open.
func (m *Model) currentRoom() *model.Chatroom {
	if m.snapshot.CurrentChatroomID == "" {
		return nil
	}
	for _, room := range m.snapshot.Chatrooms {
		if room.ID == m.snapshot.CurrentChatroomID {
			return room
		}
	}
	return nil
}

// syncFromSnapshot reconciles view state after a snapshot change.
func (m *Model) syncFromSnapshot() {
	rooms := m.visibleRooms()
	if m.sidebarIdx >= len(rooms) {
		m.sidebarIdx = len(rooms) - 1
	}
	if m.sidebarIdx < 0 {
		m.sidebarIdx = 0
	}

	m.input.SetDisabled(m.snapshot.IsTyping)
	m.refreshThread(true)
}

// beginReply dispatches the simulated assistant response for a sent
// message and returns the command that waits for its outcome.
func (m *Model) beginReply(roomID, text string) tea.Cmd {
	responder := m.responder
	return func() tea.Msg {
		res := responder.Respond(context.Background(), roomID, text)
		return ReplyResultMsg{Result: res}
	}
}
