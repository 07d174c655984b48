// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/parley-tui/internal/model"
	"github.com/jeranaias/parley-tui/internal/util"
)

// View renders the dashboard.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	if m.focus == focusModal {
		var modal string
		if m.newRoomModal != nil {
			modal = m.newRoomModal.View()
		} else if m.deleteModal != nil {
			modal = m.deleteModal.View()
		}
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	thread := m.renderThread()
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, thread)
	status := m.renderStatusBar()

	return lipgloss.JoinVertical(lipgloss.Left, header, body, status)
}

// =============================================================================
// HEADER
// =============================================================================

func (m *Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("Parley")

	var who string
	if m.snapshot.User != nil {
		who = m.theme.HeaderSubtitle.Render(m.snapshot.User.Phone)
	}

	var roomTitle string
	if room := m.currentRoom(); room != nil {
		roomTitle = m.theme.HeaderSubtitle.Render(" - " + room.Title)
	}

	line := lipgloss.JoinHorizontal(lipgloss.Top, title, roomTitle, "  ", who)
	return m.theme.Header.Width(m.width).Render(line)
}

// =============================================================================
// SIDEBAR
// =============================================================================

func (m *Model) renderSidebar() string {
	width := m.sidebarWidth()
	inner := width - 3
	rooms := m.visibleRooms()

	var rows []string
	rows = append(rows, m.theme.SidebarTitle.Render("Chats"))

	if m.focus == focusSearch || m.searchInput.Value() != "" {
		rows = append(rows, m.searchInput.View())
	}

	if len(rooms) == 0 {
		if m.snapshot.SearchQuery != "" {
			rows = append(rows, m.theme.EmptySidebar.Render("No chats match."))
		} else {
			rows = append(rows, m.theme.EmptySidebar.Render("No chats yet.\nPress ctrl+n to start one."))
		}
	}

	for i, room := range rooms {
		style := m.theme.RoomItem
		if m.focus == focusSidebar && i == m.sidebarIdx {
			style = m.theme.RoomItemSelected
		}

		marker := "  "
		if room.ID == m.snapshot.CurrentChatroomID {
			marker = "* "
		}

		stamp := roomStamp(room)
		title := util.TruncateWidth(room.Title, inner-2-len(stamp)-1)
		preview := util.TruncateWidth(room.Preview(64), inner)

		head := marker + m.theme.RoomTitle.Render(title) + " " + m.theme.RoomTimestamp.Render(stamp)
		row := style.Width(inner).Render(head) + "\n" +
			m.theme.RoomPreview.Render("  "+preview)
		rows = append(rows, row)
	}

	height := m.height - 4
	if height < 3 {
		height = 3
	}
	return m.theme.Sidebar.Width(width).Height(height).Render(strings.Join(rows, "\n"))
}

// =============================================================================
// THREAD
// =============================================================================

func (m *Model) renderThread() string {
	room := m.currentRoom()
	if room == nil {
		empty := m.theme.EmptySidebar.Render("Ready to chat.\nSelect a chat, or press ctrl+n to start one.")
		placed := lipgloss.Place(m.viewport.Width, m.viewport.Height, lipgloss.Center, lipgloss.Center, empty)
		return lipgloss.JoinVertical(lipgloss.Left, placed, m.typingLine(), m.input.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), m.typingLine(), m.input.View())
}

// roomStamp formats the room's latest activity for the sidebar:
// time-of-day for today, a short date otherwise.
func roomStamp(room *model.Chatroom) string {
	at := room.CreatedAt
	if last := room.LastMessage(); last != nil {
		at = last.Timestamp
	}
	now := time.Now()
	if at.Year() == now.Year() && at.YearDay() == now.YearDay() {
		return at.Format("15:04")
	}
	return at.Format("Jan 2")
}

func (m *Model) typingLine() string {
	if line := m.typing.View(); line != "" {
		return " " + line
	}
	return ""
}

// refreshThread rebuilds the viewport content from the current room.
func (m *Model) refreshThread(gotoBottom bool) {
	room := m.currentRoom()
	if room == nil {
		m.viewport.SetContent("")
		return
	}

	var b strings.Builder
	for i, msg := range room.Messages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}

	m.viewport.SetContent(b.String())
	if gotoBottom {
		m.viewport.GotoBottom()
	}
}

// renderMessage renders one message bubble with sender and timestamp.
func (m *Model) renderMessage(msg *model.Message) string {
	bubbleWidth := m.viewport.Width - 10
	if bubbleWidth < 16 {
		bubbleWidth = 16
	}

	text := msg.Text
	if msg.Image != "" {
		text = m.theme.ImageMarker.Render("[image]") + " " + text
	}

	meta := fmt.Sprintf("%s  %s",
		m.theme.MessageSender.Render(msg.Sender()),
		m.theme.MessageTime.Render(msg.Timestamp.Format("15:04")))

	if msg.IsUser {
		bubble := m.theme.UserBubble.MaxWidth(bubbleWidth).Render(text)
		block := lipgloss.JoinVertical(lipgloss.Right, meta, bubble)
		return lipgloss.PlaceHorizontal(m.viewport.Width, lipgloss.Right, block)
	}

	bubble := m.theme.AssistantBubble.MaxWidth(bubbleWidth).Render(text)
	return lipgloss.JoinVertical(lipgloss.Left, meta, bubble)
}

// =============================================================================
// STATUS BAR
// =============================================================================

func (m *Model) renderStatusBar() string {
	if m.statusText != "" {
		style := m.theme.WarningText
		if m.statusIsErr {
			style = m.theme.ErrorText
		}
		return m.theme.StatusBar.Width(m.width).Render(style.Render(m.statusText))
	}

	shortcuts := []struct{ key, desc string }{
		{"tab", "focus"},
		{"ctrl+n", "new"},
		{"ctrl+d", "delete"},
		{"/", "search"},
		{"ctrl+t", "theme"},
		{"ctrl+l", "logout"},
		{"ctrl+c", "quit"},
	}

	var parts []string
	for _, s := range shortcuts {
		parts = append(parts, m.theme.ShortcutKey.Render(s.key)+" "+m.theme.ShortcutDesc.Render(s.desc))
	}
	return m.theme.StatusBar.Width(m.width).Render(strings.Join(parts, "  "))
}
