// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for users, messages, and
// chat rooms.
package model

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"
)

// =============================================================================
// CHATROOM TYPE
// =============================================================================

// Chatroom is a titled conversation thread owning an ordered sequence
// of messages. Message order is insertion order and append-only.
type Chatroom struct {
	// Identity
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`

	// Messages, oldest first.
	Messages []*Message `json:"messages"`
}

// NewChatroom creates an empty chat room with a generated id.
// Titles are free text and not required to be unique.
func NewChatroom(title string) *Chatroom {
	return &Chatroom{
		ID:        generateRoomID(),
		Title:     title,
		CreatedAt: time.Now(),
		Messages:  make([]*Message, 0),
	}
}

// =============================================================================
// MESSAGE ACCESS
// =============================================================================

// Append adds a message to the end of the room.
func (c *Chatroom) Append(msg *Message) {
	c.Messages = append(c.Messages, msg)
}

// LastMessage returns the most recent message, or nil if empty.
func (c *Chatroom) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// MessageCount returns the number of messages.
func (c *Chatroom) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Chatroom) IsEmpty() bool {
	return len(c.Messages) == 0
}

// Preview returns a short preview of the latest message for the
// sidebar, or a placeholder for empty rooms.
func (c *Chatroom) Preview(maxLen int) string {
	last := c.LastMessage()
	if last == nil {
		return "No messages yet"
	}
	text := strings.ReplaceAll(last.Text, "\n", " ")
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen-3]) + "..."
}

// MatchesQuery reports whether the room title contains the query,
// case-insensitively. An empty query matches everything.
func (c *Chatroom) MatchesQuery(query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Title), strings.ToLower(query))
}

// Clone creates a deep copy of the room. Messages are value types so
// copying the pointed-to structs is sufficient.
func (c *Chatroom) Clone() *Chatroom {
	clone := &Chatroom{
		ID:        c.ID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		Messages:  make([]*Message, len(c.Messages)),
	}
	for i, msg := range c.Messages {
		msgCopy := *msg
		clone.Messages[i] = &msgCopy
	}
	return clone
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateRoomID creates a unique chat room ID.
func generateRoomID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "room_" + hex.EncodeToString(bytes)
}
