// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for users, messages, and
// chat rooms.
package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single message in a chat room. Messages are created only
// through the store's append action and never mutated afterward.
type Message struct {
	// Identity
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`

	// Content
	Text string `json:"text"`

	// IsUser is true for messages typed by the user, false for
	// assistant replies.
	IsUser bool `json:"is_user"`

	// Image is an optional data-URI attachment.
	Image string `json:"image,omitempty"`
}

// NewUserMessage creates a message authored by the user.
func NewUserMessage(text string) *Message {
	return &Message{
		ID:        generateMessageID(),
		Text:      text,
		IsUser:    true,
		Timestamp: time.Now(),
	}
}

// NewUserMessageWithImage creates a user message carrying an image
// attachment (a data URI).
func NewUserMessageWithImage(text, image string) *Message {
	msg := NewUserMessage(text)
	msg.Image = image
	return msg
}

// NewAssistantMessage creates a simulated assistant reply.
func NewAssistantMessage(text string) *Message {
	return &Message{
		ID:        generateMessageID(),
		Text:      text,
		IsUser:    false,
		Timestamp: time.Now(),
	}
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// Preview returns a truncated preview of the message text.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	runes := []rune(m.Text)
	if len(runes) <= maxLen {
		return m.Text
	}
	return string(runes[:maxLen-3]) + "..."
}

// HasImage reports whether the message carries an attachment.
func (m *Message) HasImage() bool {
	return m.Image != ""
}

// Sender returns a human-readable name for the message author.
func (m *Message) Sender() string {
	if m.IsUser {
		return "You"
	}
	return "Parley"
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateMessageID creates a unique message ID.
func generateMessageID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "msg_" + hex.EncodeToString(bytes)
}
