// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"
)

// =============================================================================
// USER TESTS
// =============================================================================

func TestNewUser(t *testing.T) {
	u := NewUser("+447700900123", "+44")

	if u.ID == "" {
		t.Error("expected non-empty user ID")
	}
	if u.Phone != "+447700900123" {
		t.Errorf("Phone = %q, want %q", u.Phone, "+447700900123")
	}
	if u.CountryCode != "+44" {
		t.Errorf("CountryCode = %q, want %q", u.CountryCode, "+44")
	}
}

func TestNewUser_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		u := NewUser("+15551234567", "+1")
		if seen[u.ID] {
			t.Fatalf("duplicate user ID %q", u.ID)
		}
		seen[u.ID] = true
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewUserMessage(t *testing.T) {
	msg := NewUserMessage("hello")

	if !strings.HasPrefix(msg.ID, "msg_") {
		t.Errorf("ID should start with 'msg_', got %q", msg.ID)
	}
	if !msg.IsUser {
		t.Error("expected IsUser to be true")
	}
	if msg.Timestamp.IsZero() {
		t.Error("expected non-zero timestamp")
	}
	if msg.HasImage() {
		t.Error("plain message should not report an image")
	}
}

func TestNewAssistantMessage(t *testing.T) {
	msg := NewAssistantMessage("hi there")

	if msg.IsUser {
		t.Error("assistant message should not be a user message")
	}
	if msg.Sender() != "Parley" {
		t.Errorf("Sender = %q, want %q", msg.Sender(), "Parley")
	}
}

func TestNewUserMessageWithImage(t *testing.T) {
	msg := NewUserMessageWithImage("look", "data:image/png;base64,AAAA")

	if !msg.HasImage() {
		t.Error("expected HasImage to be true")
	}
}

func TestMessage_Preview(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want string
	}{
		{"short text untouched", "hi", 10, "hi"},
		{"long text truncated", "this is a long message body", 10, "this is..."},
		{"unicode not split", "日本語のテキストです", 6, "日本語..."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg := NewUserMessage(tc.text)
			if got := msg.Preview(tc.max); got != tc.want {
				t.Errorf("Preview(%d) = %q, want %q", tc.max, got, tc.want)
			}
		})
	}
}

// =============================================================================
// CHATROOM TESTS
// =============================================================================

func TestNewChatroom(t *testing.T) {
	room := NewChatroom("Trip planning")

	if !strings.HasPrefix(room.ID, "room_") {
		t.Errorf("ID should start with 'room_', got %q", room.ID)
	}
	if room.Title != "Trip planning" {
		t.Errorf("Title = %q, want %q", room.Title, "Trip planning")
	}
	if !room.IsEmpty() {
		t.Error("new room should be empty")
	}
	if room.LastMessage() != nil {
		t.Error("LastMessage on empty room should be nil")
	}
}

func TestChatroom_AppendKeepsOrder(t *testing.T) {
	room := NewChatroom("Order")
	texts := []string{"first", "second", "third"}
	for _, txt := range texts {
		room.Append(NewUserMessage(txt))
	}

	if room.MessageCount() != 3 {
		t.Fatalf("MessageCount = %d, want 3", room.MessageCount())
	}
	for i, txt := range texts {
		if room.Messages[i].Text != txt {
			t.Errorf("Messages[%d].Text = %q, want %q", i, room.Messages[i].Text, txt)
		}
	}
	if room.LastMessage().Text != "third" {
		t.Errorf("LastMessage = %q, want %q", room.LastMessage().Text, "third")
	}
}

func TestChatroom_Preview(t *testing.T) {
	room := NewChatroom("P")
	if got := room.Preview(20); got != "No messages yet" {
		t.Errorf("empty room Preview = %q", got)
	}

	room.Append(NewUserMessage("hello\nworld"))
	if got := room.Preview(20); got != "hello world" {
		t.Errorf("Preview = %q, want newlines flattened", got)
	}
}

func TestChatroom_MatchesQuery(t *testing.T) {
	room := NewChatroom("Weekend Trip")

	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"trip", true},
		{"TRIP", true},
		{"work", false},
	}

	for _, tc := range tests {
		if got := room.MatchesQuery(tc.query); got != tc.want {
			t.Errorf("MatchesQuery(%q) = %v, want %v", tc.query, got, tc.want)
		}
	}
}

func TestChatroom_Clone(t *testing.T) {
	room := NewChatroom("Original")
	room.Append(NewUserMessage("one"))

	clone := room.Clone()
	clone.Append(NewUserMessage("two"))
	clone.Messages[0].Text = "mutated"

	if room.MessageCount() != 1 {
		t.Errorf("clone append leaked into original: count = %d", room.MessageCount())
	}
	if room.Messages[0].Text != "one" {
		t.Errorf("clone mutation leaked into original: %q", room.Messages[0].Text)
	}
}
