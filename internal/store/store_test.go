// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"errors"
	"testing"

	"github.com/jeranaias/parley-tui/internal/model"
)

// =============================================================================
// SESSION TESTS
// =============================================================================

func TestSetUser_SetsAuthFlag(t *testing.T) {
	s := New()
	s.SetUser(model.NewUser("+15551234567", "+1"))

	if !s.IsAuthenticated() {
		t.Error("expected IsAuthenticated after SetUser")
	}
	if s.User() == nil {
		t.Fatal("expected non-nil user")
	}
}

func TestAuthFlagTracksUser(t *testing.T) {
	// The invariant isAuthenticated == (user != nil) must hold after
	// every action.
	s := New()

	check := func(step string) {
		if s.IsAuthenticated() != (s.User() != nil) {
			t.Errorf("%s: auth flag out of sync with user", step)
		}
	}

	check("initial")
	s.SetUser(model.NewUser("+15551234567", "+1"))
	check("after SetUser")
	s.CreateChatroom("Trip")
	check("after CreateChatroom")
	s.ToggleDarkMode()
	check("after ToggleDarkMode")
	s.Logout()
	check("after Logout")
}

func TestLogout_PreservesChatData(t *testing.T) {
	s := New()
	s.SetUser(model.NewUser("+15551234567", "+1"))
	room := s.CreateChatroom("Keep me")
	if err := s.SetCurrentChatroom(room.ID); err != nil {
		t.Fatalf("SetCurrentChatroom failed: %v", err)
	}
	if _, err := s.AddUserMessage(room.ID, "still here after logout", ""); err != nil {
		t.Fatalf("AddUserMessage failed: %v", err)
	}

	s.Logout()

	if s.IsAuthenticated() {
		t.Error("expected IsAuthenticated false after logout")
	}
	if s.User() != nil {
		t.Error("expected nil user after logout")
	}
	if s.CurrentChatroomID() != "" {
		t.Error("expected current room cleared after logout")
	}
	rooms := s.Chatrooms()
	if len(rooms) != 1 || rooms[0].MessageCount() != 1 {
		t.Error("chat data must survive logout")
	}
}

// =============================================================================
// CHATROOM TESTS
// =============================================================================

func TestCreateChatroom_DistinctIDs(t *testing.T) {
	s := New()
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		room := s.CreateChatroom("same title")
		if seen[room.ID] {
			t.Fatalf("duplicate room ID %q", room.ID)
		}
		seen[room.ID] = true
	}
}

func TestCreateChatroom_NewestFirst(t *testing.T) {
	s := New()
	s.CreateChatroom("Trip")
	s.CreateChatroom("Work")

	rooms := s.Chatrooms()
	if len(rooms) != 2 {
		t.Fatalf("len(rooms) = %d, want 2", len(rooms))
	}
	if rooms[0].Title != "Work" || rooms[1].Title != "Trip" {
		t.Errorf("order = [%s, %s], want [Work, Trip]", rooms[0].Title, rooms[1].Title)
	}
}

func TestDeleteChatroom_Current(t *testing.T) {
	s := New()
	room := s.CreateChatroom("Doomed")
	other := s.CreateChatroom("Survivor")

	if err := s.SetCurrentChatroom(room.ID); err != nil {
		t.Fatalf("SetCurrentChatroom failed: %v", err)
	}
	if !s.DeleteChatroom(room.ID) {
		t.Fatal("expected DeleteChatroom to report removal")
	}
	if s.CurrentChatroomID() != "" {
		t.Error("deleting the current room must clear the selection")
	}

	// Deleting a non-current room leaves the selection alone.
	if err := s.SetCurrentChatroom(other.ID); err != nil {
		t.Fatalf("SetCurrentChatroom failed: %v", err)
	}
	extra := s.CreateChatroom("Extra")
	s.DeleteChatroom(extra.ID)
	if s.CurrentChatroomID() != other.ID {
		t.Error("deleting another room must not change the selection")
	}
}

func TestDeleteChatroom_UnknownIsNoop(t *testing.T) {
	s := New()
	s.CreateChatroom("Only")

	if s.DeleteChatroom("room_doesnotexist") {
		t.Error("deleting an unknown id should report false")
	}
	if len(s.Chatrooms()) != 1 {
		t.Error("store must be unchanged after deleting an unknown id")
	}
}

func TestSetCurrentChatroom_Unknown(t *testing.T) {
	s := New()
	err := s.SetCurrentChatroom("room_nope")
	if !errors.Is(err, ErrChatroomNotFound) {
		t.Errorf("err = %v, want ErrChatroomNotFound", err)
	}
	if s.CurrentChatroomID() != "" {
		t.Error("failed selection must not change the store")
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestAddUserMessage_AppendsInCallOrder(t *testing.T) {
	s := New()
	room := s.CreateChatroom("Thread")

	texts := []string{"a", "b", "c", "d"}
	for _, txt := range texts {
		if _, err := s.AddUserMessage(room.ID, txt, ""); err != nil {
			t.Fatalf("AddUserMessage(%q) failed: %v", txt, err)
		}
	}

	got := s.Chatroom(room.ID)
	if got.MessageCount() != len(texts) {
		t.Fatalf("MessageCount = %d, want %d", got.MessageCount(), len(texts))
	}
	for i, txt := range texts {
		if got.Messages[i].Text != txt {
			t.Errorf("Messages[%d] = %q, want %q", i, got.Messages[i].Text, txt)
		}
	}
}

func TestAddUserMessage_UnknownRoom(t *testing.T) {
	s := New()
	s.CreateChatroom("Real")
	before := s.Snapshot()

	_, err := s.AddUserMessage("room_ghost", "hi", "")
	if !errors.Is(err, ErrChatroomNotFound) {
		t.Errorf("err = %v, want ErrChatroomNotFound", err)
	}

	after := s.Snapshot()
	if len(after.Chatrooms) != len(before.Chatrooms) {
		t.Error("store must be unchanged")
	}
	for i := range after.Chatrooms {
		if after.Chatrooms[i].MessageCount() != before.Chatrooms[i].MessageCount() {
			t.Error("message counts must be unchanged")
		}
	}
}

func TestAddAssistantMessage(t *testing.T) {
	s := New()
	room := s.CreateChatroom("Thread")

	msg, err := s.AddAssistantMessage(room.ID, "Hello! How can I help?")
	if err != nil {
		t.Fatalf("AddAssistantMessage failed: %v", err)
	}
	if msg.IsUser {
		t.Error("assistant message must not be a user message")
	}

	got := s.Chatroom(room.ID)
	if got.MessageCount() != 1 {
		t.Fatalf("MessageCount = %d, want 1", got.MessageCount())
	}
}

func TestMessageIDs_UniqueWithinRoom(t *testing.T) {
	s := New()
	room := s.CreateChatroom("IDs")

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		msg, err := s.AddUserMessage(room.ID, "x", "")
		if err != nil {
			t.Fatal(err)
		}
		if seen[msg.ID] {
			t.Fatalf("duplicate message ID %q", msg.ID)
		}
		seen[msg.ID] = true
	}
}

// =============================================================================
// OBSERVER TESTS
// =============================================================================

func TestSubscribe_NotifiedOnEveryMutation(t *testing.T) {
	s := New()
	var calls int
	s.Subscribe(func(Snapshot) { calls++ })

	s.SetUser(model.NewUser("+15551234567", "+1"))
	room := s.CreateChatroom("N")
	s.SetCurrentChatroom(room.ID)
	s.AddUserMessage(room.ID, "hi", "")
	s.ToggleDarkMode()
	s.SetTyping(true)
	s.SetSearchQuery("n")
	s.Logout()

	if calls != 8 {
		t.Errorf("observer calls = %d, want 8", calls)
	}
}

func TestSetTyping_NoNotifyWithoutChange(t *testing.T) {
	s := New()
	var calls int
	s.Subscribe(func(Snapshot) { calls++ })

	s.SetTyping(false) // already false
	if calls != 0 {
		t.Errorf("observer calls = %d, want 0 for a no-op SetTyping", calls)
	}
}

func TestSnapshot_IsIsolated(t *testing.T) {
	s := New()
	room := s.CreateChatroom("Iso")
	s.AddUserMessage(room.ID, "original", "")

	snap := s.Snapshot()
	snap.Chatrooms[0].Messages[0].Text = "mutated"
	snap.Chatrooms[0].Append(model.NewUserMessage("extra"))

	got := s.Chatroom(room.ID)
	if got.MessageCount() != 1 || got.Messages[0].Text != "original" {
		t.Error("mutating a snapshot must not affect the store")
	}
}

// =============================================================================
// RESTORE TESTS
// =============================================================================

func TestRestore_TransientsReset(t *testing.T) {
	s := New()
	rooms := []*model.Chatroom{model.NewChatroom("Loaded")}
	user := model.NewUser("+15551234567", "+1")

	s.Restore(user, true, true, rooms)

	if !s.IsAuthenticated() || s.User() == nil {
		t.Error("expected restored session")
	}
	if !s.IsDarkMode() {
		t.Error("expected restored dark-mode flag")
	}
	if s.CurrentChatroomID() != "" || s.IsTyping() || s.SearchQuery() != "" {
		t.Error("transient fields must reset to defaults on restore")
	}
}

func TestRestore_AuthFlagRequiresUser(t *testing.T) {
	s := New()
	// A tampered snapshot claiming authentication without a user must
	// not produce an inconsistent store.
	s.Restore(nil, true, false, nil)

	if s.IsAuthenticated() {
		t.Error("auth flag must be false when no user is present")
	}
}
