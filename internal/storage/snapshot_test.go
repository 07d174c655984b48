// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jeranaias/parley-tui/internal/model"
	"github.com/jeranaias/parley-tui/internal/store"
)

func tempStore(t *testing.T) *SnapshotStore {
	t.Helper()
	return NewSnapshotStoreWithPath(filepath.Join(t.TempDir(), "state.json"))
}

// =============================================================================
// ROUND TRIP TESTS
// =============================================================================

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	st := store.New()
	st.SetUser(model.NewUser("+447700900123", "+44"))
	st.ToggleDarkMode()
	trip := st.CreateChatroom("Trip")
	st.CreateChatroom("Work")
	st.AddUserMessage(trip.ID, "where to?", "")
	st.AddAssistantMessage(trip.ID, "Anywhere you like.")

	// Transient fields set before saving must not survive the reload.
	st.SetCurrentChatroom(trip.ID)
	st.SetTyping(true)
	st.SetSearchQuery("tr")

	ss := tempStore(t)
	if err := ss.Save(st.Snapshot()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	record, err := ss.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if record == nil {
		t.Fatal("expected a record")
	}

	fresh := store.New()
	fresh.Restore(record.ModelUser(), record.IsAuthenticated, record.IsDarkMode, record.ModelChatrooms())

	if !fresh.IsAuthenticated() {
		t.Error("expected restored auth flag")
	}
	if got := fresh.User(); got == nil || got.Phone != "+447700900123" {
		t.Errorf("restored user = %+v", got)
	}
	if !fresh.IsDarkMode() {
		t.Error("expected restored dark-mode flag")
	}

	rooms := fresh.Chatrooms()
	if len(rooms) != 2 {
		t.Fatalf("len(rooms) = %d, want 2", len(rooms))
	}
	if rooms[0].Title != "Work" || rooms[1].Title != "Trip" {
		t.Errorf("room order = [%s, %s], want [Work, Trip]", rooms[0].Title, rooms[1].Title)
	}
	restored := rooms[1]
	if restored.MessageCount() != 2 {
		t.Fatalf("MessageCount = %d, want 2", restored.MessageCount())
	}
	if restored.Messages[0].Text != "where to?" || !restored.Messages[0].IsUser {
		t.Errorf("first message = %+v", restored.Messages[0])
	}
	if restored.Messages[1].IsUser {
		t.Error("second message should be an assistant reply")
	}
	if restored.Messages[0].Timestamp.IsZero() {
		t.Error("timestamps must survive the round trip")
	}

	// Transients reset to defaults.
	if fresh.CurrentChatroomID() != "" || fresh.IsTyping() || fresh.SearchQuery() != "" {
		t.Error("transient fields must reset on reload")
	}
}

func TestSave_TimestampsAreRFC3339(t *testing.T) {
	st := store.New()
	room := st.CreateChatroom("T")
	st.AddUserMessage(room.ID, "hi", "")

	ss := tempStore(t)
	if err := ss.Save(st.Snapshot()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(ss.Path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	// encoding/json writes time.Time as RFC 3339; sanity-check the
	// wire format so the contract is explicit.
	if !strings.Contains(string(data), `"created_at": "2`) {
		t.Errorf("expected RFC 3339 created_at in record:\n%s", data)
	}
	if !strings.Contains(string(data), `"is_dark_mode"`) {
		t.Errorf("expected is_dark_mode field in record")
	}
}

// =============================================================================
// MISSING AND CORRUPT FILES
// =============================================================================

func TestLoad_MissingFile(t *testing.T) {
	ss := tempStore(t)

	record, err := ss.Load()
	if err != nil {
		t.Fatalf("missing file should not be an error, got %v", err)
	}
	if record != nil {
		t.Error("missing file should return a nil record")
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	ss := tempStore(t)
	if err := os.MkdirAll(filepath.Dir(ss.Path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(ss.Path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ss.Load()
	if err == nil {
		t.Error("corrupt file must return an error")
	}
}

// =============================================================================
// PERSISTED SUBSET
// =============================================================================

func TestSave_OmitsTransientFields(t *testing.T) {
	st := store.New()
	room := st.CreateChatroom("T")
	st.SetCurrentChatroom(room.ID)
	st.SetTyping(true)
	st.SetSearchQuery("secret-query")

	ss := tempStore(t)
	if err := ss.Save(st.Snapshot()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, _ := os.ReadFile(ss.Path)
	for _, forbidden := range []string{"current_chatroom", "is_typing", "search", "secret-query"} {
		if strings.Contains(string(data), forbidden) {
			t.Errorf("persisted record must not contain %q", forbidden)
		}
	}
}

func TestSave_NilUser(t *testing.T) {
	st := store.New()
	st.CreateChatroom("Anonymous")

	ss := tempStore(t)
	if err := ss.Save(st.Snapshot()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	record, err := ss.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if record.ModelUser() != nil {
		t.Error("expected nil user")
	}
	if record.IsAuthenticated {
		t.Error("expected IsAuthenticated false")
	}
}
