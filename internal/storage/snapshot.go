// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/jeranaias/parley-tui/internal/model"
	"github.com/jeranaias/parley-tui/internal/store"
	"github.com/jeranaias/parley-tui/internal/util"
)

// =============================================================================
// PERSISTED RECORD TYPES
// =============================================================================

// PersistedState is the single durable record. Its layout is the wire
// contract for state files; renaming a field breaks old state files.
type PersistedState struct {
	User            *StoredUser    `json:"user"`
	IsAuthenticated bool           `json:"is_authenticated"`
	IsDarkMode      bool           `json:"is_dark_mode"`
	Chatrooms       []StoredRoom   `json:"chatrooms"`
}

// StoredUser is the persisted form of model.User.
type StoredUser struct {
	ID          string `json:"id"`
	Phone       string `json:"phone"`
	CountryCode string `json:"country_code"`
}

// StoredRoom is the persisted form of model.Chatroom.
type StoredRoom struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	CreatedAt time.Time       `json:"created_at"`
	Messages  []StoredMessage `json:"messages"`
}

// StoredMessage is the persisted form of model.Message.
type StoredMessage struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	IsUser    bool      `json:"is_user"`
	Timestamp time.Time `json:"timestamp"`
	Image     string    `json:"image,omitempty"`
}

// =============================================================================
// SNAPSHOT STORE
// =============================================================================

// SnapshotStore reads and writes the persisted record.
type SnapshotStore struct {
	// Path is the state file location. Default: ~/.parley/state.json
	Path string
}

// NewSnapshotStore creates a store at the default location.
func NewSnapshotStore() (*SnapshotStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &SnapshotStore{
		Path: filepath.Join(homeDir, ".parley", "state.json"),
	}, nil
}

// NewSnapshotStoreWithPath creates a store with a custom file path.
func NewSnapshotStoreWithPath(path string) *SnapshotStore {
	return &SnapshotStore{Path: path}
}

// =============================================================================
// SAVE
// =============================================================================

// Save writes the persisted subset of a store snapshot. The write is
// atomic: the previous record survives a crash mid-write.
func (s *SnapshotStore) Save(snap store.Snapshot) error {
	record := capture(snap)

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(s.Path, data, 0644)
}

// capture extracts the durable subset from a snapshot.
func capture(snap store.Snapshot) PersistedState {
	record := PersistedState{
		IsAuthenticated: snap.IsAuthenticated,
		IsDarkMode:      snap.IsDarkMode,
		Chatrooms:       make([]StoredRoom, len(snap.Chatrooms)),
	}
	if snap.User != nil {
		record.User = &StoredUser{
			ID:          snap.User.ID,
			Phone:       snap.User.Phone,
			CountryCode: snap.User.CountryCode,
		}
	}
	for i, room := range snap.Chatrooms {
		stored := StoredRoom{
			ID:        room.ID,
			Title:     room.Title,
			CreatedAt: room.CreatedAt,
			Messages:  make([]StoredMessage, len(room.Messages)),
		}
		for j, msg := range room.Messages {
			stored.Messages[j] = StoredMessage{
				ID:        msg.ID,
				Text:      msg.Text,
				IsUser:    msg.IsUser,
				Timestamp: msg.Timestamp,
				Image:     msg.Image,
			}
		}
		record.Chatrooms[i] = stored
	}
	return record
}

// =============================================================================
// LOAD
// =============================================================================

// Load reads the persisted record. A missing file is not an error: it
// returns (nil, nil) and the application starts fresh. A corrupt file
// returns the parse error; the caller decides whether to start fresh.
func (s *SnapshotStore) Load() (*PersistedState, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var record PersistedState
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// =============================================================================
// MODEL CONVERSION
// =============================================================================

// ModelUser converts the persisted user back to a model value, or nil.
func (p *PersistedState) ModelUser() *model.User {
	if p.User == nil {
		return nil
	}
	return &model.User{
		ID:          p.User.ID,
		Phone:       p.User.Phone,
		CountryCode: p.User.CountryCode,
	}
}

// ModelChatrooms converts the persisted rooms back to model values,
// preserving order and message order.
func (p *PersistedState) ModelChatrooms() []*model.Chatroom {
	rooms := make([]*model.Chatroom, len(p.Chatrooms))
	for i, stored := range p.Chatrooms {
		room := &model.Chatroom{
			ID:        stored.ID,
			Title:     stored.Title,
			CreatedAt: stored.CreatedAt,
			Messages:  make([]*model.Message, len(stored.Messages)),
		}
		for j, msg := range stored.Messages {
			room.Messages[j] = &model.Message{
				ID:        msg.ID,
				Text:      msg.Text,
				IsUser:    msg.IsUser,
				Timestamp: msg.Timestamp,
				Image:     msg.Image,
			}
		}
		rooms[i] = room
	}
	return rooms
}
