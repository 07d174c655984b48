// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"sync"

	"github.com/jeranaias/parley-tui/internal/model"
)

// =============================================================================
// SNAPSHOT TYPE
// =============================================================================

// Snapshot is a deep copy of the store state handed to observers and
// readers. Mutating a snapshot never affects the store.
type Snapshot struct {
	User              *model.User
	IsAuthenticated   bool
	IsDarkMode        bool
	Chatrooms         []*model.Chatroom
	CurrentChatroomID string
	IsTyping          bool
	SearchQuery       string
}

// Observer is called after every store mutation with the new snapshot.
type Observer func(Snapshot)

// =============================================================================
// STORE TYPE
// =============================================================================

// Store is the application state container. The zero value is not
// usable; create one with New.
type Store struct {
	mu sync.Mutex

	// Session
	user            *model.User
	isAuthenticated bool

	// Theme
	isDarkMode bool

	// Conversations, most-recently-created first.
	chatrooms         []*model.Chatroom
	currentChatroomID string

	// Transient UI state (never persisted).
	isTyping    bool
	searchQuery string

	observers []Observer
}

// New creates an empty store.
func New() *Store {
	return &Store{
		chatrooms: make([]*model.Chatroom, 0),
	}
}

// Subscribe registers an observer. Observers run synchronously after
// each mutation, outside the store lock, in registration order.
func (s *Store) Subscribe(fn Observer) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

// notify hands the current snapshot to every observer. Called without
// the lock held.
func (s *Store) notify() {
	snap := s.Snapshot()
	s.mu.Lock()
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, fn := range observers {
		fn(snap)
	}
}

// =============================================================================
// SESSION ACTIONS
// =============================================================================

// SetUser records the authenticated user. The caller guarantees a
// well-formed user; the store only maintains the auth flag invariant.
func (s *Store) SetUser(u *model.User) {
	s.mu.Lock()
	userCopy := *u
	s.user = &userCopy
	s.isAuthenticated = true
	s.mu.Unlock()
	s.notify()
}

// Logout clears the session and the current room selection.
// Chat data survives: logout is a session boundary, not a data wipe.
func (s *Store) Logout() {
	s.mu.Lock()
	s.user = nil
	s.isAuthenticated = false
	s.currentChatroomID = ""
	s.mu.Unlock()
	s.notify()
}

// =============================================================================
// THEME ACTIONS
// =============================================================================

// ToggleDarkMode flips the dark-mode flag. The theme itself reacts as
// an observer.
func (s *Store) ToggleDarkMode() {
	s.mu.Lock()
	s.isDarkMode = !s.isDarkMode
	s.mu.Unlock()
	s.notify()
}

// =============================================================================
// CHATROOM ACTIONS
// =============================================================================

// CreateChatroom builds a room with an empty message list and prepends
// it: the newest room is always first. Returns a copy of the new room.
func (s *Store) CreateChatroom(title string) *model.Chatroom {
	room := model.NewChatroom(title)

	s.mu.Lock()
	s.chatrooms = append([]*model.Chatroom{room}, s.chatrooms...)
	s.mu.Unlock()
	s.notify()

	return room.Clone()
}

// DeleteChatroom removes the room with the given id and reports whether
// anything was removed. Deleting an unknown id is a no-op, not an
// error. If the deleted room was current, the selection is cleared.
func (s *Store) DeleteChatroom(id string) bool {
	s.mu.Lock()
	deleted := false
	for i, room := range s.chatrooms {
		if room.ID == id {
			s.chatrooms = append(s.chatrooms[:i], s.chatrooms[i+1:]...)
			deleted = true
			break
		}
	}
	if deleted && s.currentChatroomID == id {
		s.currentChatroomID = ""
	}
	s.mu.Unlock()

	if deleted {
		s.notify()
	}
	return deleted
}

// SetCurrentChatroom selects a room. Unknown ids return
// ErrChatroomNotFound and leave the store unchanged.
func (s *Store) SetCurrentChatroom(id string) error {
	s.mu.Lock()
	if s.findRoom(id) == nil {
		s.mu.Unlock()
		return ErrChatroomNotFound
	}
	s.currentChatroomID = id
	s.mu.Unlock()
	s.notify()
	return nil
}

// ClearCurrentChatroom deselects the current room (navigating back to
// the welcome screen).
func (s *Store) ClearCurrentChatroom() {
	s.mu.Lock()
	s.currentChatroomID = ""
	s.mu.Unlock()
	s.notify()
}

// =============================================================================
// MESSAGE ACTIONS
// =============================================================================

// AddUserMessage appends a message typed by the user. The image may be
// empty. Unknown room ids return ErrChatroomNotFound and leave the
// store unchanged.
func (s *Store) AddUserMessage(roomID, text, image string) (*model.Message, error) {
	var msg *model.Message
	if image != "" {
		msg = model.NewUserMessageWithImage(text, image)
	} else {
		msg = model.NewUserMessage(text)
	}
	return s.appendMessage(roomID, msg)
}

// AddAssistantMessage appends a simulated assistant reply. Unknown room
// ids return ErrChatroomNotFound and leave the store unchanged.
func (s *Store) AddAssistantMessage(roomID, text string) (*model.Message, error) {
	return s.appendMessage(roomID, model.NewAssistantMessage(text))
}

func (s *Store) appendMessage(roomID string, msg *model.Message) (*model.Message, error) {
	s.mu.Lock()
	room := s.findRoom(roomID)
	if room == nil {
		s.mu.Unlock()
		return nil, ErrChatroomNotFound
	}
	room.Append(msg)
	s.mu.Unlock()
	s.notify()

	msgCopy := *msg
	return &msgCopy, nil
}

// =============================================================================
// TRANSIENT UI ACTIONS
// =============================================================================

// SetTyping sets the typing-indicator flag.
func (s *Store) SetTyping(typing bool) {
	s.mu.Lock()
	changed := s.isTyping != typing
	s.isTyping = typing
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// SetSearchQuery records the raw (non-debounced) sidebar query.
// Debouncing is the UI's concern.
func (s *Store) SetSearchQuery(query string) {
	s.mu.Lock()
	s.searchQuery = query
	s.mu.Unlock()
	s.notify()
}

// =============================================================================
// READ ACCESS
// =============================================================================

// Snapshot returns a deep copy of the full store state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		IsAuthenticated:   s.isAuthenticated,
		IsDarkMode:        s.isDarkMode,
		CurrentChatroomID: s.currentChatroomID,
		IsTyping:          s.isTyping,
		SearchQuery:       s.searchQuery,
		Chatrooms:         make([]*model.Chatroom, len(s.chatrooms)),
	}
	if s.user != nil {
		userCopy := *s.user
		snap.User = &userCopy
	}
	for i, room := range s.chatrooms {
		snap.Chatrooms[i] = room.Clone()
	}
	return snap
}

// User returns a copy of the current user, or nil when logged out.
func (s *Store) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	userCopy := *s.user
	return &userCopy
}

// IsAuthenticated reports whether a user is logged in.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isAuthenticated
}

// IsDarkMode reports the dark-mode flag.
func (s *Store) IsDarkMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isDarkMode
}

// IsTyping reports the typing-indicator flag.
func (s *Store) IsTyping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isTyping
}

// SearchQuery returns the raw sidebar query.
func (s *Store) SearchQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchQuery
}

// CurrentChatroomID returns the selected room id, or "" when none.
func (s *Store) CurrentChatroomID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentChatroomID
}

// Chatrooms returns deep copies of all rooms, newest first.
func (s *Store) Chatrooms() []*model.Chatroom {
	s.mu.Lock()
	defer s.mu.Unlock()
	rooms := make([]*model.Chatroom, len(s.chatrooms))
	for i, room := range s.chatrooms {
		rooms[i] = room.Clone()
	}
	return rooms
}

// Chatroom returns a deep copy of the room with the given id, or nil.
func (s *Store) Chatroom(id string) *model.Chatroom {
	s.mu.Lock()
	defer s.mu.Unlock()
	room := s.findRoom(id)
	if room == nil {
		return nil
	}
	return room.Clone()
}

// CurrentChatroom returns a deep copy of the selected room, or nil.
func (s *Store) CurrentChatroom() *model.Chatroom {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentChatroomID == "" {
		return nil
	}
	room := s.findRoom(s.currentChatroomID)
	if room == nil {
		return nil
	}
	return room.Clone()
}

// RoomExists reports whether a room id is present. The assistant
// responder uses this to re-validate its target after its delay.
func (s *Store) RoomExists(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findRoom(id) != nil
}

// findRoom returns the room with the given id. Caller holds the lock.
func (s *Store) findRoom(id string) *model.Chatroom {
	for _, room := range s.chatrooms {
		if room.ID == id {
			return room
		}
	}
	return nil
}

// =============================================================================
// RESTORE
// =============================================================================

// Restore replaces the persisted subset of the state with a loaded
// snapshot: user, auth flag, dark-mode flag, and rooms. Transient
// fields keep their defaults. Used once at startup, before any
// observers are registered.
func (s *Store) Restore(user *model.User, isAuthenticated, isDarkMode bool, rooms []*model.Chatroom) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user != nil {
		userCopy := *user
		s.user = &userCopy
	} else {
		s.user = nil
	}
	// Invariant: the auth flag tracks user presence even if the
	// persisted record disagrees.
	s.isAuthenticated = isAuthenticated && user != nil
	s.isDarkMode = isDarkMode
	s.chatrooms = make([]*model.Chatroom, len(rooms))
	for i, room := range rooms {
		s.chatrooms[i] = room.Clone()
	}
	s.currentChatroomID = ""
	s.isTyping = false
	s.searchQuery = ""
}
