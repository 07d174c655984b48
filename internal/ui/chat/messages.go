// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file defines all Bubble Tea message types used by the chat
// dashboard. Messages are organized into the following categories:
//   - State: store snapshot notifications
//   - Replies: simulated assistant reply outcomes
//   - Search: debounced sidebar filtering
//   - Session: logout
//
// All message types follow Bubble Tea conventions and are immutable.

package chat

import (
	"github.com/jeranaias/parley-tui/internal/assistant"
	"github.com/jeranaias/parley-tui/internal/store"
)

// =============================================================================
// STATE MESSAGES
// =============================================================================

// StateChangedMsg delivers a fresh store snapshot. The store observer
// forwards every notification into the program through this message.
type StateChangedMsg struct {
	Snapshot store.Snapshot
}

// PersistFailedMsg reports a failed state save. Persistence is never
// fatal; the dashboard shows a transient warning instead.
type PersistFailedMsg struct {
	Err error
}

// =============================================================================
// REPLY MESSAGES
// =============================================================================

// ReplyResultMsg reports the outcome of a pending assistant reply.
type ReplyResultMsg struct {
	Result assistant.Result
}

// =============================================================================
// SEARCH MESSAGES
// =============================================================================

// searchDebounceMsg fires when the search input has been quiet long
// enough to apply the query. Stale sequence numbers are ignored.
type searchDebounceMsg struct {
	seq int
}

// =============================================================================
// SESSION MESSAGES
// =============================================================================

// LoggedOutMsg signals that the user logged out. The root model
// switches back to the login view.
type LoggedOutMsg struct{}
