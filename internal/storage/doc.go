// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists the durable subset of the application state.
//
// The whole subset - user, auth flag, dark-mode flag, and all chat
// rooms - is one JSON record written atomically on every state change.
// Timestamps serialize as RFC 3339. Transient store fields (current
// room, typing flag, search query) are deliberately absent from the
// record and reset to defaults on load.
package storage
