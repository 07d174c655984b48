// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat dashboard view for the TUI.
//
// The dashboard is split into a sidebar listing chatrooms newest
// first, a message thread for the selected room, and the input area.
// The view is a projection of the store: every mutation goes through
// store actions and the view re-renders from snapshot notifications.
package chat
