// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the parley
// TUI: the message input area, the typing indicator, and the modal
// prompts used for room creation and deletion.
package components
