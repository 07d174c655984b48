// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package assistant simulates the chat partner.
//
// It has three pieces: a rule table that classifies the user's last
// message and picks a canned reply (first match wins), a pacer that
// computes the artificial response delay (base delay plus a
// minimum-gap floor plus jitter), and a responder that waits out the
// delay, re-validates its target room, and appends the reply through
// the store.
//
// The delay is the only suspension point in the application. While a
// reply is pending the user can delete the target room or log out, so
// every pending reply carries a cancellable context and the append path
// checks the room still exists before writing.
package assistant
