// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for users, messages, and
// chat rooms.
//
// All three types are plain values created through constructors that
// assign collision-safe ids: users get a UUID at login, rooms and
// messages get prefix-tagged random hex ids ("room_", "msg_"). Messages
// are never mutated after creation; a room's message slice is
// append-only and owned by the store.
package model
