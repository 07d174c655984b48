// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the application state: session, theme flag, chat
// rooms, and transient UI fields.
//
// The store is the single source of truth. Every action is a
// synchronous state transition; after each mutation the store notifies
// registered observers with a deep-copied snapshot. Persistence and the
// theme switch are observers, not store concerns.
//
// The UI event loop is the only writer for most actions, but the
// assistant responder appends replies from its own goroutine, so all
// access goes through one mutex. Accessors return copies; callers never
// see internal slices.
package store
