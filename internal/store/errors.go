// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

// ErrChatroomNotFound is returned when an action references a room id
// that is not in the store (for example after the room was deleted).
// Use errors.Is(err, ErrChatroomNotFound) to check for this error.
var ErrChatroomNotFound = &StoreError{Message: "chatroom not found"}

// StoreError represents a store-level error.
// It implements the error interface and can be compared using errors.Is.
type StoreError struct {
	Message string
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing store errors.
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}
