// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"context"
	"sync"
	"time"

	"github.com/jeranaias/parley-tui/internal/model"
	"github.com/jeranaias/parley-tui/internal/store"
)

// =============================================================================
// RESULT TYPES
// =============================================================================

// Outcome describes how a pending reply ended.
type Outcome int

const (
	// OutcomeDelivered means the reply was appended to its room.
	OutcomeDelivered Outcome = iota

	// OutcomeDropped means the target room vanished during the delay;
	// the reply was discarded (a recoverable stale reference, not an
	// error).
	OutcomeDropped

	// OutcomeCancelled means the pending reply was cancelled (room
	// deleted, logout, or shutdown).
	OutcomeCancelled
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeDelivered:
		return "delivered"
	case OutcomeDropped:
		return "dropped"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Result reports a finished reply attempt.
type Result struct {
	RoomID  string
	Message *model.Message
	Outcome Outcome
}

// =============================================================================
// RESPONDER
// =============================================================================

// Responder waits out the pacing delay and appends canned replies
// through the store. Each pending reply registers a cancel function
// keyed by its room, so deleting a room (or logging out) aborts the
// replies headed for it.
type Responder struct {
	store *store.Store
	pacer *Pacer

	mu      sync.Mutex
	nextSeq int
	pending map[string]map[int]context.CancelFunc // room id -> seq -> cancel
}

// NewResponder creates a responder bound to a store.
func NewResponder(st *store.Store, pacer *Pacer) *Responder {
	return &Responder{
		store:   st,
		pacer:   pacer,
		pending: make(map[string]map[int]context.CancelFunc),
	}
}

// Respond simulates a reply to userText in the given room. It blocks
// for the pacing delay (so callers run it from a goroutine or a Bubble
// Tea command), then re-validates the room and appends the reply.
//
// The reply targets the room the message was sent in, even if the user
// has navigated elsewhere meanwhile; only a deleted room drops it.
func (r *Responder) Respond(ctx context.Context, roomID, userText string) Result {
	ctx, cancel := context.WithCancel(ctx)
	seq := r.register(roomID, cancel)
	defer r.unregister(roomID, seq)

	delay := r.pacer.NextDelay()
	r.store.SetTyping(true)

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		r.store.SetTyping(false)
		return Result{RoomID: roomID, Outcome: OutcomeCancelled}
	case <-timer.C:
	}

	reply := ReplyTo(userText)
	msg, err := r.store.AddAssistantMessage(roomID, reply)
	r.store.SetTyping(false)
	if err != nil {
		// Room deleted during the delay: drop the reply.
		return Result{RoomID: roomID, Outcome: OutcomeDropped}
	}

	r.pacer.RecordResponse()
	return Result{RoomID: roomID, Message: msg, Outcome: OutcomeDelivered}
}

// CancelRoom aborts every pending reply targeting a room. Call when
// the room is deleted.
func (r *Responder) CancelRoom(roomID string) {
	r.mu.Lock()
	cancels := r.pending[roomID]
	delete(r.pending, roomID)
	r.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}

// CancelAll aborts every pending reply. Call on logout or shutdown.
func (r *Responder) CancelAll() {
	r.mu.Lock()
	all := r.pending
	r.pending = make(map[string]map[int]context.CancelFunc)
	r.mu.Unlock()

	for _, cancels := range all {
		for _, cancel := range cancels {
			cancel()
		}
	}
}

// PendingCount returns the number of in-flight replies.
func (r *Responder) PendingCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, cancels := range r.pending {
		count += len(cancels)
	}
	return count
}

// register records a pending reply and returns its sequence number.
func (r *Responder) register(roomID string, cancel context.CancelFunc) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextSeq++
	seq := r.nextSeq
	if r.pending[roomID] == nil {
		r.pending[roomID] = make(map[int]context.CancelFunc)
	}
	r.pending[roomID][seq] = cancel
	return seq
}

// unregister removes a finished reply from the registry.
func (r *Responder) unregister(roomID string, seq int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cancels, ok := r.pending[roomID]; ok {
		delete(cancels, seq)
		if len(cancels) == 0 {
			delete(r.pending, roomID)
		}
	}
}
