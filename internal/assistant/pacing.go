// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"math/rand"
	"sync"
	"time"
)

// Reference pacing constants. The base delay applies to every reply;
// the minimum gap caps how fast consecutive replies can land even
// under rapid user input; the jitter keeps timing non-deterministic.
const (
	DefaultBaseDelay = 1500 * time.Millisecond
	DefaultMinGap    = 2000 * time.Millisecond
	DefaultJitterMax = 2000 * time.Millisecond
)

// =============================================================================
// PACER
// =============================================================================

// Pacer computes the simulated response delay:
//
//	delay = base + max(0, minGap - (now - lastResponse)) + jitter
//
// where jitter is uniform in [0, jitterMax). Safe for concurrent use.
type Pacer struct {
	mu           sync.Mutex
	baseDelay    time.Duration
	minGap       time.Duration
	jitterMax    time.Duration
	lastResponse time.Time

	// now and jitter are injectable for deterministic tests.
	now    func() time.Time
	jitter func(max time.Duration) time.Duration
}

// NewPacer creates a pacer with the reference timing constants.
func NewPacer() *Pacer {
	return NewPacerWithTiming(DefaultBaseDelay, DefaultMinGap, DefaultJitterMax)
}

// NewPacerWithTiming creates a pacer with custom timing. A zero
// jitterMax disables jitter entirely.
func NewPacerWithTiming(baseDelay, minGap, jitterMax time.Duration) *Pacer {
	return &Pacer{
		baseDelay: baseDelay,
		minGap:    minGap,
		jitterMax: jitterMax,
		now:       time.Now,
		jitter: func(max time.Duration) time.Duration {
			if max <= 0 {
				return 0
			}
			return time.Duration(rand.Int63n(int64(max)))
		},
	}
}

// NextDelay returns the delay to wait before the next reply.
func (p *Pacer) NextDelay() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	gap := time.Duration(0)
	if !p.lastResponse.IsZero() {
		elapsed := p.now().Sub(p.lastResponse)
		if elapsed < p.minGap {
			gap = p.minGap - elapsed
		}
	}
	return p.baseDelay + gap + p.jitter(p.jitterMax)
}

// RecordResponse marks now as the latest reply time. Called after each
// delivered reply so the minimum-gap floor applies to the next one.
func (p *Pacer) RecordResponse() {
	p.mu.Lock()
	p.lastResponse = p.now()
	p.mu.Unlock()
}
