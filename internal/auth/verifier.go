// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pquerna/otp/totp"
	"golang.org/x/time/rate"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// StubOTPCode is the fixed code accepted in stub mode.
	StubOTPCode = "123456"

	// OTPLength is the required code length.
	OTPLength = 6

	// PhoneMinDigits is the minimum number of digits in a phone number.
	PhoneMinDigits = 10

	// PhoneMaxDigits is the maximum number of digits in a phone number.
	PhoneMaxDigits = 15

	// DefaultSendDelay simulates the latency of dispatching a code.
	DefaultSendDelay = 2 * time.Second

	// DefaultVerifyDelay simulates the latency of checking a code.
	DefaultVerifyDelay = 1500 * time.Millisecond

	// DefaultResendInterval is the minimum gap between resend requests.
	DefaultResendInterval = 10 * time.Second
)

// Mode selects how submitted codes are checked.
type Mode string

const (
	// ModeStub accepts only StubOTPCode. This is the default.
	ModeStub Mode = "stub"

	// ModeTOTP validates codes against a configured TOTP secret.
	ModeTOTP Mode = "totp"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrInvalidPhone indicates the phone number failed validation.
	ErrInvalidPhone = errors.New("phone number must be 10-15 digits")

	// ErrInvalidOTP indicates the code is not a 6-digit number.
	ErrInvalidOTP = errors.New("code must be 6 digits")

	// ErrWrongOTP indicates a well-formed code that did not match.
	ErrWrongOTP = errors.New("incorrect verification code")

	// ErrNoPendingCode indicates verification without a prior send.
	ErrNoPendingCode = errors.New("no code has been sent")

	// ErrResendThrottled indicates a resend request came too soon.
	ErrResendThrottled = errors.New("please wait before requesting another code")

	// ErrNoTOTPSecret indicates totp mode without a configured secret.
	ErrNoTOTPSecret = errors.New("totp mode requires a configured secret")
)

// =============================================================================
// VALIDATION
// =============================================================================

// NormalizePhone strips spacing and punctuation commonly typed in
// phone numbers, leaving digits only.
func NormalizePhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidatePhone checks a normalized phone number: digits only, within
// the length bounds.
func ValidatePhone(phone string) error {
	if len(phone) < PhoneMinDigits || len(phone) > PhoneMaxDigits {
		return ErrInvalidPhone
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return ErrInvalidPhone
		}
	}
	return nil
}

// ValidateOTPFormat checks that a code is exactly six digits.
func ValidateOTPFormat(code string) error {
	if len(code) != OTPLength {
		return ErrInvalidOTP
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return ErrInvalidOTP
		}
	}
	return nil
}

// =============================================================================
// VERIFIER
// =============================================================================

// Verifier runs the send-then-confirm OTP exchange.
// Safe for concurrent use; the UI calls it from command goroutines.
type Verifier struct {
	mode        Mode
	totpSecret  string
	sendDelay   time.Duration
	verifyDelay time.Duration
	resend      *rate.Limiter

	// mu protects the pending send state.
	mu           sync.Mutex
	pendingPhone string
	pendingDial  string
}

// Option is a functional option for configuring Verifier.
type Option func(*Verifier)

// WithMode sets the verification mode.
func WithMode(mode Mode) Option {
	return func(v *Verifier) {
		v.mode = mode
	}
}

// WithTOTPSecret sets the secret used in totp mode.
func WithTOTPSecret(secret string) Option {
	return func(v *Verifier) {
		v.totpSecret = secret
	}
}

// WithDelays overrides the simulated send and verify latency.
// Tests use zero delays.
func WithDelays(send, verify time.Duration) Option {
	return func(v *Verifier) {
		v.sendDelay = send
		v.verifyDelay = verify
	}
}

// WithResendInterval sets the minimum gap between resend requests.
func WithResendInterval(interval time.Duration) Option {
	return func(v *Verifier) {
		if interval > 0 {
			v.resend = rate.NewLimiter(rate.Every(interval), 1)
		}
	}
}

// NewVerifier creates a Verifier with the given options.
func NewVerifier(opts ...Option) *Verifier {
	v := &Verifier{
		mode:        ModeStub,
		sendDelay:   DefaultSendDelay,
		verifyDelay: DefaultVerifyDelay,
		resend:      rate.NewLimiter(rate.Every(DefaultResendInterval), 1),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// SendCode validates the phone number and simulates dispatching a
// code to it. The dial code is kept for display only.
func (v *Verifier) SendCode(ctx context.Context, dialCode, phone string) error {
	normalized := NormalizePhone(phone)
	if err := ValidatePhone(normalized); err != nil {
		return err
	}
	if err := sleepCtx(ctx, v.sendDelay); err != nil {
		return err
	}

	v.mu.Lock()
	v.pendingPhone = normalized
	v.pendingDial = dialCode
	v.mu.Unlock()

	// Consume the first resend slot so an immediate resend is throttled.
	v.resend.Allow()
	return nil
}

// ResendCode re-dispatches the code to the pending number, subject to
// the resend rate limit.
func (v *Verifier) ResendCode(ctx context.Context) error {
	v.mu.Lock()
	pending := v.pendingPhone
	v.mu.Unlock()
	if pending == "" {
		return ErrNoPendingCode
	}
	if !v.resend.Allow() {
		return ErrResendThrottled
	}
	return sleepCtx(ctx, v.sendDelay)
}

// VerifyCode checks a submitted code against the active mode.
func (v *Verifier) VerifyCode(ctx context.Context, code string) error {
	v.mu.Lock()
	pending := v.pendingPhone
	v.mu.Unlock()
	if pending == "" {
		return ErrNoPendingCode
	}
	if err := ValidateOTPFormat(code); err != nil {
		return err
	}
	if err := sleepCtx(ctx, v.verifyDelay); err != nil {
		return err
	}

	switch v.mode {
	case ModeTOTP:
		if v.totpSecret == "" {
			return ErrNoTOTPSecret
		}
		if !totp.Validate(code, v.totpSecret) {
			return ErrWrongOTP
		}
	default:
		if subtle.ConstantTimeCompare([]byte(code), []byte(StubOTPCode)) != 1 {
			return ErrWrongOTP
		}
	}
	return nil
}

// PendingPhone returns the number a code was last sent to, formatted
// with its dial code, or "" when nothing is pending.
func (v *Verifier) PendingPhone() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.pendingPhone == "" {
		return ""
	}
	if v.pendingDial == "" {
		return v.pendingPhone
	}
	return fmt.Sprintf("%s %s", v.pendingDial, v.pendingPhone)
}

// Reset clears the pending send, e.g. when the user changes number.
func (v *Verifier) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.pendingPhone = ""
	v.pendingDial = ""
}

// sleepCtx waits for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
