// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	authsvc "github.com/jeranaias/parley-tui/internal/auth"
	"github.com/jeranaias/parley-tui/internal/countries"
	"github.com/jeranaias/parley-tui/internal/ui/styles"
)

func newTestModel() *Model {
	verifier := authsvc.NewVerifier(
		authsvc.WithDelays(0, 0),
		authsvc.WithResendInterval(time.Hour),
	)
	return New(styles.NewThemeWithMode(styles.ModeDark), verifier, countries.NewClient())
}

func typeString(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func runCmd(t *testing.T, m *Model, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return cmd()
}

// drive runs cmd and feeds any batched messages back through Update
// until the expected message type surfaces.
func feedBatch(t *testing.T, m *Model, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	msg := runCmd(t, m, cmd)
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			if c != nil {
				out = append(out, c())
			}
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestPhoneStepValidatesBeforeSending(t *testing.T) {
	m := newTestModel()
	typeString(m, "123")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("invalid phone should not dispatch a send")
	}
	if m.errText == "" {
		t.Error("invalid phone should set an inline error")
	}
	if m.step != stepPhone {
		t.Error("form should stay on the phone step")
	}
}

func TestCountrySelectorCycles(t *testing.T) {
	m := newTestModel()

	first := m.Country().Code
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.Country().Code == first {
		t.Error("down should move to the next country")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.Country().Code != first {
		t.Error("up should move back to the first country")
	}

	// Wraps past the start.
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.Country().Code != countries.FallbackCountries[len(countries.FallbackCountries)-1].Code {
		t.Error("up from the first entry should wrap to the last")
	}
}

func TestFullLoginFlow(t *testing.T) {
	m := newTestModel()
	typeString(m, "5551234567")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msgs := feedBatch(t, m, cmd)

	var sent *CodeSentMsg
	for _, msg := range msgs {
		if s, ok := msg.(CodeSentMsg); ok {
			sent = &s
		}
	}
	if sent == nil {
		t.Fatal("expected CodeSentMsg")
	}
	if sent.Err != nil {
		t.Fatalf("send failed: %v", sent.Err)
	}

	m.Update(*sent)
	if m.step != stepOTP {
		t.Fatal("successful send should advance to the code step")
	}

	// Wrong code first.
	typeString(m, "999999")
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	var verified *CodeVerifiedMsg
	for _, msg := range feedBatch(t, m, cmd) {
		if v, ok := msg.(CodeVerifiedMsg); ok {
			verified = &v
		}
	}
	if verified == nil || verified.Err == nil {
		t.Fatal("wrong code should fail verification")
	}
	m.Update(*verified)
	if m.errText == "" {
		t.Error("failed verification should show an inline error")
	}

	// Correct code.
	m.otpInput.Reset()
	typeString(m, authsvc.StubOTPCode)
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	verified = nil
	for _, msg := range feedBatch(t, m, cmd) {
		if v, ok := msg.(CodeVerifiedMsg); ok {
			verified = &v
		}
	}
	if verified == nil || verified.Err != nil {
		t.Fatalf("correct code should verify, got %+v", verified)
	}

	_, cmd = m.Update(*verified)
	msg := runCmd(t, m, cmd)
	done, ok := msg.(AuthenticatedMsg)
	if !ok {
		t.Fatalf("expected AuthenticatedMsg, got %T", msg)
	}
	if done.Phone != "5551234567" {
		t.Errorf("authenticated phone: got %q", done.Phone)
	}
	if done.CountryCode != "US" {
		t.Errorf("authenticated country: got %q", done.CountryCode)
	}
}

func TestEscReturnsToPhoneStep(t *testing.T) {
	m := newTestModel()
	typeString(m, "5551234567")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	for _, msg := range feedBatch(t, m, cmd) {
		if s, ok := msg.(CodeSentMsg); ok {
			m.Update(s)
		}
	}
	if m.step != stepOTP {
		t.Fatal("expected code step")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.step != stepPhone {
		t.Error("esc should return to the phone step")
	}
	if m.verifier.PendingPhone() != "" {
		t.Error("changing number should discard the pending code")
	}
}

func TestCountriesLoadedFallbackNote(t *testing.T) {
	m := newTestModel()

	m.Update(CountriesLoadedMsg{
		Countries: countries.FallbackCountries,
		Err:       countries.ErrBadStatus,
	})

	if !strings.Contains(m.View(), "Country lookup failed") {
		t.Error("lookup failure should surface a notice in the view")
	}
}
