// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	authsvc "github.com/jeranaias/parley-tui/internal/auth"
	"github.com/jeranaias/parley-tui/internal/countries"
	"github.com/jeranaias/parley-tui/internal/ui/styles"
)

// =============================================================================
// LOGIN STATE
// =============================================================================

// step is the current form step.
type step int

const (
	stepPhone step = iota // Phone number entry
	stepOTP               // Code confirmation
)

// =============================================================================
// LOGIN MODEL
// =============================================================================

// Model is the Bubble Tea model for the login view.
type Model struct {
	step step

	theme    *styles.Theme
	verifier *authsvc.Verifier
	lookup   *countries.Client

	// Country selector
	countries   []countries.Country
	countryIdx  int
	lookupNote  string

	// Inputs
	phoneInput textinput.Model
	otpInput   textinput.Model

	// Busy state (sending or verifying)
	busy    bool
	spinner spinner.Model

	errText string

	width  int
	height int
}

// New creates the login view.
func New(theme *styles.Theme, verifier *authsvc.Verifier, lookup *countries.Client) *Model {
	phone := textinput.New()
	phone.Placeholder = "Phone number"
	phone.CharLimit = 20
	phone.Width = 24
	phone.Prompt = ""
	phone.Focus()

	otp := textinput.New()
	otp.Placeholder = "6-digit code"
	otp.CharLimit = authsvc.OTPLength
	otp.Width = 24
	otp.Prompt = ""

	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = theme.Spinner

	fallback := make([]countries.Country, len(countries.FallbackCountries))
	copy(fallback, countries.FallbackCountries)

	return &Model{
		theme:      theme,
		verifier:   verifier,
		lookup:     lookup,
		countries:  fallback,
		phoneInput: phone,
		otpInput:   otp,
		spinner:    sp,
	}
}

// Init starts the country lookup.
func (m *Model) Init() tea.Cmd {
	return m.loadCountriesCmd()
}

// SetSize updates the layout dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Country returns the currently selected country.
func (m *Model) Country() countries.Country {
	return m.countries[m.countryIdx]
}

// =============================================================================
// COMMANDS
// =============================================================================

func (m *Model) loadCountriesCmd() tea.Cmd {
	return func() tea.Msg {
		list, err := m.lookup.FetchWithFallback(context.Background())
		return CountriesLoadedMsg{Countries: list, Err: err}
	}
}

func (m *Model) sendCodeCmd(resend bool) tea.Cmd {
	dial := m.Country().DialCode
	phone := m.phoneInput.Value()
	return func() tea.Msg {
		var err error
		if resend {
			err = m.verifier.ResendCode(context.Background())
		} else {
			err = m.verifier.SendCode(context.Background(), dial, phone)
		}
		return CodeSentMsg{Resend: resend, Err: err}
	}
}

func (m *Model) verifyCodeCmd() tea.Cmd {
	code := m.otpInput.Value()
	return func() tea.Msg {
		return CodeVerifiedMsg{Err: m.verifier.VerifyCode(context.Background(), code)}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles login view events.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case CountriesLoadedMsg:
		m.countries = msg.Countries
		if m.countryIdx >= len(m.countries) {
			m.countryIdx = 0
		}
		if msg.Err != nil {
			m.lookupNote = "Country lookup failed; using defaults."
		} else {
			m.lookupNote = ""
		}
		return m, nil

	case CodeSentMsg:
		m.busy = false
		if msg.Err != nil {
			m.errText = msg.Err.Error()
			return m, nil
		}
		m.errText = ""
		if !msg.Resend {
			m.step = stepOTP
			m.phoneInput.Blur()
			m.otpInput.Reset()
			return m, m.otpInput.Focus()
		}
		return m, nil

	case CodeVerifiedMsg:
		m.busy = false
		if msg.Err != nil {
			m.errText = msg.Err.Error()
			return m, nil
		}
		m.errText = ""
		phone := authsvc.NormalizePhone(m.phoneInput.Value())
		code := m.Country().Code
		return m, func() tea.Msg {
			return AuthenticatedMsg{Phone: phone, CountryCode: code}
		}

	case spinner.TickMsg:
		if m.busy {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, m.updateInputs(msg)
}

func (m *Model) handleKey(key tea.KeyMsg) (*Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	switch m.step {
	case stepPhone:
		switch key.Type {
		case tea.KeyUp:
			m.countryIdx = (m.countryIdx - 1 + len(m.countries)) % len(m.countries)
			return m, nil
		case tea.KeyDown:
			m.countryIdx = (m.countryIdx + 1) % len(m.countries)
			return m, nil
		case tea.KeyEnter:
			if err := authsvc.ValidatePhone(authsvc.NormalizePhone(m.phoneInput.Value())); err != nil {
				m.errText = err.Error()
				return m, nil
			}
			m.errText = ""
			m.busy = true
			return m, tea.Batch(m.spinner.Tick, m.sendCodeCmd(false))
		}

	case stepOTP:
		switch key.Type {
		case tea.KeyEnter:
			if err := authsvc.ValidateOTPFormat(m.otpInput.Value()); err != nil {
				m.errText = err.Error()
				return m, nil
			}
			m.errText = ""
			m.busy = true
			return m, tea.Batch(m.spinner.Tick, m.verifyCodeCmd())
		case tea.KeyEsc:
			return m.backToPhone()
		}
		switch key.String() {
		case "ctrl+r":
			m.busy = true
			return m, tea.Batch(m.spinner.Tick, m.sendCodeCmd(true))
		}
	}

	return m, m.updateInputs(key)
}

// backToPhone returns to the phone step, discarding the pending code.
func (m *Model) backToPhone() (*Model, tea.Cmd) {
	m.verifier.Reset()
	m.step = stepPhone
	m.errText = ""
	m.otpInput.Blur()
	return m, m.phoneInput.Focus()
}

func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.step {
	case stepPhone:
		m.phoneInput, cmd = m.phoneInput.Update(msg)
	case stepOTP:
		m.otpInput, cmd = m.otpInput.Update(msg)
	}
	return cmd
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the login form.
func (m *Model) View() string {
	var rows []string
	rows = append(rows, m.theme.AuthTitle.Render("Sign in to Parley"), "")

	switch m.step {
	case stepPhone:
		country := m.Country()
		rows = append(rows,
			m.theme.AuthLabel.Render("Country"),
			country.Label(),
			m.theme.AuthHint.Render("up/down to change"),
			"",
			m.theme.AuthLabel.Render("Phone number"),
			m.phoneInput.View(),
		)
		if m.lookupNote != "" {
			rows = append(rows, "", m.theme.WarningText.Render(m.lookupNote))
		}
	case stepOTP:
		rows = append(rows,
			m.theme.AuthLabel.Render("Code sent to "+m.verifier.PendingPhone()),
			m.otpInput.View(),
			"",
			m.theme.AuthHint.Render("enter confirm  -  ctrl+r resend  -  esc change number"),
		)
	}

	if m.busy {
		rows = append(rows, "", m.spinner.View()+" Working...")
	}
	if m.errText != "" {
		rows = append(rows, "", m.theme.AuthError.Render(m.errText))
	}

	box := m.theme.AuthBox.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
