// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import "github.com/jeranaias/parley-tui/internal/countries"

// =============================================================================
// LOGIN MESSAGES
// =============================================================================

// CountriesLoadedMsg delivers the country selector entries.
// Countries is never empty; on lookup failure it carries the fallback
// list and Err explains what went wrong.
type CountriesLoadedMsg struct {
	Countries []countries.Country
	Err       error
}

// CodeSentMsg reports the outcome of sending (or resending) a code.
type CodeSentMsg struct {
	Resend bool
	Err    error
}

// CodeVerifiedMsg reports the outcome of code confirmation.
type CodeVerifiedMsg struct {
	Err error
}

// AuthenticatedMsg signals a completed login. The root model creates
// the user and flips the store to authenticated.
type AuthenticatedMsg struct {
	Phone       string
	CountryCode string
}
