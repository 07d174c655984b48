// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for users, messages, and
// chat rooms.
package model

import "github.com/google/uuid"

// =============================================================================
// USER TYPE
// =============================================================================

// User identifies the authenticated person. It is created on successful
// OTP verification, immutable afterward, and cleared on logout.
type User struct {
	// ID is an opaque identifier generated at login.
	ID string `json:"id"`

	// Phone is the full number: country dial code plus digits.
	// Not validated for real deliverability; this is a demo login.
	Phone string `json:"phone"`

	// CountryCode is the dial code the number was entered under (e.g. "+44").
	CountryCode string `json:"country_code"`
}

// NewUser creates a user with a generated id.
func NewUser(phone, countryCode string) *User {
	return &User{
		ID:          uuid.NewString(),
		Phone:       phone,
		CountryCode: countryCode,
	}
}
