// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth implements the phone-number login flow.
//
// Login is a two-step exchange: the user submits a phone number, a
// one-time code is "sent" (simulated with a short delay), and the
// user confirms the code. Two verification modes are supported:
//
//   - stub: accepts the fixed demo code. This is the default and the
//     only mode the offline demo needs.
//   - totp: validates the code against a configured TOTP secret using
//     the standard 30-second window.
//
// Resend is rate limited so the form cannot spam send requests.
package auth
