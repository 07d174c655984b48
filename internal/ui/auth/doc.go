// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth provides the login view for the TUI.
//
// The form walks through two steps: phone entry with a country
// selector, then one-time code confirmation. Countries load in the
// background; until the lookup resolves the selector shows the fixed
// fallback list.
package auth
