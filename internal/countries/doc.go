// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package countries fetches the country list for the phone login form.
//
// The source is the REST Countries API. Entries without a dial code are
// filtered out and the rest sorted by common name. Any failure - network,
// bad status, oversized or malformed body - substitutes a fixed
// three-entry fallback list so the login form always works offline.
package countries
