// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides argument parsing and the plain-terminal REPL
// fallback for environments where the full-screen TUI is unwanted.
package cli
