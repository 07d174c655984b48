// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for parley.
//
// It contains the atomic file writer used by persistence and
// configuration, and Unicode-safe string truncation used by the
// sidebar and message previews.
package util
