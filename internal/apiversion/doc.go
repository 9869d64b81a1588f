// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package apiversion normalizes user-facing documentation version identifiers
// (free-pro-team@latest, enterprise-server@3.14, ghec, ...) into canonical
// schema version names.
package apiversion
