// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package filters implements the --filter expression language applied to
// command result rows.
package filters
