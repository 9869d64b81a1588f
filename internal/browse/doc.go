// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package browse is an interactive terminal browser over the webhook listing
// of one schema version. The full detail of a category is loaded on demand.
package browse
