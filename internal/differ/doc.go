// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package differ compares two JSON documents, typically the same webhook
// category taken from two schema versions.
package differ
