// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package loader reads webhook schema documents from the local filesystem or
// from S3. Every loader prefers the brotli compressed form of a path
// (<path>.br) and falls back to the plain JSON file.
package loader
