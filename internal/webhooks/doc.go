// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package webhooks provides version-scoped, memoized access to webhook schema
// datasets. A Store loads each canonical version at most once, shares the
// in-flight load with every concurrent caller, and derives a reduced initial
// listing with nested child parameter groups removed.
package webhooks
