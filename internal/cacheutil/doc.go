// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package cacheutil keeps fetched schema bodies on disk, keyed by a hash of
// their source location, so repeated runs skip the remote fetch.
package cacheutil
