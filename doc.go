// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// whctlgo is the main package for the whctl command line tool. It reads the
// GitHub webhook schemas published per API version and lists, shows, dumps,
// diffs and browses them.
package main
