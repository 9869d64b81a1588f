// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package dataset models a webhook schema dataset: categories, their action
// types and the detail record of each action, in the order they appear in the
// source document.
package dataset
