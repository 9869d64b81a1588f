// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package webhooks

import (
	"fmt"
	"strings"
)

// Defaults for the on-disk layout <data-root>/<canonical>/<schema-filename>.
const (
	DefaultDataRoot       = "src/webhooks/data"
	DefaultSchemaFilename = "schema.json"
)

// FailurePolicy decides what happens to a cache entry whose load failed.
type FailurePolicy int

const (
	// CacheFailures keeps the failed entry. Every later call for the same
	// canonical version gets the same error and nothing is reloaded.
	CacheFailures FailurePolicy = iota
	// RetryFailures drops the failed entry once its waiters are released, so
	// the next call starts a fresh load.
	RetryFailures
)

// ParseFailurePolicy maps "cache" (or "") and "retry" to a FailurePolicy.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cache":
		return CacheFailures, nil
	case "retry":
		return RetryFailures, nil
	default:
		return CacheFailures, fmt.Errorf("unknown failure policy %q, must be one of [cache retry]", s)
	}
}

func (p FailurePolicy) String() string {
	if p == RetryFailures {
		return "retry"
	}
	return "cache"
}

type options struct {
	dataRoot       string
	schemaFilename string
	policy         FailurePolicy
}

// Option customizes a Store.
type Option func(*options)

// WithDataRoot sets the directory (or key prefix) holding one sub-directory
// per canonical version. Defaults to DefaultDataRoot.
func WithDataRoot(root string) Option {
	return func(o *options) { o.dataRoot = root }
}

// WithSchemaFilename sets the file name of the dataset inside each version
// directory. Defaults to DefaultSchemaFilename.
func WithSchemaFilename(name string) Option {
	return func(o *options) { o.schemaFilename = name }
}

// WithFailurePolicy sets how failed loads are cached. Defaults to
// CacheFailures.
func WithFailurePolicy(p FailurePolicy) Option {
	return func(o *options) { o.policy = p }
}
