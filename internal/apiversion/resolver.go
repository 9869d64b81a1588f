// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package apiversion

import (
	"regexp"
	"strings"
)

// Defaults used when no configuration overrides them.
const (
	DefaultVersion    = "fpt"
	DefaultGHESLatest = "3.14"
)

var (
	// plans maps long and short plan names to their canonical prefix.
	plans = map[string]string{
		"free-pro-team":     "fpt",
		"fpt":               "fpt",
		"enterprise-cloud":  "ghec",
		"ghec":              "ghec",
		"enterprise-server": "ghes",
		"ghes":              "ghes",
	}

	releaseRe   = regexp.MustCompile(`^\d+\.\d+$`)
	canonicalRe = regexp.MustCompile(`^(fpt|ghec|ghes-\d+\.\d+)$`)
)

// Resolver turns version identifiers into canonical version names. It never
// fails: anything it cannot place maps to the default version.
type Resolver struct {
	defaultVersion string
	ghesLatest     string
	aliases        map[string]string
	known          map[string]bool
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithDefault sets the canonical version used for "", "latest" and anything
// unrecognized.
func WithDefault(canonical string) Option {
	return func(r *Resolver) {
		if c := normalize(canonical); c != "" {
			r.defaultVersion = c
		}
	}
}

// WithGHESLatest sets the release that enterprise-server@latest points at.
func WithGHESLatest(release string) Option {
	return func(r *Resolver) {
		if rel := normalize(release); releaseRe.MatchString(rel) {
			r.ghesLatest = rel
		}
	}
}

// WithAliases adds identifier -> canonical mappings. Aliases win over every
// other rule. Alias targets become known canonical names.
func WithAliases(aliases map[string]string) Option {
	return func(r *Resolver) {
		for k, v := range aliases {
			alias, target := normalize(k), normalize(v)
			if alias == "" || target == "" {
				continue
			}
			r.aliases[alias] = target
			r.known[target] = true
		}
	}
}

// WithKnown registers extra canonical names that resolve to themselves.
func WithKnown(names ...string) Option {
	return func(r *Resolver) {
		for _, n := range names {
			if n = normalize(n); n != "" {
				r.known[n] = true
			}
		}
	}
}

// New returns a Resolver with the given options applied.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		defaultVersion: DefaultVersion,
		ghesLatest:     DefaultGHESLatest,
		aliases:        map[string]string{},
		known:          map[string]bool{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Default returns the default canonical version.
func (r *Resolver) Default() string {
	return r.defaultVersion
}

// Resolve implements webhooks.Resolver.
func (r *Resolver) Resolve(version string) string {
	v := normalize(version)
	if v == "" || v == "latest" {
		return r.defaultVersion
	}
	if c, ok := r.aliases[v]; ok {
		return c
	}
	if r.known[v] || canonicalRe.MatchString(v) {
		return v
	}

	plan, release, _ := strings.Cut(v, "@")
	short, ok := plans[plan]
	if !ok {
		return r.defaultVersion
	}

	if short != "ghes" {
		return short
	}

	if release == "" || release == "latest" {
		release = r.ghesLatest
	}
	if !releaseRe.MatchString(release) {
		return r.defaultVersion
	}
	return "ghes-" + release
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
