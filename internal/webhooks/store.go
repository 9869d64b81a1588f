// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package webhooks

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/apex/log"
	"github.com/tidwall/gjson"

	"github.com/staranto/whctlgo/internal/dataset"
)

// Resolver maps a user-facing version identifier to the canonical schema
// version used as cache key and path segment. It must be pure and total.
type Resolver interface {
	Resolve(version string) string
}

// Loader returns the parsed document stored at path. Implementations try the
// compressed form of the path before the plain one.
type Loader interface {
	Load(ctx context.Context, path string) (gjson.Result, error)
}

// Store memoizes, per canonical version, the raw webhook dataset and the
// initial listing derived from it. Entries live as long as the Store.
type Store struct {
	resolver Resolver
	loader   Loader
	opts     options

	mu      sync.Mutex
	raw     map[string]*future[*dataset.Dataset]
	initial map[string]*future[[]InitialWebhook]
}

// New returns an empty Store.
func New(resolver Resolver, loader Loader, opts ...Option) *Store {
	o := options{
		dataRoot:       DefaultDataRoot,
		schemaFilename: DefaultSchemaFilename,
		policy:         CacheFailures,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Store{
		resolver: resolver,
		loader:   loader,
		opts:     o,
		raw:      map[string]*future[*dataset.Dataset]{},
		initial:  map[string]*future[[]InitialWebhook]{},
	}
}

// Canonical returns the canonical version for a user-facing version.
func (s *Store) Canonical(version string) string {
	return s.resolver.Resolve(version)
}

// Path returns where the dataset of a canonical version is loaded from.
func (s *Store) Path(canonical string) string {
	return filepath.Join(s.opts.dataRoot, canonical, s.opts.schemaFilename)
}

// Webhooks returns the full dataset for version. The first call for a
// canonical version starts the load; every call for it, concurrent or later,
// gets the outcome of that one load. Load errors are returned as-is.
func (s *Store) Webhooks(ctx context.Context, version string) (*dataset.Dataset, error) {
	return s.dataset(ctx, s.resolver.Resolve(version))
}

// Webhook returns one category of the dataset for version. The boolean is
// false when the dataset has no such category.
func (s *Store) Webhook(ctx context.Context, version, category string) (*dataset.Category, bool, error) {
	ds, err := s.Webhooks(ctx, version)
	if err != nil {
		return nil, false, err
	}
	c, ok := ds.Category(category)
	return c, ok, nil
}

// InitialPageWebhooks returns the initial listing for version, one entry per
// category in dataset order. The returned slice is shared by all callers and
// must not be modified.
func (s *Store) InitialPageWebhooks(ctx context.Context, version string) ([]InitialWebhook, error) {
	canonical := s.resolver.Resolve(version)

	s.mu.Lock()
	f, ok := s.initial[canonical]
	if !ok {
		f = newFuture[[]InitialWebhook]()
		s.initial[canonical] = f
	}
	s.mu.Unlock()

	if ok {
		log.Debugf("initial listing cache hit: %s", canonical)
		return f.wait(ctx)
	}

	log.Debugf("initial listing cache miss: %s", canonical)
	go func(ctx context.Context) {
		ds, err := s.dataset(ctx, canonical)
		if err != nil {
			settle(s, s.initial, canonical, f, nil, err)
			return
		}
		listing := initialWebhooks(ds)
		log.Debugf("derived initial listing for %s: %d categories", canonical, len(listing))
		settle(s, s.initial, canonical, f, listing, nil)
	}(context.WithoutCancel(ctx))

	return f.wait(ctx)
}

// dataset is the raw dataset cache, keyed by canonical version.
func (s *Store) dataset(ctx context.Context, canonical string) (*dataset.Dataset, error) {
	s.mu.Lock()
	f, ok := s.raw[canonical]
	if !ok {
		f = newFuture[*dataset.Dataset]()
		s.raw[canonical] = f
	}
	s.mu.Unlock()

	if ok {
		log.Debugf("webhooks cache hit: %s", canonical)
		return f.wait(ctx)
	}

	path := s.Path(canonical)
	log.Debugf("webhooks cache miss: %s, loading %s", canonical, path)
	go func(ctx context.Context) {
		ds, err := s.load(ctx, path)
		if err != nil {
			log.WithError(err).Debugf("failed to load %s", path)
		}
		settle(s, s.raw, canonical, f, ds, err)
	}(context.WithoutCancel(ctx))

	return f.wait(ctx)
}

func (s *Store) load(ctx context.Context, path string) (*dataset.Dataset, error) {
	doc, err := s.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return dataset.FromDocument(doc)
}

// settle resolves f. Under RetryFailures a failed f is removed from cache
// first, so callers arriving after this point start a new computation while
// the current waiters still observe the failure.
func settle[T any](s *Store, cache map[string]*future[T], key string, f *future[T], val T, err error) {
	if err != nil && s.opts.policy == RetryFailures {
		s.mu.Lock()
		if cache[key] == f {
			delete(cache, key)
			log.Debugf("dropped failed cache entry: %s", key)
		}
		s.mu.Unlock()
	}
	f.resolve(val, err)
}
