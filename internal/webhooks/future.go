// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package webhooks

import "context"

// future is a single-assignment cell. It is stored in a cache before the
// value it stands for exists so that every caller for the same key waits on
// the same computation.
type future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

func newFuture[T any]() *future[T] {
	return &future[T]{done: make(chan struct{})}
}

// resolve records the outcome and releases all waiters. It must be called
// exactly once.
func (f *future[T]) resolve(val T, err error) {
	f.val, f.err = val, err
	close(f.done)
}

// wait blocks until the future is resolved or ctx is done. Giving up on ctx
// does not affect the computation or other waiters.
func (f *future[T]) wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	default:
	}

	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
