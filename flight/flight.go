// Package flight collapses concurrent identical requests into a single
// execution. It is the in-memory deduplication layer the context-aware
// wrapper puts in front of the authoritative cache: one leader runs the full
// get/compute/set pipeline for a key, followers wait and share the leader's
// result, success or failure.
//
// Entries are registered before the leader starts and removed when the call
// settles. The MaxAge bound is a safety net, not the removal path: if an
// entry somehow outlives it (a leader lost to a panic in foreign code), the
// next caller replaces it and executes fresh rather than waiting forever -
// fail open, duplicate work beats a wedged key.
package flight

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultMaxAge is a generous upper bound for a pending request's lifetime.
const DefaultMaxAge = 15 * time.Minute

type call[V any] struct {
	done    chan struct{}
	started time.Time

	// set by the leader before done is closed
	val V
	ok  bool
	err error
}

// Group deduplicates concurrent calls per key. The zero value is not ready;
// construct with New. A Group may be shared across wrappers when they are
// built per call rather than once - a fresh group per wrapper would defeat
// deduplication in that setup.
type Group[V any] struct {
	mu     sync.Mutex
	calls  map[string]*call[V]
	maxAge time.Duration
}

// New constructs a Group. maxAge <= 0 selects DefaultMaxAge. Callers sharing
// a group across slow backends must keep maxAge at least as long as the
// slowest expected pending request, else a still-running execution gets
// duplicated.
func New[V any](maxAge time.Duration) *Group[V] {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Group[V]{
		calls:  make(map[string]*call[V]),
		maxAge: maxAge,
	}
}

// Do executes fn once per key among concurrent callers. The leader runs fn
// on its own goroutine-stack; followers block until the leader settles and
// receive the same (value, ok, error). A follower whose ctx ends stops
// waiting with ctx.Err(); the leader keeps running.
func (g *Group[V]) Do(ctx context.Context, key string, fn func() (V, bool, error)) (V, bool, error) {
	g.mu.Lock()
	if c, exists := g.calls[key]; exists && time.Since(c.started) < g.maxAge {
		g.mu.Unlock()
		select {
		case <-c.done:
			return c.val, c.ok, c.err
		case <-ctx.Done():
			var zero V
			return zero, false, ctx.Err()
		}
	}
	c := &call[V]{done: make(chan struct{}), started: time.Now()}
	g.calls[key] = c
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		if g.calls[key] == c {
			delete(g.calls, key)
		}
		g.mu.Unlock()
		if r := recover(); r != nil {
			// Followers must not hang on a leader panic; hand them an
			// error and re-panic on the leader's stack.
			c.err = fmt.Errorf("flight: in-flight call panicked: %v", r)
			close(c.done)
			panic(r)
		}
		close(c.done)
	}()

	c.val, c.ok, c.err = fn()
	return c.val, c.ok, c.err
}

// Forget drops the in-flight entry for key, if any. A later call executes
// fresh instead of joining the dropped one.
func (g *Group[V]) Forget(key string) {
	g.mu.Lock()
	delete(g.calls, key)
	g.mu.Unlock()
}
