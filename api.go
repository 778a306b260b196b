package memocache

import (
	"context"
	"time"

	"github.com/unkn0wn-root/memocache/flight"
)

// Func is a context-aware unit of logic. ok=false means the call produced no
// value; such results are never cached and the logic runs again next time.
type Func[A any, V any] func(ctx context.Context, args A) (V, bool, error)

// SyncFunc is a context-free unit of logic with the same (value, ok, error)
// shape as Func.
type SyncFunc[A any, V any] func(args A) (V, bool, error)

// KeyFunc derives the cache key for one invocation from its arguments.
type KeyFunc[A any] func(args A) (string, error)

// SetOptions carries per-write parameters. TTL is forwarded verbatim to the
// backend; 0 lets the backend apply its own default.
type SetOptions struct {
	TTL time.Duration
}

// Store is the synchronous capability contract: an in-process store whose
// operations complete immediately and cannot fail. The ok result of Get
// distinguishes "absent" from "present zero value".
type Store[V any] interface {
	Get(key string) (V, bool)
	Set(key string, value V, opts SetOptions)
	Del(key string)
}

// Cache is the context-aware capability contract for backends that may do
// I/O. A Store trivially satisfies it via AsCache.
type Cache[V any] interface {
	Get(ctx context.Context, key string) (V, bool, error)
	Set(ctx context.Context, key string, value V, opts SetOptions) error
	Del(ctx context.Context, key string) error
}

// Options tune Wrap and New. Only Cache is required.
type Options[A any, V any] struct {
	// Required
	Cache Choice[A, V]

	Key       KeyFunc[A]       // nil => DefaultKey
	TTL       time.Duration    // forwarded to every Set; 0 => backend default
	Bypass    Bypass[A]        // optional get/set bypass predicates
	Observers []Observer[V]    // fire-and-forget write observers
	Logger    Logger           // nil => NopLogger
	Flight    *flight.Group[V] // shared dedup group; nil => one per wrapper
	// FlightMaxAge bounds how long a lost in-flight entry can block fresh
	// execution when Flight is nil. 0 => flight.DefaultMaxAge.
	FlightMaxAge time.Duration
}

// SyncOptions tune WrapSync. Only Store is required.
type SyncOptions[A any, V any] struct {
	// Required
	Store StoreChoice[A, V]

	Key       KeyFunc[A]    // nil => DefaultKey
	TTL       time.Duration // forwarded to every Set; 0 => backend default
	Bypass    Bypass[A]
	Observers []Observer[V]
	Logger    Logger // nil => NopLogger
}

type storeCache[V any] struct {
	s Store[V]
}

// AsCache adapts a synchronous Store to the Cache contract.
func AsCache[V any](s Store[V]) Cache[V] {
	return storeCache[V]{s: s}
}

func (c storeCache[V]) Get(_ context.Context, key string) (V, bool, error) {
	v, ok := c.s.Get(key)
	return v, ok, nil
}

func (c storeCache[V]) Set(_ context.Context, key string, value V, opts SetOptions) error {
	c.s.Set(key, value, opts)
	return nil
}

func (c storeCache[V]) Del(_ context.Context, key string) error {
	c.s.Del(key)
	return nil
}
