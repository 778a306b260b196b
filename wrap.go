package memocache

import (
	"context"
	"errors"

	"github.com/unkn0wn-root/memocache/flight"
)

// Wrap decorates a context-aware unit of logic with memoization over a
// Cache. The decorated function has the identical signature.
//
// The whole pipeline runs inside a flight.Group keyed like the cache, so N
// concurrent calls with the same key observe exactly one backend round-trip
// sequence and one logic invocation, and share its result. The pipeline
// itself matches WrapSync: get, miss, compute, set, re-get, with the re-read
// value returned to the caller. Backend errors and logic errors propagate
// verbatim; a failed computation is never cached.
func Wrap[A any, V any](logic Func[A, V], opts Options[A, V]) (Func[A, V], error) {
	if logic == nil {
		return nil, errors.New("memocache: logic is required")
	}
	if opts.Cache.isZero() {
		return nil, ErrNoCache
	}

	keyFn := opts.Key
	if keyFn == nil {
		keyFn = DefaultKey[A]
	}
	log := coalesce[Logger](opts.Logger, NopLogger{})
	group := opts.Flight
	if group == nil {
		group = flight.New[V](opts.FlightMaxAge)
	}

	return func(ctx context.Context, args A) (V, bool, error) {
		var zero V
		key, err := keyFn(args)
		if err != nil {
			return zero, false, err
		}
		return group.Do(ctx, key, func() (V, bool, error) {
			cache, err := opts.Cache.cacheFor("execute", args)
			if err != nil {
				return zero, false, err
			}
			return executeOnce(ctx, cache, key, args, logic, opts, log)
		})
	}, nil
}

// executeOnce is one primary-pipeline execution for a resolved cache+key.
func executeOnce[A any, V any](
	ctx context.Context,
	cache Cache[V],
	key string,
	args A,
	logic Func[A, V],
	opts Options[A, V],
	log Logger,
) (V, bool, error) {
	var zero V

	if !opts.Bypass.bypassGet(args) {
		v, ok, err := cache.Get(ctx, key)
		if err != nil {
			return zero, false, err
		}
		if ok {
			return v, true, nil
		}
	}

	v, ok, err := logic(ctx, args)
	if err != nil {
		return zero, false, err
	}
	if opts.Bypass.bypassSet(args) {
		return v, ok, nil
	}
	if !ok {
		// no value produced; nothing to persist, next call recomputes
		return zero, false, nil
	}

	if err := cache.Set(ctx, key, v, SetOptions{TTL: opts.TTL}); err != nil {
		return zero, false, err
	}
	notify(log, opts.Observers, WriteEvent[V]{Trigger: TriggerExecute, Key: key, After: &v})

	rv, rok, err := cache.Get(ctx, key)
	if err != nil {
		return zero, false, err
	}
	if !rok {
		log.Warn("entry missing immediately after write; returning computed value", Fields{"key": key})
		return v, true, nil
	}
	return rv, true, nil
}
