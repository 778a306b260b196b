package memocache

import "errors"

// WrapSync decorates a synchronous unit of logic with memoization over a
// synchronous Store. The decorated function has the identical signature.
//
// Per invocation: derive the key, resolve the store, and (unless the
// get-bypass predicate fires) return a hit immediately. On a miss the logic
// runs; its error propagates verbatim and is never cached. A result with
// ok=false is returned without being persisted. Otherwise the value is
// written and immediately re-read, and the re-read value is what the caller
// gets - the miss path must go through the same deserialization as a hit, so
// a lossy serde pair produces the same observable result on both paths.
func WrapSync[A any, V any](logic SyncFunc[A, V], opts SyncOptions[A, V]) (SyncFunc[A, V], error) {
	if logic == nil {
		return nil, errors.New("memocache: logic is required")
	}
	if opts.Store.isZero() {
		return nil, ErrNoCache
	}

	keyFn := opts.Key
	if keyFn == nil {
		keyFn = DefaultKey[A]
	}
	log := coalesce[Logger](opts.Logger, NopLogger{})

	return func(args A) (V, bool, error) {
		var zero V
		key, err := keyFn(args)
		if err != nil {
			return zero, false, err
		}
		st, err := opts.Store.storeFor("execute", args)
		if err != nil {
			return zero, false, err
		}

		if !opts.Bypass.bypassGet(args) {
			if v, ok := st.Get(key); ok {
				return v, true, nil
			}
		}

		v, ok, err := logic(args)
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

		st.Set(key, v, SetOptions{TTL: opts.TTL})
		notify(log, opts.Observers, WriteEvent[V]{Trigger: TriggerExecute, Key: key, After: &v})

		rv, rok := st.Get(key)
		if !rok {
			log.Warn("entry missing immediately after write; returning computed value", Fields{"key": key})
			return v, true, nil
		}
		return rv, true, nil
	}, nil
}
