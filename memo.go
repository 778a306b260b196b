package memocache

import "context"

// Updater resolves the new value for an update from the currently cached one
// (ok=false when no entry exists). Use To for a literal replacement or pass
// a derivation directly, e.g. appending to a cached list.
type Updater[V any] func(current V, ok bool) V

// To is an Updater that ignores the current value and writes v.
func To[V any](v V) Updater[V] {
	return func(V, bool) V { return v }
}

// Memo is the extendable control surface: Execute plus Invalidate/Update
// sharing one key-derivation and serialization configuration. Invalidate and
// Update never invoke the wrapped logic.
//
// Both can address an entry by the original call arguments (the key is
// re-derived exactly as Execute derives it) or by a known string key. The
// by-key variants only work without an explicit cache when the Choice is a
// fixed instance; with a resolver there is nothing to resolve from, so the
// *KeyIn forms must be used instead.
type Memo[A any, V any] struct {
	execute   Func[A, V]
	choice    Choice[A, V]
	keyFn     KeyFunc[A]
	opts      SetOptions
	observers []Observer[V]
	log       Logger
}

// New wraps logic (per Wrap) and returns the control surface around it.
func New[A any, V any](logic Func[A, V], opts Options[A, V]) (*Memo[A, V], error) {
	execute, err := Wrap(logic, opts)
	if err != nil {
		return nil, err
	}
	keyFn := opts.Key
	if keyFn == nil {
		keyFn = DefaultKey[A]
	}
	return &Memo[A, V]{
		execute:   execute,
		choice:    opts.Cache,
		keyFn:     keyFn,
		opts:      SetOptions{TTL: opts.TTL},
		observers: opts.Observers,
		log:       coalesce[Logger](opts.Logger, NopLogger{}),
	}, nil
}

// Execute invokes the decorated logic through the memoization pipeline.
func (m *Memo[A, V]) Execute(ctx context.Context, args A) (V, bool, error) {
	return m.execute(ctx, args)
}

// Invalidate removes the entry addressed by args.
func (m *Memo[A, V]) Invalidate(ctx context.Context, args A) error {
	key, err := m.keyFn(args)
	if err != nil {
		return err
	}
	cache, err := m.choice.cacheFor("invalidate", args)
	if err != nil {
		return err
	}
	return m.invalidate(ctx, cache, key)
}

// InvalidateKey removes the entry under a known key.
func (m *Memo[A, V]) InvalidateKey(ctx context.Context, key string) error {
	cache, err := m.cacheForKeyOp("invalidate")
	if err != nil {
		return err
	}
	return m.invalidate(ctx, cache, key)
}

// InvalidateKeyIn removes the entry under a known key from an explicitly
// supplied cache. Required when the Choice is a resolver.
func (m *Memo[A, V]) InvalidateKeyIn(ctx context.Context, cache Cache[V], key string) error {
	if cache == nil {
		return &KeyTargetError{Op: "invalidate"}
	}
	return m.invalidate(ctx, cache, key)
}

// Update rewrites the entry addressed by args with the value resolved by to,
// using the same serialization and TTL as Execute.
func (m *Memo[A, V]) Update(ctx context.Context, args A, to Updater[V]) error {
	key, err := m.keyFn(args)
	if err != nil {
		return err
	}
	cache, err := m.choice.cacheFor("update", args)
	if err != nil {
		return err
	}
	return m.update(ctx, cache, key, to)
}

// UpdateKey rewrites the entry under a known key.
func (m *Memo[A, V]) UpdateKey(ctx context.Context, key string, to Updater[V]) error {
	cache, err := m.cacheForKeyOp("update")
	if err != nil {
		return err
	}
	return m.update(ctx, cache, key, to)
}

// UpdateKeyIn rewrites the entry under a known key in an explicitly supplied
// cache. Required when the Choice is a resolver.
func (m *Memo[A, V]) UpdateKeyIn(ctx context.Context, cache Cache[V], key string, to Updater[V]) error {
	if cache == nil {
		return &KeyTargetError{Op: "update"}
	}
	return m.update(ctx, cache, key, to)
}

func (m *Memo[A, V]) cacheForKeyOp(op string) (Cache[V], error) {
	if m.choice.dynamic() {
		return nil, &KeyTargetError{Op: op}
	}
	if m.choice.fixed == nil {
		return nil, ErrNoCache
	}
	return m.choice.fixed, nil
}

func (m *Memo[A, V]) invalidate(ctx context.Context, cache Cache[V], key string) error {
	if err := cache.Del(ctx, key); err != nil {
		return err
	}
	notify(m.log, m.observers, WriteEvent[V]{Trigger: TriggerInvalidate, Key: key})
	return nil
}

func (m *Memo[A, V]) update(ctx context.Context, cache Cache[V], key string, to Updater[V]) error {
	// Read through the same deserialize path a hit takes, so derivations see
	// exactly what Execute would have returned.
	current, ok, err := cache.Get(ctx, key)
	if err != nil {
		return err
	}
	next := to(current, ok)
	if err := cache.Set(ctx, key, next, m.opts); err != nil {
		return err
	}
	ev := WriteEvent[V]{Trigger: TriggerUpdate, Key: key, After: &next}
	if ok {
		ev.Before = &current
	}
	notify(m.log, m.observers, ev)
	return nil
}
