package memocache

// Choice selects the cache for an invocation: either a fixed instance or a
// resolver that derives one from the call arguments (per-tenant, per-request
// and similar setups). Exactly one of the two is set; resolution happens at
// a single dispatch point per call.
type Choice[A any, V any] struct {
	fixed   Cache[V]
	resolve func(args A) Cache[V]
}

// Fixed binds a concrete cache instance.
func Fixed[A any, V any](c Cache[V]) Choice[A, V] {
	return Choice[A, V]{fixed: c}
}

// ResolveWith derives the cache from the call arguments at invocation time.
// A resolver returning nil fails the call with a ResolveError.
func ResolveWith[A any, V any](fn func(args A) Cache[V]) Choice[A, V] {
	return Choice[A, V]{resolve: fn}
}

func (ch Choice[A, V]) isZero() bool {
	return ch.fixed == nil && ch.resolve == nil
}

// dynamic reports whether the cache depends on call arguments. By-key
// operations cannot resolve a dynamic choice and need an explicit cache.
func (ch Choice[A, V]) dynamic() bool { return ch.resolve != nil }

func (ch Choice[A, V]) cacheFor(op string, args A) (Cache[V], error) {
	if ch.resolve != nil {
		c := ch.resolve(args)
		if c == nil {
			return nil, &ResolveError{Op: op}
		}
		return c, nil
	}
	if ch.fixed != nil {
		return ch.fixed, nil
	}
	return nil, ErrNoCache
}

// StoreChoice is the Choice counterpart for the synchronous contract.
type StoreChoice[A any, V any] struct {
	fixed   Store[V]
	resolve func(args A) Store[V]
}

// FixedStore binds a concrete store instance.
func FixedStore[A any, V any](s Store[V]) StoreChoice[A, V] {
	return StoreChoice[A, V]{fixed: s}
}

// ResolveStoreWith derives the store from the call arguments.
func ResolveStoreWith[A any, V any](fn func(args A) Store[V]) StoreChoice[A, V] {
	return StoreChoice[A, V]{resolve: fn}
}

func (ch StoreChoice[A, V]) isZero() bool {
	return ch.fixed == nil && ch.resolve == nil
}

func (ch StoreChoice[A, V]) storeFor(op string, args A) (Store[V], error) {
	if ch.resolve != nil {
		s := ch.resolve(args)
		if s == nil {
			return nil, &ResolveError{Op: op}
		}
		return s, nil
	}
	if ch.fixed != nil {
		return ch.fixed, nil
	}
	return nil, ErrNoCache
}
