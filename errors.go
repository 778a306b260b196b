package memocache

import (
	"errors"
	"fmt"
)

// ErrNoCache reports a wrapper constructed without any cache choice.
var ErrNoCache = errors.New("memocache: no cache configured")

// ErrNilCodec reports a CodecCache constructed without a codec.
var ErrNilCodec = errors.New("memocache: codec is required")

// ResolveError reports a cache resolver that yielded no cache for the call
// arguments of the named operation.
type ResolveError struct {
	Op string
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("memocache: %s: cache resolver returned no cache for the call arguments", e.Op)
}

// KeyTargetError reports a by-key invalidate/update against a wrapper whose
// cache is resolved from call arguments. With only a key there is nothing to
// resolve from, so the caller must pass the cache explicitly.
type KeyTargetError struct {
	Op string
}

func (e *KeyTargetError) Error() string {
	return fmt.Sprintf("memocache: %s addressed by key, but the cache is resolved from call arguments; pass the cache explicitly", e.Op)
}
