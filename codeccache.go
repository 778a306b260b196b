package memocache

import (
	"context"

	"github.com/unkn0wn-root/memocache/codec"
	"github.com/unkn0wn-root/memocache/provider"
)

// CodecCacheOptions tune NewCodecCache. Both fields are optional.
type CodecCacheOptions struct {
	// Namespace prefixes storage keys ("memo:<ns>:<key>") so several logical
	// caches can share one provider without collisions.
	Namespace string
	Logger    Logger
}

// CodecCache binds a byte-store provider and a value codec into a Cache[V].
// A payload that fails to decode is treated as corruption: the entry is
// deleted and the read reports a miss, so the pipeline recomputes instead of
// failing the call.
type CodecCache[V any] struct {
	p     provider.Provider
	codec codec.Codec[V]
	ns    string
	log   Logger
}

var _ Cache[struct{}] = (*CodecCache[struct{}])(nil)

func NewCodecCache[V any](p provider.Provider, c codec.Codec[V], opts CodecCacheOptions) (*CodecCache[V], error) {
	if p == nil {
		return nil, ErrNoCache
	}
	if c == nil {
		return nil, ErrNilCodec
	}
	return &CodecCache[V]{
		p:     p,
		codec: c,
		ns:    opts.Namespace,
		log:   coalesce[Logger](opts.Logger, NopLogger{}),
	}, nil
}

func (c *CodecCache[V]) storageKey(key string) string {
	if c.ns == "" {
		return key
	}
	return "memo:" + c.ns + ":" + key
}

func (c *CodecCache[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V
	k := c.storageKey(key)
	raw, ok, err := c.p.Get(ctx, k)
	if err != nil || !ok {
		return zero, false, err
	}
	v, err := c.codec.Decode(raw)
	if err != nil {
		_ = c.p.Del(ctx, k) // self-heal corrupt
		c.log.Debug("dropped undecodable entry", Fields{"key": key, "err": err})
		return zero, false, nil
	}
	return v, true, nil
}

func (c *CodecCache[V]) Set(ctx context.Context, key string, value V, opts SetOptions) error {
	raw, err := c.codec.Encode(value)
	if err != nil {
		return err
	}
	k := c.storageKey(key)
	ok, err := c.p.Set(ctx, k, raw, opts.TTL)
	if err != nil {
		return err
	}
	if !ok {
		c.log.Debug("write rejected by provider (pressure)", Fields{"key": key})
	}
	return nil
}

func (c *CodecCache[V]) Del(ctx context.Context, key string) error {
	return c.p.Del(ctx, c.storageKey(key))
}

// Close releases the underlying provider.
func (c *CodecCache[V]) Close(ctx context.Context) error {
	return c.p.Close(ctx)
}
