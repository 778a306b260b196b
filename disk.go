package memocache

import (
	"github.com/unkn0wn-root/memocache/codec"
	"github.com/unkn0wn-root/memocache/provider/disk"
)

// WrapDisk is a preset over Wrap: memoize logic onto a content-addressed
// on-disk store under dir, with JSON value serialization. Whatever is set in
// opts.Cache is ignored; everything else (TTL, bypass, observers, flight
// group) applies as in Wrap.
func WrapDisk[A any, V any](dir string, logic Func[A, V], opts Options[A, V]) (Func[A, V], error) {
	st, err := disk.New(disk.Config{Dir: dir})
	if err != nil {
		return nil, err
	}
	cc, err := NewCodecCache[V](st, codec.JSON[V]{}, CodecCacheOptions{Logger: opts.Logger})
	if err != nil {
		return nil, err
	}
	opts.Cache = Fixed[A, V](cc)
	return Wrap(logic, opts)
}
