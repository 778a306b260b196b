// Package codec provides the value (de)serialization pairs used when a
// memoized value crosses a byte-store boundary. Round-trip fidelity is the
// caller's concern; the wrapper's get-after-set re-read guarantees that a
// lossy pair at least produces the same observable result on hit and miss
// paths.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
