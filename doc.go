// Package memocache decorates a unit of logic with memoization on top of a
// caller-supplied cache backend. The package owns the interaction protocol,
// not the storage: key derivation, value (de)serialization, the
// get -> miss -> compute -> set -> re-get pipeline, in-flight request
// deduplication, and an execute/invalidate/update control surface sharing one
// key and serialization configuration.
//
// Components:
//   - Store[V] / Cache[V]: the capability contracts a backend must satisfy.
//     Store is context-free (in-process); Cache is context-aware and may do
//     I/O. AsCache adapts a Store to the Cache contract.
//   - WrapSync / Wrap: the synchronous and context-aware wrappers. Wrap
//     fronts the pipeline with a flight.Group so concurrent identical calls
//     share one execution.
//   - Memo: Wrap plus Invalidate/Update addressed by call arguments or by a
//     known key.
//   - CodecCache: binds a provider (byte store with TTL) and a codec.Codec[V]
//     into a Cache[V].
//
// Absence vs. presence follows the (value, ok) convention everywhere:
// ok=false means "no entry"; a present zero value (a nil pointer included)
// is a legitimate hit. Logic returning ok=false is never persisted and runs
// again on the next call.
//
// After every write the pipeline re-reads the entry and returns the re-read
// value, so the miss path goes through the same deserialization as a hit.
// A re-read miss right after a write is treated as a backend contract
// violation: logged, and the freshly computed value is returned instead.
//
// Deduplication is per process. Multiple processes sharing one backend can
// still race on the same key; the outcome is whatever the backend does with
// concurrent writes.
package memocache
