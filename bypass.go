package memocache

import (
	"os"
	"strconv"
)

// Environment flags read by BypassFromEnv. The operation-specific flag wins
// over the general one when both are set.
const (
	EnvBypass    = "MEMOCACHE_BYPASS"
	EnvBypassGet = "MEMOCACHE_BYPASS_GET"
	EnvBypassSet = "MEMOCACHE_BYPASS_SET"
)

// Bypass holds per-call overrides. Get=true forces cache-miss behavior
// (the backend read is skipped, logic always runs). Set=true skips the write
// after compute, leaving any previously stored value intact. Nil predicates
// mean "never bypass".
type Bypass[A any] struct {
	Get func(args A) bool
	Set func(args A) bool
}

func (b Bypass[A]) bypassGet(args A) bool { return b.Get != nil && b.Get(args) }
func (b Bypass[A]) bypassSet(args A) bool { return b.Set != nil && b.Set(args) }

// BypassFromEnv builds predicates fed from the process environment. This is
// the only place the package touches the environment; the wrappers take the
// resulting predicates as plain configuration. The flags are read on every
// call so they can be toggled on a live process.
func BypassFromEnv[A any]() Bypass[A] {
	return Bypass[A]{
		Get: func(A) bool { return envFlag(EnvBypassGet, EnvBypass) },
		Set: func(A) bool { return envFlag(EnvBypassSet, EnvBypass) },
	}
}

func envFlag(specific, general string) bool {
	if v, ok := os.LookupEnv(specific); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	if v, ok := os.LookupEnv(general); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return false
}
