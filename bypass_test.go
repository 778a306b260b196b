package memocache

import "testing"

// TestBypassFromEnvPrecedence: the operation-specific flag wins over the
// general one.
func TestBypassFromEnvPrecedence(t *testing.T) {
	b := BypassFromEnv[int]()

	t.Setenv(EnvBypass, "true")
	if !b.bypassGet(0) || !b.bypassSet(0) {
		t.Fatalf("general flag not honored")
	}

	t.Setenv(EnvBypassGet, "false")
	if b.bypassGet(0) {
		t.Fatalf("specific get flag should override general")
	}
	if !b.bypassSet(0) {
		t.Fatalf("set should still follow the general flag")
	}

	t.Setenv(EnvBypassSet, "false")
	if b.bypassSet(0) {
		t.Fatalf("specific set flag should override general")
	}
}

// TestBypassFromEnvLiveToggle: flags are read per call.
func TestBypassFromEnvLiveToggle(t *testing.T) {
	b := BypassFromEnv[int]()
	if b.bypassGet(0) {
		t.Fatalf("bypass on with no flags set")
	}
	t.Setenv(EnvBypassGet, "1")
	if !b.bypassGet(0) {
		t.Fatalf("flag change not picked up")
	}
}

func TestBypassFromEnvGarbageIgnored(t *testing.T) {
	b := BypassFromEnv[int]()
	t.Setenv(EnvBypassGet, "banana")
	t.Setenv(EnvBypass, "true")
	// unparsable specific value falls through to the general flag
	if !b.bypassGet(0) {
		t.Fatalf("unparsable specific flag should defer to general")
	}
}

func TestBypassZeroValue(t *testing.T) {
	var b Bypass[string]
	if b.bypassGet("x") || b.bypassSet("x") {
		t.Fatalf("zero Bypass must never bypass")
	}
}
