package memocache

import (
	"encoding/json"
	"fmt"
)

// DefaultKey encodes the call arguments as JSON. encoding/json sorts map
// keys, so structurally equal arguments produce the same key. The ctx passed
// to the decorated function is a separate parameter and never participates
// in key derivation.
func DefaultKey[A any](args A) (string, error) {
	b, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("memocache: key encode: %w", err)
	}
	return string(b), nil
}
