// Package keyenc maps arbitrary cache keys to filesystem-safe names.
package keyenc

import (
	"crypto/sha256"
	"encoding/hex"
)

// Filename returns the content-addressed file name for a key: the full
// SHA-256 of the key in hex. Any key shape (JSON, URLs, binary-ish strings)
// becomes a fixed-length, path-safe name with no collision concerns in
// practice.
func Filename(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
