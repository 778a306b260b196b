// Package disk is a content-addressed on-disk byte store. Each entry lives
// in its own file named by the SHA-256 of its key, so arbitrary key shapes
// are filesystem-safe. Expiry is framed into the file (internal/wire) and
// enforced lazily on read; expired and corrupt files are removed on sight.
package disk

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/unkn0wn-root/memocache/internal/keyenc"
	"github.com/unkn0wn-root/memocache/internal/wire"
	pr "github.com/unkn0wn-root/memocache/provider"
)

const entryExt = ".entry"

// Store implements provider.Provider on a directory of entry files. Writes
// go through a temp file + rename, so readers never observe a partial entry.
type Store struct {
	dir string
}

var _ pr.Provider = (*Store)(nil)

type Config struct {
	// Dir is the cache directory. Created (with parents) if missing.
	Dir string
}

func New(cfg Config) (*Store, error) {
	if cfg.Dir == "" {
		return nil, errors.New("disk provider: dir is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: cfg.Dir}, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, keyenc.Filename(key)+entryExt)
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	p := s.path(key)
	raw, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	expiresAt, payload, err := wire.Decode(raw)
	if err != nil {
		_ = os.Remove(p) // self-heal corrupt
		return nil, false, nil
	}
	if !expiresAt.IsZero() && time.Now().After(expiresAt) {
		_ = os.Remove(p)
		return nil, false, nil
	}
	return payload, true, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}
	framed := wire.Encode(expiresAt, value)

	p := s.path(key)
	tmp, err := os.CreateTemp(s.dir, "tmp-*")
	if err != nil {
		return false, err
	}
	if _, err := tmp.Write(framed); err != nil {
		tmp.Close()
		_ = os.Remove(tmp.Name())
		return false, err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return false, err
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		_ = os.Remove(tmp.Name())
		return false, err
	}
	return true, nil
}

func (s *Store) Del(_ context.Context, key string) error {
	err := os.Remove(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (s *Store) Close(context.Context) error { return nil }
