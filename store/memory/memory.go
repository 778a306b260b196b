// Package memory is a typed in-process store satisfying the synchronous
// capability contract. Values are held as-is (no serialization), so
// mutations through stored pointers are visible to later hits.
package memory

import (
	"sync"
	"time"

	"github.com/unkn0wn-root/memocache"
)

type entry[V any] struct {
	val V
	exp time.Time // zero => no expiry
}

// Store implements memocache.Store[V] with a mutex-guarded map. Expired
// entries are dropped lazily on Get and, when CleanupInterval is set, by a
// background janitor.
type Store[V any] struct {
	mu      sync.Mutex
	entries map[string]entry[V]

	defaultTTL time.Duration

	ticker *time.Ticker
	stopCh chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

var _ memocache.Store[int] = (*Store[int])(nil)

type Config struct {
	// DefaultTTL applies when a Set carries TTL 0. 0 => entries without an
	// explicit TTL never expire.
	DefaultTTL time.Duration
	// CleanupInterval enables the background janitor. 0 => lazy expiry only.
	CleanupInterval time.Duration
}

func New[V any](cfg Config) *Store[V] {
	s := &Store[V]{
		entries:    make(map[string]entry[V]),
		defaultTTL: cfg.DefaultTTL,
	}
	if cfg.CleanupInterval > 0 {
		s.ticker = time.NewTicker(cfg.CleanupInterval)
		s.stopCh = make(chan struct{})
		s.wg.Add(1)
		go s.janitor()
	}
	return s
}

func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		delete(s.entries, key)
		var zero V
		return zero, false
	}
	return e.val, true
}

func (s *Store[V]) Set(key string, value V, opts memocache.SetOptions) {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	s.mu.Lock()
	s.entries[key] = entry[V]{val: value, exp: exp}
	s.mu.Unlock()
}

func (s *Store[V]) Del(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Len reports the number of live entries (expired ones included until swept).
func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close stops the janitor, if running. Safe to call multiple times.
func (s *Store[V]) Close() {
	s.once.Do(func() {
		if s.stopCh != nil {
			close(s.stopCh)
			s.ticker.Stop()
			s.wg.Wait()
		}
	})
}

func (s *Store[V]) janitor() {
	defer s.wg.Done()
	for {
		select {
		case <-s.ticker.C:
			now := time.Now()
			s.mu.Lock()
			for k, e := range s.entries {
				if !e.exp.IsZero() && e.exp.Before(now) {
					delete(s.entries, k)
				}
			}
			s.mu.Unlock()
		case <-s.stopCh:
			return
		}
	}
}
