// usage:
//
//	sink := asynchook.New(func(ev memocache.WriteEvent[User]) {
//	    metrics.CacheWrites.WithLabelValues(string(ev.Trigger)).Inc()
//	}, 1, 1000) // 1 worker; queue 1000 events
//	defer sink.Close()
//
//	memo, _ := memocache.New(logic, memocache.Options[Args, User]{
//	    Cache:     memocache.Fixed[Args, User](cache),
//	    Observers: []memocache.Observer[User]{sink.Observe},
//	})
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/memocache"
)

// Sink decouples observers from the write path with a bounded queue and a
// fixed worker pool. Events are dropped when the queue is full; observers
// are advisory and must never be able to back-pressure the pipeline.
type Sink[V any] struct {
	inner memocache.Observer[V]
	q     chan memocache.WriteEvent[V]
	wg    sync.WaitGroup
	once  sync.Once
}

func New[V any](inner memocache.Observer[V], workers, qlen int) *Sink[V] {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	s := &Sink[V]{inner: inner, q: make(chan memocache.WriteEvent[V], qlen)}
	s.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer s.wg.Done()
			for ev := range s.q {
				s.inner(ev)
			}
		}()
	}
	return s
}

// Observe enqueues an event without blocking. Register it as an Observer.
func (s *Sink[V]) Observe(ev memocache.WriteEvent[V]) {
	select {
	case s.q <- ev:
	default: // drop
	}
}

// Close drains the queue and stops the workers. Safe to call multiple times.
func (s *Sink[V]) Close() {
	s.once.Do(func() {
		close(s.q)
		s.wg.Wait()
	})
}
