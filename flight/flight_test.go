package flight

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

// TestDoShared: concurrent callers for one key share a single execution.
func TestDoShared(t *testing.T) {
	ctx := context.Background()
	g := New[int](0)
	var execs atomic.Int32
	gate := make(chan struct{})

	var wg errgroup.Group
	for i := 0; i < 20; i++ {
		wg.Go(func() error {
			v, ok, err := g.Do(ctx, "k", func() (int, bool, error) {
				execs.Add(1)
				<-gate
				return 7, true, nil
			})
			if err != nil || !ok || v != 7 {
				return errors.New("unexpected result")
			}
			return nil
		})
	}

	// give followers time to pile up, then release the leader
	time.Sleep(20 * time.Millisecond)
	close(gate)
	if err := wg.Wait(); err != nil {
		t.Fatal(err)
	}
	if got := execs.Load(); got != 1 {
		t.Fatalf("executed %d times, want 1", got)
	}
}

// TestDoSharesFailure: followers receive the leader's error, and the entry
// is removed on settle so the next call executes fresh.
func TestDoSharesFailure(t *testing.T) {
	ctx := context.Background()
	g := New[int](0)
	boom := errors.New("boom")
	gate := make(chan struct{})

	var follower errgroup.Group
	leaderStarted := make(chan struct{})
	go func() {
		_, _, _ = g.Do(ctx, "k", func() (int, bool, error) {
			close(leaderStarted)
			<-gate
			return 0, false, boom
		})
	}()
	<-leaderStarted
	follower.Go(func() error {
		_, _, err := g.Do(ctx, "k", func() (int, bool, error) {
			t.Errorf("follower executed instead of joining")
			return 0, false, nil
		})
		if !errors.Is(err, boom) {
			return errors.New("follower did not receive leader error")
		}
		return nil
	})

	time.Sleep(10 * time.Millisecond)
	close(gate)
	if err := follower.Wait(); err != nil {
		t.Fatal(err)
	}

	// settled entries are gone; a new call runs fresh
	v, ok, err := g.Do(ctx, "k", func() (int, bool, error) { return 1, true, nil })
	if err != nil || !ok || v != 1 {
		t.Fatalf("post-settle call: v=%v ok=%v err=%v", v, ok, err)
	}
}

// TestPerKeyIndependence: different keys never share executions.
func TestPerKeyIndependence(t *testing.T) {
	ctx := context.Background()
	g := New[string](0)

	a, _, err := g.Do(ctx, "a", func() (string, bool, error) { return "a", true, nil })
	if err != nil {
		t.Fatalf("a: %v", err)
	}
	b, _, err := g.Do(ctx, "b", func() (string, bool, error) { return "b", true, nil })
	if err != nil {
		t.Fatalf("b: %v", err)
	}
	if a != "a" || b != "b" {
		t.Fatalf("results crossed keys: a=%q b=%q", a, b)
	}
}

// TestFollowerContextCancel: a follower stops waiting on its own ctx; the
// leader is unaffected.
func TestFollowerContextCancel(t *testing.T) {
	g := New[int](0)
	gate := make(chan struct{})
	leaderStarted := make(chan struct{})
	leaderDone := make(chan struct{})

	go func() {
		defer close(leaderDone)
		_, _, _ = g.Do(context.Background(), "k", func() (int, bool, error) {
			close(leaderStarted)
			<-gate
			return 1, true, nil
		})
	}()
	<-leaderStarted

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, _, err := g.Do(ctx, "k", func() (int, bool, error) { return 0, false, nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("follower err=%v, want context.Canceled", err)
	}

	close(gate)
	select {
	case <-leaderDone:
	case <-time.After(2 * time.Second):
		t.Fatalf("leader never finished")
	}
}

// TestStaleEntryReplaced: an entry older than maxAge no longer blocks fresh
// execution (fail open).
func TestStaleEntryReplaced(t *testing.T) {
	ctx := context.Background()
	g := New[int](time.Nanosecond)

	// wedge an entry that will never settle
	wedged := &call[int]{done: make(chan struct{}), started: time.Now().Add(-time.Second)}
	g.mu.Lock()
	g.calls["k"] = wedged
	g.mu.Unlock()

	v, ok, err := g.Do(ctx, "k", func() (int, bool, error) { return 5, true, nil })
	if err != nil || !ok || v != 5 {
		t.Fatalf("stale entry blocked execution: v=%v ok=%v err=%v", v, ok, err)
	}
}

// TestForget drops the in-flight entry so the next call executes fresh.
func TestForget(t *testing.T) {
	g := New[int](0)
	gate := make(chan struct{})
	leaderStarted := make(chan struct{})
	var execs atomic.Int32

	go func() {
		_, _, _ = g.Do(context.Background(), "k", func() (int, bool, error) {
			execs.Add(1)
			close(leaderStarted)
			<-gate
			return 1, true, nil
		})
	}()
	<-leaderStarted
	g.Forget("k")

	v, _, err := g.Do(context.Background(), "k", func() (int, bool, error) {
		execs.Add(1)
		return 2, true, nil
	})
	close(gate)
	if err != nil || v != 2 {
		t.Fatalf("post-forget call: v=%v err=%v", v, err)
	}
	if got := execs.Load(); got != 2 {
		t.Fatalf("executed %d times, want 2", got)
	}
}
