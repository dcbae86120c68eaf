package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	higgsfield "github.com/NitinDahiya199/higgsfield.ai"
)

// ──────────────────────────────────────────────────
// Lifecycle tests
// ──────────────────────────────────────────────────

func TestLifecycle(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()

	if err := s.Ping(ctx); err != nil {
		t.Fatalf("Ping returned error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close returned error: %v", err)
	}
	if err := s.Ping(ctx); !errors.Is(err, higgsfield.ErrManagerClosed) {
		t.Fatalf("Ping after Close = %v, want ErrManagerClosed", err)
	}
}

func TestFault(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()
	outage := errors.New("connection reset")

	s.SetFault(outage)
	if err := s.Ping(ctx); !errors.Is(err, outage) {
		t.Fatalf("Ping = %v, want %v", err, outage)
	}
	if err := s.Push(ctx, "k", "v"); !errors.Is(err, outage) {
		t.Fatalf("Push = %v, want %v", err, outage)
	}
	if _, err := s.BlockingPop(ctx, "k", time.Second); !errors.Is(err, outage) {
		t.Fatalf("BlockingPop = %v, want %v", err, outage)
	}

	s.SetFault(nil)
	if err := s.Ping(ctx); err != nil {
		t.Fatalf("Ping after clearing fault: %v", err)
	}
}

// ──────────────────────────────────────────────────
// List tests
// ──────────────────────────────────────────────────

func TestBlockingPop_FIFOWithAppend(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := s.Append(ctx, "wait", id); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	for _, want := range []string{"a", "b", "c"} {
		got, err := s.BlockingPop(ctx, "wait", 10*time.Millisecond)
		if err != nil {
			t.Fatalf("pop: %v", err)
		}
		if got != want {
			t.Errorf("popped %q, want %q", got, want)
		}
	}
	if n, _ := s.Len(ctx, "wait"); n != 0 {
		t.Errorf("Len = %d, want 0", n)
	}
}

func TestBlockingPop_Timeout(t *testing.T) {
	t.Parallel()
	s := New()

	start := time.Now()
	_, err := s.BlockingPop(context.Background(), "empty", 30*time.Millisecond)
	if !errors.Is(err, higgsfield.ErrNoJob) {
		t.Fatalf("got %v, want ErrNoJob", err)
	}
	if elapsed := time.Since(start); elapsed < 25*time.Millisecond {
		t.Errorf("returned after %v, expected to block for the timeout", elapsed)
	}
}

func TestBlockingPop_WakesOnPush(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()

	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = s.Append(ctx, "wait", "late")
	}()

	got, err := s.BlockingPop(ctx, "wait", 2*time.Second)
	if err != nil {
		t.Fatalf("pop: %v", err)
	}
	if got != "late" {
		t.Errorf("popped %q, want %q", got, "late")
	}
}

func TestBlockingPop_ContextCancelled(t *testing.T) {
	t.Parallel()
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.BlockingPop(ctx, "wait", time.Second); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}

func TestBlockingPop_Exclusive(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()
	const jobs = 200

	for i := range jobs {
		_ = s.Append(ctx, "wait", fmt.Sprintf("j%d", i))
	}

	var (
		mu   sync.Mutex
		seen = make(map[string]int)
		wg   sync.WaitGroup
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				v, err := s.BlockingPop(ctx, "wait", 20*time.Millisecond)
				if errors.Is(err, higgsfield.ErrNoJob) {
					return
				}
				if err != nil {
					t.Errorf("pop: %v", err)
					return
				}
				mu.Lock()
				seen[v]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != jobs {
		t.Fatalf("popped %d distinct ids, want %d", len(seen), jobs)
	}
	for v, n := range seen {
		if n != 1 {
			t.Errorf("id %q popped %d times", v, n)
		}
	}
}

func TestPushAndRemoveOne(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()

	_ = s.Push(ctx, "active", "a")
	_ = s.Push(ctx, "active", "b")
	_ = s.Push(ctx, "active", "a")

	if got := s.List("active"); fmt.Sprint(got) != "[a b a]" {
		t.Fatalf("after pushes: %v", got)
	}

	if n, err := s.RemoveOne(ctx, "active", "a"); err != nil || n != 1 {
		t.Fatalf("remove = %d, %v; want 1, nil", n, err)
	}
	if got := s.List("active"); fmt.Sprint(got) != "[b a]" {
		t.Fatalf("after one removal: %v", got)
	}

	if n, err := s.RemoveOne(ctx, "active", "missing"); err != nil || n != 0 {
		t.Fatalf("remove missing = %d, %v; want 0, nil", n, err)
	}
	_, _ = s.RemoveOne(ctx, "active", "b")
	_, _ = s.RemoveOne(ctx, "active", "a")
	if got, _ := s.Range(ctx, "active"); len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}
}

// ──────────────────────────────────────────────────
// Key tests
// ──────────────────────────────────────────────────

func TestFetch(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()

	if _, err := s.Fetch(ctx, "bull:q:j1"); !errors.Is(err, higgsfield.ErrPayloadNotFound) {
		t.Fatalf("got %v, want ErrPayloadNotFound", err)
	}

	_ = s.SetPayload(ctx, "bull:q:j1", `{"prompt":"cat"}`)
	got, err := s.Fetch(ctx, "bull:q:j1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got != `{"prompt":"cat"}` {
		t.Errorf("got %q", got)
	}
}
