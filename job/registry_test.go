package job_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/NitinDahiya199/higgsfield.ai/job"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := job.NewRegistry()

	var got *job.Job
	h := job.HandlerFunc(func(_ context.Context, j *job.Job) error {
		got = j
		return nil
	})

	if replaced := r.Register("image-generation", h); replaced {
		t.Fatal("first registration reported a replacement")
	}

	handler, ok := r.Get("image-generation")
	if !ok {
		t.Fatal("expected handler to be registered")
	}

	j := &job.Job{ID: "j1", Queue: "image-generation", Payload: job.Payload{"prompt": "cat"}}
	if err := handler.Handle(context.Background(), j); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != j {
		t.Error("handler did not receive the job")
	}
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := job.NewRegistry()
	if _, ok := r.Get("nonexistent"); ok {
		t.Fatal("expected no handler for unregistered queue")
	}
}

func TestRegistry_IgnoresNilHandler(t *testing.T) {
	r := job.NewRegistry()
	if r.Register("q", nil) {
		t.Error("nil registration reported a replacement")
	}
	if _, ok := r.Get("q"); ok {
		t.Error("nil handler was stored")
	}

	noop := job.HandlerFunc(func(context.Context, *job.Job) error { return nil })
	r.Register("q", noop)
	r.Register("q", nil)
	if h, ok := r.Get("q"); !ok || h == nil {
		t.Error("nil registration overwrote an existing handler")
	}
}

func TestRegistry_LastRegistrationWins(t *testing.T) {
	r := job.NewRegistry()
	errFirst := errors.New("first")
	errSecond := errors.New("second")

	r.Register("q", job.HandlerFunc(func(context.Context, *job.Job) error { return errFirst }))
	if replaced := r.Register("q", job.HandlerFunc(func(context.Context, *job.Job) error { return errSecond })); !replaced {
		t.Fatal("expected second registration to report a replacement")
	}

	h, _ := r.Get("q")
	if err := h.Handle(context.Background(), &job.Job{}); !errors.Is(err, errSecond) {
		t.Errorf("got %v, want %v", err, errSecond)
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestRegistry_QueuesSorted(t *testing.T) {
	r := job.NewRegistry()
	noop := job.HandlerFunc(func(context.Context, *job.Job) error { return nil })

	r.Register("video-synthesis", noop)
	r.Register("image-generation", noop)
	r.Register("post-processing", noop)

	names := r.Queues()
	expected := []string{"image-generation", "post-processing", "video-synthesis"}
	if len(names) != len(expected) {
		t.Fatalf("expected %d names, got %d", len(expected), len(names))
	}
	for i, want := range expected {
		if names[i] != want {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want)
		}
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := job.NewRegistry()
	noop := job.HandlerFunc(func(context.Context, *job.Job) error { return nil })

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Register("q", noop)
		}()
		go func() {
			defer wg.Done()
			_, _ = r.Get("q")
			_ = r.Queues()
		}()
	}
	wg.Wait()

	if _, ok := r.Get("q"); !ok {
		t.Fatal("expected handler after concurrent registration")
	}
}
