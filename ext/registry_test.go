package ext_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/NitinDahiya199/higgsfield.ai/ext"
	"github.com/NitinDahiya199/higgsfield.ai/job"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	r.calls = append(r.calls, s)
	r.mu.Unlock()
}

type allHooks struct {
	recorder
	name string
	err  error
}

func (e *allHooks) Name() string { return e.name }

func (e *allHooks) OnJobClaimed(_ context.Context, j *job.Job) error {
	e.add("claimed:" + j.ID)
	return e.err
}

func (e *allHooks) OnJobCompleted(_ context.Context, j *job.Job, _ time.Duration) error {
	e.add("completed:" + j.ID)
	return e.err
}

func (e *allHooks) OnJobFailed(_ context.Context, j *job.Job, cause error) error {
	e.add("failed:" + j.ID + ":" + cause.Error())
	return e.err
}

func (e *allHooks) OnJobDropped(_ context.Context, queue, jobID string) error {
	e.add("dropped:" + queue + "/" + jobID)
	return e.err
}

func (e *allHooks) OnShutdown(context.Context) error {
	e.add("shutdown")
	return e.err
}

type nameOnly struct{}

func (nameOnly) Name() string { return "name-only" }

type completedOnly struct{ recorder }

func (*completedOnly) Name() string { return "completed-only" }

func (c *completedOnly) OnJobCompleted(_ context.Context, j *job.Job, _ time.Duration) error {
	c.add(j.ID)
	return nil
}

func TestRegistry_DispatchesAllHooks(t *testing.T) {
	r := ext.NewRegistry(nil)
	e := &allHooks{name: "all"}
	r.Register(e)

	ctx := context.Background()
	j := &job.Job{ID: "j1", Queue: "image-generation"}
	r.EmitJobClaimed(ctx, j)
	r.EmitJobCompleted(ctx, j, time.Second)
	r.EmitJobFailed(ctx, j, errors.New("bad"))
	r.EmitJobDropped(ctx, "image-generation", "j2")
	r.EmitShutdown(ctx)

	want := []string{"claimed:j1", "completed:j1", "failed:j1:bad", "dropped:image-generation/j2", "shutdown"}
	if len(e.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", e.calls, want)
	}
	for i := range want {
		if e.calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, e.calls[i], want[i])
		}
	}
}

func TestRegistry_OptInHooks(t *testing.T) {
	r := ext.NewRegistry(nil)
	c := &completedOnly{}
	r.Register(nameOnly{})
	r.Register(c)

	ctx := context.Background()
	j := &job.Job{ID: "j1"}
	r.EmitJobClaimed(ctx, j)
	r.EmitJobFailed(ctx, j, errors.New("x"))
	r.EmitJobCompleted(ctx, j, 0)

	if len(c.calls) != 1 || c.calls[0] != "j1" {
		t.Errorf("calls = %v", c.calls)
	}
	if got := len(r.Extensions()); got != 2 {
		t.Errorf("Extensions() len = %d, want 2", got)
	}
}

func TestRegistry_RegistrationOrder(t *testing.T) {
	r := ext.NewRegistry(nil)
	var shared recorder
	for _, name := range []string{"a", "b", "c"} {
		r.Register(&orderExt{name: name, rec: &shared})
	}

	r.EmitShutdown(context.Background())

	if strings.Join(shared.calls, ",") != "a,b,c" {
		t.Errorf("order = %v", shared.calls)
	}
}

type orderExt struct {
	name string
	rec  *recorder
}

func (o *orderExt) Name() string { return o.name }

func (o *orderExt) OnShutdown(context.Context) error {
	o.rec.add(o.name)
	return nil
}

func TestRegistry_HookErrorsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	r := ext.NewRegistry(slog.New(slog.NewTextHandler(&buf, nil)))
	failing := &allHooks{name: "flaky", err: errors.New("sink down")}
	healthy := &allHooks{name: "healthy"}
	r.Register(failing)
	r.Register(healthy)

	r.EmitJobClaimed(context.Background(), &job.Job{ID: "j1"})

	if len(healthy.calls) != 1 {
		t.Error("hook error stopped fan-out")
	}
	out := buf.String()
	for _, want := range []string{"extension hook error", "hook=OnJobClaimed", "extension=flaky", "sink down"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestRegistry_ConcurrentEmit(t *testing.T) {
	r := ext.NewRegistry(nil)
	e := &allHooks{name: "all"}
	r.Register(e)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.EmitJobClaimed(context.Background(), &job.Job{ID: "x"})
		}()
	}
	wg.Wait()

	if len(e.calls) != 16 {
		t.Errorf("calls = %d, want 16", len(e.calls))
	}
}
