package job_test

import (
	"context"
	"strings"
	"testing"

	"github.com/NitinDahiya199/higgsfield.ai/job"
)

type imageInput struct {
	Prompt string `json:"prompt" validate:"required"`
	Width  int    `json:"width,omitempty" validate:"omitempty,gt=0"`
	Preset string `json:"preset_id,omitempty"`
}

func TestTyped_Decodes(t *testing.T) {
	var got imageInput
	h := job.Typed(func(_ context.Context, in imageInput) error {
		got = in
		return nil
	})

	p, err := job.DecodePayload(`{"prompt":"cat","width":512,"preset_id":"noir"}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := h.Handle(context.Background(), &job.Job{ID: "j1", Payload: p}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Prompt != "cat" {
		t.Errorf("Prompt = %q, want %q", got.Prompt, "cat")
	}
	if got.Width != 512 {
		t.Errorf("Width = %d, want 512", got.Width)
	}
	if got.Preset != "noir" {
		t.Errorf("Preset = %q, want %q", got.Preset, "noir")
	}
}

func TestTyped_ValidationFails(t *testing.T) {
	h := job.Typed(func(_ context.Context, _ imageInput) error {
		t.Fatal("handler should not be called with an invalid payload")
		return nil
	})

	err := h.Handle(context.Background(), &job.Job{ID: "j1", Payload: job.Payload{"width": 10}})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "validate payload") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestTyped_WithoutValidation(t *testing.T) {
	called := false
	h := job.Typed(func(_ context.Context, _ imageInput) error {
		called = true
		return nil
	}, job.WithoutValidation())

	if err := h.Handle(context.Background(), &job.Job{ID: "j1", Payload: job.Payload{}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("handler not called")
	}
}

func TestTyped_StrictKeys(t *testing.T) {
	h := job.Typed(func(_ context.Context, _ imageInput) error { return nil }, job.WithStrictKeys())

	err := h.Handle(context.Background(), &job.Job{ID: "j1", Payload: job.Payload{"prompt": "cat", "extra": true}})
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestTyped_WrongType(t *testing.T) {
	h := job.Typed(func(_ context.Context, _ imageInput) error { return nil })

	err := h.Handle(context.Background(), &job.Job{ID: "j1", Payload: job.Payload{"prompt": map[string]any{"nested": 1}}})
	if err == nil {
		t.Fatal("expected decode error")
	}
	if !strings.Contains(err.Error(), "decode payload") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestTyped_MapTarget(t *testing.T) {
	var got map[string]any
	h := job.Typed(func(_ context.Context, in map[string]any) error {
		got = in
		return nil
	})

	if err := h.Handle(context.Background(), &job.Job{ID: "j1", Payload: job.Payload{"prompt": "cat"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["prompt"] != "cat" {
		t.Errorf("got %v", got)
	}
}
