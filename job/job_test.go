package job_test

import (
	"errors"
	"testing"

	higgsfield "github.com/NitinDahiya199/higgsfield.ai"
	"github.com/NitinDahiya199/higgsfield.ai/job"
)

func TestDecodePayload(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"object", `{"prompt":"cat"}`, false},
		{"empty object", `{}`, false},
		{"nested", `{"settings":{"steps":30},"tags":["a"]}`, false},
		{"array", `[1,2,3]`, true},
		{"string", `"cat"`, true},
		{"number", `42`, true},
		{"null", `null`, true},
		{"invalid", `{"prompt":`, true},
		{"empty", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := job.DecodePayload(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, higgsfield.ErrInvalidPayload) {
					t.Fatalf("got %v, want ErrInvalidPayload", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p == nil {
				t.Fatal("expected non-nil payload")
			}
		})
	}
}

func TestPayload_String(t *testing.T) {
	p := job.Payload{"prompt": "cat", "steps": 30.0}

	if v, ok := p.String("prompt"); !ok || v != "cat" {
		t.Errorf("String(prompt) = %q, %v", v, ok)
	}
	if _, ok := p.String("steps"); ok {
		t.Error("String(steps) should be false for a number")
	}
	if _, ok := p.String("missing"); ok {
		t.Error("String(missing) should be false")
	}
}

func TestKeyspace(t *testing.T) {
	k := job.DefaultKeyspace()

	tests := []struct {
		got, want string
	}{
		{k.Wait("image-generation"), "bull:image-generation:wait"},
		{k.Active("image-generation"), "bull:image-generation:active"},
		{k.Completed("image-generation"), "bull:image-generation:completed"},
		{k.Failed("image-generation"), "bull:image-generation:failed"},
		{k.Payload("image-generation", "j1"), "bull:image-generation:j1"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}

	custom := job.NewKeyspace("staging")
	if got := custom.Wait("q"); got != "staging:q:wait" {
		t.Errorf("custom Wait = %q", got)
	}
	if got := job.NewKeyspace("").Prefix(); got != "bull" {
		t.Errorf("empty prefix fallback = %q", got)
	}
	var zero job.Keyspace
	if got := zero.Failed("q"); got != "bull:q:failed" {
		t.Errorf("zero Keyspace Failed = %q", got)
	}
}

func TestKeyspace_Reserved(t *testing.T) {
	k := job.DefaultKeyspace()
	for i, jobID := range []string{"wait", "active", "completed", "failed"} {
		if !k.Reserved(jobID) {
			t.Errorf("Reserved(%q) = false", jobID)
		}
		if k.Payload("q", jobID) != k.States("q")[i] {
			t.Errorf("payload key of %q is not its list key", jobID)
		}
	}
	for _, jobID := range []string{"j1", "Wait", "waiting", ""} {
		if k.Reserved(jobID) {
			t.Errorf("Reserved(%q) = true", jobID)
		}
	}
}
