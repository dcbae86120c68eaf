// Package memory implements job.Store in process. Lists and keys live in
// maps guarded by one mutex, so BlockingPop hands each element to exactly
// one caller, as BLPOP does in Redis.
//
// Intended for unit tests and local development without a Redis server.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	higgsfield "github.com/NitinDahiya199/higgsfield.ai"
	"github.com/NitinDahiya199/higgsfield.ai/job"
)

// Compile-time interface checks.
var (
	_ job.Store     = (*Store)(nil)
	_ job.Inspector = (*Store)(nil)
)

// Store is a fully in-memory list-and-key store.
// Safe for concurrent access.
type Store struct {
	mu sync.Mutex

	lists  map[string][]string
	values map[string]string

	// pushed is closed and replaced whenever a list grows, waking every
	// blocked BlockingPop so they can race for the new element.
	pushed chan struct{}

	// fault, when set, is returned by every operation.
	fault  error
	closed bool
}

// New returns a new empty Store.
func New() *Store {
	return &Store{
		lists:  make(map[string][]string),
		values: make(map[string]string),
		pushed: make(chan struct{}),
	}
}

// ──────────────────────────────────────────────────
// Lifecycle
// ──────────────────────────────────────────────────

// Ping reports the injected fault, or ErrManagerClosed after Close.
func (m *Store) Ping(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errLocked()
}

// Close makes every later operation fail with ErrManagerClosed. It is
// idempotent.
func (m *Store) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.wakeLocked()
	return nil
}

// SetFault makes every operation return err until SetFault(nil) is called.
// Tests use it to simulate a store outage.
func (m *Store) SetFault(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fault = err
	m.wakeLocked()
}

// ──────────────────────────────────────────────────
// job.Store
// ──────────────────────────────────────────────────

// BlockingPop removes the head of the list at key, waiting up to timeout.
func (m *Store) BlockingPop(ctx context.Context, key string, timeout time.Duration) (string, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		m.mu.Lock()
		if err := m.errLocked(); err != nil {
			m.mu.Unlock()
			return "", err
		}
		if l := m.lists[key]; len(l) > 0 {
			head := l[0]
			m.setListLocked(key, l[1:])
			m.mu.Unlock()
			return head, nil
		}
		wake := m.pushed
		m.mu.Unlock()

		select {
		case <-wake:
		case <-timer.C:
			return "", higgsfield.ErrNoJob
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// Fetch returns the value at key.
func (m *Store) Fetch(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errLocked(); err != nil {
		return "", err
	}
	v, ok := m.values[key]
	if !ok {
		return "", higgsfield.ErrPayloadNotFound
	}
	return v, nil
}

// Push prepends member to the list at key.
func (m *Store) Push(_ context.Context, key, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errLocked(); err != nil {
		return err
	}
	m.lists[key] = append([]string{member}, m.lists[key]...)
	m.wakeLocked()
	return nil
}

// RemoveOne removes the first occurrence of member from the list at key
// and returns the removed count.
func (m *Store) RemoveOne(_ context.Context, key, member string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errLocked(); err != nil {
		return 0, err
	}
	l := m.lists[key]
	i := slices.Index(l, member)
	if i < 0 {
		return 0, nil
	}
	m.setListLocked(key, slices.Delete(slices.Clone(l), i, i+1))
	return 1, nil
}

// ──────────────────────────────────────────────────
// Producer side
// ──────────────────────────────────────────────────

// SetPayload stores value at key.
func (m *Store) SetPayload(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errLocked(); err != nil {
		return err
	}
	m.values[key] = value
	return nil
}

// Append appends member to the tail of the list at key (RPUSH).
func (m *Store) Append(_ context.Context, key, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errLocked(); err != nil {
		return err
	}
	m.lists[key] = append(m.lists[key], member)
	m.wakeLocked()
	return nil
}

// ──────────────────────────────────────────────────
// job.Inspector
// ──────────────────────────────────────────────────

// Len returns the length of the list at key.
func (m *Store) Len(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errLocked(); err != nil {
		return 0, err
	}
	return int64(len(m.lists[key])), nil
}

// Range returns a copy of the list at key, head first.
func (m *Store) Range(_ context.Context, key string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errLocked(); err != nil {
		return nil, err
	}
	return slices.Clone(m.lists[key]), nil
}

// List is Range without the error, for test assertions. It ignores any
// injected fault.
func (m *Store) List(key string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.lists[key])
}

// ──────────────────────────────────────────────────
// helpers
// ──────────────────────────────────────────────────

func (m *Store) errLocked() error {
	if m.closed {
		return higgsfield.ErrManagerClosed
	}
	return m.fault
}

func (m *Store) setListLocked(key string, l []string) {
	if len(l) == 0 {
		delete(m.lists, key)
		return
	}
	m.lists[key] = l
}

func (m *Store) wakeLocked() {
	close(m.pushed)
	m.pushed = make(chan struct{})
}
