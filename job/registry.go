package job

import (
	"sort"
	"sync"
)

// Registry maps queue names to handlers. Each queue has at most one
// handler; registering again replaces it. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
	}
}

// Register stores h for queue and reports whether an earlier handler was
// replaced. A nil h is ignored.
func (r *Registry) Register(queue string, h Handler) (replaced bool) {
	if h == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, replaced = r.handlers[queue]
	r.handlers[queue] = h
	return replaced
}

// Get returns the handler for queue.
// Returns false if no handler is registered.
func (r *Registry) Get(queue string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[queue]
	return h, ok
}

// Queues returns the registered queue names in sorted order.
func (r *Registry) Queues() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered queues.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}
