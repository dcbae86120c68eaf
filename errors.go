package higgsfield

import (
	"errors"
	"fmt"
)

var (
	// Connection errors.
	ErrConnection    = errors.New("higgsfield: connection failed")
	ErrNotConnected  = errors.New("higgsfield: not connected")
	ErrManagerClosed = errors.New("higgsfield: connection manager closed")

	// Queue protocol errors.
	ErrNoJob           = errors.New("higgsfield: no job available")
	ErrPayloadNotFound = errors.New("higgsfield: job payload not found")
	ErrInvalidPayload  = errors.New("higgsfield: job payload is not a mapping")
	ErrNoHandler       = errors.New("higgsfield: no handler registered for queue")
)

// ConnectionError reports a failed initial connection to the store. Addr is
// the host:port the client dialed; the URL itself is not kept because it may
// carry credentials.
type ConnectionError struct {
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("higgsfield: connect %s: %v", e.Addr, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *ConnectionError) Unwrap() error { return e.Err }

// Is reports ErrConnection so callers can match on the sentinel.
func (e *ConnectionError) Is(target error) bool { return target == ErrConnection }
