package job

import (
	"context"
	"time"
)

// Store is the list-and-key contract the consumer drives. conn.Manager
// implements it over Redis and store/memory implements it in process.
//
// Unlike the connection manager's Get/Set/Delete, every method here
// returns its error so the consumer loop can decide how to recover.
type Store interface {
	// Ping checks the store is reachable.
	Ping(ctx context.Context) error

	// BlockingPop removes and returns the head of the list at key, waiting
	// up to timeout for one to arrive. Two concurrent callers never receive
	// the same element. Returns higgsfield.ErrNoJob when the timeout
	// elapses with the list still empty.
	BlockingPop(ctx context.Context, key string, timeout time.Duration) (string, error)

	// Fetch returns the string value at key, or
	// higgsfield.ErrPayloadNotFound when the key does not exist.
	Fetch(ctx context.Context, key string) (string, error)

	// Push prepends member to the list at key (LPUSH).
	Push(ctx context.Context, key, member string) error

	// RemoveOne removes the first occurrence of member from the list at
	// key (LREM key 1 member) and reports how many elements were removed.
	// Removing an absent member is not an error; it returns 0.
	RemoveOne(ctx context.Context, key, member string) (int64, error)
}

// Inspector is implemented by stores that can report list contents for
// monitoring.
type Inspector interface {
	// Len returns the length of the list at key.
	Len(ctx context.Context, key string) (int64, error)

	// Range returns the whole list at key, head first.
	Range(ctx context.Context, key string) ([]string, error)
}
