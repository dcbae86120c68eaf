package job

import higgsfield "github.com/NitinDahiya199/higgsfield.ai"

// Keyspace builds the Redis keys of the BullMQ list convention:
// "<prefix>:<queue>:<suffix>".
type Keyspace struct {
	prefix string
}

// NewKeyspace returns a Keyspace for prefix. An empty prefix falls back to
// higgsfield.DefaultKeyPrefix.
func NewKeyspace(prefix string) Keyspace {
	if prefix == "" {
		prefix = higgsfield.DefaultKeyPrefix
	}
	return Keyspace{prefix: prefix}
}

// DefaultKeyspace is the "bull:" keyspace.
func DefaultKeyspace() Keyspace { return NewKeyspace(higgsfield.DefaultKeyPrefix) }

// Prefix returns the namespace prefix without the trailing colon.
func (k Keyspace) Prefix() string {
	if k.prefix == "" {
		return higgsfield.DefaultKeyPrefix
	}
	return k.prefix
}

// Wait is the list producers push pending job ids onto.
func (k Keyspace) Wait(queue string) string { return k.key(queue, "wait") }

// Active is the list of ids currently claimed by a consumer.
func (k Keyspace) Active(queue string) string { return k.key(queue, "active") }

// Completed is the list of ids whose handler returned nil.
func (k Keyspace) Completed(queue string) string { return k.key(queue, "completed") }

// Failed is the list of ids whose handler failed or had none.
func (k Keyspace) Failed(queue string) string { return k.key(queue, "failed") }

// Payload is the key holding the serialized payload of jobID.
func (k Keyspace) Payload(queue, jobID string) string { return k.key(queue, jobID) }

// Reserved reports whether jobID collides with a state list suffix. The
// payload key of such an id would be the list key itself.
func (k Keyspace) Reserved(jobID string) bool {
	switch jobID {
	case "wait", "active", "completed", "failed":
		return true
	}
	return false
}

// States returns the four state list keys in lifecycle order.
func (k Keyspace) States(queue string) [4]string {
	return [4]string{k.Wait(queue), k.Active(queue), k.Completed(queue), k.Failed(queue)}
}

func (k Keyspace) key(queue, suffix string) string {
	return k.Prefix() + ":" + queue + ":" + suffix
}
