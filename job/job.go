package job

import (
	"encoding/json"
	"fmt"
	"time"

	higgsfield "github.com/NitinDahiya199/higgsfield.ai"
)

// Payload is the schema-less record a producer stores for a job. Handlers
// perform any further validation themselves.
type Payload map[string]any

// String returns the value at key if it is a string.
func (p Payload) String(key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Job is a claimed unit of work.
type Job struct {
	// ID is the producer-assigned job id.
	ID string `json:"id"`

	// Queue is the queue the job was popped from.
	Queue string `json:"queue"`

	// Payload is the decoded payload record.
	Payload Payload `json:"payload"`

	// Raw is the payload exactly as stored.
	Raw string `json:"-"`

	// ClaimedAt is when the consumer pushed the id onto the active list.
	ClaimedAt time.Time `json:"claimed_at"`
}

// DecodePayload parses raw into a Payload. Anything that is not a JSON
// object, including "null", wraps higgsfield.ErrInvalidPayload.
func DecodePayload(raw string) (Payload, error) {
	var p Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("%w: %w", higgsfield.ErrInvalidPayload, err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: null payload", higgsfield.ErrInvalidPayload)
	}
	return p, nil
}
