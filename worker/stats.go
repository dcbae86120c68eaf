package worker

import (
	"context"
	"fmt"

	"github.com/NitinDahiya199/higgsfield.ai/job"
)

// QueueStats is a point-in-time count of a queue's state lists.
type QueueStats struct {
	Queue     string `json:"queue"`
	Wait      int64  `json:"wait"`
	Active    int64  `json:"active"`
	Completed int64  `json:"completed"`
	Failed    int64  `json:"failed"`
}

// CollectStats reads the list lengths of each queue. The counts are not
// taken atomically and may be skewed by concurrent consumers.
func CollectStats(ctx context.Context, insp job.Inspector, keys job.Keyspace, queues []string) ([]QueueStats, error) {
	out := make([]QueueStats, 0, len(queues))
	for _, q := range queues {
		var counts [4]int64
		for i, key := range keys.States(q) {
			n, err := insp.Len(ctx, key)
			if err != nil {
				return nil, fmt.Errorf("stats for %s: %w", key, err)
			}
			counts[i] = n
		}
		out = append(out, QueueStats{
			Queue:     q,
			Wait:      counts[0],
			Active:    counts[1],
			Completed: counts[2],
			Failed:    counts[3],
		})
	}
	return out, nil
}
