// Package dlq treats each queue's failed list as a dead letter queue.
//
// The consumer files every failed job id on "<prefix>:<queue>:failed" and
// never deletes payload keys, so a failed job can be inspected and
// replayed later:
//
//	svc := dlq.NewService(mgr, job.DefaultKeyspace())
//	entries, _ := svc.List(ctx, "image-generation")
//	_ = svc.Replay(ctx, "image-generation", entries[0].JobID)
//
// Replay takes the id off the failed list before appending it to wait,
// and appends only when its own LREM removed the id. The id is never on
// both lists at once and concurrent replays of one id requeue it once.
package dlq
