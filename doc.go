// Package higgsfield provides the job-queue consumer behind the Higgsfield
// AI worker. It drains BullMQ-style Redis lists: a producer pushes job ids
// onto "bull:<queue>:wait" and writes the payload under
// "bull:<queue>:<job_id>"; the consumer claims ids into "active" and files
// them under "completed" or "failed" once their handler returns.
//
// Delivery is at-least-once. Every failure inside a queue loop becomes a
// list transition and a log line; only the initial connection failure is
// returned to the caller.
//
// # Quick Start
//
//	mgr, err := conn.Connect(ctx, cfg.Redis.URL, cfg.Redis.ConnectTimeout, cfg.Redis.OpTimeout)
//	if err != nil { ... }
//	defer mgr.Close()
//
//	c := worker.New(mgr, worker.WithLogger(logger))
//	c.Register("image-generation", job.HandlerFunc(generateImage))
//	if err := c.Start(ctx); err != nil { ... }
//	defer c.Shutdown(shutdownCtx)
//
// # Architecture
//
// The conn package owns the single Redis connection and knows nothing about
// queues. The worker package owns the handler registry and runs one
// goroutine per registered queue, performing the claim, dispatch and
// finalize protocol through the job.Store contract. store/memory provides
// an in-process job.Store for tests and local development.
package higgsfield
