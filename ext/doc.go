// Package ext lets callers observe the consumer's job lifecycle.
//
// An extension implements [Extension] plus any of the hook interfaces it
// cares about:
//
//	type auditExt struct{}
//
//	func (auditExt) Name() string { return "audit" }
//
//	func (auditExt) OnJobFailed(ctx context.Context, j *job.Job, cause error) error {
//	    log.Printf("job %s on %s failed: %v", j.ID, j.Queue, cause)
//	    return nil
//	}
//
// Hooks:
//   - [JobClaimed] the id is on the active list
//   - [JobCompleted] the id moved to completed
//   - [JobFailed] the id moved to failed
//   - [JobDropped] the payload was missing and the id was discarded
//   - [Shutdown] the consumer finished draining
//
// Hook errors are logged by the [Registry] and otherwise ignored.
package ext
