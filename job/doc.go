// Package job defines the job entity, the handler capability, the queue
// keyspace and the store contract the consumer drives.
//
// # Job Entity
//
// A [Job] is one unit of work claimed from a queue's wait list. Its id is
// chosen by the producer and treated as opaque. The payload is whatever
// the producer stored under the job's key, decoded into a [Payload]
// mapping; the consumer does not validate its shape beyond that.
//
// # Handlers
//
// Every handler satisfies [Handler]. Synchronous code uses [HandlerFunc];
// code that completes elsewhere (a goroutine, a callback API) uses [Async],
// which the consumer awaits through the same Handle call. [Typed] decodes
// the payload into a struct and validates it before calling a typed
// function:
//
//	type ImageInput struct {
//	    Prompt string `json:"prompt" validate:"required"`
//	}
//
//	reg.Register("image-generation", job.Typed(func(ctx context.Context, in ImageInput) error {
//	    return images.Generate(ctx, in.Prompt)
//	}))
//
// # Keyspace
//
// [Keyspace] builds the list keys of a queue:
//
//	bull:<queue>:wait       producer pushes, consumer pops
//	bull:<queue>:active     claimed by a consumer
//	bull:<queue>:completed  handler returned nil
//	bull:<queue>:failed     handler failed, payload undecodable, or no handler
//	bull:<queue>:<job_id>   serialized payload
package job
