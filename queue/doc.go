// Package queue throttles how often the consumer polls each queue.
//
// A [Limiter] holds one golang.org/x/time/rate token bucket per configured
// queue. The consumer calls [Limiter.Wait] before every BLPOP, so a queue
// limited to 2/s never claims more than two jobs a second on this process:
//
//	l := queue.NewLimiter(
//	    queue.Config{Name: "video-synthesis", Rate: 0.5},
//	    queue.Config{Name: "image-generation", Rate: 5, Burst: 10},
//	)
//
// Queues with no [Config] are not throttled. A nil *Limiter is valid and
// throttles nothing.
package queue
