// Command aiworker consumes AI pipeline jobs from Redis lists written by
// the API's BullMQ queues.
//
//	aiworker run                 consume until SIGINT/SIGTERM
//	aiworker ping                check the Redis connection
//	aiworker stats               print list lengths per queue
//	aiworker enqueue QUEUE JSON  push a job, for local testing
//	aiworker failed list|replay  inspect or requeue failed jobs
package main

import "os"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
