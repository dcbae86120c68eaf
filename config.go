package higgsfield

import "time"

// DefaultKeyPrefix is the namespace BullMQ producers write under.
const DefaultKeyPrefix = "bull"

// Config holds runtime settings for the connection manager and consumer.
type Config struct {
	Redis  RedisConfig  `mapstructure:"redis" json:"redis" validate:"required"`
	Worker WorkerConfig `mapstructure:"worker" json:"worker" validate:"required"`
	Log    LogConfig    `mapstructure:"log" json:"log" validate:"required"`
}

// RedisConfig configures the shared store connection.
type RedisConfig struct {
	// URL is a redis:// or rediss:// connection string.
	URL string `mapstructure:"url" json:"url" validate:"required,url"`

	// ConnectTimeout bounds the initial dial and ping.
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" json:"connect_timeout" validate:"gt=0"`

	// OpTimeout bounds reads and writes of individual commands. Blocking
	// pops extend it by their own timeout.
	OpTimeout time.Duration `mapstructure:"op_timeout" json:"op_timeout" validate:"gt=0"`
}

// WorkerConfig configures the queue consumer.
type WorkerConfig struct {
	// KeyPrefix namespaces every queue key ("bull" → "bull:<queue>:wait").
	KeyPrefix string `mapstructure:"key_prefix" json:"key_prefix" validate:"required"`

	// Queues lists the queue names the host registers handlers for.
	Queues []string `mapstructure:"queues" json:"queues" validate:"dive,required"`

	// PollTimeout is the blocking-pop timeout. It bounds how long a loop
	// takes to notice Stop.
	PollTimeout time.Duration `mapstructure:"poll_timeout" json:"poll_timeout" validate:"gt=0"`

	// ErrorBackoff is the pause after a store error inside a loop.
	ErrorBackoff time.Duration `mapstructure:"error_backoff" json:"error_backoff" validate:"gte=0"`

	// HandlerTimeout cancels the handler context after this long. Zero
	// disables it.
	HandlerTimeout time.Duration `mapstructure:"handler_timeout" json:"handler_timeout" validate:"gte=0"`

	// ShutdownTimeout is how long Shutdown waits for in-flight jobs before
	// cancelling their contexts.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" json:"shutdown_timeout" validate:"gte=0"`

	// RateLimits optionally caps polls per second per queue.
	RateLimits []RateLimit `mapstructure:"rate_limits" json:"rate_limits" validate:"dive"`
}

// RateLimit is a token bucket for one queue.
type RateLimit struct {
	Queue string  `mapstructure:"queue" json:"queue" validate:"required"`
	Rate  float64 `mapstructure:"rate" json:"rate" validate:"gt=0"`
	Burst int     `mapstructure:"burst" json:"burst" validate:"gte=0"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `mapstructure:"level" json:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" json:"format" validate:"oneof=json text"`
}

// DefaultQueues are the pipeline stages the AI worker serves.
func DefaultQueues() []string {
	return []string{"image-generation", "video-synthesis", "motion-transfer", "post-processing"}
}

// DefaultConfig returns a Config with 5s Redis timeouts, a 1s poll and
// the four step queues.
func DefaultConfig() Config {
	return Config{
		Redis: RedisConfig{
			URL:            "redis://localhost:6379",
			ConnectTimeout: 5 * time.Second,
			OpTimeout:      5 * time.Second,
		},
		Worker: WorkerConfig{
			KeyPrefix:       DefaultKeyPrefix,
			Queues:          DefaultQueues(),
			PollTimeout:     1 * time.Second,
			ErrorBackoff:    1 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
