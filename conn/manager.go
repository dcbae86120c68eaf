// Package conn owns the single Redis connection shared by every queue loop.
//
// It has no queue semantics. Get, Set and Delete follow a boundary policy:
// store errors are logged and folded into a failure indicator so a flaky
// connection degrades individual operations instead of crashing callers.
// The job.Store methods used by the consumer return their errors, since the
// consumer loop decides for itself how to recover.
//
// Usage:
//
//	m, err := conn.Connect(ctx, "redis://localhost:6379", 5*time.Second, 5*time.Second)
//	if err != nil { ... } // fatal at startup
//	defer m.Close()
package conn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	higgsfield "github.com/NitinDahiya199/higgsfield.ai"
	"github.com/NitinDahiya199/higgsfield.ai/job"
)

// Compile-time interface checks.
var (
	_ job.Store     = (*Manager)(nil)
	_ job.Inspector = (*Manager)(nil)
)

// DefaultMaxRetries bounds how many times go-redis retries a failed
// command before giving up.
const DefaultMaxRetries = 3

// Option configures the Manager.
type Option func(*settings)

type settings struct {
	logger     *slog.Logger
	maxRetries int
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithMaxRetries overrides DefaultMaxRetries. Negative disables retries.
func WithMaxRetries(n int) Option {
	return func(s *settings) { s.maxRetries = n }
}

// Manager wraps one go-redis client.
type Manager struct {
	mu     sync.RWMutex
	client *redis.Client
	addr   string
	logger *slog.Logger
}

// Connect dials url with the given timeouts and verifies the connection
// with a PING. The handshake is retried per go-redis' MaxRetries policy;
// if it still fails the client is closed and a *higgsfield.ConnectionError
// is returned.
func Connect(ctx context.Context, url string, connectTimeout, opTimeout time.Duration, opts ...Option) (*Manager, error) {
	s := settings{logger: slog.Default(), maxRetries: DefaultMaxRetries}
	for _, o := range opts {
		o(&s)
	}

	ropts, err := redis.ParseURL(url)
	if err != nil {
		return nil, &higgsfield.ConnectionError{Addr: "<invalid url>", Err: err}
	}
	ropts.DialTimeout = connectTimeout
	ropts.ReadTimeout = opTimeout
	ropts.WriteTimeout = opTimeout
	ropts.MaxRetries = s.maxRetries

	client := redis.NewClient(ropts)
	return connectClient(ctx, client, ropts.Addr, connectTimeout, s.logger)
}

// New wraps an existing client without pinging it. The Manager takes
// ownership: Close closes the client.
func New(client *redis.Client, opts ...Option) *Manager {
	s := settings{logger: slog.Default()}
	for _, o := range opts {
		o(&s)
	}
	return &Manager{client: client, addr: client.Options().Addr, logger: s.logger}
}

func connectClient(ctx context.Context, client *redis.Client, addr string, timeout time.Duration, logger *slog.Logger) (*Manager, error) {
	pingCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close() //nolint:errcheck // connection never became usable
		logger.Error("failed to connect to redis",
			slog.String("addr", addr),
			slog.String("error", err.Error()),
		)
		return nil, &higgsfield.ConnectionError{Addr: addr, Err: err}
	}

	logger.Info("connected to redis", slog.String("addr", addr))
	return &Manager{client: client, addr: addr, logger: logger}, nil
}

// Client returns the underlying Redis client, or nil once closed.
func (m *Manager) Client() *redis.Client {
	if m == nil {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.client
}

// Addr returns the host:port the manager dialed.
func (m *Manager) Addr() string {
	if m == nil {
		return ""
	}
	return m.addr
}

// IsConnected sends a PING and reports whether it succeeded. It never
// returns an error: a nil, closed or unreachable manager is simply false.
func (m *Manager) IsConnected(ctx context.Context) bool {
	return m.Ping(ctx) == nil
}

// Ping verifies the Redis connection is alive.
func (m *Manager) Ping(ctx context.Context) error {
	c, err := m.conn()
	if err != nil {
		return err
	}
	return c.Ping(ctx).Err()
}

// Close releases the connection. It is idempotent and safe on a nil
// Manager.
func (m *Manager) Close() error {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	c := m.client
	m.client = nil
	m.mu.Unlock()

	if c == nil {
		return nil
	}
	if err := c.Close(); err != nil {
		return fmt.Errorf("higgsfield/conn: close: %w", err)
	}
	m.logger.Info("redis connection closed", slog.String("addr", m.addr))
	return nil
}

// ──────────────────────────────────────────────────
// Boundary operations: errors are logged, not returned
// ──────────────────────────────────────────────────

// Get returns the value at key. The bool is false when the key is absent
// or the read failed.
func (m *Manager) Get(ctx context.Context, key string) (string, bool) {
	c, err := m.conn()
	if err != nil {
		m.logOpError("get", key, err)
		return "", false
	}
	v, err := c.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			m.logOpError("get", key, err)
		}
		return "", false
	}
	return v, true
}

// Set stores value at key, expiring after ttl when ttl > 0. Reports
// whether the write succeeded.
func (m *Manager) Set(ctx context.Context, key, value string, ttl time.Duration) bool {
	c, err := m.conn()
	if err != nil {
		m.logOpError("set", key, err)
		return false
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := c.Set(ctx, key, value, ttl).Err(); err != nil {
		m.logOpError("set", key, err)
		return false
	}
	return true
}

// Delete removes key and reports whether a key was actually deleted.
func (m *Manager) Delete(ctx context.Context, key string) bool {
	c, err := m.conn()
	if err != nil {
		m.logOpError("delete", key, err)
		return false
	}
	n, err := c.Del(ctx, key).Result()
	if err != nil {
		m.logOpError("delete", key, err)
		return false
	}
	return n > 0
}

// ──────────────────────────────────────────────────
// job.Store
// ──────────────────────────────────────────────────

// BlockingPop issues BLPOP key timeout.
func (m *Manager) BlockingPop(ctx context.Context, key string, timeout time.Duration) (string, error) {
	c, err := m.conn()
	if err != nil {
		return "", err
	}
	res, err := c.BLPop(ctx, timeout, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", higgsfield.ErrNoJob
		}
		return "", fmt.Errorf("higgsfield/conn: blpop %s: %w", key, err)
	}
	// BLPOP replies [key, value].
	if len(res) != 2 {
		return "", fmt.Errorf("higgsfield/conn: blpop %s: unexpected reply length %d", key, len(res))
	}
	return res[1], nil
}

// Fetch issues GET key.
func (m *Manager) Fetch(ctx context.Context, key string) (string, error) {
	c, err := m.conn()
	if err != nil {
		return "", err
	}
	v, err := c.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", higgsfield.ErrPayloadNotFound
		}
		return "", fmt.Errorf("higgsfield/conn: get %s: %w", key, err)
	}
	return v, nil
}

// Push issues LPUSH key member.
func (m *Manager) Push(ctx context.Context, key, member string) error {
	c, err := m.conn()
	if err != nil {
		return err
	}
	if err := c.LPush(ctx, key, member).Err(); err != nil {
		return fmt.Errorf("higgsfield/conn: lpush %s: %w", key, err)
	}
	return nil
}

// RemoveOne issues LREM key 1 member and returns the removed count.
func (m *Manager) RemoveOne(ctx context.Context, key, member string) (int64, error) {
	c, err := m.conn()
	if err != nil {
		return 0, err
	}
	n, err := c.LRem(ctx, key, 1, member).Result()
	if err != nil {
		return 0, fmt.Errorf("higgsfield/conn: lrem %s: %w", key, err)
	}
	return n, nil
}

// ──────────────────────────────────────────────────
// job.Inspector and producer side
// ──────────────────────────────────────────────────

// Len issues LLEN key.
func (m *Manager) Len(ctx context.Context, key string) (int64, error) {
	c, err := m.conn()
	if err != nil {
		return 0, err
	}
	n, err := c.LLen(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("higgsfield/conn: llen %s: %w", key, err)
	}
	return n, nil
}

// Range issues LRANGE key 0 -1.
func (m *Manager) Range(ctx context.Context, key string) ([]string, error) {
	c, err := m.conn()
	if err != nil {
		return nil, err
	}
	l, err := c.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("higgsfield/conn: lrange %s: %w", key, err)
	}
	return l, nil
}

// SetPayload issues SET key value with no expiry.
func (m *Manager) SetPayload(ctx context.Context, key, value string) error {
	c, err := m.conn()
	if err != nil {
		return err
	}
	if err := c.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("higgsfield/conn: set %s: %w", key, err)
	}
	return nil
}

// Append issues RPUSH key member.
func (m *Manager) Append(ctx context.Context, key, member string) error {
	c, err := m.conn()
	if err != nil {
		return err
	}
	if err := c.RPush(ctx, key, member).Err(); err != nil {
		return fmt.Errorf("higgsfield/conn: rpush %s: %w", key, err)
	}
	return nil
}

// ── helpers ──

func (m *Manager) conn() (*redis.Client, error) {
	if m == nil {
		return nil, higgsfield.ErrNotConnected
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.client == nil {
		return nil, higgsfield.ErrManagerClosed
	}
	return m.client, nil
}

func (m *Manager) logOpError(op, key string, err error) {
	logger := slog.Default()
	if m != nil && m.logger != nil {
		logger = m.logger
	}
	logger.Error("redis operation failed",
		slog.String("op", op),
		slog.String("key", key),
		slog.String("error", err.Error()),
	)
}
