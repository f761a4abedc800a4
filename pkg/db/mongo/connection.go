package mongo

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"eventbook/pkg/config"
	apperrors "eventbook/pkg/errors"
	"eventbook/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ErrDisconnected is delivered to callers waiting on an attempt that was
// abandoned by Disconnect.
var ErrDisconnected = errors.New("connection manager was disconnected during connect")

// Dialer opens and verifies a client. The default dialer connects and pings
// the primary.
type Dialer func(ctx context.Context, opts *options.ClientOptions) (*mongo.Client, error)

type Option func(*Manager)

func WithDialer(d Dialer) Option {
	return func(m *Manager) { m.dial = d }
}

func WithLogger(log *logger.Logger) Option {
	return func(m *Manager) { m.log = log }
}

func WithConnectTimeout(d time.Duration) Option {
	return func(m *Manager) { m.connTimeout = d }
}

// Manager owns one lazily established client. Concurrent callers that arrive
// while the first attempt is running wait on that same attempt.
type Manager struct {
	uri         string
	connTimeout time.Duration
	dial        Dialer
	log         *logger.Logger

	mu       sync.Mutex
	client   *mongo.Client
	inflight *attempt

	attempts atomic.Int64
	waiters  atomic.Int64
}

type attempt struct {
	done   chan struct{}
	client *mongo.Client
	err    error
}

func NewManager(uri string, opts ...Option) *Manager {
	m := &Manager{
		uri:         uri,
		connTimeout: config.DefaultMongoConnTimeout,
		dial:        connectAndPing,
		log:         logger.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ClientOptions returns the driver options used for every connection attempt.
func ClientOptions(uri string) *options.ClientOptions {
	return options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(config.MongoMaxPoolSize).
		SetServerSelectionTimeout(config.MongoServerSelectionTimeout).
		SetSocketTimeout(config.MongoSocketTimeout).
		SetMaxConnIdleTime(config.MongoSocketTimeout).
		SetDialer(ipv4Dialer{})
}

// Connect returns the cached client, establishing it on first use.
func (m *Manager) Connect(ctx context.Context) (*mongo.Client, error) {
	m.mu.Lock()
	if m.client != nil {
		client := m.client
		m.mu.Unlock()
		return client, nil
	}
	a := m.inflight
	if a == nil {
		a = &attempt{done: make(chan struct{})}
		m.inflight = a
		go m.run(a)
	}
	m.mu.Unlock()

	m.waiters.Add(1)
	defer m.waiters.Add(-1)
	select {
	case <-a.done:
		return a.client, a.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *Manager) run(a *attempt) {
	n := m.attempts.Add(1)
	ctx, cancel := context.WithTimeout(context.Background(), m.connTimeout)
	defer cancel()

	start := time.Now()
	client, err := m.dial(ctx, ClientOptions(m.uri))

	m.mu.Lock()
	abandoned := m.inflight != a
	if !abandoned {
		m.inflight = nil
		if err == nil {
			m.client = client
		}
	}
	m.mu.Unlock()

	switch {
	case err != nil:
		m.log.Error("Failed to connect to MongoDB",
			"error", err,
			"attempt", n,
			"waiters", m.waiters.Load(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		a.err = apperrors.Unavailable("Database", err)
	case abandoned:
		m.log.Warn("Discarding MongoDB connection established after disconnect")
		closeCtx, closeCancel := context.WithTimeout(context.Background(), m.connTimeout)
		_ = client.Disconnect(closeCtx)
		closeCancel()
		a.err = apperrors.Unavailable("Database", ErrDisconnected)
	default:
		m.log.Info("Successfully connected to MongoDB",
			"attempt", n,
			"waiters", m.waiters.Load(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		a.client = client
	}
	close(a.done)
}

// Disconnect closes the cached client if there is one and clears all state.
// Safe to call when nothing is connected.
func (m *Manager) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	client := m.client
	m.client = nil
	m.inflight = nil
	m.mu.Unlock()

	if client == nil {
		return nil
	}
	if err := client.Disconnect(ctx); err != nil && !errors.Is(err, mongo.ErrClientDisconnected) {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}
	m.log.Info("Disconnected from MongoDB")
	return nil
}

// Ping connects if needed and checks the primary is reachable.
func (m *Manager) Ping(ctx context.Context) error {
	client, err := m.Connect(ctx)
	if err != nil {
		return err
	}
	return client.Ping(ctx, readpref.Primary())
}

func (m *Manager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.client != nil
}

// Waiters reports how many Connect calls are blocked on the in-flight attempt.
func (m *Manager) Waiters() int64 {
	return m.waiters.Load()
}

// Attempts reports how many connection attempts have been started.
func (m *Manager) Attempts() int64 {
	return m.attempts.Load()
}

func connectAndPing(ctx context.Context, opts *options.ClientOptions) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping: %w", err)
	}
	return client, nil
}

type ipv4Dialer struct {
	net.Dialer
}

func (d ipv4Dialer) DialContext(ctx context.Context, _, address string) (net.Conn, error) {
	return d.Dialer.DialContext(ctx, "tcp4", address)
}

var (
	defaultMu      sync.Mutex
	defaultManager *Manager
)

// Default returns the process-wide manager, creating it on first call. Later
// calls return the same manager regardless of arguments.
func Default(uri string, opts ...Option) *Manager {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultManager == nil {
		defaultManager = NewManager(uri, opts...)
	}
	return defaultManager
}

// ResetDefault disconnects and forgets the process-wide manager.
func ResetDefault(ctx context.Context) error {
	defaultMu.Lock()
	m := defaultManager
	defaultManager = nil
	defaultMu.Unlock()

	if m == nil {
		return nil
	}
	return m.Disconnect(ctx)
}
