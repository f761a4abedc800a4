package mongo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"eventbook/pkg/config"
	apperrors "eventbook/pkg/errors"
	"eventbook/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const unreachableURI = "mongodb://127.0.0.1:1/eventbook_test"

// lazyClient builds a client without touching the network; the driver only
// dials when an operation runs.
func lazyClient() (*mongo.Client, error) {
	return mongo.Connect(context.Background(), options.Client().ApplyURI(unreachableURI))
}

type fakeDialer struct {
	calls   atomic.Int64
	release chan struct{}
	results []error
}

func newFakeDialer(results ...error) *fakeDialer {
	return &fakeDialer{release: make(chan struct{}), results: results}
}

func (f *fakeDialer) dial(ctx context.Context, _ *options.ClientOptions) (*mongo.Client, error) {
	n := f.calls.Add(1)
	select {
	case <-f.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if int(n) <= len(f.results) && f.results[n-1] != nil {
		return nil, f.results[n-1]
	}
	return lazyClient()
}

func TestConnect_CoalescesConcurrentCallers(t *testing.T) {
	dialer := newFakeDialer()
	m := NewManager(unreachableURI, WithDialer(dialer.dial))
	defer func() { _ = m.Disconnect(context.Background()) }()

	const callers = 50
	clients := make([]*mongo.Client, callers)
	errs := make([]error, callers)

	var started, finished sync.WaitGroup
	started.Add(callers)
	finished.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer finished.Done()
			started.Done()
			clients[i], errs[i] = m.Connect(context.Background())
		}(i)
	}
	started.Wait()
	require.Eventually(t, func() bool { return m.Waiters() == callers }, time.Second, time.Millisecond)
	close(dialer.release)
	finished.Wait()

	assert.Equal(t, int64(1), dialer.calls.Load())
	assert.Equal(t, int64(1), m.Attempts())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, clients[0], clients[i])
	}
	assert.True(t, m.Connected())
}

func TestConnect_LogsCoalescedWaiters(t *testing.T) {
	var buf bytes.Buffer
	dialer := newFakeDialer()
	m := NewManager(unreachableURI,
		WithDialer(dialer.dial),
		WithLogger(logger.New(logger.Config{Output: &buf, Level: logger.INFO})),
	)
	defer func() { _ = m.Disconnect(context.Background()) }()

	const callers = 3
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			_, _ = m.Connect(context.Background())
		}()
	}
	require.Eventually(t, func() bool { return m.Waiters() == callers }, time.Second, time.Millisecond)
	close(dialer.release)
	wg.Wait()
	assert.Zero(t, m.Waiters())

	var record struct {
		Msg     string `json:"msg"`
		Attempt int64  `json:"attempt"`
		Waiters int64  `json:"waiters"`
	}
	line, _, _ := bytes.Cut(buf.Bytes(), []byte("\n"))
	require.NoError(t, json.Unmarshal(line, &record))
	assert.Equal(t, "Successfully connected to MongoDB", record.Msg)
	assert.Equal(t, int64(1), record.Attempt)
	assert.Equal(t, int64(callers), record.Waiters)
}

func TestConnect_ReturnsCachedClient(t *testing.T) {
	dialer := newFakeDialer()
	close(dialer.release)
	m := NewManager(unreachableURI, WithDialer(dialer.dial))
	defer func() { _ = m.Disconnect(context.Background()) }()

	first, err := m.Connect(context.Background())
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := m.Connect(context.Background())
		require.NoError(t, err)
		assert.Same(t, first, again)
	}
	assert.Equal(t, int64(1), dialer.calls.Load())
}

func TestConnect_FailureIsSharedAndRetried(t *testing.T) {
	dialErr := errors.New("server selection timeout")
	dialer := newFakeDialer(dialErr)
	m := NewManager(unreachableURI, WithDialer(dialer.dial))
	defer func() { _ = m.Disconnect(context.Background()) }()

	const callers = 10
	errs := make([]error, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = m.Connect(context.Background())
		}(i)
	}
	require.Eventually(t, func() bool { return m.Waiters() == callers }, time.Second, time.Millisecond)
	close(dialer.release)
	wg.Wait()

	assert.Equal(t, int64(1), dialer.calls.Load())
	for _, err := range errs {
		require.Error(t, err)
		assert.ErrorIs(t, err, dialErr)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeUnavailable))
	}
	assert.False(t, m.Connected())

	client, err := m.Connect(context.Background())
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.Equal(t, int64(2), dialer.calls.Load())
}

func TestConnect_WaiterContextDoesNotCancelAttempt(t *testing.T) {
	dialer := newFakeDialer()
	m := NewManager(unreachableURI, WithDialer(dialer.dial))
	defer func() { _ = m.Disconnect(context.Background()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := m.Connect(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	close(dialer.release)
	client, err := m.Connect(context.Background())
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.Equal(t, int64(1), dialer.calls.Load())
}

func TestDisconnect(t *testing.T) {
	dialer := newFakeDialer()
	close(dialer.release)
	m := NewManager(unreachableURI, WithDialer(dialer.dial))

	require.NoError(t, m.Disconnect(context.Background()), "disconnect before connect is a no-op")

	_, err := m.Connect(context.Background())
	require.NoError(t, err)
	require.True(t, m.Connected())

	require.NoError(t, m.Disconnect(context.Background()))
	assert.False(t, m.Connected())
	require.NoError(t, m.Disconnect(context.Background()))

	_, err = m.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), dialer.calls.Load())
	require.NoError(t, m.Disconnect(context.Background()))
}

func TestDisconnect_AbandonsInflightAttempt(t *testing.T) {
	dialer := newFakeDialer()
	m := NewManager(unreachableURI, WithDialer(dialer.dial))

	result := make(chan error, 1)
	go func() {
		_, err := m.Connect(context.Background())
		result <- err
	}()
	require.Eventually(t, func() bool { return dialer.calls.Load() == 1 }, time.Second, time.Millisecond)

	require.NoError(t, m.Disconnect(context.Background()))
	close(dialer.release)

	err := <-result
	require.ErrorIs(t, err, ErrDisconnected)
	assert.False(t, m.Connected())
}

func TestDefault_IsProcessWide(t *testing.T) {
	t.Cleanup(func() { _ = ResetDefault(context.Background()) })

	first := Default(unreachableURI)
	second := Default("mongodb://other:27017")
	assert.Same(t, first, second)

	require.NoError(t, ResetDefault(context.Background()))
	assert.NotSame(t, first, Default(unreachableURI))
}

func TestClientOptions(t *testing.T) {
	opts := ClientOptions(unreachableURI)

	require.NotNil(t, opts.MaxPoolSize)
	assert.Equal(t, uint64(config.MongoMaxPoolSize), *opts.MaxPoolSize)
	require.NotNil(t, opts.ServerSelectionTimeout)
	assert.Equal(t, 5*time.Second, *opts.ServerSelectionTimeout)
	require.NotNil(t, opts.SocketTimeout)
	assert.Equal(t, 45*time.Second, *opts.SocketTimeout)
	assert.NotNil(t, opts.Dialer)
}
