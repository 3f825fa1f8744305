package leaselock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memLocks mimics the app_locks statements without expiry.
type memLocks struct {
	mu     sync.Mutex
	holder map[string]string
}

type row struct {
	key string
	err error
}

func (r row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*string) = r.key
	return nil
}

func (m *memLocks) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, token := args[0].(string), args[1].(string)
	owner, held := m.holder[key]

	switch sql {
	case tryAcquireSQL:
		if held && owner != token {
			return row{err: pgx.ErrNoRows}
		}
		m.holder[key] = token
		return row{key: key}
	case renewSQL:
		if owner != token {
			return row{err: pgx.ErrNoRows}
		}
		return row{key: key}
	}
	return row{err: errors.New("unexpected query")}
}

func (m *memLocks) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, token := args[0].(string), args[1].(string)
	if sql == releaseSQL && m.holder[key] == token {
		delete(m.holder, key)
	}
	return pgconn.CommandTag{}, nil
}

func newTestClient() (*Client, *memLocks) {
	db := &memLocks{holder: map[string]string{}}
	return &Client{db: db}, db
}

func TestAcquire_BusyWhenHeld(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient()
	ctx := context.Background()

	lease, err := c.Acquire(ctx, "catalog_refresh", Options{})
	require.NoError(t, err)

	_, err = c.Acquire(ctx, "catalog_refresh", Options{})
	assert.ErrorIs(t, err, ErrBusy)

	require.NoError(t, lease.Release(ctx))
	assert.ErrorIs(t, lease.Context.Err(), context.Canceled)

	again, err := c.Acquire(ctx, "catalog_refresh", Options{})
	require.NoError(t, err)
	require.NoError(t, again.Release(ctx))
}

func TestAcquire_EmptyKey(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient()
	_, err := c.Acquire(context.Background(), "", Options{})
	assert.Error(t, err)
}

func TestAcquire_WaitHonoursContext(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient()
	lease, err := c.Acquire(context.Background(), "k", Options{})
	require.NoError(t, err)
	defer lease.Release(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Acquire(ctx, "k", Options{Wait: true, WaitInterval: 10 * time.Millisecond})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWithLease_ReleasesAfterRun(t *testing.T) {
	t.Parallel()

	c, db := newTestClient()
	ran := false
	err := c.WithLease(context.Background(), "k", Options{Owner: "worker-1:"}, func(ctx context.Context) error {
		ran = true
		assert.Contains(t, db.holder["k"], "worker-1:")
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Empty(t, db.holder)
}

func TestLease_LostWhenStolen(t *testing.T) {
	t.Parallel()

	c, db := newTestClient()
	lease, err := c.Acquire(context.Background(), "k", Options{TTL: 2 * time.Second, RenewEvery: 10 * time.Millisecond})
	require.NoError(t, err)

	db.mu.Lock()
	db.holder["k"] = "someone-else"
	db.mu.Unlock()

	select {
	case <-lease.Context.Done():
	case <-time.After(time.Second):
		t.Fatal("lease was not cancelled")
	}
	assert.ErrorIs(t, context.Cause(lease.Context), ErrLost)
}
