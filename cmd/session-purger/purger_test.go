package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSessions struct {
	calls atomic.Int32
	err   error
}

func (c *countingSessions) PurgeExpiredSessions(context.Context) (int64, error) {
	c.calls.Add(1)
	return 3, c.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPurgeReportsErrors(t *testing.T) {
	sessions := &countingSessions{err: errors.New("db down")}
	p := newPurger(sessions, time.Minute, quietLogger())

	err := p.purge(context.Background())

	assert.EqualError(t, err, "db down")
	assert.Equal(t, int32(1), sessions.calls.Load())
}

func TestRunPurgesUntilCancelled(t *testing.T) {
	sessions := &countingSessions{}
	p := newPurger(sessions, 5*time.Millisecond, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		p.run(ctx)
		close(done)
	}()
	require.Eventually(t, func() bool { return sessions.calls.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("purger did not stop")
	}
}

type recordingKeys struct {
	at  time.Time
	err error
}

func (r *recordingKeys) DeleteExpired(_ context.Context, at time.Time) (int64, error) {
	r.at = at
	return 2, r.err
}

func TestPurgeDropsExpiredIdempotencyKeys(t *testing.T) {
	now := time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC)
	keys := &recordingKeys{}
	p := newPurger(&countingSessions{}, time.Minute, quietLogger()).withIdempotencyKeys(keys)
	p.now = func() time.Time { return now }

	require.NoError(t, p.purge(context.Background()))
	assert.Equal(t, now, keys.at)

	keys.err = errors.New("key table locked")
	assert.EqualError(t, p.purge(context.Background()), "key table locked")
}
