package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movers-solution/movers/internal/session"
)

type countingSweeper struct {
	calls atomic.Int32
	ttl   atomic.Int64
	err   error
}

func (c *countingSweeper) Sweep(ctx context.Context, idleTTL time.Duration) (int, error) {
	c.calls.Add(1)
	c.ttl.Store(int64(idleTTL))
	return 0, c.err
}

func TestNewSweepScheduler_InvalidSchedule(t *testing.T) {
	_, err := NewSweepScheduler(&countingSweeper{}, "whenever", time.Hour, zerolog.Nop())
	assert.Error(t, err)
}

func TestSweepScheduler_RunOnce(t *testing.T) {
	sweeper := &countingSweeper{}
	s, err := NewSweepScheduler(sweeper, "@every 1h", 30*time.Minute, zerolog.Nop())
	require.NoError(t, err)

	s.RunOnce()
	assert.Equal(t, int32(1), sweeper.calls.Load())
	assert.Equal(t, int64(30*time.Minute), sweeper.ttl.Load())

	sweeper.err = errors.New("store unavailable")
	assert.NotPanics(t, s.RunOnce)
}

func TestSweepScheduler_RunsOnSchedule(t *testing.T) {
	sweeper := &countingSweeper{}
	s, err := NewSweepScheduler(sweeper, "@every 1s", time.Hour, zerolog.Nop())
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	require.Eventually(t, func() bool { return sweeper.calls.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
}

func TestSweepScheduler_RemovesOnlyIdleSessions(t *testing.T) {
	ctx := context.Background()
	manager := session.NewManager(session.NewMemoryRepo(), zerolog.Nop())
	require.NoError(t, manager.Set(ctx, "fresh", session.New("1", "a", "a@example.com", session.RoleUser)))

	s, err := NewSweepScheduler(manager, "@every 1h", time.Hour, zerolog.Nop())
	require.NoError(t, err)
	s.RunOnce()

	n, err := manager.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// A zero TTL makes every session idle
	s.idleTTL = 0
	time.Sleep(5 * time.Millisecond)
	s.RunOnce()

	n, err = manager.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
