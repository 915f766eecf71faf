package sweeper

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingExpirer struct {
	calls atomic.Int64
}

func (c *countingExpirer) ExpireOldHolds(context.Context) (int64, error) {
	c.calls.Add(1)
	return 0, nil
}

func TestSweeperRunsImmediatelyAndPeriodically(t *testing.T) {
	expirer := &countingExpirer{}
	s := New(expirer, 10*time.Millisecond)

	s.Start(context.Background())
	defer s.Stop()

	require.Eventually(t, func() bool {
		return expirer.calls.Load() >= 3
	}, time.Second, 5*time.Millisecond, "expected the startup pass plus ticker passes")
}

func TestSweeperStopTerminatesLoop(t *testing.T) {
	expirer := &countingExpirer{}
	s := New(expirer, 5*time.Millisecond)

	s.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	s.Stop()

	after := expirer.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, expirer.calls.Load(), "no sweeps after Stop")
}

func TestSweeperStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	expirer := &countingExpirer{}
	s := New(expirer, 5*time.Millisecond)

	s.Start(ctx)
	cancel()

	select {
	case <-s.done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not exit after context cancellation")
	}
}
