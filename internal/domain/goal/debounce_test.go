package goal_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mhalter/studytrack/internal/domain/goal"
)

type countingRecomputer struct {
	calls atomic.Int64
}

func (c *countingRecomputer) RecomputeAll(ctx context.Context, userID string) error {
	c.calls.Add(1)
	return nil
}

func TestDebouncer_CoalescesBursts(t *testing.T) {
	rec := &countingRecomputer{}
	d := goal.NewDebouncer(rec, 20*time.Millisecond, nil)
	defer d.Close()

	for i := 0; i < 5; i++ {
		d.OnSessionChanged("u1", "s1")
	}

	require.Eventually(t, func() bool {
		return rec.calls.Load() == 1
	}, time.Second, 5*time.Millisecond)

	// The count stays at one; the burst produced a single pass.
	time.Sleep(50 * time.Millisecond)
	require.EqualValues(t, 1, rec.calls.Load())

	d.OnSessionChanged("u1", "s2")
	require.Eventually(t, func() bool {
		return rec.calls.Load() == 2
	}, time.Second, 5*time.Millisecond)
}

func TestDebouncer_TracksUsersIndependently(t *testing.T) {
	rec := &countingRecomputer{}
	d := goal.NewDebouncer(rec, 20*time.Millisecond, nil)
	defer d.Close()

	d.OnSessionChanged("u1", "s1")
	d.OnSessionChanged("u2", "s2")

	require.Eventually(t, func() bool {
		return rec.calls.Load() == 2
	}, time.Second, 5*time.Millisecond)
}

func TestDebouncer_CloseDropsPendingWork(t *testing.T) {
	rec := &countingRecomputer{}
	d := goal.NewDebouncer(rec, 20*time.Millisecond, nil)

	d.OnSessionChanged("u1", "s1")
	d.Close()

	time.Sleep(50 * time.Millisecond)
	require.Zero(t, rec.calls.Load())

	// Events after Close are ignored.
	d.OnSessionChanged("u1", "s2")
	time.Sleep(50 * time.Millisecond)
	require.Zero(t, rec.calls.Load())
}
