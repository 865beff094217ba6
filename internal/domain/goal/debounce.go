package goal

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultDebounceDelay coalesces bursts of session writes into one
// aggregation pass.
const DefaultDebounceDelay = 2 * time.Second

// Recomputer is the slice of the aggregator the debouncer drives.
type Recomputer interface {
	RecomputeAll(ctx context.Context, userID string) error
}

// Debouncer implements session.ChangeListener. Each change event arms a
// trailing per-user timer; further events within the delay reset it, so
// a burst of writes triggers a single recompute.
type Debouncer struct {
	recomputer Recomputer
	delay      time.Duration
	logger     *slog.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool
}

// NewDebouncer creates a debounced change listener. delay <= 0 selects
// the default.
func NewDebouncer(recomputer Recomputer, delay time.Duration, logger *slog.Logger) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Debouncer{
		recomputer: recomputer,
		delay:      delay,
		logger:     logger,
		timers:     map[string]*time.Timer{},
	}
}

// OnSessionChanged schedules a recompute for the user after the debounce
// delay, restarting the countdown if one is already pending.
func (d *Debouncer) OnSessionChanged(userID, sessionID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	if timer, ok := d.timers[userID]; ok {
		timer.Reset(d.delay)
		return
	}
	d.timers[userID] = time.AfterFunc(d.delay, func() {
		d.fire(userID)
	})
}

// Close cancels all pending recomputes. Late events are dropped.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	for userID, timer := range d.timers {
		timer.Stop()
		delete(d.timers, userID)
	}
}

func (d *Debouncer) fire(userID string) {
	d.mu.Lock()
	delete(d.timers, userID)
	closed := d.closed
	d.mu.Unlock()
	if closed {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := d.recomputer.RecomputeAll(ctx, userID); err != nil {
		d.logger.Warn("debounced recompute failed", "user_id", userID, "error", err)
	}
}
