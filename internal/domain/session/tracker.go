package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultHeartbeatInterval is the wall-clock tick used to accrue
	// elapsed time for a live session.
	DefaultHeartbeatInterval = time.Second
	// DefaultFlushEvery batches heartbeat persistence: the elapsed
	// counter is written to the store once per this many ticks.
	DefaultFlushEvery = 30

	endRetries    = 3
	endRetryDelay = 200 * time.Millisecond
)

// TrackerConfig tunes the tracker's timing behavior. The zero value
// selects the defaults; Clock exists for tests.
type TrackerConfig struct {
	HeartbeatInterval time.Duration
	FlushEvery        int
	Clock             func() time.Time
}

// StartOptions carries the metadata of a new study session.
type StartOptions struct {
	Title          string
	Subject        *string
	FlashcardSetID *string
}

// liveSession is the in-memory state of one running session. Elapsed
// time accrues locally on heartbeat ticks; the store only sees batched
// snapshots until the session ends.
type liveSession struct {
	sess    StudySession
	elapsed int // heartbeat ticks while active
	paused  bool
	stop    chan struct{}
}

// Tracker owns the lifecycle of live study sessions. It keeps at most
// one live (active or paused) session per user and drives a per-session
// heartbeat timer rather than any process-wide ticker.
type Tracker struct {
	repo     Repository
	listener ChangeListener
	metrics  Metrics
	logger   *slog.Logger

	heartbeat  time.Duration
	flushEvery int
	now        func() time.Time

	mu   sync.Mutex
	live map[string]*liveSession
	wg   sync.WaitGroup
}

// NewTracker creates a session tracker. listener may be nil.
func NewTracker(repo Repository, listener ChangeListener, metrics Metrics, cfg TrackerConfig, logger *slog.Logger) *Tracker {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if cfg.FlushEvery <= 0 {
		cfg.FlushEvery = DefaultFlushEvery
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Tracker{
		repo:       repo,
		listener:   listener,
		metrics:    metrics,
		logger:     logger,
		heartbeat:  cfg.HeartbeatInterval,
		flushEvery: cfg.FlushEvery,
		now:        cfg.Clock,
		live:       map[string]*liveSession{},
	}
}

// Start creates a new active session for the user and begins its
// heartbeat. It fails with ErrSessionInProgress while another session
// for the same user is live, so one user's time is never double-counted.
func (t *Tracker) Start(ctx context.Context, userID string, opts StartOptions) (string, error) {
	if userID == "" {
		return "", ErrInvalidInput
	}
	if opts.Title == "" {
		opts.Title = "Study Session"
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.live[userID]; ok {
		return "", ErrSessionInProgress
	}

	sess := StudySession{
		ID:             uuid.NewString(),
		UserID:         userID,
		Title:          opts.Title,
		Subject:        opts.Subject,
		FlashcardSetID: opts.FlashcardSetID,
		StartTime:      t.now(),
		IsActive:       true,
	}
	if err := t.repo.Create(ctx, &sess); err != nil {
		return "", fmt.Errorf("creating session: %w", err)
	}

	ls := &liveSession{sess: sess, stop: make(chan struct{})}
	t.live[userID] = ls
	t.startHeartbeat(ls)

	t.metrics.RecordSessionStarted()
	t.notify(userID, sess.ID)
	t.logger.Info("session started", "user_id", userID, "session_id", sess.ID)
	return sess.ID, nil
}

// TogglePause flips the live session between active and paused. Elapsed
// time stops accruing while paused; the heartbeat timer itself is
// stopped and restarted rather than left ticking.
func (t *Tracker) TogglePause(userID string) (paused bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ls, ok := t.live[userID]
	if !ok {
		return false, ErrNoLiveSession
	}

	if ls.paused {
		ls.paused = false
		ls.stop = make(chan struct{})
		t.startHeartbeat(ls)
	} else {
		ls.paused = true
		close(ls.stop)
	}
	return ls.paused, nil
}

// RecordCardsReviewed adds to the live session's reviewed-card counter.
// The new total reaches the store with the next heartbeat flush or at
// session end.
func (t *Tracker) RecordCardsReviewed(userID string, n int) error {
	if n <= 0 {
		return ErrInvalidInput
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	ls, ok := t.live[userID]
	if !ok {
		return ErrNoLiveSession
	}
	ls.sess.CardsReviewed += n
	return nil
}

// Elapsed reports the locally accrued active seconds of the live session.
func (t *Tracker) Elapsed(userID string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ls, ok := t.live[userID]
	if !ok {
		return 0, ErrNoLiveSession
	}
	return ls.elapsed, nil
}

// End finishes the user's live session. The recorded duration is the
// wall-clock span since start, capped at MaxRealisticSeconds. The write
// is retried locally before the error surfaces; the computed duration is
// returned either way, and a row stuck mid-write is repaired by the next
// reconciliation pass.
func (t *Tracker) End(ctx context.Context, userID string) (int, error) {
	t.mu.Lock()
	ls, ok := t.live[userID]
	if !ok {
		t.mu.Unlock()
		return 0, ErrNoLiveSession
	}
	if !ls.paused {
		close(ls.stop)
	}
	delete(t.live, userID)

	now := t.now()
	duration := int(now.Sub(ls.sess.StartTime).Seconds())
	if duration < 0 {
		duration = 0
	}
	if duration > MaxRealisticSeconds {
		duration = MaxRealisticSeconds
	}

	sess := ls.sess
	sess.EndTime = &now
	sess.DurationSeconds = &duration
	sess.IsActive = false
	t.mu.Unlock()

	var err error
	for attempt := 1; attempt <= endRetries; attempt++ {
		if err = t.repo.Update(ctx, &sess); err == nil {
			break
		}
		t.logger.Warn("ending session failed",
			"user_id", userID, "session_id", sess.ID, "attempt", attempt, "error", err)
		if attempt < endRetries {
			select {
			case <-ctx.Done():
				return duration, ctx.Err()
			case <-time.After(endRetryDelay):
			}
		}
	}
	if err != nil {
		return duration, fmt.Errorf("ending session: %w", err)
	}

	t.metrics.RecordSessionEnded(duration)
	t.notify(userID, sess.ID)
	t.logger.Info("session ended",
		"user_id", userID, "session_id", sess.ID, "duration_seconds", duration)
	return duration, nil
}

// Stop halts every heartbeat without ending the sessions. Rows left
// active are picked up by reconciliation after restart.
func (t *Tracker) Stop() {
	t.mu.Lock()
	for _, ls := range t.live {
		if !ls.paused {
			close(ls.stop)
			ls.paused = true
		}
	}
	t.mu.Unlock()
	t.wg.Wait()
}

func (t *Tracker) startHeartbeat(ls *liveSession) {
	t.wg.Add(1)
	stop := ls.stop
	go func() {
		defer t.wg.Done()
		ticker := time.NewTicker(t.heartbeat)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				t.tick(ls)
			}
		}
	}()
}

// tick advances the elapsed counter and, every flushEvery ticks, writes
// a best-effort snapshot so the store never lags a live session by more
// than one batch. Heartbeats never block the timer loop on a failed
// write; failures are only logged.
func (t *Tracker) tick(ls *liveSession) {
	t.mu.Lock()
	ls.elapsed++
	flush := ls.elapsed%t.flushEvery == 0
	snapshot := ls.sess
	elapsed := ls.elapsed
	t.mu.Unlock()

	if !flush {
		return
	}

	if elapsed > MaxRealisticSeconds {
		elapsed = MaxRealisticSeconds
	}
	snapshot.DurationSeconds = &elapsed

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := t.repo.Update(ctx, &snapshot); err != nil {
		t.logger.Warn("heartbeat flush failed",
			"user_id", snapshot.UserID, "session_id", snapshot.ID, "error", err)
		return
	}
	t.notify(snapshot.UserID, snapshot.ID)
}

func (t *Tracker) notify(userID, sessionID string) {
	if t.listener != nil {
		t.listener.OnSessionChanged(userID, sessionID)
	}
}
