package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	// DefaultStaleAfter is how old an active session's start time must be
	// before it is considered abandoned and force-ended.
	DefaultStaleAfter = time.Hour
	// DefaultCooldown bounds write load: no two passes for the same user
	// start within this span.
	DefaultCooldown = 60 * time.Second
	// dedupWindow is the bucket used to detect duplicate session rows.
	dedupWindow = time.Minute
)

// ReconcilerConfig tunes the reconciler. The zero value selects the
// defaults; Clock exists for tests.
type ReconcilerConfig struct {
	StaleAfter time.Duration
	Cooldown   time.Duration
	Clock      func() time.Time
}

// Report summarizes one reconciliation pass.
type Report struct {
	Throttled  bool
	ForceEnded int
	Clamped    int
	Deduped    int
	Failed     int
}

// Reconciler repairs a user's session rows: it force-ends abandoned
// active sessions, clamps impossible durations, and removes duplicate
// rows. A pass is idempotent; re-running it against a consistent store
// changes nothing. Failures on one row never abort the pass, and the
// next scheduled pass retries whatever was skipped.
type Reconciler struct {
	repo    Repository
	metrics Metrics
	logger  *slog.Logger

	staleAfter time.Duration
	cooldown   time.Duration
	now        func() time.Time

	mu      sync.Mutex
	lastRun map[string]time.Time
}

// NewReconciler creates a session reconciler.
func NewReconciler(repo Repository, metrics Metrics, cfg ReconcilerConfig, logger *slog.Logger) *Reconciler {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = DefaultStaleAfter
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultCooldown
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Reconciler{
		repo:       repo,
		metrics:    metrics,
		logger:     logger,
		staleAfter: cfg.StaleAfter,
		cooldown:   cfg.Cooldown,
		now:        cfg.Clock,
		lastRun:    map[string]time.Time{},
	}
}

// Reconcile runs one repair pass for the user. A pass started within the
// cooldown of the previous one is skipped and reported as throttled.
func (r *Reconciler) Reconcile(ctx context.Context, userID string) (Report, error) {
	if userID == "" {
		return Report{}, ErrInvalidInput
	}
	if !r.acquire(userID) {
		return Report{Throttled: true}, nil
	}

	sessions, err := r.repo.ListByUser(ctx, userID)
	if err != nil {
		return Report{}, fmt.Errorf("listing sessions: %w", err)
	}

	var rep Report
	// Repair values first so dedup compares already-repaired rows.
	for i := range sessions {
		if ctx.Err() != nil {
			return rep, ctx.Err()
		}
		r.repairRow(ctx, &sessions[i], &rep)
	}
	r.dedup(ctx, sessions, &rep)

	if rep.ForceEnded+rep.Clamped+rep.Deduped+rep.Failed > 0 {
		r.logger.Info("reconciliation pass finished",
			"user_id", userID,
			"force_ended", rep.ForceEnded,
			"clamped", rep.Clamped,
			"deduped", rep.Deduped,
			"failed", rep.Failed,
		)
	}
	return rep, nil
}

func (r *Reconciler) acquire(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	if last, ok := r.lastRun[userID]; ok && now.Sub(last) < r.cooldown {
		return false
	}
	r.lastRun[userID] = now
	return true
}

// repairRow applies the stuck-active and duration-clamp repairs to one
// row, persisting at most one update.
func (r *Reconciler) repairRow(ctx context.Context, sess *StudySession, rep *Report) {
	changed := false
	now := r.now()

	if sess.IsActive && now.Sub(sess.StartTime) > r.staleAfter {
		duration := int(now.Sub(sess.StartTime).Seconds())
		if duration > MaxRealisticSeconds {
			duration = MaxRealisticSeconds
		}
		end := now
		sess.EndTime = &end
		sess.DurationSeconds = &duration
		sess.IsActive = false
		changed = true
		rep.ForceEnded++
		r.metrics.RecordRepair(RepairForceEnd)
	}

	if sess.DurationSeconds != nil && *sess.DurationSeconds > MaxRealisticSeconds {
		clamped := MaxRealisticSeconds
		sess.DurationSeconds = &clamped
		changed = true
		rep.Clamped++
		r.metrics.RecordRepair(RepairClamp)
	}

	if !changed {
		return
	}
	if err := r.repo.Update(ctx, sess); err != nil {
		rep.Failed++
		r.logger.Warn("session repair failed",
			"user_id", sess.UserID, "session_id", sess.ID, "error", err)
	}
}

// dedup groups rows by start time floored to the minute and keeps the
// one with the greater data weight: duration first, reviewed cards on a
// tie. The rest are deleted.
func (r *Reconciler) dedup(ctx context.Context, sessions []StudySession, rep *Report) {
	groups := make(map[int64][]*StudySession)
	for i := range sessions {
		key := sessions[i].StartTime.Truncate(dedupWindow).Unix()
		groups[key] = append(groups[key], &sessions[i])
	}

	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		keep := group[0]
		for _, s := range group[1:] {
			if heavier(s, keep) {
				keep = s
			}
		}
		for _, s := range group {
			if s == keep {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			if err := r.repo.Delete(ctx, s.UserID, s.ID); err != nil {
				rep.Failed++
				r.logger.Warn("duplicate session delete failed",
					"user_id", s.UserID, "session_id", s.ID, "error", err)
				continue
			}
			rep.Deduped++
			r.metrics.RecordRepair(RepairDedup)
		}
	}
}

func heavier(a, b *StudySession) bool {
	if a.Duration() != b.Duration() {
		return a.Duration() > b.Duration()
	}
	return a.CardsReviewed > b.CardsReviewed
}
