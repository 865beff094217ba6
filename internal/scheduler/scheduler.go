// Package scheduler drives the engine's periodic maintenance: a
// reconciliation pass over every known user, followed by a goal
// recompute on the cleaned data.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/mhalter/studytrack/internal/domain/session"
)

// DefaultInterval is how often the maintenance pass runs.
const DefaultInterval = 30 * time.Minute

// Reconciler repairs one user's session rows.
type Reconciler interface {
	Reconcile(ctx context.Context, userID string) (session.Report, error)
}

// Recomputer refreshes one user's goal progress.
type Recomputer interface {
	RecomputeAll(ctx context.Context, userID string) error
}

// UserSource lists the users the maintenance pass fans out over.
type UserSource interface {
	ListUserIDs(ctx context.Context) ([]string, error)
}

// Scheduler runs the maintenance pass at process start and on a fixed
// interval.
type Scheduler struct {
	cron       *gocron.Scheduler
	reconciler Reconciler
	recomputer Recomputer
	users      UserSource
	interval   time.Duration
	logger     *slog.Logger
}

// New creates a scheduler instance. recomputer may be nil to skip the
// aggregation step.
func New(reconciler Reconciler, recomputer Recomputer, users UserSource, interval time.Duration, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:       gocron.NewScheduler(time.UTC),
		reconciler: reconciler,
		recomputer: recomputer,
		users:      users,
		interval:   interval,
		logger:     logger,
	}
}

// Start begins the periodic passes, running the first one immediately.
func (s *Scheduler) Start() {
	s.cron.Every(s.interval).StartImmediately().Do(func() {
		s.RunPass(context.Background())
	})
	s.cron.StartAsync()
}

// Stop terminates the scheduled passes.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// RunPass reconciles and recomputes every known user once. Per-user
// failures are logged and the fan-out continues.
func (s *Scheduler) RunPass(ctx context.Context) {
	userIDs, err := s.users.ListUserIDs(ctx)
	if err != nil {
		s.logger.Error("listing users for maintenance pass", "error", err)
		return
	}

	for _, userID := range userIDs {
		if ctx.Err() != nil {
			return
		}

		report, err := s.reconciler.Reconcile(ctx, userID)
		if err != nil {
			s.logger.Warn("reconciliation failed", "user_id", userID, "error", err)
			continue
		}
		if report.Throttled {
			s.logger.Debug("reconciliation throttled", "user_id", userID)
			continue
		}

		if s.recomputer != nil {
			if err := s.recomputer.RecomputeAll(ctx, userID); err != nil {
				s.logger.Warn("goal recompute failed", "user_id", userID, "error", err)
			}
		}
	}
}
