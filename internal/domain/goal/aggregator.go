package goal

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/mhalter/studytrack/internal/domain/session"
)

// Aggregator recomputes goal completion from reconciled session data. It
// is safe to call both reactively (via a Debouncer subscribed to session
// changes) and on a schedule; recomputing an up-to-date goal writes
// nothing.
type Aggregator struct {
	goals        Repository
	sessions     SessionSource
	notifier     Notifier
	achievements AchievementChecker
	metrics      Metrics
	logger       *slog.Logger
}

// NewAggregator creates a goal progress aggregator. notifier and
// achievements may be nil.
func NewAggregator(
	goals Repository,
	sessions SessionSource,
	notifier Notifier,
	achievements AchievementChecker,
	metrics Metrics,
	logger *slog.Logger,
) *Aggregator {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		goals:        goals,
		sessions:     sessions,
		notifier:     notifier,
		achievements: achievements,
		metrics:      metrics,
		logger:       logger,
	}
}

// RecomputeAll refreshes every active goal for the user. A failure on
// one goal is logged and the rest of the batch continues; only a failure
// to list the goals at all is returned.
func (a *Aggregator) RecomputeAll(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrInvalidInput
	}

	goals, err := a.goals.ListActive(ctx, userID)
	if err != nil {
		return fmt.Errorf("listing active goals: %w", err)
	}

	for i := range goals {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := a.recompute(ctx, &goals[i]); err != nil {
			a.logger.Warn("goal recompute failed",
				"user_id", userID, "goal_id", goals[i].ID, "error", err)
		}
	}
	return nil
}

func (a *Aggregator) recompute(ctx context.Context, g *StudyGoal) error {
	w := session.Window{
		From:           g.StartDate,
		To:             endOfDay(g.EndDate),
		Subject:        g.Subject,
		FlashcardSetID: g.FlashcardSetID,
	}
	sessions, err := a.sessions.ListFinishedInWindow(ctx, g.UserID, w)
	if err != nil {
		return fmt.Errorf("querying sessions: %w", err)
	}

	total := 0
	for _, s := range sessions {
		total += s.Duration()
	}
	hours := math.Round(float64(total)/3600*100) / 100

	progress := int(math.Round(hours / g.TargetHours * 100))
	if progress > 100 {
		progress = 100
	}
	completed := progress >= 100

	a.metrics.RecordGoalRecomputed()
	if progress == g.Progress && completed == g.IsCompleted {
		return nil
	}

	if err := a.goals.UpdateProgress(ctx, g.UserID, g.ID, progress, completed); err != nil {
		return fmt.Errorf("persisting progress: %w", err)
	}

	if m := crossedMilestone(g.Progress, progress); m > 0 {
		a.metrics.RecordMilestone(m)
		if a.notifier != nil {
			a.notifier.GoalMilestone(ctx, g.UserID, g.Title, m)
		}
	}

	if completed && !g.IsCompleted {
		a.metrics.RecordGoalCompleted()
		if a.notifier != nil {
			a.notifier.GoalCompleted(ctx, g.UserID, g.Title)
		}
		if a.achievements != nil {
			if err := a.achievements.CheckAndAward(ctx, g.UserID); err != nil {
				a.logger.Warn("achievement check failed",
					"user_id", g.UserID, "goal_id", g.ID, "error", err)
			}
		}
	}

	a.logger.Debug("goal progress updated",
		"user_id", g.UserID,
		"goal_id", g.ID,
		"study_hours", hours,
		"progress", progress,
		"completed", completed,
	)
	return nil
}

// crossedMilestone returns the first milestone newly crossed by the move
// from prev to next, or 0. Thresholds already passed never re-fire.
func crossedMilestone(prev, next int) int {
	for _, m := range Milestones {
		if prev < m && m <= next {
			return m
		}
	}
	return 0
}

// endOfDay extends a goal's end date to the last second of that day so a
// session started any time on the final day still counts.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}
