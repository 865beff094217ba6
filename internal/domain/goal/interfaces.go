package goal

import (
	"context"

	"github.com/mhalter/studytrack/internal/domain/session"
)

// Repository provides persistence for study goals.
type Repository interface {
	Create(ctx context.Context, g *StudyGoal) error
	Get(ctx context.Context, userID, id string) (*StudyGoal, error)
	ListActive(ctx context.Context, userID string) ([]StudyGoal, error)
	UpdateProgress(ctx context.Context, userID, id string, progress int, completed bool) error
}

// SessionSource reads reconciled session data for aggregation.
type SessionSource interface {
	ListFinishedInWindow(ctx context.Context, userID string, w session.Window) ([]session.StudySession, error)
}

// Notifier is the write-only sink for user-visible progress messages.
// Implementations swallow their own failures; the aggregator never
// blocks on the sink.
type Notifier interface {
	GoalMilestone(ctx context.Context, userID, goalTitle string, milestone int)
	GoalCompleted(ctx context.Context, userID, goalTitle string)
}

// AchievementChecker is the external achievement service, invoked
// fire-and-forget when a goal completes.
type AchievementChecker interface {
	CheckAndAward(ctx context.Context, userID string) error
}

// Metrics counts aggregation outcomes.
type Metrics interface {
	RecordGoalRecomputed()
	RecordMilestone(milestone int)
	RecordGoalCompleted()
}

type nopMetrics struct{}

func (nopMetrics) RecordGoalRecomputed() {}
func (nopMetrics) RecordMilestone(int)   {}
func (nopMetrics) RecordGoalCompleted()  {}
