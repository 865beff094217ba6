package repository

import (
	"context"

	"github.com/mhalter/studytrack/internal/domain/goal"
	"github.com/mhalter/studytrack/internal/domain/notify"
	"github.com/mhalter/studytrack/internal/domain/review"
	"github.com/mhalter/studytrack/internal/domain/session"
)

// SessionRepository manages study session persistence
type SessionRepository interface {
	Create(ctx context.Context, sess *session.StudySession) error
	Get(ctx context.Context, userID, id string) (*session.StudySession, error)
	Update(ctx context.Context, sess *session.StudySession) error
	Delete(ctx context.Context, userID, id string) error
	ListByUser(ctx context.Context, userID string) ([]session.StudySession, error)
	ListFinishedInWindow(ctx context.Context, userID string, w session.Window) ([]session.StudySession, error)
	ListUserIDs(ctx context.Context) ([]string, error)
}

// GoalRepository manages study goal persistence
type GoalRepository interface {
	Create(ctx context.Context, g *goal.StudyGoal) error
	Get(ctx context.Context, userID, id string) (*goal.StudyGoal, error)
	ListActive(ctx context.Context, userID string) ([]goal.StudyGoal, error)
	UpdateProgress(ctx context.Context, userID, id string, progress int, completed bool) error
}

// ProgressRepository manages flashcard progress persistence, keyed by
// (user_id, flashcard_id)
type ProgressRepository interface {
	Get(ctx context.Context, userID, flashcardID string) (*review.FlashcardProgress, error)
	Upsert(ctx context.Context, progress *review.FlashcardProgress) error
}

// NotificationRepository manages the notification feed
type NotificationRepository interface {
	Insert(ctx context.Context, n *notify.Notification) error
	ListRecent(ctx context.Context, userID string, limit int) ([]notify.Notification, error)
}
