// Package notify persists the engine's user-visible messages. It backs
// the aggregator's notification sink: callers fire messages and never
// see sink failures, which are logged and dropped.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Repository provides persistence for the notification feed.
type Repository interface {
	Insert(ctx context.Context, n *Notification) error
	ListRecent(ctx context.Context, userID string, limit int) ([]Notification, error)
}

// Service writes notifications to the feed.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a notification service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// GoalMilestone records a milestone-crossed message.
func (s *Service) GoalMilestone(ctx context.Context, userID, goalTitle string, milestone int) {
	s.push(ctx, userID, KindMilestone,
		fmt.Sprintf("You reached %d%% of your goal %q. Keep going!", milestone, goalTitle))
}

// GoalCompleted records a goal-completed message.
func (s *Service) GoalCompleted(ctx context.Context, userID, goalTitle string) {
	s.push(ctx, userID, KindGoalCompleted,
		fmt.Sprintf("Goal %q completed. Well done!", goalTitle))
}

// ListRecent returns the newest notifications for the user.
func (s *Service) ListRecent(ctx context.Context, userID string, limit int) ([]Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repo.ListRecent(ctx, userID, limit)
}

func (s *Service) push(ctx context.Context, userID, kind, message string) {
	n := &Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Insert(ctx, n); err != nil {
		s.logger.Warn("dropping notification",
			"user_id", userID, "kind", kind, "error", err)
	}
}
