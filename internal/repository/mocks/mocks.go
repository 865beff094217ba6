package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mhalter/studytrack/internal/domain/goal"
	"github.com/mhalter/studytrack/internal/domain/notify"
	"github.com/mhalter/studytrack/internal/domain/review"
	"github.com/mhalter/studytrack/internal/domain/session"
)

// SessionRepository is a mock for repository.SessionRepository.
type SessionRepository struct {
	mock.Mock
}

func (m *SessionRepository) Create(ctx context.Context, sess *session.StudySession) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func (m *SessionRepository) Get(ctx context.Context, userID, id string) (*session.StudySession, error) {
	args := m.Called(ctx, userID, id)
	if sess, ok := args.Get(0).(*session.StudySession); ok {
		return sess, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) Update(ctx context.Context, sess *session.StudySession) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func (m *SessionRepository) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *SessionRepository) ListByUser(ctx context.Context, userID string) ([]session.StudySession, error) {
	args := m.Called(ctx, userID)
	if list, ok := args.Get(0).([]session.StudySession); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) ListFinishedInWindow(ctx context.Context, userID string, w session.Window) ([]session.StudySession, error) {
	args := m.Called(ctx, userID, w)
	if list, ok := args.Get(0).([]session.StudySession); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]string); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// GoalRepository is a mock for repository.GoalRepository.
type GoalRepository struct {
	mock.Mock
}

func (m *GoalRepository) Create(ctx context.Context, g *goal.StudyGoal) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *GoalRepository) Get(ctx context.Context, userID, id string) (*goal.StudyGoal, error) {
	args := m.Called(ctx, userID, id)
	if g, ok := args.Get(0).(*goal.StudyGoal); ok {
		return g, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *GoalRepository) ListActive(ctx context.Context, userID string) ([]goal.StudyGoal, error) {
	args := m.Called(ctx, userID)
	if list, ok := args.Get(0).([]goal.StudyGoal); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *GoalRepository) UpdateProgress(ctx context.Context, userID, id string, progress int, completed bool) error {
	args := m.Called(ctx, userID, id, progress, completed)
	return args.Error(0)
}

// ProgressRepository is a mock for repository.ProgressRepository.
type ProgressRepository struct {
	mock.Mock
}

func (m *ProgressRepository) Get(ctx context.Context, userID, flashcardID string) (*review.FlashcardProgress, error) {
	args := m.Called(ctx, userID, flashcardID)
	if p, ok := args.Get(0).(*review.FlashcardProgress); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProgressRepository) Upsert(ctx context.Context, progress *review.FlashcardProgress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

// NotificationRepository is a mock for repository.NotificationRepository.
type NotificationRepository struct {
	mock.Mock
}

func (m *NotificationRepository) Insert(ctx context.Context, n *notify.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *NotificationRepository) ListRecent(ctx context.Context, userID string, limit int) ([]notify.Notification, error) {
	args := m.Called(ctx, userID, limit)
	if list, ok := args.Get(0).([]notify.Notification); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// Notifier is a mock for goal.Notifier.
type Notifier struct {
	mock.Mock
}

func (m *Notifier) GoalMilestone(ctx context.Context, userID, goalTitle string, milestone int) {
	m.Called(ctx, userID, goalTitle, milestone)
}

func (m *Notifier) GoalCompleted(ctx context.Context, userID, goalTitle string) {
	m.Called(ctx, userID, goalTitle)
}

// AchievementChecker is a mock for goal.AchievementChecker.
type AchievementChecker struct {
	mock.Mock
}

func (m *AchievementChecker) CheckAndAward(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// ChangeListener is a mock for session.ChangeListener.
type ChangeListener struct {
	mock.Mock
}

func (m *ChangeListener) OnSessionChanged(userID, sessionID string) {
	m.Called(userID, sessionID)
}
