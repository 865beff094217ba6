package review_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mhalter/studytrack/internal/domain/review"
	"github.com/mhalter/studytrack/internal/repository"
	"github.com/mhalter/studytrack/internal/repository/mocks"
)

func TestSchedule_FirstReview(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	p := review.Schedule(nil, 4, now)

	require.Equal(t, review.DefaultEaseFactor, p.EaseFactor)
	require.Equal(t, 1, p.IntervalDays)
	require.Equal(t, 1, p.RepetitionCount)
	require.Equal(t, 1, p.TimesSeen)
	require.Equal(t, 1, p.TimesCorrect)
	require.Equal(t, 4, p.LastScore)
	require.Equal(t, now, p.LastReviewedAt)
	require.Equal(t, now.AddDate(0, 0, 1), p.NextReviewAt)
}

func TestSchedule_FailureKeepsCardDueToday(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	prev := &review.FlashcardProgress{
		EaseFactor:      review.DefaultEaseFactor,
		IntervalDays:    1,
		RepetitionCount: 3,
		TimesSeen:       3,
		TimesCorrect:    2,
	}

	p := review.Schedule(prev, 2, now)

	require.Equal(t, review.FailedEaseFactor, p.EaseFactor)
	require.Equal(t, 0, p.IntervalDays)
	require.Equal(t, 2, p.TimesCorrect, "failed review must not count as correct")
	require.Equal(t, 4, p.RepetitionCount)
	require.Equal(t, now, p.NextReviewAt, "failed card is due for same-day re-review")
}

func TestSchedule_SuccessResetsEaseAndSchedulesTomorrow(t *testing.T) {
	now := time.Now()
	prev := &review.FlashcardProgress{
		EaseFactor:   review.FailedEaseFactor,
		IntervalDays: 0,
		TimesSeen:    5,
		TimesCorrect: 1,
	}

	p := review.Schedule(prev, 5, now)

	require.Equal(t, review.DefaultEaseFactor, p.EaseFactor)
	require.Equal(t, 1, p.IntervalDays)
	require.True(t, p.NextReviewAt.After(p.LastReviewedAt))
}

func TestSchedule_Invariants(t *testing.T) {
	now := time.Now()
	var prev *review.FlashcardProgress

	for i := 0; i < 30; i++ {
		score := i % (review.MaxScore + 1)
		p := review.Schedule(prev, score, now)

		require.LessOrEqual(t, p.TimesCorrect, p.TimesSeen)
		require.False(t, p.NextReviewAt.Before(p.LastReviewedAt))
		require.GreaterOrEqual(t, p.ConfidenceLevel, 1)
		require.LessOrEqual(t, p.ConfidenceLevel, 5)
		if score >= review.PassThreshold {
			require.True(t, p.NextReviewAt.After(p.LastReviewedAt))
		}

		prev = &p
		now = now.Add(time.Hour)
	}
}

func TestService_SubmitReview_FirstReview(t *testing.T) {
	ctx := context.Background()
	progressRepo := &mocks.ProgressRepository{}

	progressRepo.On("Get", ctx, "u1", "card1").Return(nil, repository.ErrNotFound)
	progressRepo.On("Upsert", ctx, mock.MatchedBy(func(p *review.FlashcardProgress) bool {
		return p.UserID == "u1" && p.FlashcardID == "card1" &&
			p.TimesSeen == 1 && p.TimesCorrect == 1 && p.IntervalDays == 1
	})).Return(nil)

	svc := review.NewService(progressRepo, nil)
	p, err := svc.SubmitReview(ctx, "u1", "card1", 4)
	require.NoError(t, err)
	require.Equal(t, 1, p.RepetitionCount)
	progressRepo.AssertExpectations(t)
}

func TestService_SubmitReview_Validation(t *testing.T) {
	svc := review.NewService(&mocks.ProgressRepository{}, nil)
	ctx := context.Background()

	_, err := svc.SubmitReview(ctx, "u1", "", 3)
	require.ErrorIs(t, err, review.ErrInvalidInput)

	_, err = svc.SubmitReview(ctx, "", "card1", 3)
	require.ErrorIs(t, err, review.ErrInvalidInput)

	_, err = svc.SubmitReview(ctx, "u1", "card1", 6)
	require.ErrorIs(t, err, review.ErrInvalidScore)

	_, err = svc.SubmitReview(ctx, "u1", "card1", -1)
	require.ErrorIs(t, err, review.ErrInvalidScore)
}

func TestService_MarkKnown_DoesNotTouchScheduling(t *testing.T) {
	ctx := context.Background()
	progressRepo := &mocks.ProgressRepository{}

	existing := &review.FlashcardProgress{
		UserID:          "u1",
		FlashcardID:     "card1",
		EaseFactor:      review.DefaultEaseFactor,
		IntervalDays:    1,
		RepetitionCount: 4,
		TimesSeen:       4,
		TimesCorrect:    3,
		NextReviewAt:    time.Now().Add(24 * time.Hour),
	}
	progressRepo.On("Get", ctx, "u1", "card1").Return(existing, nil)
	progressRepo.On("Upsert", ctx, mock.MatchedBy(func(p *review.FlashcardProgress) bool {
		return p.IsKnown && p.IntervalDays == 1 && p.RepetitionCount == 4 && !p.LastSeenAt.IsZero()
	})).Return(nil)

	svc := review.NewService(progressRepo, nil)
	p, err := svc.MarkKnown(ctx, "u1", "card1", true)
	require.NoError(t, err)
	require.True(t, p.IsKnown)
	progressRepo.AssertExpectations(t)
}

func TestService_MarkDifficult_CreatesDefaultRow(t *testing.T) {
	ctx := context.Background()
	progressRepo := &mocks.ProgressRepository{}

	progressRepo.On("Get", ctx, "u1", "card9").Return(nil, repository.ErrNotFound)
	progressRepo.On("Upsert", ctx, mock.MatchedBy(func(p *review.FlashcardProgress) bool {
		return p.IsDifficult && p.TimesSeen == 0 && p.EaseFactor == review.DefaultEaseFactor
	})).Return(nil)

	svc := review.NewService(progressRepo, nil)
	p, err := svc.MarkDifficult(ctx, "u1", "card9", true)
	require.NoError(t, err)
	require.True(t, p.IsDifficult)
	progressRepo.AssertExpectations(t)
}
