package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mhalter/studytrack/internal/domain/review"
	"github.com/mhalter/studytrack/internal/repository"
)

func TestProgressRepository_GetMissing(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProgressRepository(db)

	_, err := repo.Get(context.Background(), "u1", "card-1")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProgressRepository_UpsertInsertThenUpdate(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewProgressRepository(db)

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	p := &review.FlashcardProgress{
		UserID:          "u1",
		FlashcardID:     "card-1",
		EaseFactor:      review.DefaultEaseFactor,
		IntervalDays:    1,
		RepetitionCount: 1,
		TimesSeen:       1,
		TimesCorrect:    1,
		ConfidenceLevel: 4,
		LastReviewedAt:  now,
		NextReviewAt:    now.AddDate(0, 0, 1),
		LastSeenAt:      now,
		LastScore:       4,
	}
	require.NoError(t, repo.Upsert(ctx, p))

	loaded, err := repo.Get(ctx, "u1", "card-1")
	require.NoError(t, err)
	require.Equal(t, 2.5, loaded.EaseFactor)
	require.Equal(t, 1, loaded.IntervalDays)
	require.True(t, loaded.NextReviewAt.Equal(now.AddDate(0, 0, 1)))

	// Second write for the same pair replaces, not duplicates.
	p.TimesSeen = 2
	p.TimesCorrect = 1
	p.EaseFactor = review.FailedEaseFactor
	p.IntervalDays = 0
	p.IsDifficult = true
	require.NoError(t, repo.Upsert(ctx, p))

	loaded, err = repo.Get(ctx, "u1", "card-1")
	require.NoError(t, err)
	require.Equal(t, 2, loaded.TimesSeen)
	require.Equal(t, 2.0, loaded.EaseFactor)
	require.Zero(t, loaded.IntervalDays)
	require.True(t, loaded.IsDifficult)

	var count int
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM flashcard_progress WHERE user_id = ? AND flashcard_id = ?`,
		"u1", "card-1").Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestProgressRepository_UpsertRejectsBadCounters(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProgressRepository(db)

	p := &review.FlashcardProgress{
		UserID:       "u1",
		FlashcardID:  "card-1",
		EaseFactor:   review.DefaultEaseFactor,
		TimesSeen:    1,
		TimesCorrect: 2,
	}
	require.ErrorIs(t, repo.Upsert(context.Background(), p), repository.ErrInvalidInput)

	p.FlashcardID = ""
	require.ErrorIs(t, repo.Upsert(context.Background(), p), repository.ErrInvalidInput)
}

func TestProgressRepository_NullTimesRoundTrip(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewProgressRepository(db)

	// A row created by MarkDifficult has no review timestamps yet.
	p := &review.FlashcardProgress{
		UserID:      "u1",
		FlashcardID: "card-1",
		EaseFactor:  review.DefaultEaseFactor,
		IsDifficult: true,
		LastSeenAt:  time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Upsert(ctx, p))

	loaded, err := repo.Get(ctx, "u1", "card-1")
	require.NoError(t, err)
	require.True(t, loaded.LastReviewedAt.IsZero())
	require.True(t, loaded.NextReviewAt.IsZero())
	require.False(t, loaded.LastSeenAt.IsZero())
}
