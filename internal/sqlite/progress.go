package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mhalter/studytrack/internal/domain/review"
	"github.com/mhalter/studytrack/internal/repository"
)

// nullableTime maps the zero time to NULL.
func nullableTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

// ProgressRepository implements repository.ProgressRepository for SQLite
type ProgressRepository struct {
	db *DB
}

// NewProgressRepository creates a new ProgressRepository
func NewProgressRepository(db *DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Get retrieves the progress row for one (user, flashcard) pair
func (r *ProgressRepository) Get(ctx context.Context, userID, flashcardID string) (*review.FlashcardProgress, error) {
	query := `
		SELECT
			user_id, flashcard_id, ease_factor, interval_days, repetition_count,
			times_seen, times_correct, confidence_level, is_known, is_difficult,
			last_reviewed_at, next_review_at, last_seen_at, last_score
		FROM flashcard_progress
		WHERE user_id = ? AND flashcard_id = ?
	`

	var p review.FlashcardProgress
	var lastReviewed, nextReview, lastSeen sql.NullTime
	err := r.db.QueryRowContext(ctx, query, userID, flashcardID).Scan(
		&p.UserID,
		&p.FlashcardID,
		&p.EaseFactor,
		&p.IntervalDays,
		&p.RepetitionCount,
		&p.TimesSeen,
		&p.TimesCorrect,
		&p.ConfidenceLevel,
		&p.IsKnown,
		&p.IsDifficult,
		&lastReviewed,
		&nextReview,
		&lastSeen,
		&p.LastScore,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}

	if lastReviewed.Valid {
		p.LastReviewedAt = lastReviewed.Time
	}
	if nextReview.Valid {
		p.NextReviewAt = nextReview.Time
	}
	if lastSeen.Valid {
		p.LastSeenAt = lastSeen.Time
	}
	return &p, nil
}

// Upsert writes the progress row keyed by (user_id, flashcard_id)
func (r *ProgressRepository) Upsert(ctx context.Context, p *review.FlashcardProgress) error {
	if p.UserID == "" || p.FlashcardID == "" {
		return repository.ErrInvalidInput
	}
	if p.TimesCorrect > p.TimesSeen {
		return fmt.Errorf("%w: times_correct exceeds times_seen", repository.ErrInvalidInput)
	}

	query := `
		INSERT INTO flashcard_progress (
			user_id, flashcard_id, ease_factor, interval_days, repetition_count,
			times_seen, times_correct, confidence_level, is_known, is_difficult,
			last_reviewed_at, next_review_at, last_seen_at, last_score
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, flashcard_id) DO UPDATE SET
			ease_factor = excluded.ease_factor,
			interval_days = excluded.interval_days,
			repetition_count = excluded.repetition_count,
			times_seen = excluded.times_seen,
			times_correct = excluded.times_correct,
			confidence_level = excluded.confidence_level,
			is_known = excluded.is_known,
			is_difficult = excluded.is_difficult,
			last_reviewed_at = excluded.last_reviewed_at,
			next_review_at = excluded.next_review_at,
			last_seen_at = excluded.last_seen_at,
			last_score = excluded.last_score
	`
	_, err := r.db.ExecContext(ctx, query,
		p.UserID,
		p.FlashcardID,
		p.EaseFactor,
		p.IntervalDays,
		p.RepetitionCount,
		p.TimesSeen,
		p.TimesCorrect,
		p.ConfidenceLevel,
		p.IsKnown,
		p.IsDifficult,
		nullableTime(p.LastReviewedAt),
		nullableTime(p.NextReviewAt),
		nullableTime(p.LastSeenAt),
		p.LastScore,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert progress: %w", err)
	}
	return nil
}
