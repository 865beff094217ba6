package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mhalter/studytrack/internal/repository/repoerr"
)

// Schedule computes the next spaced-repetition state for a flashcard from
// a review outcome. prev may be nil for a first-ever review. The function
// is pure; persisting the returned state is the caller's responsibility.
//
// Success (score >= PassThreshold) resets the ease factor to 2.5 and
// schedules the next review one day out; failure drops the ease factor to
// 2.0 and keeps the card due the same day. Intervals deliberately do not
// grow geometrically with the ease factor.
func Schedule(prev *FlashcardProgress, score int, now time.Time) FlashcardProgress {
	next := FlashcardProgress{EaseFactor: DefaultEaseFactor}
	if prev != nil {
		next = *prev
	}

	if score >= PassThreshold {
		next.EaseFactor = DefaultEaseFactor
		next.IntervalDays = 1
		next.TimesCorrect++
	} else {
		next.EaseFactor = FailedEaseFactor
		next.IntervalDays = 0
	}

	next.RepetitionCount++
	next.TimesSeen++
	next.LastScore = score
	next.ConfidenceLevel = score
	if next.ConfidenceLevel < 1 {
		next.ConfidenceLevel = 1
	}
	next.LastReviewedAt = now
	next.LastSeenAt = now
	next.NextReviewAt = now.AddDate(0, 0, next.IntervalDays)

	return next
}

// Service handles review scheduling backed by a progress store.
type Service struct {
	progress ProgressRepository
	logger   *slog.Logger
}

// NewService creates a new review service.
func NewService(progress ProgressRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{progress: progress, logger: logger}
}

// SubmitReview records the outcome of one flashcard review and persists
// the rescheduled progress. A missing prior row is treated as a first
// review.
func (s *Service) SubmitReview(ctx context.Context, userID, flashcardID string, score int) (*FlashcardProgress, error) {
	if userID == "" || flashcardID == "" {
		return nil, ErrInvalidInput
	}
	if score < MinScore || score > MaxScore {
		return nil, ErrInvalidScore
	}

	prev, err := s.progress.Get(ctx, userID, flashcardID)
	if err != nil && !errors.Is(err, repoerr.ErrNotFound) {
		return nil, fmt.Errorf("loading progress: %w", err)
	}

	next := Schedule(prev, score, time.Now())
	next.UserID = userID
	next.FlashcardID = flashcardID

	if err := s.progress.Upsert(ctx, &next); err != nil {
		return nil, fmt.Errorf("saving progress: %w", err)
	}

	s.logger.Debug("review recorded",
		"user_id", userID,
		"flashcard_id", flashcardID,
		"score", score,
		"interval_days", next.IntervalDays,
	)
	return &next, nil
}

// MarkKnown toggles the known flag without touching scheduling fields.
func (s *Service) MarkKnown(ctx context.Context, userID, flashcardID string, known bool) (*FlashcardProgress, error) {
	return s.setFlag(ctx, userID, flashcardID, func(p *FlashcardProgress) {
		p.IsKnown = known
	})
}

// MarkDifficult toggles the difficult flag without touching scheduling
// fields.
func (s *Service) MarkDifficult(ctx context.Context, userID, flashcardID string, difficult bool) (*FlashcardProgress, error) {
	return s.setFlag(ctx, userID, flashcardID, func(p *FlashcardProgress) {
		p.IsDifficult = difficult
	})
}

func (s *Service) setFlag(ctx context.Context, userID, flashcardID string, apply func(*FlashcardProgress)) (*FlashcardProgress, error) {
	if userID == "" || flashcardID == "" {
		return nil, ErrInvalidInput
	}

	p, err := s.progress.Get(ctx, userID, flashcardID)
	if errors.Is(err, repoerr.ErrNotFound) {
		p = &FlashcardProgress{
			UserID:          userID,
			FlashcardID:     flashcardID,
			EaseFactor:      DefaultEaseFactor,
			ConfidenceLevel: 1,
		}
	} else if err != nil {
		return nil, fmt.Errorf("loading progress: %w", err)
	}

	apply(p)
	p.LastSeenAt = time.Now()

	if err := s.progress.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("saving progress: %w", err)
	}
	return p, nil
}
