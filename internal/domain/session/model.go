package session

import (
	"fmt"
	"time"
)

// MaxRealisticSeconds caps a single session's recorded duration at 4
// hours. Anything above it is assumed to be a stuck timer, not studying.
const MaxRealisticSeconds = 14400

// StudySession represents one study activity instance. While the session
// is running EndTime is nil and IsActive is true.
type StudySession struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Title           string     `json:"title"`
	Subject         *string    `json:"subject,omitempty"`
	FlashcardSetID  *string    `json:"flashcard_set_id,omitempty"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationSeconds *int       `json:"duration_seconds,omitempty"`
	IsActive        bool       `json:"is_active"`
	CardsReviewed   int        `json:"cards_reviewed"`
}

// Validate enforces the row invariants at the store boundary.
func (s *StudySession) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidInput)
	}
	if s.UserID == "" {
		return fmt.Errorf("%w: missing user id", ErrInvalidInput)
	}
	if s.StartTime.IsZero() {
		return fmt.Errorf("%w: missing start time", ErrInvalidInput)
	}
	if s.IsActive != (s.EndTime == nil) {
		return fmt.Errorf("%w: is_active must match a missing end_time", ErrInvalidInput)
	}
	if s.DurationSeconds != nil {
		if d := *s.DurationSeconds; d < 0 || d > MaxRealisticSeconds {
			return fmt.Errorf("%w: duration_seconds out of range: %d", ErrInvalidInput, d)
		}
	}
	return nil
}

// Duration returns the recorded duration in seconds, or 0 when none has
// been set yet.
func (s *StudySession) Duration() int {
	if s.DurationSeconds == nil {
		return 0
	}
	return *s.DurationSeconds
}

// Window selects finished sessions for aggregation. Subject and
// FlashcardSetID filters apply only when non-nil.
type Window struct {
	From           time.Time
	To             time.Time
	Subject        *string
	FlashcardSetID *string
}
