package review

import "time"

// Scheduling constants for the simplified SM-2 variant.
const (
	// PassThreshold is the lowest score treated as a successful recall.
	PassThreshold = 3
	// DefaultEaseFactor is assigned on first review and on every success.
	DefaultEaseFactor = 2.5
	// FailedEaseFactor is assigned when a card is not recalled.
	FailedEaseFactor = 2.0
	// MinScore and MaxScore bound the quality rating of a review.
	MinScore = 0
	MaxScore = 5
)

// FlashcardProgress tracks the spaced-repetition state of one flashcard
// for one user. One row exists per (user, flashcard) pair; it is created
// on the first review and mutated on every review after that.
type FlashcardProgress struct {
	UserID          string    `json:"user_id"`
	FlashcardID     string    `json:"flashcard_id"`
	EaseFactor      float64   `json:"ease_factor"`
	IntervalDays    int       `json:"interval_days"`
	RepetitionCount int       `json:"repetition_count"`
	TimesSeen       int       `json:"times_seen"`
	TimesCorrect    int       `json:"times_correct"`
	ConfidenceLevel int       `json:"confidence_level"`
	IsKnown         bool      `json:"is_known"`
	IsDifficult     bool      `json:"is_difficult"`
	LastReviewedAt  time.Time `json:"last_reviewed_at"`
	NextReviewAt    time.Time `json:"next_review_at"`
	LastSeenAt      time.Time `json:"last_seen_at"`
	LastScore       int       `json:"last_score"`
}

// Accuracy returns the fraction of reviews answered correctly, or 0 when
// the card has never been seen.
func (p *FlashcardProgress) Accuracy() float64 {
	if p.TimesSeen == 0 {
		return 0
	}
	return float64(p.TimesCorrect) / float64(p.TimesSeen)
}
