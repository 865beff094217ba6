package goal

import (
	"fmt"
	"time"
)

// Milestones are the one-time progress thresholds that trigger a
// notification when first crossed.
var Milestones = [4]int{25, 50, 75, 100}

// StudyGoal represents a target number of study hours inside a date
// window, optionally scoped to a subject or flashcard set. Progress and
// IsCompleted are owned by the aggregator; everything else is managed by
// the host application.
type StudyGoal struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Title          string    `json:"title"`
	Subject        *string   `json:"subject,omitempty"`
	FlashcardSetID *string   `json:"flashcard_set_id,omitempty"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	TargetHours    float64   `json:"target_hours"`
	Progress       int       `json:"progress"`
	IsCompleted    bool      `json:"is_completed"`
}

// Validate enforces the row invariants at the store boundary.
func (g *StudyGoal) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidInput)
	}
	if g.UserID == "" {
		return fmt.Errorf("%w: missing user id", ErrInvalidInput)
	}
	if g.TargetHours <= 0 {
		return fmt.Errorf("%w: target_hours must be positive", ErrInvalidInput)
	}
	if g.EndDate.Before(g.StartDate) {
		return fmt.Errorf("%w: end_date before start_date", ErrInvalidInput)
	}
	if g.Progress < 0 || g.Progress > 100 {
		return fmt.Errorf("%w: progress out of range: %d", ErrInvalidInput, g.Progress)
	}
	if g.IsCompleted != (g.Progress >= 100) {
		return fmt.Errorf("%w: is_completed must match progress >= 100", ErrInvalidInput)
	}
	return nil
}
