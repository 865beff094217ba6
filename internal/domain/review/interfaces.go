package review

import "context"

// ProgressRepository provides persistence for flashcard progress,
// upserted by (user_id, flashcard_id).
type ProgressRepository interface {
	Get(ctx context.Context, userID, flashcardID string) (*FlashcardProgress, error)
	Upsert(ctx context.Context, progress *FlashcardProgress) error
}
