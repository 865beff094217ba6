package notify

import "time"

// Notification kinds emitted by the engine.
const (
	KindMilestone     = "goal_milestone"
	KindGoalCompleted = "goal_completed"
)

// Notification is one user-visible message in the notification feed.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
