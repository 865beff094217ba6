package session

import "context"

// Repository provides persistence for study sessions.
type Repository interface {
	Create(ctx context.Context, sess *StudySession) error
	Get(ctx context.Context, userID, id string) (*StudySession, error)
	Update(ctx context.Context, sess *StudySession) error
	Delete(ctx context.Context, userID, id string) error
	ListByUser(ctx context.Context, userID string) ([]StudySession, error)
	ListFinishedInWindow(ctx context.Context, userID string, w Window) ([]StudySession, error)
}

// ChangeListener observes store-visible session mutations. The host
// wires it to whatever change-feed mechanism it has; the engine wires it
// to the goal aggregator's debouncer.
type ChangeListener interface {
	OnSessionChanged(userID, sessionID string)
}

// Metrics counts tracker and reconciler operations.
type Metrics interface {
	RecordSessionStarted()
	RecordSessionEnded(durationSeconds int)
	RecordRepair(kind string)
}

// Repair kinds reported to Metrics.RecordRepair.
const (
	RepairForceEnd = "force_end"
	RepairClamp    = "clamp"
	RepairDedup    = "dedup"
)

type nopMetrics struct{}

func (nopMetrics) RecordSessionStarted()  {}
func (nopMetrics) RecordSessionEnded(int) {}
func (nopMetrics) RecordRepair(string)    {}
