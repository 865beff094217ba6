package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mhalter/studytrack/internal/domain/session"
)

// insertRawSession writes a session row directly, bypassing the
// repository's Validate gate, so tests can seed the corrupt shapes the
// reconciler exists to repair.
func insertRawSession(t *testing.T, db *DB, id, userID string, start time.Time, end *time.Time, duration *int, active bool, cards int) {
	t.Helper()
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO study_sessions (id, user_id, title, start_time, end_time, duration_seconds, is_active, cards_reviewed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, userID, "Study Session", start, end, duration, active, cards)
	require.NoError(t, err)
}

func TestReconcilerAgainstStore_RepairsAndConverges(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewSessionRepository(db)

	now := time.Now().UTC()
	stale := now.Add(-2 * time.Hour)
	finishedAt := now.Add(-50 * time.Minute)
	dupMinute := now.Add(-30 * time.Minute).Truncate(time.Minute)

	// Abandoned active session, no end time or duration.
	insertRawSession(t, db, "stuck", "u1", stale, nil, nil, true, 0)

	// Finished session with an impossible duration.
	overEnd := finishedAt.Add(10 * time.Minute)
	over := 20000
	insertRawSession(t, db, "over", "u1", finishedAt, &overEnd, &over, false, 5)

	// Two finished rows in the same start minute; the heavier one stays.
	dupEnd := dupMinute.Add(15 * time.Minute)
	light, heavy := 300, 900
	insertRawSession(t, db, "dup-light", "u1", dupMinute, &dupEnd, &light, false, 2)
	insertRawSession(t, db, "dup-heavy", "u1", dupMinute.Add(10*time.Second), &dupEnd, &heavy, false, 8)

	rec := session.NewReconciler(repo, nil, session.ReconcilerConfig{Cooldown: time.Nanosecond}, nil)

	rep, err := rec.Reconcile(ctx, "u1")
	require.NoError(t, err)
	require.False(t, rep.Throttled)
	require.Equal(t, 1, rep.ForceEnded)
	require.Equal(t, 1, rep.Clamped)
	require.Equal(t, 1, rep.Deduped)
	require.Zero(t, rep.Failed)

	// The pass is idempotent: a second run finds nothing to do.
	rep, err = rec.Reconcile(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, session.Report{}, rep)

	sessions, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	for _, s := range sessions {
		require.False(t, s.IsActive)
		require.NotNil(t, s.EndTime)
		require.NotNil(t, s.DurationSeconds)
		require.LessOrEqual(t, *s.DurationSeconds, session.MaxRealisticSeconds)
	}

	clamped, err := repo.Get(ctx, "u1", "over")
	require.NoError(t, err)
	require.Equal(t, session.MaxRealisticSeconds, *clamped.DurationSeconds)

	kept, err := repo.Get(ctx, "u1", "dup-heavy")
	require.NoError(t, err)
	require.Equal(t, 900, *kept.DurationSeconds)
	_, err = repo.Get(ctx, "u1", "dup-light")
	require.Error(t, err)
}
