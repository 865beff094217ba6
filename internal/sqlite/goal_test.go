package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mhalter/studytrack/internal/domain/goal"
	"github.com/mhalter/studytrack/internal/repository"
)

func testGoal(id, userID string) *goal.StudyGoal {
	return &goal.StudyGoal{
		ID:          id,
		UserID:      userID,
		Title:       "Read 10 chapters",
		StartDate:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		TargetHours: 12,
	}
}

func TestGoalRepository_CreateGet(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewGoalRepository(db)

	subject := "history"
	g := testGoal("g1", "u1")
	g.Subject = &subject
	require.NoError(t, repo.Create(ctx, g))

	loaded, err := repo.Get(ctx, "u1", "g1")
	require.NoError(t, err)
	require.Equal(t, "Read 10 chapters", loaded.Title)
	require.Equal(t, 12.0, loaded.TargetHours)
	require.NotNil(t, loaded.Subject)
	require.Equal(t, "history", *loaded.Subject)
	require.Zero(t, loaded.Progress)
	require.False(t, loaded.IsCompleted)

	_, err = repo.Get(ctx, "u2", "g1")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGoalRepository_CreateRejectsInvalidTarget(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewGoalRepository(db)

	g := testGoal("g1", "u1")
	g.TargetHours = 0
	require.ErrorIs(t, repo.Create(ctx, g), repository.ErrInvalidInput)
}

func TestGoalRepository_ListActiveExcludesCompleted(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewGoalRepository(db)

	require.NoError(t, repo.Create(ctx, testGoal("g1", "u1")))
	require.NoError(t, repo.Create(ctx, testGoal("g2", "u1")))
	require.NoError(t, repo.Create(ctx, testGoal("g3", "u2")))

	require.NoError(t, repo.UpdateProgress(ctx, "u1", "g2", 100, true))

	active, err := repo.ListActive(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "g1", active[0].ID)
}

func TestGoalRepository_UpdateProgress(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewGoalRepository(db)

	require.NoError(t, repo.Create(ctx, testGoal("g1", "u1")))
	require.NoError(t, repo.UpdateProgress(ctx, "u1", "g1", 40, false))

	loaded, err := repo.Get(ctx, "u1", "g1")
	require.NoError(t, err)
	require.Equal(t, 40, loaded.Progress)
	require.False(t, loaded.IsCompleted)

	require.ErrorIs(t, repo.UpdateProgress(ctx, "u1", "ghost", 10, false), repository.ErrNotFound)
}
