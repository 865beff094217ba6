package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mhalter/studytrack/internal/domain/goal"
	"github.com/mhalter/studytrack/internal/repository"
)

// GoalRepository implements repository.GoalRepository for SQLite
type GoalRepository struct {
	db *DB
}

// NewGoalRepository creates a new GoalRepository
func NewGoalRepository(db *DB) *GoalRepository {
	return &GoalRepository{db: db}
}

const goalColumns = `
	id, user_id, title, subject, flashcard_set_id,
	start_date, end_date, target_hours, progress, is_completed
`

// Create inserts a new study goal
func (r *GoalRepository) Create(ctx context.Context, g *goal.StudyGoal) error {
	if err := g.Validate(); err != nil {
		return fmt.Errorf("%w: %v", repository.ErrInvalidInput, err)
	}

	query := `
		INSERT INTO study_goals (` + goalColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		g.ID,
		g.UserID,
		g.Title,
		g.Subject,
		g.FlashcardSetID,
		g.StartDate,
		g.EndDate,
		g.TargetHours,
		g.Progress,
		g.IsCompleted,
	)
	if err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}
	return nil
}

// Get retrieves a goal by ID
func (r *GoalRepository) Get(ctx context.Context, userID, id string) (*goal.StudyGoal, error) {
	query := `SELECT ` + goalColumns + ` FROM study_goals WHERE id = ? AND user_id = ?`

	g, err := scanGoal(r.db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return g, nil
}

// ListActive returns the user's goals that have not completed yet
func (r *GoalRepository) ListActive(ctx context.Context, userID string) ([]goal.StudyGoal, error) {
	query := `SELECT ` + goalColumns + ` FROM study_goals
		WHERE user_id = ? AND is_completed = 0 ORDER BY end_date`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active goals: %w", err)
	}
	defer rows.Close()

	var goals []goal.StudyGoal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

// UpdateProgress writes the aggregator-owned fields
func (r *GoalRepository) UpdateProgress(ctx context.Context, userID, id string, progress int, completed bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE study_goals SET progress = ?, is_completed = ? WHERE id = ? AND user_id = ?`,
		progress, completed, id, userID)
	if err != nil {
		return fmt.Errorf("failed to update goal progress: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanGoal(row rowScanner) (*goal.StudyGoal, error) {
	var g goal.StudyGoal
	var subject, setID sql.NullString

	err := row.Scan(
		&g.ID,
		&g.UserID,
		&g.Title,
		&subject,
		&setID,
		&g.StartDate,
		&g.EndDate,
		&g.TargetHours,
		&g.Progress,
		&g.IsCompleted,
	)
	if err != nil {
		return nil, err
	}

	if subject.Valid {
		g.Subject = &subject.String
	}
	if setID.Valid {
		g.FlashcardSetID = &setID.String
	}
	return &g, nil
}
