package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mhalter/studytrack/internal/domain/session"
	"github.com/mhalter/studytrack/internal/repository"
)

// SessionRepository implements repository.SessionRepository for SQLite
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `
	id, user_id, title, subject, flashcard_set_id,
	start_time, end_time, duration_seconds, is_active, cards_reviewed
`

// Create inserts a new study session
func (r *SessionRepository) Create(ctx context.Context, sess *session.StudySession) error {
	if err := sess.Validate(); err != nil {
		return fmt.Errorf("%w: %v", repository.ErrInvalidInput, err)
	}

	query := `
		INSERT INTO study_sessions (` + sessionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		sess.ID,
		sess.UserID,
		sess.Title,
		sess.Subject,
		sess.FlashcardSetID,
		sess.StartTime,
		sess.EndTime,
		sess.DurationSeconds,
		sess.IsActive,
		sess.CardsReviewed,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// Get retrieves a session by ID
func (r *SessionRepository) Get(ctx context.Context, userID, id string) (*session.StudySession, error) {
	query := `SELECT ` + sessionColumns + ` FROM study_sessions WHERE id = ? AND user_id = ?`

	sess, err := scanSession(r.db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return sess, nil
}

// Update rewrites the mutable fields of a session
func (r *SessionRepository) Update(ctx context.Context, sess *session.StudySession) error {
	if err := sess.Validate(); err != nil {
		return fmt.Errorf("%w: %v", repository.ErrInvalidInput, err)
	}

	query := `
		UPDATE study_sessions
		SET title = ?, subject = ?, flashcard_set_id = ?, end_time = ?,
		    duration_seconds = ?, is_active = ?, cards_reviewed = ?
		WHERE id = ? AND user_id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		sess.Title,
		sess.Subject,
		sess.FlashcardSetID,
		sess.EndTime,
		sess.DurationSeconds,
		sess.IsActive,
		sess.CardsReviewed,
		sess.ID,
		sess.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
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

// Delete removes a session row
func (r *SessionRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM study_sessions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
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

// ListByUser returns every session for the user, oldest first
func (r *SessionRepository) ListByUser(ctx context.Context, userID string) ([]session.StudySession, error) {
	query := `SELECT ` + sessionColumns + ` FROM study_sessions WHERE user_id = ? ORDER BY start_time`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	return collectSessions(rows)
}

// ListFinishedInWindow returns sessions with a recorded duration whose
// start time falls inside the window, applying the optional subject and
// flashcard set filters
func (r *SessionRepository) ListFinishedInWindow(ctx context.Context, userID string, w session.Window) ([]session.StudySession, error) {
	query := `SELECT ` + sessionColumns + ` FROM study_sessions
		WHERE user_id = ? AND duration_seconds IS NOT NULL
		  AND start_time >= ? AND start_time <= ?`
	args := []any{userID, w.From, w.To}

	if w.Subject != nil {
		query += ` AND subject = ?`
		args = append(args, *w.Subject)
	}
	if w.FlashcardSetID != nil {
		query += ` AND flashcard_set_id = ?`
		args = append(args, *w.FlashcardSetID)
	}
	query += ` ORDER BY start_time`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions in window: %w", err)
	}
	defer rows.Close()

	return collectSessions(rows)
}

// ListUserIDs returns the distinct user IDs that have session rows
func (r *SessionRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT user_id FROM study_sessions`)
	if err != nil {
		return nil, fmt.Errorf("failed to list user ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*session.StudySession, error) {
	var sess session.StudySession
	var subject, setID sql.NullString
	var endTime sql.NullTime
	var duration sql.NullInt64

	err := row.Scan(
		&sess.ID,
		&sess.UserID,
		&sess.Title,
		&subject,
		&setID,
		&sess.StartTime,
		&endTime,
		&duration,
		&sess.IsActive,
		&sess.CardsReviewed,
	)
	if err != nil {
		return nil, err
	}

	if subject.Valid {
		sess.Subject = &subject.String
	}
	if setID.Valid {
		sess.FlashcardSetID = &setID.String
	}
	if endTime.Valid {
		t := endTime.Time
		sess.EndTime = &t
	}
	if duration.Valid {
		d := int(duration.Int64)
		sess.DurationSeconds = &d
	}
	return &sess, nil
}

func collectSessions(rows *sql.Rows) ([]session.StudySession, error) {
	var sessions []session.StudySession
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *sess)
	}
	return sessions, rows.Err()
}
