package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/onestoptutor/tutor-server/internal/models"
)

// Progress repository methods
func (r *PostgresRepository) GetVideoProgress(ctx context.Context, userID, videoID string) (*models.VideoProgress, error) {
	var progress models.VideoProgress
	err := r.db.GetContext(ctx, &progress,
		`SELECT * FROM video_progress WHERE user_id = $1 AND video_id = $2`, userID, videoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No progress yet
		}
		return nil, err
	}

	return &progress, nil
}

// SaveVideoProgress inserts or overwrites the row for (user, video). On conflict
// the existing id, course and creation time are kept and written back to progress.
func (r *PostgresRepository) SaveVideoProgress(ctx context.Context, progress *models.VideoProgress) error {
	query := `
		INSERT INTO video_progress (id, user_id, video_id, course_id, last_timestamp, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (user_id, video_id) DO UPDATE
		SET last_timestamp = EXCLUDED.last_timestamp,
			completed = EXCLUDED.completed,
			updated_at = EXCLUDED.updated_at
		RETURNING *
	`

	if progress.ID == "" {
		progress.ID = uuid.New().String()
	}
	now := time.Now().UTC()

	return r.db.GetContext(ctx, progress, query,
		progress.ID, progress.UserID, progress.VideoID, progress.CourseID,
		progress.LastTimestamp, progress.Completed, now)
}

func (r *PostgresRepository) GetCourseProgress(ctx context.Context, userID, courseID string) ([]models.VideoProgress, error) {
	records := []models.VideoProgress{}
	err := r.db.SelectContext(ctx, &records,
		`SELECT * FROM video_progress WHERE user_id = $1 AND course_id = $2 ORDER BY created_at`,
		userID, courseID)
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *PostgresRepository) CountCompletedVideos(ctx context.Context, userID, courseID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM video_progress WHERE user_id = $1 AND course_id = $2 AND completed`,
		userID, courseID)
	return count, err
}

// Pomodoro repository methods
func (r *PostgresRepository) CreatePomodoroSession(ctx context.Context, session *models.PomodoroSession) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	session.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pomodoro_sessions (id, user_id, duration, completed, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, session.ID, session.UserID, session.Duration, session.Completed, session.CreatedAt)
	return err
}

func (r *PostgresRepository) GetPomodoroSession(ctx context.Context, sessionID string) (*models.PomodoroSession, error) {
	var session models.PomodoroSession
	err := r.db.GetContext(ctx, &session, `SELECT * FROM pomodoro_sessions WHERE id = $1`, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Session not found
		}
		return nil, err
	}

	return &session, nil
}

func (r *PostgresRepository) CompletePomodoroSession(ctx context.Context, sessionID string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE pomodoro_sessions SET completed = TRUE WHERE id = $1`, sessionID)
	return err
}

func (r *PostgresRepository) GetPomodoroTotals(ctx context.Context, userID string) (*PomodoroTotals, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE completed) AS completed,
			COALESCE(SUM(duration) FILTER (WHERE completed), 0) AS completed_seconds
		FROM pomodoro_sessions
		WHERE user_id = $1
	`

	var totals PomodoroTotals
	if err := r.db.GetContext(ctx, &totals, query, userID); err != nil {
		return nil, err
	}
	return &totals, nil
}

// Timestamp repository methods
func (r *PostgresRepository) CreateTimestamp(ctx context.Context, ts *models.Timestamp) error {
	if ts.ID == "" {
		ts.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	ts.CreatedAt = now
	ts.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO timestamps (id, video_id, user_id, time_seconds, label, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, ts.ID, ts.VideoID, ts.UserID, ts.TimeSeconds, ts.Label, ts.Note, ts.CreatedAt, ts.UpdatedAt)
	return err
}

func (r *PostgresRepository) GetTimestamp(ctx context.Context, timestampID string) (*models.Timestamp, error) {
	var ts models.Timestamp
	err := r.db.GetContext(ctx, &ts, `SELECT * FROM timestamps WHERE id = $1`, timestampID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Timestamp not found
		}
		return nil, err
	}

	return &ts, nil
}

func (r *PostgresRepository) GetUserVideoTimestamps(ctx context.Context, userID, videoID string) ([]models.Timestamp, error) {
	timestamps := []models.Timestamp{}
	err := r.db.SelectContext(ctx, &timestamps,
		`SELECT * FROM timestamps WHERE user_id = $1 AND video_id = $2 ORDER BY time_seconds`,
		userID, videoID)
	if err != nil {
		return nil, err
	}

	return timestamps, nil
}

func (r *PostgresRepository) UpdateTimestamp(ctx context.Context, ts *models.Timestamp) error {
	ts.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`UPDATE timestamps SET time_seconds = $1, label = $2, note = $3, updated_at = $4 WHERE id = $5`,
		ts.TimeSeconds, ts.Label, ts.Note, ts.UpdatedAt, ts.ID)
	return err
}

func (r *PostgresRepository) DeleteTimestamp(ctx context.Context, timestampID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM timestamps WHERE id = $1`, timestampID)
	return err
}
