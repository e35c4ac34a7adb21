package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/onestoptutor/tutor-server/internal/models"
	"github.com/onestoptutor/tutor-server/internal/ordering"
)

// PostgresRepository implements the Repository interface using PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
	}
}

// GetDB returns the underlying database connection
func (r *PostgresRepository) GetDB() *sqlx.DB {
	return r.db
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// User repository methods
func (r *PostgresRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`

	// Generate a new UUID if not provided
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, query, user.ID, user.Email, user.PasswordHash, user.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: email %s", ErrDuplicate, user.Email)
	}
	return err
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE email = $1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

// Course repository methods
func (r *PostgresRepository) CreateCourse(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (id, user_id, title, description, is_public, share_token, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if course.ID == "" {
		course.ID = uuid.New().String()
	}
	course.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, query,
		course.ID, course.UserID, course.Title, course.Description,
		course.IsPublic, course.ShareToken, course.CreatedAt)
	return err
}

func (r *PostgresRepository) GetCourse(ctx context.Context, courseID string) (*models.Course, error) {
	return r.getCourse(ctx, `SELECT * FROM courses WHERE id = $1`, courseID)
}

func (r *PostgresRepository) GetCourseByShareToken(ctx context.Context, token string) (*models.Course, error) {
	return r.getCourse(ctx, `SELECT * FROM courses WHERE share_token = $1`, token)
}

func (r *PostgresRepository) getCourse(ctx context.Context, query string, arg string) (*models.Course, error) {
	var course models.Course
	err := r.db.GetContext(ctx, &course, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Course not found
		}
		return nil, err
	}

	return &course, nil
}

func (r *PostgresRepository) GetUserCourses(ctx context.Context, userID string) ([]models.Course, error) {
	courses := []models.Course{}
	err := r.db.SelectContext(ctx, &courses,
		`SELECT * FROM courses WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *PostgresRepository) UpdateCourse(ctx context.Context, course *models.Course) error {
	query := `UPDATE courses SET title = $1, description = $2, is_public = $3 WHERE id = $4`
	_, err := r.db.ExecContext(ctx, query, course.Title, course.Description, course.IsPublic, course.ID)
	return err
}

// DeleteCourse relies on ON DELETE CASCADE for videos, progress and timestamps
func (r *PostgresRepository) DeleteCourse(ctx context.Context, courseID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, courseID)
	return err
}

func (r *PostgresRepository) ShareCourse(ctx context.Context, courseID, token string) (*models.Course, error) {
	// COALESCE keeps the first token when two share requests race
	query := `
		UPDATE courses
		SET share_token = COALESCE(share_token, $2), is_public = TRUE
		WHERE id = $1
		RETURNING *
	`

	var course models.Course
	err := r.db.GetContext(ctx, &course, query, courseID, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &course, nil
}

// Video repository methods

// lockCourse serializes position changes within one course
func lockCourse(ctx context.Context, tx *sqlx.Tx, courseID string) error {
	var id string
	return tx.GetContext(ctx, &id, `SELECT id FROM courses WHERE id = $1 FOR UPDATE`, courseID)
}

func courseItems(ctx context.Context, tx *sqlx.Tx, courseID string) ([]ordering.Item, error) {
	var items []ordering.Item
	err := tx.SelectContext(ctx, &items,
		`SELECT id, position FROM videos WHERE course_id = $1 ORDER BY position`, courseID)
	return items, err
}

func applyMoves(ctx context.Context, tx *sqlx.Tx, moves []ordering.Move) error {
	for _, m := range moves {
		if _, err := tx.ExecContext(ctx, `UPDATE videos SET position = $1 WHERE id = $2`, m.Position, m.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresRepository) AppendVideo(ctx context.Context, video *models.Video, seedUserID string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = lockCourse(ctx, tx, video.CourseID); err != nil {
		return err
	}

	items, err := courseItems(ctx, tx, video.CourseID)
	if err != nil {
		return err
	}

	if video.ID == "" {
		video.ID = uuid.New().String()
	}
	video.Position = ordering.Next(items)
	video.CreatedAt = time.Now().UTC()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO videos (id, course_id, youtube_url, youtube_video_id, title, description, duration, position, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, video.ID, video.CourseID, video.YouTubeURL, video.YouTubeVideoID, video.Title,
		video.Description, video.Duration, video.Position, video.CreatedAt)
	if err != nil {
		return err
	}

	// Seed progress for whoever added the video
	_, err = tx.ExecContext(ctx, `
		INSERT INTO video_progress (id, user_id, video_id, course_id, last_timestamp, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, FALSE, $5, $5)
	`, uuid.New().String(), seedUserID, video.ID, video.CourseID, video.CreatedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PostgresRepository) GetVideo(ctx context.Context, videoID string) (*models.Video, error) {
	var video models.Video
	err := r.db.GetContext(ctx, &video, `SELECT * FROM videos WHERE id = $1`, videoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Video not found
		}
		return nil, err
	}

	return &video, nil
}

func (r *PostgresRepository) GetCourseVideos(ctx context.Context, courseID string) ([]models.Video, error) {
	videos := []models.Video{}
	err := r.db.SelectContext(ctx, &videos,
		`SELECT * FROM videos WHERE course_id = $1 ORDER BY position`, courseID)
	if err != nil {
		return nil, err
	}

	return videos, nil
}

func (r *PostgresRepository) CountCourseVideos(ctx context.Context, courseID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM videos WHERE course_id = $1`, courseID)
	return count, err
}

func (r *PostgresRepository) UpdateVideo(ctx context.Context, video *models.Video) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE videos SET title = $1, description = $2 WHERE id = $3`,
		video.Title, video.Description, video.ID)
	return err
}

// ReorderVideo applies every shift and the target's move before a single commit.
// The (course_id, position) constraint is deferred, so intermediate duplicates are fine.
func (r *PostgresRepository) ReorderVideo(
	ctx context.Context,
	courseID string,
	videoID string,
	newPosition int,
) (videos []models.Video, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = lockCourse(ctx, tx, courseID); err != nil {
		return nil, err
	}

	items, err := courseItems(ctx, tx, courseID)
	if err != nil {
		return nil, err
	}

	found := false
	for _, it := range items {
		if it.ID == videoID {
			found = true
			break
		}
	}
	if !found {
		err = ErrVideoNotInCourse
		return nil, err
	}

	moves, err := ordering.Reorder(items, videoID, newPosition)
	if err != nil {
		return nil, err
	}

	if err = applyMoves(ctx, tx, moves); err != nil {
		return nil, err
	}

	videos = []models.Video{}
	err = tx.SelectContext(ctx, &videos,
		`SELECT * FROM videos WHERE course_id = $1 ORDER BY position`, courseID)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return videos, nil
}

// DeleteVideo relies on ON DELETE CASCADE for progress and timestamps
func (r *PostgresRepository) DeleteVideo(ctx context.Context, videoID string) (err error) {
	video, err := r.GetVideo(ctx, videoID)
	if err != nil || video == nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = lockCourse(ctx, tx, video.CourseID); err != nil {
		return err
	}

	var removedPosition int
	err = tx.GetContext(ctx, &removedPosition,
		`DELETE FROM videos WHERE id = $1 RETURNING position`, videoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Deleted concurrently, nothing left to compact
			err = nil
			_ = tx.Rollback()
			return nil
		}
		return err
	}

	items, err := courseItems(ctx, tx, video.CourseID)
	if err != nil {
		return err
	}

	if err = applyMoves(ctx, tx, ordering.CloseGap(items, removedPosition)); err != nil {
		return err
	}

	return tx.Commit()
}
