package repository

import (
	"context"
	"errors"

	"github.com/onestoptutor/tutor-server/internal/models"
)

// ErrDuplicate is returned when a write collides with a unique constraint
var ErrDuplicate = errors.New("duplicate record")

// ErrVideoNotInCourse is returned by reorder when the video left the course concurrently
var ErrVideoNotInCourse = errors.New("video does not belong to course")

// PomodoroTotals is the raw aggregate the stats endpoint is computed from
type PomodoroTotals struct {
	Total            int `db:"total"`
	Completed        int `db:"completed"`
	CompletedSeconds int `db:"completed_seconds"`
}

// Repository interface defines the methods that any repository implementation must satisfy.
// Lookups return (nil, nil) when the row does not exist.
type Repository interface {
	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Course operations
	CreateCourse(ctx context.Context, course *models.Course) error
	GetCourse(ctx context.Context, courseID string) (*models.Course, error)
	GetCourseByShareToken(ctx context.Context, token string) (*models.Course, error)
	GetUserCourses(ctx context.Context, userID string) ([]models.Course, error)
	UpdateCourse(ctx context.Context, course *models.Course) error
	DeleteCourse(ctx context.Context, courseID string) error
	// ShareCourse stores token unless the course already has one, marks the
	// course public and returns the stored row.
	ShareCourse(ctx context.Context, courseID, token string) (*models.Course, error)

	// Video operations
	// AppendVideo places the video after its siblings and seeds a progress
	// row for seedUserID, all in one transaction.
	AppendVideo(ctx context.Context, video *models.Video, seedUserID string) error
	GetVideo(ctx context.Context, videoID string) (*models.Video, error)
	GetCourseVideos(ctx context.Context, courseID string) ([]models.Video, error)
	CountCourseVideos(ctx context.Context, courseID string) (int, error)
	UpdateVideo(ctx context.Context, video *models.Video) error
	// ReorderVideo moves the video to newPosition and returns the course's videos in order
	ReorderVideo(ctx context.Context, courseID, videoID string, newPosition int) ([]models.Video, error)
	// DeleteVideo removes the video and closes the gap it leaves in its course
	DeleteVideo(ctx context.Context, videoID string) error

	// Progress operations
	GetVideoProgress(ctx context.Context, userID, videoID string) (*models.VideoProgress, error)
	SaveVideoProgress(ctx context.Context, progress *models.VideoProgress) error
	GetCourseProgress(ctx context.Context, userID, courseID string) ([]models.VideoProgress, error)
	CountCompletedVideos(ctx context.Context, userID, courseID string) (int, error)

	// Pomodoro operations
	CreatePomodoroSession(ctx context.Context, session *models.PomodoroSession) error
	GetPomodoroSession(ctx context.Context, sessionID string) (*models.PomodoroSession, error)
	CompletePomodoroSession(ctx context.Context, sessionID string) error
	GetPomodoroTotals(ctx context.Context, userID string) (*PomodoroTotals, error)

	// Timestamp operations
	CreateTimestamp(ctx context.Context, ts *models.Timestamp) error
	GetTimestamp(ctx context.Context, timestampID string) (*models.Timestamp, error)
	GetUserVideoTimestamps(ctx context.Context, userID, videoID string) ([]models.Timestamp, error)
	UpdateTimestamp(ctx context.Context, ts *models.Timestamp) error
	DeleteTimestamp(ctx context.Context, timestampID string) error
}

var (
	_ Repository = (*PostgresRepository)(nil)
	_ Repository = (*MemoryRepository)(nil)
)
