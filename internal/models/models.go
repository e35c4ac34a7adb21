package models

import (
	"time"
)

// User represents a user in the system
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"` // never returned in JSON
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Identity is the authenticated caller, resolved once per request by the auth middleware
type Identity struct {
	UserID string
	Email  string
}

// Course is an owned, ordered collection of videos
type Course struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description"`
	IsPublic    bool      `db:"is_public" json:"is_public"`
	ShareToken  *string   `db:"share_token" json:"share_token"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Video is a YouTube reference placed at a dense 0-based position within its course
type Video struct {
	ID             string    `db:"id" json:"id"`
	CourseID       string    `db:"course_id" json:"course_id"`
	YouTubeURL     string    `db:"youtube_url" json:"youtube_url"`
	YouTubeVideoID string    `db:"youtube_video_id" json:"youtube_video_id"`
	Title          string    `db:"title" json:"title"`
	Description    *string   `db:"description" json:"description"`
	Duration       *int      `db:"duration" json:"duration"` // seconds
	Position       int       `db:"position" json:"position"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// VideoProgress is the per-user watch state of one video.
// CourseID is copied from the video when the row is created.
type VideoProgress struct {
	ID            string    `db:"id" json:"id"`
	UserID        string    `db:"user_id" json:"user_id"`
	VideoID       string    `db:"video_id" json:"video_id"`
	CourseID      string    `db:"course_id" json:"course_id"`
	LastTimestamp int       `db:"last_timestamp" json:"last_timestamp"` // seconds
	Completed     bool      `db:"completed" json:"completed"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// PomodoroSession is an append-only focus session log entry
type PomodoroSession struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Duration  int       `db:"duration" json:"duration"` // seconds
	Completed bool      `db:"completed" json:"completed"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Timestamp is a note placed by its author at an offset of a video
type Timestamp struct {
	ID          string    `db:"id" json:"id"`
	VideoID     string    `db:"video_id" json:"video_id"`
	UserID      string    `db:"user_id" json:"-"`
	TimeSeconds float64   `db:"time_seconds" json:"time_seconds"`
	Label       string    `db:"label" json:"label"`
	Note        *string   `db:"note" json:"note"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// PomodoroStats aggregates a user's pomodoro sessions
type PomodoroStats struct {
	TotalSessions        int     `json:"total_sessions"`
	CompletedSessions    int     `json:"completed_sessions"`
	TotalDurationMinutes int     `json:"total_duration_minutes"`
	CompletionRate       float64 `json:"completion_rate"`
}
