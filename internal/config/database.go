package config

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"
)

// SetupDatabase initializes the database connection
func SetupDatabase(cfg *Config, logger *zap.Logger) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	if err := createTables(db, logger); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

// createTables creates the necessary tables in the database.
// Deleting a user, course or video removes everything that hangs off it.
func createTables(db *sqlx.DB, logger *zap.Logger) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(36) PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS courses (
			id VARCHAR(36) PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title VARCHAR(255) NOT NULL,
			description TEXT,
			is_public BOOLEAN NOT NULL DEFAULT FALSE,
			share_token VARCHAR(36) UNIQUE,
			created_at TIMESTAMP NOT NULL
		)`,
		// position uniqueness is checked at commit so reorders can shift rows one by one
		`CREATE TABLE IF NOT EXISTS videos (
			id VARCHAR(36) PRIMARY KEY,
			course_id VARCHAR(36) NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
			youtube_url TEXT NOT NULL,
			youtube_video_id VARCHAR(32) NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			duration INTEGER,
			position INTEGER NOT NULL CHECK (position >= 0),
			created_at TIMESTAMP NOT NULL,
			CONSTRAINT videos_course_position_key UNIQUE (course_id, position) DEFERRABLE INITIALLY DEFERRED
		)`,
		`CREATE TABLE IF NOT EXISTS video_progress (
			id VARCHAR(36) PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			video_id VARCHAR(36) NOT NULL REFERENCES videos(id) ON DELETE CASCADE,
			course_id VARCHAR(36) NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
			last_timestamp INTEGER NOT NULL DEFAULT 0 CHECK (last_timestamp >= 0),
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			UNIQUE (user_id, video_id)
		)`,
		`CREATE TABLE IF NOT EXISTS pomodoro_sessions (
			id VARCHAR(36) PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			duration INTEGER NOT NULL CHECK (duration > 0),
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS timestamps (
			id VARCHAR(36) PRIMARY KEY,
			video_id VARCHAR(36) NOT NULL REFERENCES videos(id) ON DELETE CASCADE,
			user_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			time_seconds DOUBLE PRECISION NOT NULL,
			label VARCHAR(255) NOT NULL,
			note TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	// Create indexes for better performance
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_courses_user_id ON courses(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_videos_course_id ON videos(course_id)",
		"CREATE INDEX IF NOT EXISTS idx_video_progress_course_user ON video_progress(course_id, user_id)",
		"CREATE INDEX IF NOT EXISTS idx_pomodoro_sessions_user_id ON pomodoro_sessions(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_timestamps_video_user ON timestamps(video_id, user_id)",
	}

	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			// indexes are not critical
			logger.Warn("Failed to create index", zap.String("statement", idx), zap.Error(err))
		}
	}

	return nil
}
