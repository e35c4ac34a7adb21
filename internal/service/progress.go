package service

import (
	"context"
	"fmt"

	"github.com/onestoptutor/tutor-server/internal/models"
)

// UpdateVideoProgress creates the caller's progress row on first use and then
// applies only the fields present in req.
func (s *DefaultService) UpdateVideoProgress(
	ctx context.Context,
	caller models.Identity,
	videoID string,
	req models.UpdateProgressRequest,
) (*models.VideoProgress, error) {
	video, err := s.getVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	progress, err := s.repo.GetVideoProgress(ctx, caller.UserID, videoID)
	if err != nil {
		return nil, fmt.Errorf("error getting progress: %w", err)
	}
	if progress == nil {
		progress = &models.VideoProgress{
			UserID:   caller.UserID,
			VideoID:  videoID,
			CourseID: video.CourseID,
		}
	}

	if req.LastTimestamp != nil {
		progress.LastTimestamp = *req.LastTimestamp
	}
	if req.Completed != nil {
		progress.Completed = *req.Completed
	}

	if err := s.repo.SaveVideoProgress(ctx, progress); err != nil {
		return nil, fmt.Errorf("error saving progress: %w", err)
	}
	return progress, nil
}

func (s *DefaultService) GetVideoProgress(ctx context.Context, caller models.Identity, videoID string) (*models.VideoProgress, error) {
	progress, err := s.repo.GetVideoProgress(ctx, caller.UserID, videoID)
	if err != nil {
		return nil, fmt.Errorf("error getting progress: %w", err)
	}
	if progress == nil {
		return nil, newError(ErrNotFound, "Progress not found")
	}
	return progress, nil
}

func (s *DefaultService) GetCourseProgress(
	ctx context.Context,
	caller models.Identity,
	courseID string,
) (*models.CourseProgressRecordsResponse, error) {
	if _, err := s.loadCourse(ctx, caller, courseID, accessRead); err != nil {
		return nil, err
	}

	records, err := s.repo.GetCourseProgress(ctx, caller.UserID, courseID)
	if err != nil {
		return nil, fmt.Errorf("error getting course progress: %w", err)
	}
	return &models.CourseProgressRecordsResponse{CourseID: courseID, Progress: records}, nil
}

// Pomodoro sessions
func (s *DefaultService) StartPomodoro(
	ctx context.Context,
	caller models.Identity,
	req models.StartPomodoroRequest,
) (*models.PomodoroSession, error) {
	if req.Duration <= 0 {
		return nil, newError(ErrInvalidInput, "Duration must be positive")
	}

	session := &models.PomodoroSession{
		UserID:   caller.UserID,
		Duration: req.Duration,
	}
	if err := s.repo.CreatePomodoroSession(ctx, session); err != nil {
		return nil, fmt.Errorf("error starting pomodoro session: %w", err)
	}
	return session, nil
}

// CompletePomodoro is idempotent; another user's session is reported as missing
func (s *DefaultService) CompletePomodoro(
	ctx context.Context,
	caller models.Identity,
	sessionID string,
) (*models.PomodoroSession, error) {
	session, err := s.repo.GetPomodoroSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error getting pomodoro session: %w", err)
	}
	if session == nil || session.UserID != caller.UserID {
		return nil, newError(ErrNotFound, "Session not found")
	}

	if !session.Completed {
		if err := s.repo.CompletePomodoroSession(ctx, sessionID); err != nil {
			return nil, fmt.Errorf("error completing pomodoro session: %w", err)
		}
		session.Completed = true
	}
	return session, nil
}

func (s *DefaultService) GetPomodoroStats(ctx context.Context, caller models.Identity) (*models.PomodoroStats, error) {
	totals, err := s.repo.GetPomodoroTotals(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("error getting pomodoro totals: %w", err)
	}

	return &models.PomodoroStats{
		TotalSessions:        totals.Total,
		CompletedSessions:    totals.Completed,
		TotalDurationMinutes: totals.CompletedSeconds / 60,
		CompletionRate:       percentage(totals.Completed, totals.Total),
	}, nil
}
