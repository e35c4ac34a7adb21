package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/onestoptutor/tutor-server/internal/models"
	"github.com/onestoptutor/tutor-server/internal/ordering"
	"github.com/onestoptutor/tutor-server/internal/youtube"
)

const untitledVideo = "Untitled Video"

// loadVideo returns the video and its course if the caller may act on the course
func (s *DefaultService) loadVideo(
	ctx context.Context,
	caller models.Identity,
	videoID string,
	want access,
) (*models.Video, *models.Course, error) {
	video, err := s.getVideo(ctx, videoID)
	if err != nil {
		return nil, nil, err
	}

	course, err := s.loadCourse(ctx, caller, video.CourseID, want)
	if err != nil {
		return nil, nil, err
	}
	return video, course, nil
}

// getVideo only checks existence
func (s *DefaultService) getVideo(ctx context.Context, videoID string) (*models.Video, error) {
	video, err := s.repo.GetVideo(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("error getting video: %w", err)
	}
	if video == nil {
		return nil, newError(ErrNotFound, "Video not found")
	}
	return video, nil
}

func (s *DefaultService) AddVideo(
	ctx context.Context,
	caller models.Identity,
	courseID string,
	req models.CreateVideoRequest,
) (*models.Video, error) {
	if _, err := s.loadCourse(ctx, caller, courseID, accessWrite); err != nil {
		return nil, err
	}

	youtubeID, ok := youtube.ExtractID(req.YouTubeURL)
	if !ok {
		return nil, newError(ErrInvalidInput, "Invalid YouTube URL")
	}

	title := ""
	if req.Title != nil {
		title = strings.TrimSpace(*req.Title)
	}
	if title == "" && s.metadata != nil {
		title = s.metadata.Fetch(ctx, youtubeID).Title
	}
	if title == "" {
		title = untitledVideo
	}

	video := &models.Video{
		CourseID:       courseID,
		YouTubeURL:     req.YouTubeURL,
		YouTubeVideoID: youtubeID,
		Title:          title,
		Description:    req.Description,
	}

	if err := s.repo.AppendVideo(ctx, video, caller.UserID); err != nil {
		return nil, fmt.Errorf("error adding video: %w", err)
	}

	s.logger.Info("Video added",
		zap.String("video_id", video.ID),
		zap.String("course_id", courseID),
		zap.Int("position", video.Position))
	return video, nil
}

func (s *DefaultService) ListCourseVideos(ctx context.Context, caller models.Identity, courseID string) ([]models.Video, error) {
	if _, err := s.loadCourse(ctx, caller, courseID, accessRead); err != nil {
		return nil, err
	}

	videos, err := s.repo.GetCourseVideos(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("error listing videos: %w", err)
	}
	return videos, nil
}

func (s *DefaultService) UpdateVideo(
	ctx context.Context,
	caller models.Identity,
	videoID string,
	req models.UpdateVideoRequest,
) (*models.Video, error) {
	video, _, err := s.loadVideo(ctx, caller, videoID, accessWrite)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		video.Title = *req.Title
	}
	if req.Description != nil {
		video.Description = req.Description
	}

	if err := s.repo.UpdateVideo(ctx, video); err != nil {
		return nil, fmt.Errorf("error updating video: %w", err)
	}
	return video, nil
}

// ReorderVideo moves a video within its course and returns the new order
func (s *DefaultService) ReorderVideo(
	ctx context.Context,
	caller models.Identity,
	videoID string,
	newPosition int,
) ([]models.Video, error) {
	video, _, err := s.loadVideo(ctx, caller, videoID, accessWrite)
	if err != nil {
		return nil, err
	}

	videos, err := s.repo.ReorderVideo(ctx, video.CourseID, video.ID, newPosition)
	if err != nil {
		var rangeErr *ordering.ErrOutOfRange
		if errors.As(err, &rangeErr) {
			return nil, newError(ErrInvalidInput, "Invalid position: %s", rangeErr.Error())
		}
		return nil, fmt.Errorf("error reordering video: %w", err)
	}

	s.logger.Info("Video reordered",
		zap.String("video_id", videoID),
		zap.Int("from", video.Position),
		zap.Int("to", newPosition))
	return videos, nil
}

func (s *DefaultService) DeleteVideo(ctx context.Context, caller models.Identity, videoID string) error {
	if _, _, err := s.loadVideo(ctx, caller, videoID, accessWrite); err != nil {
		return err
	}

	if err := s.repo.DeleteVideo(ctx, videoID); err != nil {
		return fmt.Errorf("error deleting video: %w", err)
	}
	return nil
}
