package service

import (
	"context"
	"fmt"

	"github.com/onestoptutor/tutor-server/internal/models"
)

// Timestamps are private to their author. Someone else's timestamp is
// reported as missing rather than forbidden.
func (s *DefaultService) loadTimestamp(ctx context.Context, caller models.Identity, timestampID string) (*models.Timestamp, error) {
	ts, err := s.repo.GetTimestamp(ctx, timestampID)
	if err != nil {
		return nil, fmt.Errorf("error getting timestamp: %w", err)
	}
	if ts == nil || ts.UserID != caller.UserID {
		return nil, newError(ErrNotFound, "Timestamp not found")
	}
	return ts, nil
}

func (s *DefaultService) CreateTimestamp(
	ctx context.Context,
	caller models.Identity,
	req models.CreateTimestampRequest,
) (*models.Timestamp, error) {
	if _, err := s.getVideo(ctx, req.VideoID); err != nil {
		return nil, err
	}

	ts := &models.Timestamp{
		VideoID:     req.VideoID,
		UserID:      caller.UserID,
		TimeSeconds: req.TimeSeconds,
		Label:       req.Label,
		Note:        req.Note,
	}
	if err := s.repo.CreateTimestamp(ctx, ts); err != nil {
		return nil, fmt.Errorf("error creating timestamp: %w", err)
	}
	return ts, nil
}

func (s *DefaultService) ListVideoTimestamps(ctx context.Context, caller models.Identity, videoID string) ([]models.Timestamp, error) {
	if _, err := s.getVideo(ctx, videoID); err != nil {
		return nil, err
	}

	timestamps, err := s.repo.GetUserVideoTimestamps(ctx, caller.UserID, videoID)
	if err != nil {
		return nil, fmt.Errorf("error listing timestamps: %w", err)
	}
	return timestamps, nil
}

func (s *DefaultService) UpdateTimestamp(
	ctx context.Context,
	caller models.Identity,
	timestampID string,
	req models.UpdateTimestampRequest,
) (*models.Timestamp, error) {
	ts, err := s.loadTimestamp(ctx, caller, timestampID)
	if err != nil {
		return nil, err
	}

	if req.TimeSeconds != nil {
		ts.TimeSeconds = *req.TimeSeconds
	}
	if req.Label != nil {
		ts.Label = *req.Label
	}
	if req.Note != nil {
		ts.Note = req.Note
	}

	if err := s.repo.UpdateTimestamp(ctx, ts); err != nil {
		return nil, fmt.Errorf("error updating timestamp: %w", err)
	}
	return ts, nil
}

func (s *DefaultService) DeleteTimestamp(ctx context.Context, caller models.Identity, timestampID string) error {
	if _, err := s.loadTimestamp(ctx, caller, timestampID); err != nil {
		return err
	}

	if err := s.repo.DeleteTimestamp(ctx, timestampID); err != nil {
		return fmt.Errorf("error deleting timestamp: %w", err)
	}
	return nil
}
