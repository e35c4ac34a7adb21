package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/onestoptutor/tutor-server/internal/assistant"
	"github.com/onestoptutor/tutor-server/internal/models"
)

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Assist runs one assistant task against a video. An unreachable or
// unconfigured text-generation service still yields a response; only
// dispatch faults surface as ErrAssistant.
func (s *DefaultService) Assist(
	ctx context.Context,
	caller models.Identity,
	req models.AssistantRequest,
) (*models.AssistantResponse, error) {
	video, err := s.getVideo(ctx, req.VideoID)
	if err != nil {
		return nil, err
	}

	task, err := assistant.ParseTask(req.RequestType)
	if err != nil {
		var unknown *assistant.UnknownTaskError
		if errors.As(err, &unknown) {
			return nil, newError(ErrInvalidInput, "%s", unknown.Error())
		}
		return nil, err
	}

	answer, err := s.runAssistant(ctx, task, assistant.Input{
		Question:         req.Question,
		Context:          derefString(req.Context),
		VideoTitle:       video.Title,
		VideoDescription: derefString(video.Description),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Assistant task served",
		zap.String("task", task.String()),
		zap.String("video_id", video.ID),
		zap.String("user_id", caller.UserID))
	return &models.AssistantResponse{Response: answer, Type: task.String()}, nil
}

func (s *DefaultService) AskAboutVideo(
	ctx context.Context,
	caller models.Identity,
	req models.AskAboutVideoRequest,
) (*models.AskAboutVideoResponse, error) {
	video, err := s.getVideo(ctx, req.VideoID)
	if err != nil {
		return nil, err
	}

	answer, err := s.runAssistant(ctx, assistant.TaskQuestion, assistant.Input{
		Question:   req.Question,
		VideoTitle: video.Title,
	})
	if err != nil {
		return nil, err
	}

	return &models.AskAboutVideoResponse{VideoID: video.ID, Question: req.Question, Answer: answer}, nil
}

func (s *DefaultService) SummarizeVideo(ctx context.Context, caller models.Identity, videoID string) (*models.SummaryResponse, error) {
	video, err := s.getVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	summary, err := s.runAssistant(ctx, assistant.TaskSummary, assistant.Input{
		VideoTitle:       video.Title,
		VideoDescription: derefString(video.Description),
	})
	if err != nil {
		return nil, err
	}

	return &models.SummaryResponse{VideoID: video.ID, Title: video.Title, Summary: summary}, nil
}

func (s *DefaultService) runAssistant(ctx context.Context, task assistant.Task, in assistant.Input) (string, error) {
	if s.assistant == nil {
		return "", newError(ErrAssistant, "AI service error: assistant is not configured")
	}

	answer, err := s.assistant.Run(ctx, task, in)
	if err != nil {
		s.logger.Error("Assistant dispatch failed", zap.String("task", task.String()), zap.Error(err))
		return "", newError(ErrAssistant, "AI service error: %v", err)
	}
	return answer, nil
}
