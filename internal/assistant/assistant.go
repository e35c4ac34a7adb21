// Package assistant renders learning-task prompts and forwards them to an
// external text-generation service.
//
// Failures of the external service are never returned as errors: they are
// folded into the answer text so callers always have something to show. The
// only errors returned are programming faults such as a prompt that fails to
// render.
package assistant

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Input carries everything a task may draw on.
type Input struct {
	Question         string
	Context          string
	VideoTitle       string
	VideoDescription string
}

// Assistant turns tasks into prompts and prompts into answers.
type Assistant struct {
	gen    Generator
	logger *zap.Logger
}

// New creates an Assistant backed by gen
func New(gen Generator, logger *zap.Logger) *Assistant {
	return &Assistant{gen: gen, logger: logger}
}

// Run dispatches task with the fixed defaults used by the API.
func (a *Assistant) Run(ctx context.Context, task Task, in Input) (string, error) {
	switch task {
	case TaskQuestion:
		return a.AnswerQuestion(ctx, in.Question, firstNonEmpty(in.Context, in.VideoTitle))
	case TaskSummary:
		return a.Summarize(ctx, in.VideoTitle, firstNonEmpty(in.Context, in.VideoDescription))
	case TaskExplain:
		return a.ExplainConcept(ctx, in.Question, DefaultLevel)
	case TaskQuiz:
		return a.GenerateQuiz(ctx, in.Question, DefaultQuizQuestions)
	case TaskNotes:
		return a.OrganizeNotes(ctx, in.VideoTitle, in.Question)
	}
	return "", fmt.Errorf("unhandled task %s", task)
}

// AnswerQuestion answers a question about the video being watched.
func (a *Assistant) AnswerQuestion(ctx context.Context, question, videoContext string) (string, error) {
	return a.complete(ctx, "question", struct{ Question, Context string }{question, videoContext})
}

// Summarize produces a short bullet summary of a video.
func (a *Assistant) Summarize(ctx context.Context, title, description string) (string, error) {
	return a.complete(ctx, "summary", struct{ Title, Context string }{title, description})
}

// ExplainConcept explains concept for the given difficulty level.
func (a *Assistant) ExplainConcept(ctx context.Context, concept, level string) (string, error) {
	return a.complete(ctx, "explain", struct{ Concept, Level string }{concept, level})
}

// GenerateQuiz asks for count multiple-choice questions on topic.
func (a *Assistant) GenerateQuiz(ctx context.Context, topic string, count int) (string, error) {
	return a.complete(ctx, "quiz", struct {
		Topic string
		Count int
	}{topic, count})
}

// OrganizeNotes reorganizes free-form study notes into an outline.
func (a *Assistant) OrganizeNotes(ctx context.Context, title, notes string) (string, error) {
	return a.complete(ctx, "notes", struct{ Title, Notes string }{title, notes})
}

func (a *Assistant) complete(ctx context.Context, name string, data any) (string, error) {
	prompt, err := render(name, data)
	if err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", name, err)
	}

	text, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		a.logger.Warn("Text generation failed", zap.String("task", name), zap.Error(err))
		return degradeMessage(err), nil
	}
	return text, nil
}

func degradeMessage(err error) string {
	var statusErr *StatusError
	switch {
	case errors.Is(err, ErrNotConfigured):
		return "Error: CLAUDE_API_KEY not configured. Please set it in environment variables or contact administrator."
	case errors.Is(err, ErrEmptyResponse):
		return "No response from Claude API"
	case errors.As(err, &statusErr):
		return fmt.Sprintf("Claude API error: %d - %s", statusErr.StatusCode, statusErr.Body)
	default:
		return fmt.Sprintf("Error calling Claude API: %v", err)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
