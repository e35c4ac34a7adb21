package service

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/onestoptutor/tutor-server/internal/assistant"
	"github.com/onestoptutor/tutor-server/internal/models"
	"github.com/onestoptutor/tutor-server/internal/repository"
	"github.com/onestoptutor/tutor-server/internal/youtube"
)

const testSecret = "service-test-secret"

type stubMetadata struct {
	title string
	calls int
}

func (m *stubMetadata) Fetch(ctx context.Context, videoID string) youtube.Metadata {
	m.calls++
	return youtube.Metadata{Title: m.title}
}

type stubGenerator struct {
	text    string
	err     error
	prompts []string
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.text, g.err
}

type fixture struct {
	svc  Service
	repo *repository.MemoryRepository
	meta *stubMetadata
	gen  *stubGenerator
}

func newFixture(t *testing.T) *fixture {
	repo := repository.NewMemoryRepository()
	meta := &stubMetadata{title: "Fetched Title"}
	gen := &stubGenerator{text: "generated answer"}

	svc := NewDefaultService(repo, Options{
		JWTSecret: testSecret,
		Metadata:  meta,
		Assistant: assistant.New(gen, zap.NewNop()),
		Logger:    zap.NewNop(),
	})
	return &fixture{svc: svc, repo: repo, meta: meta, gen: gen}
}

func (f *fixture) user(t *testing.T, email string) models.Identity {
	resp, err := f.svc.Register(context.Background(), models.RegisterRequest{Email: email, Password: "secret123"})
	require.NoError(t, err)
	return models.Identity{UserID: resp.ID, Email: resp.Email}
}

func (f *fixture) course(t *testing.T, owner models.Identity, public bool) *models.Course {
	course, err := f.svc.CreateCourse(context.Background(), owner, models.CreateCourseRequest{Title: "Go", IsPublic: public})
	require.NoError(t, err)
	return course
}

func (f *fixture) video(t *testing.T, owner models.Identity, courseID string) *models.Video {
	title := "Lesson"
	video, err := f.svc.AddVideo(context.Background(), owner, courseID, models.CreateVideoRequest{
		YouTubeURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		Title:      &title,
	})
	require.NoError(t, err)
	return video
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := f.user(t, "Alice@Example.com")
	assert.Equal(t, "alice@example.com", user.Email)

	_, err := f.svc.Register(ctx, models.RegisterRequest{Email: "alice@example.com", Password: "other123"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.svc.Login(ctx, models.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	token, err := f.svc.Login(ctx, models.LoginRequest{Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", token.TokenType)
	assert.Equal(t, 86400, token.ExpiresIn)

	parsed, err := jwt.Parse(token.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, user.UserID, claims["sub"])
	assert.Equal(t, "alice@example.com", claims["email"])
}

func TestCourseAccessRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")
	other := f.user(t, "other@example.com")

	private := f.course(t, owner, false)
	public := f.course(t, owner, true)

	_, err := f.svc.GetCourseDetail(ctx, other, private.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.GetCourseDetail(ctx, other, public.ID)
	assert.NoError(t, err)

	// public grants reading only
	_, err = f.svc.UpdateCourse(ctx, other, public.ID, models.UpdateCourseRequest{})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.GetCourseDetail(ctx, owner, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateCourseIsPartial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")

	desc := "intro"
	course, err := f.svc.CreateCourse(ctx, owner, models.CreateCourseRequest{Title: "Go", Description: &desc})
	require.NoError(t, err)

	public := true
	updated, err := f.svc.UpdateCourse(ctx, owner, course.ID, models.UpdateCourseRequest{IsPublic: &public})
	require.NoError(t, err)

	assert.Equal(t, "Go", updated.Title)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "intro", *updated.Description)
	assert.True(t, updated.IsPublic)
}

func TestAddVideoTitleFallbacks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")
	course := f.course(t, owner, false)

	video, err := f.svc.AddVideo(ctx, owner, course.ID, models.CreateVideoRequest{
		YouTubeURL: "https://youtu.be/dQw4w9WgXcQ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Fetched Title", video.Title)
	assert.Equal(t, "dQw4w9WgXcQ", video.YouTubeVideoID)
	assert.Equal(t, 1, f.meta.calls)

	f.meta.title = ""
	video, err = f.svc.AddVideo(ctx, owner, course.ID, models.CreateVideoRequest{
		YouTubeURL: "https://youtu.be/dQw4w9WgXcQ",
	})
	require.NoError(t, err)
	assert.Equal(t, untitledVideo, video.Title)
	assert.Equal(t, 1, video.Position)

	_, err = f.svc.AddVideo(ctx, owner, course.ID, models.CreateVideoRequest{YouTubeURL: "https://vimeo.com/123"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAddVideoSeedsProgressForAdder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")
	course := f.course(t, owner, false)
	video := f.video(t, owner, course.ID)

	progress, err := f.svc.GetVideoProgress(ctx, owner, video.ID)
	require.NoError(t, err)
	assert.Equal(t, course.ID, progress.CourseID)
	assert.False(t, progress.Completed)
}

func TestReorderVideo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")
	other := f.user(t, "other@example.com")
	course := f.course(t, owner, true)

	var ids []string
	for i := 0; i < 4; i++ {
		ids = append(ids, f.video(t, owner, course.ID).ID)
	}

	videos, err := f.svc.ReorderVideo(ctx, owner, ids[3], 1)
	require.NoError(t, err)
	var got []string
	for i, v := range videos {
		assert.Equal(t, i, v.Position)
		got = append(got, v.ID)
	}
	assert.Equal(t, []string{ids[0], ids[3], ids[1], ids[2]}, got)

	_, err = f.svc.ReorderVideo(ctx, owner, ids[0], 4)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.ReorderVideo(ctx, owner, ids[0], -1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.ReorderVideo(ctx, other, ids[0], 0)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCourseStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")
	course := f.course(t, owner, false)

	stats, err := f.svc.GetCourseStats(ctx, owner, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, stats.ProgressPercentage)
	assert.Zero(t, stats.TotalVideos)

	var videos []*models.Video
	for i := 0; i < 3; i++ {
		videos = append(videos, f.video(t, owner, course.ID))
	}
	done := true
	_, err = f.svc.UpdateVideoProgress(ctx, owner, videos[0].ID, models.UpdateProgressRequest{Completed: &done})
	require.NoError(t, err)

	stats, err = f.svc.GetCourseStats(ctx, owner, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalVideos)
	assert.Equal(t, 1, stats.CompletedVideos)
	assert.Equal(t, 2, stats.RemainingVideos)
	assert.Equal(t, 33.33, stats.ProgressPercentage)
}

func TestUpdateVideoProgressIsPartial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")
	learner := f.user(t, "learner@example.com")
	course := f.course(t, owner, true)
	video := f.video(t, owner, course.ID)

	_, err := f.svc.GetVideoProgress(ctx, learner, video.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	offset := 42
	progress, err := f.svc.UpdateVideoProgress(ctx, learner, video.ID, models.UpdateProgressRequest{LastTimestamp: &offset})
	require.NoError(t, err)
	assert.Equal(t, 42, progress.LastTimestamp)
	assert.Equal(t, course.ID, progress.CourseID)

	done := true
	progress, err = f.svc.UpdateVideoProgress(ctx, learner, video.ID, models.UpdateProgressRequest{Completed: &done})
	require.NoError(t, err)
	assert.Equal(t, 42, progress.LastTimestamp)
	assert.True(t, progress.Completed)

	_, err = f.svc.UpdateVideoProgress(ctx, learner, "missing", models.UpdateProgressRequest{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPomodoroLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, "focus@example.com")
	other := f.user(t, "other@example.com")

	stats, err := f.svc.GetPomodoroStats(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, models.PomodoroStats{}, *stats)

	first, err := f.svc.StartPomodoro(ctx, user, models.StartPomodoroRequest{Duration: 1500})
	require.NoError(t, err)
	assert.False(t, first.Completed)
	_, err = f.svc.StartPomodoro(ctx, user, models.StartPomodoroRequest{Duration: 1500})
	require.NoError(t, err)
	_, err = f.svc.StartPomodoro(ctx, user, models.StartPomodoroRequest{Duration: 1500})
	require.NoError(t, err)

	_, err = f.svc.CompletePomodoro(ctx, other, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	for i := 0; i < 2; i++ {
		done, err := f.svc.CompletePomodoro(ctx, user, first.ID)
		require.NoError(t, err)
		assert.True(t, done.Completed)
	}

	stats, err = f.svc.GetPomodoroStats(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalSessions)
	assert.Equal(t, 1, stats.CompletedSessions)
	assert.Equal(t, 25, stats.TotalDurationMinutes)
	assert.Equal(t, 33.33, stats.CompletionRate)
}

func TestShareCourseIsStable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")
	other := f.user(t, "other@example.com")
	course := f.course(t, owner, false)
	f.video(t, owner, course.ID)

	_, err := f.svc.ShareCourse(ctx, other, course.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	first, err := f.svc.ShareCourse(ctx, owner, course.ID)
	require.NoError(t, err)
	second, err := f.svc.ShareCourse(ctx, owner, course.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ShareToken, second.ShareToken)
	assert.Equal(t, "/shared/course/"+first.ShareToken, first.ShareURL)

	shared, err := f.svc.GetSharedCourse(ctx, first.ShareToken)
	require.NoError(t, err)
	assert.True(t, shared.IsPublic)
	assert.Len(t, shared.Videos, 1)

	_, err = f.svc.GetSharedCourse(ctx, "unknown-token")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTimestampsArePrivateToAuthor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")
	other := f.user(t, "other@example.com")
	course := f.course(t, owner, true)
	video := f.video(t, owner, course.ID)

	late, err := f.svc.CreateTimestamp(ctx, owner, models.CreateTimestampRequest{VideoID: video.ID, TimeSeconds: 90, Label: "late"})
	require.NoError(t, err)
	_, err = f.svc.CreateTimestamp(ctx, owner, models.CreateTimestampRequest{VideoID: video.ID, TimeSeconds: 5.5, Label: "early"})
	require.NoError(t, err)

	list, err := f.svc.ListVideoTimestamps(ctx, owner, video.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "early", list[0].Label)

	list, err = f.svc.ListVideoTimestamps(ctx, other, video.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	label := "changed"
	_, err = f.svc.UpdateTimestamp(ctx, other, late.ID, models.UpdateTimestampRequest{Label: &label})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.svc.DeleteTimestamp(ctx, other, late.ID), ErrNotFound)

	updated, err := f.svc.UpdateTimestamp(ctx, owner, late.ID, models.UpdateTimestampRequest{Label: &label})
	require.NoError(t, err)
	assert.Equal(t, "changed", updated.Label)
	assert.Equal(t, 90.0, updated.TimeSeconds)

	_, err = f.svc.CreateTimestamp(ctx, owner, models.CreateTimestampRequest{VideoID: "missing", Label: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAssist(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")
	course := f.course(t, owner, false)
	video := f.video(t, owner, course.ID)

	resp, err := f.svc.Assist(ctx, owner, models.AssistantRequest{VideoID: video.ID, Question: "What is a goroutine?", RequestType: "Quiz"})
	require.NoError(t, err)
	assert.Equal(t, "generated answer", resp.Response)
	assert.Equal(t, "quiz", resp.Type)
	require.Len(t, f.gen.prompts, 1)
	assert.Contains(t, f.gen.prompts[0], "What is a goroutine?")

	_, err = f.svc.Assist(ctx, owner, models.AssistantRequest{VideoID: video.ID, RequestType: "translate"})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "Unknown request type: translate", err.Error())

	_, err = f.svc.Assist(ctx, owner, models.AssistantRequest{VideoID: "missing", RequestType: "question"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAssistDegradesWhenServiceFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")
	course := f.course(t, owner, false)
	video := f.video(t, owner, course.ID)

	f.gen.err = assistant.ErrNotConfigured
	resp, err := f.svc.Assist(ctx, owner, models.AssistantRequest{VideoID: video.ID, RequestType: "summary"})
	require.NoError(t, err)
	assert.Contains(t, resp.Response, "CLAUDE_API_KEY not configured")

	f.gen.err = errors.New("connection refused")
	summary, err := f.svc.SummarizeVideo(ctx, owner, video.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lesson", summary.Title)
	assert.Contains(t, summary.Summary, "connection refused")
}

func TestAssistWithoutAssistantIsInternalError(t *testing.T) {
	repo := repository.NewMemoryRepository()
	svc := NewDefaultService(repo, Options{JWTSecret: testSecret})
	f := &fixture{svc: svc, repo: repo}

	owner := f.user(t, "owner@example.com")
	course := f.course(t, owner, false)
	video := f.video(t, owner, course.ID)

	_, err := svc.AskAboutVideo(context.Background(), owner, models.AskAboutVideoRequest{VideoID: video.ID, Question: "why?"})
	require.ErrorIs(t, err, ErrAssistant)
	assert.Contains(t, err.Error(), "AI service error")
}
