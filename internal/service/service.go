package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/onestoptutor/tutor-server/internal/assistant"
	"github.com/onestoptutor/tutor-server/internal/models"
	"github.com/onestoptutor/tutor-server/internal/repository"
	"github.com/onestoptutor/tutor-server/internal/youtube"
)

// Service defines all the business logic operations
type Service interface {
	// Users
	Register(ctx context.Context, req models.RegisterRequest) (*models.UserResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.TokenResponse, error)
	GetCurrentUser(ctx context.Context, caller models.Identity) (*models.UserResponse, error)

	// Courses
	CreateCourse(ctx context.Context, caller models.Identity, req models.CreateCourseRequest) (*models.Course, error)
	ListCourses(ctx context.Context, caller models.Identity) ([]models.Course, error)
	GetCourseDetail(ctx context.Context, caller models.Identity, courseID string) (*models.CourseDetailResponse, error)
	UpdateCourse(ctx context.Context, caller models.Identity, courseID string, req models.UpdateCourseRequest) (*models.Course, error)
	DeleteCourse(ctx context.Context, caller models.Identity, courseID string) error
	GetCourseStats(ctx context.Context, caller models.Identity, courseID string) (*models.CourseProgressResponse, error)

	// Sharing
	ShareCourse(ctx context.Context, caller models.Identity, courseID string) (*models.ShareResponse, error)
	GetSharedCourse(ctx context.Context, token string) (*models.CourseDetailResponse, error)

	// Videos
	AddVideo(ctx context.Context, caller models.Identity, courseID string, req models.CreateVideoRequest) (*models.Video, error)
	ListCourseVideos(ctx context.Context, caller models.Identity, courseID string) ([]models.Video, error)
	UpdateVideo(ctx context.Context, caller models.Identity, videoID string, req models.UpdateVideoRequest) (*models.Video, error)
	ReorderVideo(ctx context.Context, caller models.Identity, videoID string, newPosition int) ([]models.Video, error)
	DeleteVideo(ctx context.Context, caller models.Identity, videoID string) error

	// Progress
	UpdateVideoProgress(ctx context.Context, caller models.Identity, videoID string, req models.UpdateProgressRequest) (*models.VideoProgress, error)
	GetVideoProgress(ctx context.Context, caller models.Identity, videoID string) (*models.VideoProgress, error)
	GetCourseProgress(ctx context.Context, caller models.Identity, courseID string) (*models.CourseProgressRecordsResponse, error)
	StartPomodoro(ctx context.Context, caller models.Identity, req models.StartPomodoroRequest) (*models.PomodoroSession, error)
	CompletePomodoro(ctx context.Context, caller models.Identity, sessionID string) (*models.PomodoroSession, error)
	GetPomodoroStats(ctx context.Context, caller models.Identity) (*models.PomodoroStats, error)

	// Timestamps
	CreateTimestamp(ctx context.Context, caller models.Identity, req models.CreateTimestampRequest) (*models.Timestamp, error)
	ListVideoTimestamps(ctx context.Context, caller models.Identity, videoID string) ([]models.Timestamp, error)
	UpdateTimestamp(ctx context.Context, caller models.Identity, timestampID string, req models.UpdateTimestampRequest) (*models.Timestamp, error)
	DeleteTimestamp(ctx context.Context, caller models.Identity, timestampID string) error

	// Learning assistant
	Assist(ctx context.Context, caller models.Identity, req models.AssistantRequest) (*models.AssistantResponse, error)
	AskAboutVideo(ctx context.Context, caller models.Identity, req models.AskAboutVideoRequest) (*models.AskAboutVideoResponse, error)
	SummarizeVideo(ctx context.Context, caller models.Identity, videoID string) (*models.SummaryResponse, error)
}

// Options carries the collaborators of DefaultService
type Options struct {
	JWTSecret     string
	TokenDuration time.Duration
	Metadata      youtube.MetadataFetcher
	Assistant     *assistant.Assistant
	Logger        *zap.Logger
}

// DefaultService implements the Service interface
type DefaultService struct {
	repo          repository.Repository
	jwtSecret     []byte
	tokenDuration time.Duration
	metadata      youtube.MetadataFetcher
	assistant     *assistant.Assistant
	logger        *zap.Logger
}

// NewDefaultService creates a new DefaultService
func NewDefaultService(repo repository.Repository, opts Options) Service {
	if opts.TokenDuration <= 0 {
		opts.TokenDuration = 24 * time.Hour // 24 hours token validity
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &DefaultService{
		repo:          repo,
		jwtSecret:     []byte(opts.JWTSecret),
		tokenDuration: opts.TokenDuration,
		metadata:      opts.Metadata,
		assistant:     opts.Assistant,
		logger:        opts.Logger,
	}
}
