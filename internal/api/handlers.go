package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/onestoptutor/tutor-server/internal/models"
	"github.com/onestoptutor/tutor-server/internal/service"
)

// Handler serves the HTTP API on top of a Service
type Handler struct {
	svc       service.Service
	jwtSecret []byte
	logger    *zap.Logger
}

// NewHandler creates a new Handler
func NewHandler(svc service.Service, jwtSecret string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		svc:       svc,
		jwtSecret: []byte(jwtSecret),
		logger:    logger,
	}
}

// SetupRoutes registers every route on router
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.GET("/", h.Root)
	router.GET("/health", h.Health)

	api := router.Group("/api")
	auth := AuthMiddleware(h.jwtSecret)

	users := api.Group("/users")
	{
		users.POST("/register", h.Register)
		users.POST("/login", h.Login)
		users.GET("/me", auth, h.Me)
	}

	// share links are readable without an account
	api.GET("/courses/share/:share_token", h.GetSharedCourse)

	courses := api.Group("/courses", auth)
	{
		courses.POST("/", h.CreateCourse)
		courses.GET("/", h.ListCourses)
		courses.GET("/:course_id", h.GetCourse)
		courses.PATCH("/:course_id", h.UpdateCourse)
		courses.DELETE("/:course_id", h.DeleteCourse)
		courses.GET("/:course_id/progress", h.GetCourseStats)
		courses.POST("/:course_id/share", h.ShareCourse)
	}

	// POST routes share one wildcard name: a course id for add, a video id for reorder
	videos := api.Group("/videos", auth)
	{
		videos.POST("/:id/add", h.AddVideo)
		videos.POST("/:id/reorder", h.ReorderVideo)
		videos.GET("/course/:course_id/list", h.ListCourseVideos)
		videos.PATCH("/:video_id", h.UpdateVideo)
		videos.DELETE("/:video_id", h.DeleteVideo)
	}

	progress := api.Group("/progress", auth)
	{
		progress.POST("/video/:video_id", h.UpdateVideoProgress)
		progress.GET("/video/:video_id", h.GetVideoProgress)
		progress.GET("/course/:course_id", h.GetCourseProgress)
		progress.POST("/pomodoro/start", h.StartPomodoro)
		progress.GET("/pomodoro/stats", h.GetPomodoroStats)
		progress.PATCH("/pomodoro/:session_id", h.CompletePomodoro)
	}

	timestamps := api.Group("/timestamps", auth)
	{
		timestamps.POST("/", h.CreateTimestamp)
		timestamps.GET("/video/:video_id", h.ListVideoTimestamps)
		timestamps.PUT("/:timestamp_id", h.UpdateTimestamp)
		timestamps.DELETE("/:timestamp_id", h.DeleteTimestamp)
	}

	ai := api.Group("/ai", auth)
	{
		ai.POST("/assistant", h.Assist)
		ai.POST("/ask-about-video", h.AskAboutVideo)
		ai.POST("/summarize/:video_id", h.SummarizeVideo)
		ai.GET("/summarize/:video_id", h.SummarizeVideo)
	}
}

// identity returns the caller or aborts with 401
func (h *Handler) identity(c *gin.Context) (models.Identity, bool) {
	id, ok := CurrentIdentity(c)
	if !ok {
		unauthorized(c, "Authentication required")
	}
	return id, ok
}

func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to OneStop Tutor API",
		"version": "1.0.0",
	})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "OneStop Tutor API",
	})
}
