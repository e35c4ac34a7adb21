package models

import "time"

// Request models
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateCourseRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	IsPublic    bool    `json:"is_public"`
}

// UpdateCourseRequest applies only the fields that are present
type UpdateCourseRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"is_public"`
}

type CreateVideoRequest struct {
	YouTubeURL  string  `json:"youtube_url" binding:"required"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type UpdateVideoRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1"`
	Description *string `json:"description"`
}

type ReorderVideoRequest struct {
	NewPosition *int `json:"new_position" form:"new_position" binding:"required"`
}

type UpdateProgressRequest struct {
	LastTimestamp *int  `json:"last_timestamp" binding:"omitempty,min=0"`
	Completed     *bool `json:"completed"`
}

type StartPomodoroRequest struct {
	Duration int `json:"duration" binding:"required,gt=0"`
}

type CreateTimestampRequest struct {
	VideoID     string  `json:"video_id" binding:"required"`
	TimeSeconds float64 `json:"time_seconds" binding:"min=0"`
	Label       string  `json:"label" binding:"required"`
	Note        *string `json:"note"`
}

type UpdateTimestampRequest struct {
	TimeSeconds *float64 `json:"time_seconds" binding:"omitempty,min=0"`
	Label       *string  `json:"label" binding:"omitempty,min=1"`
	Note        *string  `json:"note"`
}

type AssistantRequest struct {
	VideoID     string  `json:"video_id" binding:"required"`
	Question    string  `json:"question"`
	Context     *string `json:"context"`
	RequestType string  `json:"request_type" binding:"required"`
}

type AskAboutVideoRequest struct {
	VideoID  string `json:"video_id" form:"video_id" binding:"required"`
	Question string `json:"question" form:"question" binding:"required"`
}

// Response models
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int          `json:"expires_in"`
	User        UserResponse `json:"user"`
}

type CourseDetailResponse struct {
	Course
	Videos []Video `json:"videos"`
}

type CourseProgressResponse struct {
	CourseID           string  `json:"course_id"`
	TotalVideos        int     `json:"total_videos"`
	CompletedVideos    int     `json:"completed_videos"`
	ProgressPercentage float64 `json:"progress_percentage"`
	RemainingVideos    int     `json:"remaining_videos"`
}

type CourseProgressRecordsResponse struct {
	CourseID string          `json:"course_id"`
	Progress []VideoProgress `json:"progress"`
}

type ShareResponse struct {
	ShareToken string `json:"share_token"`
	ShareURL   string `json:"share_url"`
}

type AssistantResponse struct {
	Response string `json:"response"`
	Type     string `json:"type"`
}

type AskAboutVideoResponse struct {
	VideoID  string `json:"video_id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type SummaryResponse struct {
	VideoID string `json:"video_id"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

type ReorderVideoResponse struct {
	Message string  `json:"message"`
	Videos  []Video `json:"videos"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
