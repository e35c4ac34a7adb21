package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/onestoptutor/tutor-server/internal/models"
)

func (h *Handler) UpdateVideoProgress(c *gin.Context) {
	caller, ok := h.identity(c)
	if !ok {
		return
	}

	var req models.UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	progress, err := h.svc.UpdateVideoProgress(c.Request.Context(), caller, c.Param("video_id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

func (h *Handler) GetVideoProgress(c *gin.Context) {
	caller, ok := h.identity(c)
	if !ok {
		return
	}

	progress, err := h.svc.GetVideoProgress(c.Request.Context(), caller, c.Param("video_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

func (h *Handler) GetCourseProgress(c *gin.Context) {
	caller, ok := h.identity(c)
	if !ok {
		return
	}

	records, err := h.svc.GetCourseProgress(c.Request.Context(), caller, c.Param("course_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// Pomodoro handlers
func (h *Handler) StartPomodoro(c *gin.Context) {
	caller, ok := h.identity(c)
	if !ok {
		return
	}

	var req models.StartPomodoroRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	session, err := h.svc.StartPomodoro(c.Request.Context(), caller, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *Handler) CompletePomodoro(c *gin.Context) {
	caller, ok := h.identity(c)
	if !ok {
		return
	}

	session, err := h.svc.CompletePomodoro(c.Request.Context(), caller, c.Param("session_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *Handler) GetPomodoroStats(c *gin.Context) {
	caller, ok := h.identity(c)
	if !ok {
		return
	}

	stats, err := h.svc.GetPomodoroStats(c.Request.Context(), caller)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Timestamp handlers
func (h *Handler) CreateTimestamp(c *gin.Context) {
	caller, ok := h.identity(c)
	if !ok {
		return
	}

	var req models.CreateTimestampRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ts, err := h.svc.CreateTimestamp(c.Request.Context(), caller, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ts)
}

func (h *Handler) ListVideoTimestamps(c *gin.Context) {
	caller, ok := h.identity(c)
	if !ok {
		return
	}

	timestamps, err := h.svc.ListVideoTimestamps(c.Request.Context(), caller, c.Param("video_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, timestamps)
}

func (h *Handler) UpdateTimestamp(c *gin.Context) {
	caller, ok := h.identity(c)
	if !ok {
		return
	}

	var req models.UpdateTimestampRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ts, err := h.svc.UpdateTimestamp(c.Request.Context(), caller, c.Param("timestamp_id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ts)
}

func (h *Handler) DeleteTimestamp(c *gin.Context) {
	caller, ok := h.identity(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteTimestamp(c.Request.Context(), caller, c.Param("timestamp_id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Timestamp deleted successfully"})
}
