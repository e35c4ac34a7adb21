package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/onestoptutor/tutor-server/internal/models"
)

// Course handlers
func (h *Handler) CreateCourse(c *gin.Context) {
	caller, ok := h.identity(c)
	if !ok {
		return
	}

	var req models.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	course, err := h.svc.CreateCourse(c.Request.Context(), caller, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

func (h *Handler) ListCourses(c *gin.Context) {
	caller, ok := h.identity(c)
	if !ok {
		return
	}

	courses, err := h.svc.ListCourses(c.Request.Context(), caller)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

func (h *Handler) GetCourse(c *gin.Context) {
	caller, ok := h.identity(c)
	if !ok {
		return
	}

	detail, err := h.svc.GetCourseDetail(c.Request.Context(), caller, c.Param("course_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *Handler) UpdateCourse(c *gin.Context) {
	caller, ok := h.identity(c)
	if !ok {
		return
	}

	var req models.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	course, err := h.svc.UpdateCourse(c.Request.Context(), caller, c.Param("course_id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

func (h *Handler) DeleteCourse(c *gin.Context) {
	caller, ok := h.identity(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteCourse(c.Request.Context(), caller, c.Param("course_id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Course deleted successfully"})
}

func (h *Handler) GetCourseStats(c *gin.Context) {
	caller, ok := h.identity(c)
	if !ok {
		return
	}

	stats, err := h.svc.GetCourseStats(c.Request.Context(), caller, c.Param("course_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Sharing handlers
func (h *Handler) ShareCourse(c *gin.Context) {
	caller, ok := h.identity(c)
	if !ok {
		return
	}

	share, err := h.svc.ShareCourse(c.Request.Context(), caller, c.Param("course_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, share)
}

func (h *Handler) GetSharedCourse(c *gin.Context) {
	detail, err := h.svc.GetSharedCourse(c.Request.Context(), c.Param("share_token"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Video handlers
func (h *Handler) AddVideo(c *gin.Context) {
	caller, ok := h.identity(c)
	if !ok {
		return
	}

	var req models.CreateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	video, err := h.svc.AddVideo(c.Request.Context(), caller, c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, video)
}

func (h *Handler) ListCourseVideos(c *gin.Context) {
	caller, ok := h.identity(c)
	if !ok {
		return
	}

	videos, err := h.svc.ListCourseVideos(c.Request.Context(), caller, c.Param("course_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, videos)
}

func (h *Handler) UpdateVideo(c *gin.Context) {
	caller, ok := h.identity(c)
	if !ok {
		return
	}

	var req models.UpdateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	video, err := h.svc.UpdateVideo(c.Request.Context(), caller, c.Param("video_id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, video)
}

// ReorderVideo takes new_position from the query string or the JSON body
func (h *Handler) ReorderVideo(c *gin.Context) {
	caller, ok := h.identity(c)
	if !ok {
		return
	}

	var newPosition int
	if raw, present := c.GetQuery("new_position"); present {
		n, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, errors.New("new_position must be an integer"))
			return
		}
		newPosition = n
	} else {
		var req models.ReorderVideoRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		newPosition = *req.NewPosition
	}

	videos, err := h.svc.ReorderVideo(c.Request.Context(), caller, c.Param("id"), newPosition)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ReorderVideoResponse{
		Message: "Video reordered successfully",
		Videos:  videos,
	})
}

func (h *Handler) DeleteVideo(c *gin.Context) {
	caller, ok := h.identity(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteVideo(c.Request.Context(), caller, c.Param("video_id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Video deleted successfully"})
}
