package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/onestoptutor/tutor-server/internal/models"
)

// Assist answers with 200 even when the text-generation service is down;
// the failure is described in the response text.
func (h *Handler) Assist(c *gin.Context) {
	caller, ok := h.identity(c)
	if !ok {
		return
	}

	var req models.AssistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.svc.Assist(c.Request.Context(), caller, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AskAboutVideo reads video_id and question from the query string when
// present, from the JSON body otherwise.
func (h *Handler) AskAboutVideo(c *gin.Context) {
	caller, ok := h.identity(c)
	if !ok {
		return
	}

	var req models.AskAboutVideoRequest
	var err error
	if _, present := c.GetQuery("video_id"); present {
		err = c.ShouldBindQuery(&req)
	} else {
		err = c.ShouldBindJSON(&req)
	}
	if err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.svc.AskAboutVideo(c.Request.Context(), caller, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) SummarizeVideo(c *gin.Context) {
	caller, ok := h.identity(c)
	if !ok {
		return
	}

	resp, err := h.svc.SummarizeVideo(c.Request.Context(), caller, c.Param("video_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
