package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/onestoptutor/tutor-server/internal/models"
	"github.com/onestoptutor/tutor-server/internal/service"
)

var errorKinds = []struct {
	kind   error
	status int
	code   string
}{
	{service.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{service.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{service.ErrInvalidInput, http.StatusBadRequest, "INVALID_REQUEST"},
	{service.ErrConflict, http.StatusConflict, "CONFLICT"},
	{service.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
	{service.ErrAssistant, http.StatusInternalServerError, "AI_SERVICE_ERROR"},
}

// respondError writes err as an ErrorResponse. Errors of no known kind are
// logged and reported without their detail.
func (h *Handler) respondError(c *gin.Context, err error) {
	for _, k := range errorKinds {
		if errors.Is(err, k.kind) {
			c.JSON(k.status, models.ErrorResponse{Status: "error", Code: k.code, Message: err.Error()})
			return
		}
	}

	h.logger.Error("Request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Status:  "error",
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
	})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Status:  "error",
		Code:    "INVALID_REQUEST",
		Message: err.Error(),
	})
}
