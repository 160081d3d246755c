package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"convobase/internal/ai"
	"convobase/internal/app"
	"convobase/internal/platform/logger"
	"convobase/internal/transport/http/response"
)

// writeServiceError maps service-layer errors to the structured error body.
// NotFound/Conflict/Validation report their precise cause; anything else is
// logged in full and reported generically so internal detail never leaks.
func writeServiceError(c *gin.Context, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, err.Error())
	case errors.Is(err, app.ErrUserNotFound),
		errors.Is(err, app.ErrConversationNotFound),
		errors.Is(err, app.ErrDocumentNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
	case errors.Is(err, app.ErrEmailExists),
		errors.Is(err, app.ErrDuplicateLink):
		response.Error(c, http.StatusConflict, response.CodeConflict, err.Error())
	case errors.Is(err, ai.ErrUnsupportedProvider):
		response.Error(c, http.StatusNotImplemented, response.CodeUnsupported, err.Error())
	default:
		if log != nil {
			log.Error("request failed", "path", c.FullPath(), "error", err)
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "an unexpected error occurred")
	}
}
