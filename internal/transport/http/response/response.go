package response

import "github.com/gin-gonic/gin"

// Stable machine-readable error codes for client-side branching.
const (
	CodeNotFound    = "NOT_FOUND"
	CodeConflict    = "CONFLICT"
	CodeValidation  = "VALIDATION_ERROR"
	CodeUnsupported = "UNSUPPORTED_CAPABILITY"
	CodeInternal    = "INTERNAL_ERROR"
)

type ErrorBody struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

func Error(c *gin.Context, httpStatus int, code, message string) {
	c.JSON(httpStatus, ErrorEnvelope{
		Error: ErrorBody{
			Code:    code,
			Message: message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, httpStatus int, code, message string, details map[string]interface{}) {
	c.JSON(httpStatus, ErrorEnvelope{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}
