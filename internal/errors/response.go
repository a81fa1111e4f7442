package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error body
type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable code (codes.go)
	Message string `json:"message"` // human-readable fallback
}

// RespondWithError writes a structured error response
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// Shorthand helpers for the common cases

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "An internal error occurred, please try again later"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// FromDBError classifies a storage error via ParseError and writes the
// matching response. For errors a controller has no sentinel for.
func FromDBError(c *gin.Context, err error, context string) {
	info := ParseError(err, context)

	status := http.StatusInternalServerError
	switch info.Code {
	case ResourceNotFound:
		status = http.StatusNotFound
	case ResourceAlreadyExists, ResourceConflict, AuthEmailExists, AuthUsernameExists, WishlistItemDuplicate:
		status = http.StatusConflict
	case ValidationRequired:
		status = http.StatusBadRequest
	}
	RespondWithError(c, status, info.Code, info.Message)
}

// ValidationError carries per-field binding failures
type ValidationError struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func RespondWithValidationError(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, ValidationError{
		Error:   ValidationInvalidInput,
		Message: "Invalid input",
		Fields:  fields,
	})
}
