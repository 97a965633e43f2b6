// Package response writes JSON bodies and maps application errors to HTTP status codes.
package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskhub_backend/internal/shared/apperr"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the body of requests that only confirm an action.
type MessageResponse struct {
	Message string `json:"message"`
}

// StatusCode returns the HTTP status for err based on its kind.
func StatusCode(err error) int {
	switch apperr.Kind(err) {
	case apperr.ErrUnauthorized:
		return http.StatusUnauthorized
	case apperr.ErrForbidden:
		return http.StatusForbidden
	case apperr.ErrNotFound:
		return http.StatusNotFound
	case apperr.ErrBadRequest:
		return http.StatusBadRequest
	case apperr.ErrUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as a JSON error response.
// Unclassified errors are logged and hidden behind a generic message.
func Error(c *gin.Context, err error) {
	status := StatusCode(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err, "path", c.FullPath(), "method", c.Request.Method)
		c.JSON(status, ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(status, ErrorResponse{Error: message(err)})
}

// Abort writes err like Error and stops the handler chain.
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

// BadRequest writes a 400 with the given message.
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

// message returns the message of the outermost sentinel in err's chain,
// so wrapping context added for logs does not leak to clients.
func message(err error) string {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr.Msg
	}
	return err.Error()
}
