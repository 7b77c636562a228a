package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salon-backend/internal/apperror"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func APIResponse(c *gin.Context, code int, success bool, message string, data interface{}) {
	c.JSON(code, Response{
		Success: success,
		Message: message,
		Data:    data,
	})
}

// StatusCode maps an error kind onto its HTTP status.
func StatusCode(err error) int {
	switch apperror.KindOf(err) {
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindAuthorization:
		return http.StatusForbidden
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse writes err with the status of its kind. The error is also
// attached to the gin context for the access log.
func ErrorResponse(c *gin.Context, err error) {
	_ = c.Error(err)
	APIResponse(c, StatusCode(err), false, apperror.Message(err), nil)
}
