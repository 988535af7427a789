package response

import (
	"errors"
	"net/http"

	"github.com/waste3d/coursehub/internal/domain"

	"github.com/gin-gonic/gin"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// Status maps an error to its HTTP status and machine readable code.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusUnprocessableEntity, "invalid_state"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	}
	return http.StatusInternalServerError, "internal_error"
}

// Error writes err in the error envelope. Unclassified errors are reported
// without their details.
func Error(c *gin.Context, err error) {
	status, code := Status(err)
	msg := "internal server error"
	if status != http.StatusInternalServerError {
		msg = domain.Message(err)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}

// BadRequest reports a malformed request body or parameter.
func BadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorEnvelope{Error: APIError{Message: msg, Code: "validation_error"}})
}

func OK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func Created(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
