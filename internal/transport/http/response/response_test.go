package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/waste3d/coursehub/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrNoSession, http.StatusUnauthorized, "unauthorized"},
		{domain.ErrAdminOnly, http.StatusForbidden, "forbidden"},
		{domain.ErrCourseNotFound, http.StatusNotFound, "not_found"},
		{domain.ErrCourseNotEnrollable, http.StatusUnprocessableEntity, "invalid_state"},
		{domain.ErrAlreadyEnrolled, http.StatusConflict, "conflict"},
		{domain.Validation("x", "bad"), http.StatusBadRequest, "validation_error"},
		{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		status, code := Status(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}

func TestErrorEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Error(c, domain.ErrAlreadyEnrolled)

	assert.Equal(t, http.StatusConflict, w.Code)
	var body ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "already enrolled", body.Error.Message)
	assert.Equal(t, "conflict", body.Error.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	Error(c, errors.New("pq: connection refused"))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body.Error.Message)
}
