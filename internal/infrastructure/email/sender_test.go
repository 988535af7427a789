package email

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/waste3d/coursehub/internal/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendCourseCompleted(t *testing.T) {
	var (
		auth    string
		payload map[string]interface{}
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		auth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &payload)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewEmailSender("SG.key", "noreply@example.com", logger.NewNop()).WithHost(srv.URL)
	err := s.SendCourseCompleted(context.Background(), "ada@example.com", "Ada", "Go basics", "https://lms.example/courses/1")
	require.NoError(t, err)

	assert.Equal(t, "Bearer SG.key", auth)
	assert.Equal(t, "You completed Go basics", payload["subject"])
	from := payload["from"].(map[string]interface{})
	assert.Equal(t, "noreply@example.com", from["email"])
}

func TestSendCourseCompletedReportsHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer srv.Close()

	s := NewEmailSender("SG.bad", "noreply@example.com", logger.NewNop()).WithHost(srv.URL)
	err := s.SendCourseCompleted(context.Background(), "ada@example.com", "Ada", "Go", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=401")
}

func TestDisabledSenderIsNoop(t *testing.T) {
	s := NewEmailSender("", "noreply@example.com", logger.NewNop())
	assert.False(t, s.Enabled())
	assert.NoError(t, s.SendCourseCompleted(context.Background(), "ada@example.com", "Ada", "Go", ""))
}
