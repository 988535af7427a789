package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	got := sanitizeKVs([]interface{}{
		"user_id", "u1",
		"access_token", "abc.def.ghi",
		"Webhook-Signature", "v1,xyz",
		"dangling",
	})
	assert.Equal(t, []interface{}{
		"user_id", "u1",
		"access_token", "[REDACTED]",
		"Webhook-Signature", "[REDACTED]",
		"dangling",
	}, got)
}

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"dev", "prod", "test"} {
		l, err := New(mode)
		require.NoError(t, err, mode)
		require.NotNil(t, l.SugaredLogger)
		l.With("mode", mode).Debug("ok")
	}
}
