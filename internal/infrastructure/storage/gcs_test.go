package storage

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/waste3d/coursehub/internal/domain"
	"github.com/waste3d/coursehub/internal/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGCSStoreRequiresBucket(t *testing.T) {
	_, err := NewGCSStore(context.Background(), " ", "", logger.NewNop())
	assert.Error(t, err)
}

func TestGCSStoreEmulatorRoundTrip(t *testing.T) {
	host := strings.TrimSpace(os.Getenv("TEST_GCS_EMULATOR_HOST"))
	if host == "" {
		t.Skip("set TEST_GCS_EMULATOR_HOST to run storage emulator tests")
	}
	ctx := context.Background()
	bucket := fmt.Sprintf("coursehub-it-%d", time.Now().UnixNano())

	store, err := NewGCSStore(ctx, bucket, host, logger.NewNop())
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.client.Bucket(bucket).Create(ctx, "test-project", nil))

	require.NoError(t, store.Put(ctx, "uploads/a.png", "image/png", []byte("png-bytes")))

	data, contentType, err := store.Get(ctx, "uploads/a.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
	assert.Equal(t, "image/png", contentType)

	_, _, err = store.Get(ctx, "uploads/missing.png")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
