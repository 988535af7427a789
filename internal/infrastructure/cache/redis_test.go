package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis integration tests")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestReplayGuardClaimsOnce(t *testing.T) {
	ctx := context.Background()
	g := NewReplayGuard(testClient(t))
	id := "msg_" + uuid.NewString()

	first, err := g.FirstSeen(ctx, id)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := g.FirstSeen(ctx, id)
	require.NoError(t, err)
	assert.False(t, again)

	require.NoError(t, g.Forget(ctx, id))
	first, err = g.FirstSeen(ctx, id)
	require.NoError(t, err)
	assert.True(t, first)
}

func TestReplayGuardWithoutClient(t *testing.T) {
	g := NewReplayGuard(nil)
	first, err := g.FirstSeen(context.Background(), "msg_1")
	require.NoError(t, err)
	assert.True(t, first)
	assert.NoError(t, g.Forget(context.Background(), "msg_1"))
}

func TestReplayGuardUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer client.Close()

	_, err := NewReplayGuard(client).FirstSeen(context.Background(), "msg_1")
	assert.Error(t, err)
}
