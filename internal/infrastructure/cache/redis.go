package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const replayTTL = 24 * time.Hour

// ReplayGuard remembers webhook delivery ids so a redelivered event is
// applied once.
type ReplayGuard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewReplayGuard(client *redis.Client) *ReplayGuard {
	return &ReplayGuard{client: client, ttl: replayTTL}
}

// FirstSeen claims id and reports whether nobody claimed it before. Without a
// client every id counts as new.
func (g *ReplayGuard) FirstSeen(ctx context.Context, id string) (bool, error) {
	if g == nil || g.client == nil {
		return true, nil
	}
	return g.client.SetNX(ctx, "webhook_delivery:"+id, 1, g.ttl).Result()
}

// Forget releases id so a failed delivery can be retried by the sender.
func (g *ReplayGuard) Forget(ctx context.Context, id string) error {
	if g == nil || g.client == nil {
		return nil
	}
	return g.client.Del(ctx, "webhook_delivery:"+id).Err()
}
