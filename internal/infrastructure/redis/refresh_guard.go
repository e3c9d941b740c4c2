package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Guard deduplicates manual refresh triggers: a UI that fires the refresh
// button repeatedly only forces one cycle per key per TTL.
type Guard struct {
	Client *redis.Client
	TTL    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Guard {
	return &Guard{Client: client, TTL: ttl}
}

func (g *Guard) TryReserve(ctx context.Context, key string) (bool, error) {
	ok, err := g.Client.SetNX(ctx, "refresh:"+key, "1", g.TTL).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}
