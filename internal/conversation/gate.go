package conversation

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"receptionist-platform/pkg/utils"
)

// CallGate limits how many calls a business may have live at once.
type CallGate interface {
	Acquire(ctx context.Context, businessID string) (bool, error)
	Release(ctx context.Context, businessID string) error
}

// RedisCallGate counts live calls per business in redis. The slot TTL
// bounds leakage: if the process dies mid-call the slot expires on its own.
type RedisCallGate struct {
	rdb   *redis.Client
	limit int
	ttl   time.Duration
}

func NewRedisCallGate(rdb *redis.Client, limit int, ttl time.Duration) *RedisCallGate {
	if limit <= 0 {
		limit = 10
	}
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &RedisCallGate{rdb: rdb, limit: limit, ttl: ttl}
}

func (g *RedisCallGate) Acquire(ctx context.Context, businessID string) (bool, error) {
	return utils.AcquireCallSlot(ctx, g.rdb, slotKey(businessID), g.limit, g.ttl)
}

func (g *RedisCallGate) Release(ctx context.Context, businessID string) error {
	return utils.ReleaseCallSlot(ctx, g.rdb, slotKey(businessID))
}

func slotKey(businessID string) string {
	return "calls:live:" + businessID
}
