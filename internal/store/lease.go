package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lease key only when it still holds the caller's
// token, so an expired lease re-acquired by another instance is never released
// by the old holder.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// AcquireLease attempts to take the named lease with an opaque owner token.
// Returns false without error when another instance holds it.
func (r *Redis) AcquireLease(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	return r.client.SetNX(ctx, key, token, ttl).Result()
}

// ReleaseLease releases the lease if it is still owned by token.
func (r *Redis) ReleaseLease(ctx context.Context, key, token string) error {
	return releaseScript.Run(ctx, r.client, []string{key}, token).Err()
}
