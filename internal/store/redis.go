// Package store wraps the Redis client with the primitives the trend pipeline
// needs: lazily-expiring counters, sorted-set ranking operations, bounded list
// pushes and the detection lease. Every operation is individually atomic at the
// store level; callers must tolerate stale reads between operations.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Member is a sorted-set member together with its score.
type Member struct {
	Member string
	Score  float64
}

// Redis is the shared-store client used by all pipeline components.
type Redis struct {
	client *redis.Client
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, addr, password string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     100,
		MinIdleConns: 10,
		MaxRetries:   3,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Redis{client: client}, nil
}

// Client exposes the underlying go-redis client for stream consumers.
func (r *Redis) Client() *redis.Client {
	return r.client
}

// Close closes the connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Ping checks Redis availability.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// IncrWithTTLOnCreate increments a counter and sets its TTL only if the key has
// no expiry yet. The TTL is deliberately not refreshed on later increments, so
// the counter approximates a rolling window.
func (r *Redis) IncrWithTTLOnCreate(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	n, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	d, err := r.client.TTL(ctx, key).Result()
	if err != nil {
		return n, err
	}
	// Negative TTL: key exists without expiry, or vanished between the calls.
	if d < 0 {
		if err := r.client.Expire(ctx, key, ttl).Err(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// ZIncrBy increments a member's score in a sorted set.
func (r *Redis) ZIncrBy(ctx context.Context, key, member string, delta float64) error {
	return r.client.ZIncrBy(ctx, key, delta, member).Err()
}

// ZAddScore adds a member with the given score, replacing any previous score.
func (r *Redis) ZAddScore(ctx context.Context, key, member string, score float64) error {
	return r.client.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Err()
}

// ZScore returns a member's score and whether the member exists.
func (r *Redis) ZScore(ctx context.Context, key, member string) (float64, bool, error) {
	score, err := r.client.ZScore(ctx, key, member).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return score, true, nil
}

// ZCard returns the cardinality of a sorted set.
func (r *Redis) ZCard(ctx context.Context, key string) (int64, error) {
	return r.client.ZCard(ctx, key).Result()
}

// ZCount counts members with scores in [min, max].
func (r *Redis) ZCount(ctx context.Context, key string, min, max float64) (int64, error) {
	return r.client.ZCount(ctx, key,
		fmt.Sprintf("%f", min), fmt.Sprintf("%f", max)).Result()
}

// ZRangeByScoreMin returns members with score >= min.
func (r *Redis) ZRangeByScoreMin(ctx context.Context, key string, min float64) ([]string, error) {
	return r.client.ZRangeByScore(ctx, key, &redis.ZRangeBy{
		Min: fmt.Sprintf("%f", min),
		Max: "+inf",
	}).Result()
}

// ZRevRangeWithScores returns the highest-scoring members in rank range [start, stop].
func (r *Redis) ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) ([]Member, error) {
	zs, err := r.client.ZRevRangeWithScores(ctx, key, start, stop).Result()
	if err != nil {
		return nil, err
	}
	members := make([]Member, 0, len(zs))
	for _, z := range zs {
		m, ok := z.Member.(string)
		if !ok {
			continue
		}
		members = append(members, Member{Member: m, Score: z.Score})
	}
	return members, nil
}

// ZRemRangeByScore removes members with scores in (-inf, max] and returns how
// many were removed.
func (r *Redis) ZRemRangeByScore(ctx context.Context, key string, max float64) (int64, error) {
	return r.client.ZRemRangeByScore(ctx, key, "-inf", fmt.Sprintf("%f", max)).Result()
}

// ZRemRangeByRank removes members in rank range [start, stop] (lowest scores
// first) and returns how many were removed.
func (r *Redis) ZRemRangeByRank(ctx context.Context, key string, start, stop int64) (int64, error) {
	return r.client.ZRemRangeByRank(ctx, key, start, stop).Result()
}

// HMGet reads multiple hash fields. Missing fields map to empty strings and are
// omitted from the result.
func (r *Redis) HMGet(ctx context.Context, key string, fields []string) (map[string]string, error) {
	if len(fields) == 0 {
		return map[string]string{}, nil
	}
	vals, err := r.client.HMGet(ctx, key, fields...).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(fields))
	for i, v := range vals {
		if s, ok := v.(string); ok {
			out[fields[i]] = s
		}
	}
	return out, nil
}

// HSetMap writes multiple hash fields at once.
func (r *Redis) HSetMap(ctx context.Context, key string, kv map[string]string) error {
	if len(kv) == 0 {
		return nil
	}
	args := make(map[string]interface{}, len(kv))
	for k, v := range kv {
		args[k] = v
	}
	return r.client.HSet(ctx, key, args).Err()
}

// LPushTrimExpire pushes a value to the front of a list, truncates the list to
// keep entries and refreshes its TTL, all in one round-trip.
func (r *Redis) LPushTrimExpire(ctx context.Context, key, value string, keep int64, ttl time.Duration) error {
	pipe := r.client.Pipeline()
	pipe.LPush(ctx, key, value)
	pipe.LTrim(ctx, key, 0, keep-1)
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// LRange returns the list entries in [start, stop], newest first.
func (r *Redis) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return r.client.LRange(ctx, key, start, stop).Result()
}

// SMembers returns all members of a set.
func (r *Redis) SMembers(ctx context.Context, key string) ([]string, error) {
	return r.client.SMembers(ctx, key).Result()
}

// GetString reads a string key, reporting whether it exists.
func (r *Redis) GetString(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// SetString writes a string key with a TTL.
func (r *Redis) SetString(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// XAdd appends a record to a stream.
func (r *Redis) XAdd(ctx context.Context, stream string, values map[string]interface{}) error {
	return r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: values,
	}).Err()
}
