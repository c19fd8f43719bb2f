package redisclient

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"vendor-service/internal/models"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewClient creates a new Redis client; ttl bounds how long idempotency keys live
func NewClient(addr, password string, db int, ttl time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewFromRedis(rdb, ttl), nil
}

// NewFromRedis wraps an existing connection
func NewFromRedis(rdb *redis.Client, ttl time.Duration) *Client {
	return &Client{rdb: rdb, ttl: ttl}
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping checks the Redis connection
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func idempotencyKey(scope, key string) string {
	return fmt.Sprintf("idempotency:%s:%s", scope, key)
}

// pendingValue marks a key whose create has not finished yet
const pendingValue = "pending"

// ReserveIdempotencyKey claims key in scope before a create runs. If another
// request got there first it returns the id that request recorded, or
// models.ErrRequestInProgress while that request is still running.
func (c *Client) ReserveIdempotencyKey(ctx context.Context, scope, key string) (int64, bool, error) {
	k := idempotencyKey(scope, key)

	// a second round covers the key expiring between SETNX and GET
	for attempt := 0; attempt < 2; attempt++ {
		reserved, err := c.rdb.SetNX(ctx, k, pendingValue, c.ttl).Result()
		if err != nil {
			return 0, false, err
		}
		if reserved {
			return 0, true, nil
		}

		val, err := c.rdb.Get(ctx, k).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return 0, false, err
		}
		if val == pendingValue {
			return 0, false, models.ErrRequestInProgress
		}

		id, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return 0, false, fmt.Errorf("corrupt idempotency value %q: %w", val, err)
		}
		return id, false, nil
	}
	return 0, false, models.ErrRequestInProgress
}

// CompleteIdempotencyKey records the id created under a reserved key
func (c *Client) CompleteIdempotencyKey(ctx context.Context, scope, key string, id int64) error {
	return c.rdb.Set(ctx, idempotencyKey(scope, key), id, c.ttl).Err()
}

// ReleaseIdempotencyKey frees a reserved key after a failed create so the client can retry
func (c *Client) ReleaseIdempotencyKey(ctx context.Context, scope, key string) error {
	return c.rdb.Del(ctx, idempotencyKey(scope, key)).Err()
}
