package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RestrictionKeyPrefix is the key prefix for per-user upload restriction flags.
const RestrictionKeyPrefix = "upload_restricted:user:"

// RestrictionCache stores upload restriction flags that expire on their own.
type RestrictionCache interface {
	// Remaining returns the time left on the user's restriction, or false when none is active.
	Remaining(ctx context.Context, userID int64) (time.Duration, bool, error)

	// Restrict sets the flag for ttl, replacing any existing one.
	Restrict(ctx context.Context, userID int64, ttl time.Duration) error
}

type redisRestrictionCache struct {
	client *redis.Client
}

func NewRestrictionCache(client *redis.Client) RestrictionCache {
	return &redisRestrictionCache{client: client}
}

func restrictionKey(userID int64) string {
	return RestrictionKeyPrefix + strconv.FormatInt(userID, 10)
}

func (c *redisRestrictionCache) Remaining(ctx context.Context, userID int64) (time.Duration, bool, error) {
	ttl, err := c.client.PTTL(ctx, restrictionKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("pttl restriction: %w", err)
	}

	// -2: key missing. -1: key without expiry, treated as missing since every
	// flag is written with a TTL.
	if ttl <= 0 {
		return 0, false, nil
	}
	return ttl, true, nil
}

func (c *redisRestrictionCache) Restrict(ctx context.Context, userID int64, ttl time.Duration) error {
	if err := c.client.Set(ctx, restrictionKey(userID), time.Now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("set restriction: %w", err)
	}
	return nil
}
