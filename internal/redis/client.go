package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"vibemusic/internal/logger"
)

// Client is the shared Redis connection pool used by the notification
// stream and the upload restriction flags.
type Client struct {
	*redis.Client
}

// NewClient creates a client from a URL of the form redis://[:password@]host:port[/db].
func NewClient(redisURL string) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	logger.For("redis").WithField("addr", opts.Addr).WithField("db", opts.DB).Info("redis client configured")
	return &Client{Client: redis.NewClient(opts)}, nil
}

// Ping fails fast at startup when Redis is unreachable.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}
