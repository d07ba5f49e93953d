package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/PhantomMist/TwitchDropsMiner/internal/common/config"
)

// Client wraps go-redis client to allow future extensions.
type Client struct {
	*redis.Client
}

// Open creates a new Redis client from config and pings it to validate the
// connection.
func Open(ctx context.Context, cfg *config.Config) (*Client, error) {
	if cfg.Redis.Host == "" {
		return nil, fmt.Errorf("empty redis host")
	}
	c := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return &Client{Client: c}, nil
}
