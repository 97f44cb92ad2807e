package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pageza/nutriplan/backend/config"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient creates a new Redis client. REDIS_URL takes precedence over
// host and port.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}

	if cfg.RedisURL != "" {
		parsedOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		opts = parsedOpts
	}

	if opts.Addr == ":" {
		return nil, fmt.Errorf("no Redis address configured")
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Printf("[Redis] connected to %s", opts.Addr)
	return client, nil
}
