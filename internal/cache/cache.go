package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/rsilvagit/hh-export/internal/region"
)

const areasKey = "hhexport:areas"

// Cache keeps the area tree in Redis so the directory survives restarts
// without another round trip to the API.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis at the given URL and returns a Cache.
// URL format: redis://localhost:6379
func New(redisURL string, ttl time.Duration) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("cache: invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("cache: redis ping failed: %w", err)
	}

	return &Cache{client: client, ttl: ttl}, nil
}

// GetAreas returns the cached tree and true if a valid entry exists.
func (c *Cache) GetAreas(ctx context.Context) ([]region.Node, bool) {
	data, err := c.client.Get(ctx, areasKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Debug().Err(err).Msg("cache: get areas")
		}
		return nil, false
	}

	var nodes []region.Node
	if err := json.Unmarshal(data, &nodes); err != nil {
		log.Warn().Err(err).Msg("cache: corrupt areas entry")
		return nil, false
	}

	return nodes, true
}

// SetAreas stores the tree with the configured TTL.
func (c *Cache) SetAreas(ctx context.Context, nodes []region.Node) error {
	data, err := json.Marshal(nodes)
	if err != nil {
		return fmt.Errorf("cache: marshal error: %w", err)
	}

	return c.client.Set(ctx, areasKey, data, c.ttl).Err()
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}
