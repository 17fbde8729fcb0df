package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ticket-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

const ticketKeyPrefix = "ticket:"

// TicketCache keeps JSON snapshots of tickets in Redis.
type TicketCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTicketCache(client *redis.Client, ttl time.Duration) *TicketCache {
	return &TicketCache{client: client, ttl: ttl}
}

func ticketKey(id string) string {
	return ticketKeyPrefix + id
}

// Get returns (nil, nil) on a cache miss.
func (c *TicketCache) Get(ctx context.Context, id string) (*models.Ticket, error) {
	val, err := c.client.Get(ctx, ticketKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %s: %w", id, err)
	}

	var t models.Ticket
	if err := json.Unmarshal([]byte(val), &t); err != nil {
		return nil, fmt.Errorf("cache decode %s: %w", id, err)
	}
	return &t, nil
}

func (c *TicketCache) Set(ctx context.Context, t *models.Ticket) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", t.ID, err)
	}
	if err := c.client.Set(ctx, ticketKey(t.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", t.ID, err)
	}
	return nil
}

func (c *TicketCache) Invalidate(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, ticketKey(id)).Err(); err != nil {
		return fmt.Errorf("cache invalidate %s: %w", id, err)
	}
	return nil
}
