// Package cache provides a Redis read-through cache for event lookups.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mbakare/eventchain/internal/domain"
)

// EventCache caches event projections by id. The cache is best effort: a nil
// client or any Redis failure degrades to a miss, never to a request error.
type EventCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewEventCache(client *redis.Client, ttl time.Duration) *EventCache {
	return &EventCache{client: client, ttl: ttl}
}

func (c *EventCache) Get(ctx context.Context, id int64) (*domain.Event, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, eventKey(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var event domain.Event
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, false
	}
	return &event, true
}

func (c *EventCache) Put(ctx context.Context, event domain.Event) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(event)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, eventKey(event.ID), raw, c.ttl).Err()
}

// Invalidate drops the cached projection after any mutation of the event.
func (c *EventCache) Invalidate(ctx context.Context, id int64) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, eventKey(id)).Err()
}

func eventKey(id int64) string {
	return fmt.Sprintf("eventchain:event:%d", id)
}
