package mq

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"mandi/rdx"

	"github.com/redis/go-redis/v9"
)

// Channel is the Redis pub/sub channel market events are published on.
const Channel = "market-events"

// Event types emitted by the core.
const (
	EventOrderCreated       = "order_created"
	EventOrderPaid          = "order_paid"
	EventOrderStatusChanged = "order_status_changed"
	EventBidPlaced          = "bid_placed"
)

// Event is a domain event handed to the output port. Room selects the
// live-update fan-out target (a product id or a user id).
type Event struct {
	Type     string         `json:"type"`
	EntityID string         `json:"entity_id"`
	UserID   string         `json:"user_id,omitempty"`
	Room     string         `json:"room,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
	At       time.Time      `json:"at"`
}

// Publisher is the injected output port for domain events. The core never
// talks to a transport directly.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// RedisPublisher publishes events to the shared Redis channel.
type RedisPublisher struct {
	conn    *redis.Client
	channel string
}

func NewRedisPublisher() *RedisPublisher {
	return &RedisPublisher{conn: rdx.Conn, channel: Channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.conn.Publish(ctx, p.channel, data).Err()
}

// Emit publishes best-effort; a failed publish never fails the operation
// that produced the event.
func Emit(ctx context.Context, pub Publisher, ev Event) {
	if pub == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	if err := pub.Publish(ctx, ev); err != nil {
		log.Printf("[Emit] Failed to publish %s event: %v", ev.Type, err)
	}
}
