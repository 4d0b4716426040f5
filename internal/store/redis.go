package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"internHubAPI/internal/types/payment"
)

const (
	PaymentEventsChannel = "EVENT_PAYMENT_UPDATED"

	webhookKeyPrefix = "razorpay:webhook:"
	webhookTTL       = 72 * time.Hour
)

// NewRedisClient creates and verifies a Redis client connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return rdb, nil
}

// WebhookDeduper remembers processed webhook deliveries for three days,
// longer than Razorpay keeps retrying.
type WebhookDeduper struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewWebhookDeduper(rdb redis.Cmdable) *WebhookDeduper {
	return &WebhookDeduper{rdb: rdb, ttl: webhookTTL}
}

func (d *WebhookDeduper) IsProcessed(ctx context.Context, key string) (bool, error) {
	n, err := d.rdb.Exists(ctx, webhookKeyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

func (d *WebhookDeduper) MarkProcessed(ctx context.Context, key string) error {
	if err := d.rdb.Set(ctx, webhookKeyPrefix+key, "1", d.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// PaymentPublisher fans payment transitions out on a Redis channel.
type PaymentPublisher struct {
	rdb redis.Cmdable
}

func NewPaymentPublisher(rdb redis.Cmdable) *PaymentPublisher {
	return &PaymentPublisher{rdb: rdb}
}

func (p *PaymentPublisher) PublishPaymentEvent(ctx context.Context, ev payment.Event) error {
	event, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal payment event: %w", err)
	}
	if err := p.rdb.Publish(ctx, PaymentEventsChannel, event).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}
