package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	ChannelLifecycleEvents = "lifecycle_events"
)

// Lifecycle event types. Emitted post-commit by the owning manager, consumed
// by the notification collaborator and the back-office websocket feed.
const (
	EventAdCreated             = "ad_created"
	EventAdUpdated             = "ad_updated"
	EventAdStatusChanged       = "ad_status_changed"
	EventAdDeleted             = "ad_deleted"
	EventSubscriptionActivated = "subscription_activated"
	EventSubscriptionCancelled = "subscription_cancelled"
	EventSubscriptionExpired   = "subscription_expired"
	EventPaymentFailed         = "payment_failed"
)

// LifecycleMessage describes one domain state change.
type LifecycleMessage struct {
	Type           string `json:"type"`
	AgencyID       int64  `json:"agency_id"`
	AdID           int64  `json:"ad_id,omitempty"`
	SubscriptionID int64  `json:"subscription_id,omitempty"`
	Status         string `json:"status,omitempty"`
	Message        string `json:"message,omitempty"`
	At             string `json:"at"`
}

// Publisher publishes lifecycle events to Redis.
type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// Publish sends the event. Callers fire after commit and must treat failures
// as non-fatal: a lost notification never rolls back the domain mutation.
func (p *Publisher) Publish(ctx context.Context, msg *LifecycleMessage) error {
	if msg.At == "" {
		msg.At = time.Now().UTC().Format(time.RFC3339)
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal lifecycle message: %w", err)
	}

	return p.client.Publish(ctx, ChannelLifecycleEvents, data).Err()
}

// Subscriber consumes lifecycle events from Redis.
type Subscriber struct {
	client *redis.Client
}

func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe blocks, invoking handler per event until ctx is done.
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*LifecycleMessage)) error {
	pubsub := s.client.Subscribe(ctx, ChannelLifecycleEvents)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var event LifecycleMessage
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue // skip malformed payloads
			}

			handler(&event)
		}
	}
}
