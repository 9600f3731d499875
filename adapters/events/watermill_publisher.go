package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/layer-3/walletauth/ports"
)

const (
	TopicSessionIssued = "walletauth.session_issued"
	TopicLogout        = "walletauth.logout"
)

// SessionEvent is the payload of every session lifecycle event
type SessionEvent struct {
	Address    string    `json:"address"`
	Scheme     string    `json:"scheme,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill
type WatermillPublisher struct {
	publisher message.Publisher
	clock     clock.Clock
}

// NewWatermillPublisher creates a new Watermill publisher
func NewWatermillPublisher(publisher message.Publisher, clk clock.Clock) ports.EventPublisher {
	if clk == nil {
		clk = clock.New()
	}

	return &WatermillPublisher{
		publisher: publisher,
		clock:     clk,
	}
}

// PublishSessionIssued publishes a session issued event
func (p *WatermillPublisher) PublishSessionIssued(ctx context.Context, address string, scheme string) error {
	return p.publish(ctx, TopicSessionIssued, SessionEvent{
		Address:    address,
		Scheme:     scheme,
		OccurredAt: p.clock.Now().UTC(),
	})
}

// PublishLogout publishes a logout event
func (p *WatermillPublisher) PublishLogout(ctx context.Context, address string) error {
	return p.publish(ctx, TopicLogout, SessionEvent{
		Address:    address,
		OccurredAt: p.clock.Now().UTC(),
	})
}

func (p *WatermillPublisher) publish(ctx context.Context, topic string, event SessionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(uuid.NewString(), payload)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// NopPublisher discards events
type NopPublisher struct{}

func (NopPublisher) PublishSessionIssued(context.Context, string, string) error { return nil }
func (NopPublisher) PublishLogout(context.Context, string) error                { return nil }
