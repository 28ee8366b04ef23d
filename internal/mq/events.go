package mq

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// Channels events are published to.
const (
	ChannelListings = "listings"
	ChannelMessages = "messages"
)

// Event types.
const (
	EventCarCreated  = "car.created"
	EventCarDeleted  = "car.deleted"
	EventMessageSent = "message.sent"
)

// Event is the JSON envelope for marketplace lifecycle events.
type Event struct {
	Type       string    `json:"type"`
	CarID      int       `json:"car_id,omitempty"`
	MessageID  int       `json:"message_id,omitempty"`
	UserID     int       `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher emits marketplace events. A nil Publisher is a no-op, so
// callers never have to branch on whether a broker is configured.
// Publishing is best-effort: failures are logged and never surfaced to
// the request that triggered them.
type Publisher struct {
	mq     *MQ
	logger *zap.Logger
}

// NewPublisher constructs a Publisher over the given MQ.
func NewPublisher(m *MQ, logger *zap.Logger) *Publisher {
	return &Publisher{mq: m, logger: logger}
}

// CarCreated announces a new listing.
func (p *Publisher) CarCreated(ctx context.Context, carID, userID int) {
	p.publish(ctx, ChannelListings, Event{Type: EventCarCreated, CarID: carID, UserID: userID})
}

// CarDeleted announces a removed listing.
func (p *Publisher) CarDeleted(ctx context.Context, carID, userID int) {
	p.publish(ctx, ChannelListings, Event{Type: EventCarDeleted, CarID: carID, UserID: userID})
}

// MessageSent announces a new buyer/seller message, addressed to the
// receiver.
func (p *Publisher) MessageSent(ctx context.Context, messageID, carID, receiverID int) {
	p.publish(ctx, ChannelMessages, Event{Type: EventMessageSent, MessageID: messageID, CarID: carID, UserID: receiverID})
}

func (p *Publisher) publish(ctx context.Context, channel string, event Event) {
	if p == nil || p.mq == nil {
		return
	}
	event.OccurredAt = time.Now()

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("marshal event", zap.String("type", event.Type), zap.Error(err))
		return
	}
	if _, err := p.mq.Publish(ctx, channel, data, map[string]string{"type": event.Type}); err != nil {
		p.logger.Error("publish event",
			zap.String("channel", channel),
			zap.String("type", event.Type),
			zap.Error(err),
		)
	}
}
