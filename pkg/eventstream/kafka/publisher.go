// Package kafka publishes turn events to a Kafka topic. Events are keyed by
// conversation ID so a conversation's events land on one partition in order.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	segmentio "github.com/segmentio/kafka-go"

	"github.com/loomworksco/recall/pkg/eventstream"
)

// Publisher writes turn events to a Kafka topic.
type Publisher struct {
	writer *segmentio.Writer
}

// PublisherConfig holds connection settings for the Kafka publisher.
type PublisherConfig struct {
	// Brokers is the list of bootstrap broker addresses.
	Brokers []string

	// Topic is the topic turn events are written to.
	Topic string
}

// NewPublisher creates a Kafka-backed turn event publisher.
func NewPublisher(cfg PublisherConfig) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one kafka broker is required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}

	writer := &segmentio.Writer{
		Addr:     segmentio.TCP(cfg.Brokers...),
		Topic:    cfg.Topic,
		Balancer: &segmentio.Hash{},
	}

	return &Publisher{writer: writer}, nil
}

// PublishTurn serializes the event as JSON and writes it keyed by
// conversation ID.
func (p *Publisher) PublishTurn(ctx context.Context, event *eventstream.TurnCompletedEvent) error {
	if event == nil {
		return eventstream.ErrNilTurnEvent
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling turn event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, segmentio.Message{
		Key:   []byte(event.ConversationID),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("writing turn event: %w", err)
	}

	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ eventstream.Publisher = (*Publisher)(nil)
