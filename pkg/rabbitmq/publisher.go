package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// IPublisher publishes one message to a fixed topic.
type IPublisher interface {
	PublishMessage(ctx context.Context, message any) error
}

// Publisher sends JSON messages to a single topic.
type Publisher struct {
	client mqtt.Client
	topic  string
	qos    byte
}

// NewPublisher returns a publisher on the shared client.
func NewPublisher(client mqtt.Client, topic string, qos byte) *Publisher {
	return &Publisher{client: client, topic: topic, qos: qos}
}

// PublishMessage JSON-encodes message (raw []byte and string go out as-is)
// and waits for the broker ack or ctx, whichever comes first.
func (p *Publisher) PublishMessage(ctx context.Context, message any) error {
	var payload []byte
	switch m := message.(type) {
	case []byte:
		payload = m
	case string:
		payload = []byte(m)
	default:
		b, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("encode message for %s: %w", p.topic, err)
		}
		payload = b
	}

	token := p.client.Publish(p.topic, p.qos, false, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return fmt.Errorf("publish to %s: %w", p.topic, ctx.Err())
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish message to %s: %w", p.topic, err)
	}

	log.Debug("Message published", "topic", p.topic, "bytes", len(payload))
	return nil
}
