package rabbitmq

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/charmbracelet/log"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Handler processes one delivery. Returned errors are logged.
type Handler func(topic string, payload []byte) error

// IConsumer subscribes and dispatches deliveries until ctx ends.
type IConsumer interface {
	ConsumeMessage(ctx context.Context) error
	Subscribed() bool
}

// Consumer holds the client and topic it subscribes to.
type Consumer struct {
	client     mqtt.Client
	hooks      *ConnectionHooks
	handler    Handler
	topic      string
	qos        byte
	subscribed atomic.Bool
}

// NewConsumer creates a consumer on the shared client. hooks must be the
// ones the client was built with for the subscription to survive
// reconnects; nil subscribes once.
func NewConsumer(client mqtt.Client, hooks *ConnectionHooks, topic string, qos byte, handler Handler) *Consumer {
	return &Consumer{client: client, hooks: hooks, topic: topic, qos: qos, handler: handler}
}

// Subscribed reports whether the subscription is currently in place.
func (c *Consumer) Subscribed() bool {
	return c.subscribed.Load()
}

func (c *Consumer) dispatch(_ mqtt.Client, message mqtt.Message) {
	if c.handler == nil {
		log.Warn("No handler set", "topic", c.topic)
		return
	}
	if err := c.handler(message.Topic(), message.Payload()); err != nil {
		log.Error("Error handling message", "topic", message.Topic(), "error", err)
	}
}

func (c *Consumer) subscribe() error {
	token := c.client.Subscribe(c.topic, c.qos, c.dispatch)
	if token.Wait() && token.Error() != nil {
		c.subscribed.Store(false)
		return fmt.Errorf("subscribe to %s: %w", c.topic, token.Error())
	}
	c.subscribed.Store(true)
	log.Info("Subscribed", "topic", c.topic)
	return nil
}

// ConsumeMessage subscribes, resubscribes after every reconnect, and blocks
// until ctx is cancelled, then unsubscribes.
func (c *Consumer) ConsumeMessage(ctx context.Context) error {
	c.hooks.OnConnectionLost(func(mqtt.Client, error) {
		c.subscribed.Store(false)
	})
	c.hooks.OnConnect(func(mqtt.Client) {
		if ctx.Err() != nil {
			return
		}
		if err := c.subscribe(); err != nil {
			log.Error("Resubscribe after reconnect failed", "topic", c.topic, "error", err)
		}
	})
	if err := c.subscribe(); err != nil {
		return err
	}

	<-ctx.Done()

	c.subscribed.Store(false)
	c.client.Unsubscribe(c.topic).Wait()
	return nil
}
