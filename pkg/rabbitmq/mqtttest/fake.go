// Package mqtttest provides an in-process broker and client implementing
// the paho client interface, for tests that must not dial a real broker.
package mqtttest

import (
	"errors"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// ErrNotConnected is returned by tokens of a client that is not connected.
var ErrNotConnected = errors.New("mqtttest: not connected")

// Broker routes published payloads to subscribers of the exact same topic.
type Broker struct {
	mu   sync.Mutex
	subs map[string][]subscription
}

type subscription struct {
	client  *Client
	handler mqtt.MessageHandler
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[string][]subscription)}
}

// NewClient returns a disconnected client attached to b.
func (b *Broker) NewClient() *Client {
	return &Client{broker: b}
}

// NewClientFromOptions is NewClient with the connect and connection-lost
// handlers taken from opts.
func (b *Broker) NewClientFromOptions(opts *mqtt.ClientOptions) *Client {
	return &Client{broker: b, onConnect: opts.OnConnect, onLost: opts.OnConnectionLost}
}

// dropSessionOf removes every subscription held by c, as a broker does when
// a clean session ends.
func (b *Broker) dropSessionOf(c *Client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for topic, subs := range b.subs {
		kept := subs[:0]
		for _, s := range subs {
			if s.client != c {
				kept = append(kept, s)
			}
		}
		b.subs[topic] = kept
	}
}

func (b *Broker) deliver(topic string, qos byte, payload []byte) {
	b.mu.Lock()
	subs := append([]subscription(nil), b.subs[topic]...)
	b.mu.Unlock()
	for _, s := range subs {
		s.handler(s.client, &Message{topic: topic, qos: qos, payload: payload})
	}
}

// Client is a fake mqtt.Client. Set the error fields to inject failures.
type Client struct {
	broker    *Broker
	onConnect mqtt.OnConnectHandler
	onLost    mqtt.ConnectionLostHandler

	mu        sync.Mutex
	connected bool
	published []Message

	// ConnectFailures makes the next n Connect calls fail.
	ConnectFailures int
	// PublishErr, when set, fails every Publish.
	PublishErr error
}

var _ mqtt.Client = (*Client)(nil)

func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *Client) IsConnectionOpen() bool { return c.IsConnected() }

// Connect marks the client connected and runs the on-connect handler, if
// any, before returning.
func (c *Client) Connect() mqtt.Token {
	c.mu.Lock()
	if c.ConnectFailures > 0 {
		c.ConnectFailures--
		c.mu.Unlock()
		return doneToken(errors.New("mqtttest: connection refused"))
	}
	c.connected = true
	c.mu.Unlock()

	if c.onConnect != nil {
		c.onConnect(c)
	}
	return doneToken(nil)
}

// Disconnect ends the session; the broker forgets the client's subscriptions.
func (c *Client) Disconnect(uint) {
	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()
	c.broker.dropSessionOf(c)
}

// Drop simulates losing the connection: the session ends and the
// connection-lost handler runs with err. Call Connect to reconnect.
func (c *Client) Drop(err error) {
	c.Disconnect(0)
	if c.onLost != nil {
		c.onLost(c, err)
	}
}

func (c *Client) Publish(topic string, qos byte, _ bool, payload interface{}) mqtt.Token {
	var body []byte
	switch p := payload.(type) {
	case []byte:
		body = p
	case string:
		body = []byte(p)
	default:
		return doneToken(fmt.Errorf("mqtttest: unsupported payload %T", payload))
	}

	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return doneToken(ErrNotConnected)
	}
	if c.PublishErr != nil {
		err := c.PublishErr
		c.mu.Unlock()
		return doneToken(err)
	}
	c.published = append(c.published, Message{topic: topic, qos: qos, payload: body})
	c.mu.Unlock()

	c.broker.deliver(topic, qos, body)
	return doneToken(nil)
}

func (c *Client) Subscribe(topic string, _ byte, callback mqtt.MessageHandler) mqtt.Token {
	if !c.IsConnected() {
		return doneToken(ErrNotConnected)
	}
	c.broker.mu.Lock()
	defer c.broker.mu.Unlock()
	// Subscribing again to the same topic replaces the handler.
	for i, s := range c.broker.subs[topic] {
		if s.client == c {
			c.broker.subs[topic][i].handler = callback
			return doneToken(nil)
		}
	}
	c.broker.subs[topic] = append(c.broker.subs[topic], subscription{client: c, handler: callback})
	return doneToken(nil)
}

func (c *Client) SubscribeMultiple(filters map[string]byte, callback mqtt.MessageHandler) mqtt.Token {
	for topic, qos := range filters {
		if t := c.Subscribe(topic, qos, callback); t.Error() != nil {
			return t
		}
	}
	return doneToken(nil)
}

func (c *Client) Unsubscribe(topics ...string) mqtt.Token {
	c.broker.mu.Lock()
	defer c.broker.mu.Unlock()
	for _, topic := range topics {
		kept := c.broker.subs[topic][:0]
		for _, s := range c.broker.subs[topic] {
			if s.client != c {
				kept = append(kept, s)
			}
		}
		c.broker.subs[topic] = kept
	}
	return doneToken(nil)
}

func (c *Client) AddRoute(string, mqtt.MessageHandler) {}

func (c *Client) OptionsReader() mqtt.ClientOptionsReader { return mqtt.ClientOptionsReader{} }

// Published returns the messages this client has sent successfully.
func (c *Client) Published() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.published...)
}

// Message is a fake mqtt.Message.
type Message struct {
	topic   string
	qos     byte
	payload []byte
}

var _ mqtt.Message = (*Message)(nil)

func (m *Message) Duplicate() bool   { return false }
func (m *Message) Qos() byte         { return m.qos }
func (m *Message) Retained() bool    { return false }
func (m *Message) Topic() string     { return m.topic }
func (m *Message) MessageID() uint16 { return 0 }
func (m *Message) Payload() []byte   { return m.payload }
func (m *Message) Ack()              {}

type token struct {
	err  error
	done chan struct{}
}

func doneToken(err error) mqtt.Token {
	t := &token{err: err, done: make(chan struct{})}
	close(t.done)
	return t
}

func (t *token) Wait() bool                     { return true }
func (t *token) WaitTimeout(time.Duration) bool { return true }
func (t *token) Done() <-chan struct{}          { return t.done }
func (t *token) Error() error                   { return t.err }
